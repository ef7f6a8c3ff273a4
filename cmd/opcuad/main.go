package main

import (
	"fmt"
	"os"

	"github.com/cuemby/opcuad/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "opcuad",
	Short: "An in-process OPC UA address-space server",
	Long: `opcuad hosts an OPC UA address space: namespace 0's base types
and folders plus whatever nodes an embedder adds, with the
AddNode/AddReference/DeleteNode/DeleteReference/Browse operations that
manage it.`,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().Uint16("namespace", 1, "namespace index for server-assigned NodeIds")
	rootCmd.PersistentFlags().String("seed-file", "", "path to a JSON file of namespace-1 objects to add under ObjectsFolder at startup")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
