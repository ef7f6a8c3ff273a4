package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/opcuad/pkg/log"
)

// Config is cmd/opcuad's own settings: the namespace the server
// assigns freshly-inserted NodeIds in, the prefix its bolt store's
// temp directory is created under, the log level/format, and an
// optional seed file of namespace-1 objects to add at startup.
type Config struct {
	Namespace     uint16
	TempDirPrefix string
	SeedFile      string
	LogLevel      log.Level
	LogJSON       bool
}

// FromFlags builds a Config by reading cmd's persistent flags, the same
// direct cmd.Flags().Get*-into-a-struct wiring cmd/warren/main.go uses
// to build a manager.Config inside each subcommand's RunE.
func FromFlags(cmd *cobra.Command) (Config, error) {
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return Config{}, fmt.Errorf("config: log-level flag: %w", err)
	}
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return Config{}, fmt.Errorf("config: log-json flag: %w", err)
	}
	namespace, err := cmd.Flags().GetUint16("namespace")
	if err != nil {
		return Config{}, fmt.Errorf("config: namespace flag: %w", err)
	}
	seedFile, err := cmd.Flags().GetString("seed-file")
	if err != nil {
		return Config{}, fmt.Errorf("config: seed-file flag: %w", err)
	}

	return Config{
		Namespace:     namespace,
		TempDirPrefix: "opcuad-*",
		SeedFile:      seedFile,
		LogLevel:      log.Level(logLevel),
		LogJSON:       logJSON,
	}, nil
}

// LogConfig adapts Config to pkg/log.Config, for passing to log.Init.
// cmd/opcuad's initLogging hook reads the log flags itself and does not
// call it.
func (c Config) LogConfig() log.Config {
	return log.Config{Level: c.LogLevel, JSONOutput: c.LogJSON}
}

// SeedNode is one entry of a namespace-1 seed file: a plain Object
// added under ObjectsFolder via Organizes when the server starts.
// Typed instances and other node classes are out of scope for the seed
// file; it exists so an embedder can drop a handful of demo objects
// into the address space without writing Go code.
type SeedNode struct {
	BrowseName string `json:"browse_name"`
}

// LoadSeed reads the seed file named by path. An empty path is not an
// error; it returns a nil seed list, meaning "add nothing."
func LoadSeed(path string) ([]SeedNode, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read seed file %s: %w", path, err)
	}
	var nodes []SeedNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("config: parse seed file %s: %w", path, err)
	}
	return nodes, nil
}
