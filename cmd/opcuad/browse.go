package main

import (
	"fmt"

	"github.com/cuemby/opcuad/pkg/config"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/nodeservice"
	"github.com/cuemby/opcuad/pkg/server"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Bootstrap a server and print one node's forward references",
	Long: `browse bootstraps a fresh server (namespace 0 only, since this
server never persists state across restarts) and lists the forward
references of the given namespace-0 numeric node id, RootFolder by
default.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().Uint32("node", uint32(ids.RootFolderId.Numeric), "namespace-0 numeric identifier of the node to browse")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	nodeNumeric, _ := cmd.Flags().GetUint32("node")

	cfg, err := config.FromFlags(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	srv, err := server.New(server.Config{TempDirPrefix: cfg.TempDirPrefix, Namespace: cfg.Namespace})
	if err != nil {
		return fmt.Errorf("bootstrap server: %w", err)
	}
	defer srv.Close()

	nodeId := ids.NewNumeric(0, nodeNumeric)
	result, err := srv.Browse("", nodeservice.BrowseDescription{NodeId: nodeId, Direction: nodeservice.BrowseForward})
	if err != nil {
		return fmt.Errorf("browse %s: %w", nodeId, err)
	}

	fmt.Printf("%s:\n", nodeId)
	for _, ref := range result.References {
		fmt.Printf("  %s %s %s (%s)\n", ref.ReferenceTypeId, ref.NodeId, ref.NodeClass, ref.BrowseName)
	}
	return nil
}
