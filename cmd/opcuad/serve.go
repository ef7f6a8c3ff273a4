package main

import (
	"fmt"

	"github.com/cuemby/opcuad/pkg/config"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/nodeservice"
	"github.com/cuemby/opcuad/pkg/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Bootstrap a server and run a short demo against it",
	Long: `serve stands in for the network layer this server's core treats
as an external collaborator: it bootstraps namespace 0, adds a couple
of demonstration nodes through the same nodeservice operations a real
session-layer front end would call, and prints the result before
exiting. The address space does not persist across restarts.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromFlags(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	srv, err := server.New(server.Config{TempDirPrefix: cfg.TempDirPrefix, Namespace: cfg.Namespace})
	if err != nil {
		return fmt.Errorf("bootstrap server: %w", err)
	}
	defer srv.Close()

	seeds, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		return err
	}
	for _, sn := range seeds {
		id, err := srv.AddNode(nodeservice.AddNodeRequest{
			ParentId:              ids.ObjectsFolderId,
			ReferenceTypeToParent: ids.OrganizesId,
			BrowseName:            ids.QualifiedName{NamespaceIndex: cfg.Namespace, Name: sn.BrowseName},
			NodeClass:             model.Object,
		})
		if err != nil {
			return fmt.Errorf("add seed node %s: %w", sn.BrowseName, err)
		}
		fmt.Printf("added seed node %s %s\n", sn.BrowseName, id)
	}

	deviceType, err := srv.AddNode(nodeservice.AddNodeRequest{
		ParentId:              ids.TypesFolderId,
		ReferenceTypeToParent: ids.OrganizesId,
		BrowseName:            ids.QualifiedName{NamespaceIndex: cfg.Namespace, Name: "DeviceType"},
		NodeClass:             model.ObjectType,
		TypeAttrs:             &model.TypeAttributes{},
	})
	if err != nil {
		return fmt.Errorf("add DeviceType: %w", err)
	}
	fmt.Printf("added DeviceType %s\n", deviceType)

	device1, err := srv.AddNode(nodeservice.AddNodeRequest{
		ParentId:              ids.ObjectsFolderId,
		ReferenceTypeToParent: ids.OrganizesId,
		BrowseName:            ids.QualifiedName{NamespaceIndex: cfg.Namespace, Name: "Device1"},
		NodeClass:             model.Object,
		TypeDefinitionId:      deviceType,
	})
	if err != nil {
		return fmt.Errorf("add Device1: %w", err)
	}
	fmt.Printf("added Device1 %s\n", device1)

	result, err := srv.Browse("", nodeservice.BrowseDescription{NodeId: ids.ObjectsFolderId, Direction: nodeservice.BrowseForward})
	if err != nil {
		return fmt.Errorf("browse ObjectsFolder: %w", err)
	}
	for _, ref := range result.References {
		fmt.Printf("  ObjectsFolder -> %s %s (%s)\n", ref.ReferenceTypeId, ref.NodeId, ref.BrowseName)
	}
	return nil
}
