package server

import (
	"sync"
	"testing"

	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/lifecycle"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/nodeservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(Config{TempDirPrefix: "opcuad-server-test-*", Namespace: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestNewBootstrapsNamespaceZero(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.Browse("", nodeservice.BrowseDescription{
		NodeId:          ids.RootFolderId,
		ReferenceTypeId: ids.OrganizesId,
		Direction:       nodeservice.BrowseForward,
	})
	require.NoError(t, err)
	assert.Len(t, result.References, 2, "RootFolder organizes ObjectsFolder and TypesFolder")
}

func TestAddNodeThenBrowseRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	assignedId, err := srv.AddNode(nodeservice.AddNodeRequest{
		ParentId:              ids.ObjectsFolderId,
		ReferenceTypeToParent: ids.OrganizesId,
		BrowseName:            ids.QualifiedName{Name: "Widget1"},
		NodeClass:             model.Object,
	})
	require.NoError(t, err)

	result, err := srv.Browse("", nodeservice.BrowseDescription{
		NodeId:    ids.ObjectsFolderId,
		Direction: nodeservice.BrowseForward,
	})
	require.NoError(t, err)

	found := false
	for _, ref := range result.References {
		if ref.NodeId == assignedId {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRegisterLifecycleHooksFiresConstructorOnAddNode(t *testing.T) {
	srv := newTestServer(t)

	deviceType, err := srv.AddNode(nodeservice.AddNodeRequest{
		ParentId:              ids.TypesFolderId,
		ReferenceTypeToParent: ids.OrganizesId,
		BrowseName:            ids.QualifiedName{Name: "DeviceType"},
		NodeClass:             model.ObjectType,
		TypeAttrs:             &model.TypeAttributes{},
	})
	require.NoError(t, err)

	var constructed ids.NodeId
	srv.RegisterLifecycleHooks(deviceType, lifecycle.Hooks{
		Constructor: func(instanceId ids.NodeId) (any, error) {
			constructed = instanceId
			return "handle", nil
		},
	})

	assignedId, err := srv.AddNode(nodeservice.AddNodeRequest{
		ParentId:              ids.ObjectsFolderId,
		ReferenceTypeToParent: ids.OrganizesId,
		BrowseName:            ids.QualifiedName{Name: "Device1"},
		NodeClass:             model.Object,
		TypeDefinitionId:      deviceType,
	})
	require.NoError(t, err)
	assert.Equal(t, assignedId, constructed)
}

func TestConcurrentBrowsesDoNotBlockEachOther(t *testing.T) {
	srv := newTestServer(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = srv.Browse("", nodeservice.BrowseDescription{NodeId: ids.RootFolderId})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}
