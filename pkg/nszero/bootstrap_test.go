package nszero

import (
	"testing"

	"github.com/cuemby/opcuad/pkg/addrspace"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/typesys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBootstrappedStore(t *testing.T) *addrspace.Store {
	t.Helper()
	store, err := addrspace.Open("opcuad-nszero-test-*", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, Bootstrap(store))
	return store
}

func TestBootstrapInsertsEveryWellKnownId(t *testing.T) {
	store := newBootstrappedStore(t)

	for _, id := range []ids.NodeId{
		ids.ReferencesId, ids.HierarchicalReferencesId, ids.HasChildId,
		ids.AggregatesId, ids.HasComponentId, ids.HasPropertyId,
		ids.HasSubtypeId, ids.OrganizesId, ids.HasTypeDefinitionId,
		ids.HasModellingRuleId, ids.BaseObjectTypeId, ids.BaseVariableTypeId,
		ids.BaseDataVariableTypeId, ids.PropertyTypeId,
		ids.RootFolderId, ids.ObjectsFolderId, ids.TypesFolderId,
		ids.ModellingRuleMandatoryId, ids.ModellingRuleOptionalId,
	} {
		assert.True(t, store.Exists(id), "expected %s to exist", id.String())
	}
}

func TestBootstrapWiresReferenceTypeSubtypeChain(t *testing.T) {
	store := newBootstrappedStore(t)
	types := typesys.New(store)

	ok, err := types.IsSubtypeOf(ids.HasComponentId, ids.ReferencesId)
	require.NoError(t, err)
	assert.True(t, ok, "HasComponent must be a transitive subtype of References")

	ok, err = types.IsSubtypeOf(ids.OrganizesId, ids.HasChildId)
	require.NoError(t, err)
	assert.False(t, ok, "Organizes is hierarchical but not a HasChild subtype")
}

func TestBootstrapWiresBaseTypeSubtypeChain(t *testing.T) {
	store := newBootstrappedStore(t)
	types := typesys.New(store)

	ok, err := types.IsSubtypeOf(ids.PropertyTypeId, ids.BaseVariableTypeId)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = types.IsSubtypeOf(ids.PropertyTypeId, ids.BaseObjectTypeId)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBootstrapOrganizesFoldersUnderRoot(t *testing.T) {
	store := newBootstrappedStore(t)

	root, err := store.Get(ids.RootFolderId)
	require.NoError(t, err)
	assert.True(t, root.HasReference(model.Reference{ReferenceTypeId: ids.OrganizesId, TargetId: ids.ObjectsFolderId, IsForward: true}))
	assert.True(t, root.HasReference(model.Reference{ReferenceTypeId: ids.OrganizesId, TargetId: ids.TypesFolderId, IsForward: true}))
}

func TestBootstrapSecondCallFails(t *testing.T) {
	store, err := addrspace.Open("opcuad-nszero-test-*", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, Bootstrap(store))
	assert.Error(t, Bootstrap(store))
}
