package addrspace

import (
	"testing"

	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/uavalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("opcuad-test-*", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertAssignsIdWhenNull(t *testing.T) {
	s := newTestStore(t)

	id1, err := s.Insert(&model.Node{Class: model.Object, BrowseName: ids.QualifiedName{Name: "a"}})
	require.NoError(t, err)
	assert.Equal(t, uint16(1), id1.Namespace)
	assert.Equal(t, ids.Numeric, id1.Kind)

	id2, err := s.Insert(&model.Node{Class: model.Object, BrowseName: ids.QualifiedName{Name: "b"}})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2, "successive NULL inserts must get distinct ids")
}

func TestInsertWithExplicitIdRejectsDuplicate(t *testing.T) {
	s := newTestStore(t)
	requested := ids.NewString(1, "the.answer")

	_, err := s.Insert(&model.Node{Id: requested, Class: model.Variable})
	require.NoError(t, err)

	_, err = s.Insert(&model.Node{Id: requested, Class: model.Variable})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := s.Get(requested)
	require.NoError(t, err)
	assert.Equal(t, model.Variable, got.Class)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(ids.NewNumeric(1, 999))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveReturnsNodeAndDeletes(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Insert(&model.Node{Class: model.Object})
	require.NoError(t, err)

	removed, err := s.Remove(id)
	require.NoError(t, err)
	assert.Equal(t, id, removed.Id)

	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Remove(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIterateVisitsEveryNode(t *testing.T) {
	s := newTestStore(t)
	want := map[ids.NodeId]bool{}
	for i := 0; i < 5; i++ {
		id, err := s.Insert(&model.Node{Class: model.Object})
		require.NoError(t, err)
		want[id] = false
	}

	err := s.Iterate(func(n *model.Node) bool {
		want[n.Id] = true
		return true
	})
	require.NoError(t, err)
	for id, seen := range want {
		assert.True(t, seen, "node %s was not visited", id)
	}
	assert.Equal(t, 5, s.Count())
}

func TestIterateStopsEarly(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		_, err := s.Insert(&model.Node{Class: model.Object})
		require.NoError(t, err)
	}

	visited := 0
	err := s.Iterate(func(*model.Node) bool {
		visited++
		return visited < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, visited)
}

func TestAddReferencePairInstallsBothEndpoints(t *testing.T) {
	s := newTestStore(t)
	a, err := s.Insert(&model.Node{Class: model.Object})
	require.NoError(t, err)
	b, err := s.Insert(&model.Node{Class: model.Object})
	require.NoError(t, err)
	organizes := ids.NewNumeric(0, 35)

	require.NoError(t, s.AddReferencePair(a, organizes, b, true))

	na, err := s.Get(a)
	require.NoError(t, err)
	nb, err := s.Get(b)
	require.NoError(t, err)

	assert.True(t, na.HasReference(model.Reference{ReferenceTypeId: organizes, TargetId: b, IsForward: true}))
	assert.True(t, nb.HasReference(model.Reference{ReferenceTypeId: organizes, TargetId: a, IsForward: false}))
}

func TestAddReferencePairRejectsDuplicate(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Insert(&model.Node{Class: model.Object})
	b, _ := s.Insert(&model.Node{Class: model.Object})
	organizes := ids.NewNumeric(0, 35)

	require.NoError(t, s.AddReferencePair(a, organizes, b, true))
	err := s.AddReferencePair(a, organizes, b, true)
	assert.ErrorIs(t, err, ErrDuplicateReference)

	na, _ := s.Get(a)
	count := 0
	for _, r := range na.References {
		if r.TargetId == b {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate install must not add a second reference")
}

func TestRemoveReferencePairRemovesBothEndpoints(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Insert(&model.Node{Class: model.Object})
	b, _ := s.Insert(&model.Node{Class: model.Object})
	organizes := ids.NewNumeric(0, 35)
	require.NoError(t, s.AddReferencePair(a, organizes, b, true))

	require.NoError(t, s.RemoveReferencePair(a, organizes, b, true))

	na, _ := s.Get(a)
	nb, _ := s.Get(b)
	assert.Empty(t, na.References)
	assert.Empty(t, nb.References)
}

// TestInsertGetRoundTripsScalarInt32Value exercises spec.md §8
// Scenario 1: a variable with scalar Int32=42 must come back out of
// the store as the same Go type it went in with, not json.Unmarshal's
// untyped float64 default for an `any` field.
func TestInsertGetRoundTripsScalarInt32Value(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Insert(&model.Node{
		Class:      model.Variable,
		BrowseName: ids.QualifiedName{NamespaceIndex: 1, Name: "the.answer"},
		VariableAttrs: &model.VariableAttributes{
			Value:     uavalue.NewInt32(42),
			ValueRank: uavalue.ScalarValueRank,
		},
	})
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, got.VariableAttrs)

	i, ok := got.VariableAttrs.Value.AsInt32()
	assert.True(t, ok, "Int32 value must survive the store round-trip as an int32, not float64")
	assert.EqualValues(t, 42, i)
}

// TestInsertGetRoundTripsLocalizedTextValue guards the other failure
// mode json.Unmarshal falls into for an `any` field: a struct value
// decoding back as a map[string]interface{} instead of LocalizedText.
func TestInsertGetRoundTripsLocalizedTextValue(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Insert(&model.Node{
		Class: model.Variable,
		VariableAttrs: &model.VariableAttributes{
			Value:     uavalue.NewLocalizedText("en-US", "hello"),
			ValueRank: uavalue.ScalarValueRank,
		},
	})
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, got.VariableAttrs)

	lt, ok := got.VariableAttrs.Value.Value.(uavalue.LocalizedText)
	require.True(t, ok, "LocalizedText value must survive the store round-trip as a LocalizedText, not map[string]interface{}")
	assert.Equal(t, "en-US", lt.Locale)
	assert.Equal(t, "hello", lt.Text)
}

// TestInsertGetRoundTripsInt32ArrayValue guards the array-decoding
// path: a []int32 must not come back as []interface{} of float64.
func TestInsertGetRoundTripsInt32ArrayValue(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Insert(&model.Node{
		Class: model.Variable,
		VariableAttrs: &model.VariableAttributes{
			Value: uavalue.NewInt32Array([]int32{1, 2, 3}),
		},
	})
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, got.VariableAttrs)

	arr, ok := got.VariableAttrs.Value.Value.([]int32)
	require.True(t, ok, "Int32 array value must survive the store round-trip as []int32")
	assert.Equal(t, []int32{1, 2, 3}, arr)
}

func TestRemoveAllReferencesToPurgesDanglingInverses(t *testing.T) {
	s := newTestStore(t)
	parent, _ := s.Insert(&model.Node{Class: model.Object})
	child, _ := s.Insert(&model.Node{Class: model.Object})
	organizes := ids.NewNumeric(0, 35)
	require.NoError(t, s.AddReferencePair(parent, organizes, child, true))

	// Simulate the child having already been removed directly.
	_, err := s.Remove(child)
	require.NoError(t, err)

	require.NoError(t, s.RemoveAllReferencesTo(child))

	np, _ := s.Get(parent)
	assert.Empty(t, np.References)
}
