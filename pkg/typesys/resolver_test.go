package typesys

import (
	"testing"

	"github.com/cuemby/opcuad/pkg/addrspace"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTypeTestStore(t *testing.T) *addrspace.Store {
	t.Helper()
	s, err := addrspace.Open("opcuad-typesys-test-*", 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustInsert(t *testing.T, s *addrspace.Store, n *model.Node) ids.NodeId {
	t.Helper()
	id, err := s.Insert(n)
	require.NoError(t, err)
	return id
}

func installSubtype(t *testing.T, s *addrspace.Store, super, sub ids.NodeId) {
	t.Helper()
	require.NoError(t, s.AddReferencePair(super, ids.HasSubtypeId, sub, true))
}

// buildDeviceHierarchy builds DeviceType(ManufacturerName Mandatory) and
// its subtype PumpType(Status Mandatory, MotorRPM Optional), matching
// the address-space scenario of a device type family with inherited and
// added template members.
func buildDeviceHierarchy(t *testing.T, s *addrspace.Store) (deviceType, pumpType ids.NodeId) {
	t.Helper()

	deviceType = mustInsert(t, s, &model.Node{
		Class:      model.ObjectType,
		BrowseName: ids.QualifiedName{Name: "DeviceType"},
		TypeAttrs:  &model.TypeAttributes{},
	})
	pumpType = mustInsert(t, s, &model.Node{
		Class:      model.ObjectType,
		BrowseName: ids.QualifiedName{Name: "PumpType"},
		TypeAttrs:  &model.TypeAttributes{},
	})
	installSubtype(t, s, deviceType, pumpType)

	addTemplateMember(t, s, deviceType, "ManufacturerName", Mandatory)
	addTemplateMember(t, s, pumpType, "Status", Mandatory)
	addTemplateMember(t, s, pumpType, "MotorRPM", Optional)

	return deviceType, pumpType
}

func addTemplateMember(t *testing.T, s *addrspace.Store, owner ids.NodeId, name string, rule ModellingRule) ids.NodeId {
	t.Helper()
	member := mustInsert(t, s, &model.Node{
		Class:         model.Variable,
		BrowseName:    ids.QualifiedName{Name: name},
		VariableAttrs: &model.VariableAttributes{ValueRank: -1},
	})
	require.NoError(t, s.AddReferencePair(owner, ids.HasPropertyId, member, true))

	var ruleNode ids.NodeId
	switch rule {
	case Mandatory:
		ruleNode = ids.ModellingRuleMandatoryId
	case Optional:
		ruleNode = ids.ModellingRuleOptionalId
	case MandatoryPlaceholder:
		ruleNode = ids.ModellingRuleMandatoryPlaceholderId
	case OptionalPlaceholder:
		ruleNode = ids.ModellingRuleOptionalPlaceholderId
	}
	// The modelling rule nodes themselves are not present in this
	// minimal test store, so record only the forward half by hand:
	// production code always has namespace 0 (pkg/nszero) backing the
	// target, but the resolver only ever reads the member's own
	// reference list for this lookup.
	err := s.Update(member, func(n *model.Node) error {
		n.AddReference(model.Reference{ReferenceTypeId: ids.HasModellingRuleId, TargetId: ruleNode, IsForward: true})
		return nil
	})
	require.NoError(t, err)
	return member
}

func TestIsSubtypeOfReflexive(t *testing.T) {
	s := newTypeTestStore(t)
	deviceType, _ := buildDeviceHierarchy(t, s)

	r := New(s)
	ok, err := r.IsSubtypeOf(deviceType, deviceType)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsSubtypeOfTransitive(t *testing.T) {
	s := newTypeTestStore(t)
	deviceType, pumpType := buildDeviceHierarchy(t, s)

	r := New(s)
	ok, err := r.IsSubtypeOf(pumpType, deviceType)
	require.NoError(t, err)
	assert.True(t, ok, "PumpType must be a subtype of DeviceType")

	ok, err = r.IsSubtypeOf(deviceType, pumpType)
	require.NoError(t, err)
	assert.False(t, ok, "DeviceType must not be a subtype of PumpType")
}

func TestTypeDefinitionFollowsForwardReference(t *testing.T) {
	s := newTypeTestStore(t)
	deviceType, _ := buildDeviceHierarchy(t, s)
	instance := mustInsert(t, s, &model.Node{Class: model.Object, BrowseName: ids.QualifiedName{Name: "Pump1"}})
	require.NoError(t, s.AddReferencePair(instance, ids.HasTypeDefinitionId, deviceType, true))

	r := New(s)
	typeId, err := r.TypeDefinition(instance)
	require.NoError(t, err)
	assert.Equal(t, deviceType, typeId)
}

func TestTypeDefinitionNotFoundForUntypedNode(t *testing.T) {
	s := newTypeTestStore(t)
	untyped := mustInsert(t, s, &model.Node{Class: model.Object})

	r := New(s)
	_, err := r.TypeDefinition(untyped)
	assert.Error(t, err)
}

func TestTypeChildrenInheritsAndAccumulates(t *testing.T) {
	s := newTypeTestStore(t)
	_, pumpType := buildDeviceHierarchy(t, s)

	r := New(s)
	children, err := r.TypeChildren(pumpType, AnyModellingRule)
	require.NoError(t, err)

	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Template.BrowseName.Name)
	}
	assert.ElementsMatch(t, []string{"ManufacturerName", "Status", "MotorRPM"}, names)
}

func TestTypeChildrenFiltersByModellingRule(t *testing.T) {
	s := newTypeTestStore(t)
	_, pumpType := buildDeviceHierarchy(t, s)

	r := New(s)
	mandatory, err := r.TypeChildren(pumpType, Mandatory)
	require.NoError(t, err)

	names := make([]string, 0, len(mandatory))
	for _, c := range mandatory {
		names = append(names, c.Template.BrowseName.Name)
	}
	assert.ElementsMatch(t, []string{"ManufacturerName", "Status"}, names, "MotorRPM is Optional and must be excluded")
}

func TestTypeChildrenMostDerivedWinsOnBrowseNameCollision(t *testing.T) {
	s := newTypeTestStore(t)
	_, pumpType := buildDeviceHierarchy(t, s)
	// PumpType overrides ManufacturerName with a different rule; the
	// override, not DeviceType's, must be what TypeChildren returns.
	addTemplateMember(t, s, pumpType, "ManufacturerName", Optional)

	r := New(s)
	children, err := r.TypeChildren(pumpType, AnyModellingRule)
	require.NoError(t, err)

	var manufacturerCount int
	var winnerRule ModellingRule
	for _, c := range children {
		if c.Template.BrowseName.Name == "ManufacturerName" {
			manufacturerCount++
			winnerRule = c.Rule
		}
	}
	assert.Equal(t, 1, manufacturerCount, "the ancestor's ManufacturerName must be suppressed")
	assert.Equal(t, Optional, winnerRule)
}
