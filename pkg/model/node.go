package model

import (
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/uavalue"
)

// NodeClass identifies which of the eight OPC UA node classes a Node is.
type NodeClass string

const (
	Object        NodeClass = "Object"
	ObjectType    NodeClass = "ObjectType"
	Variable      NodeClass = "Variable"
	VariableType  NodeClass = "VariableType"
	ReferenceType NodeClass = "ReferenceType"
	DataType      NodeClass = "DataType"
	Method        NodeClass = "Method"
	View          NodeClass = "View"
)

// HasTypeDefinitionSlot reports whether nodes of this class carry a
// HasTypeDefinition reference to an instantiated type (Object, Variable).
func (c NodeClass) HasTypeDefinitionSlot() bool {
	return c == Object || c == Variable
}

// IsTypeClass reports whether c is one of the four classes the type
// resolver can walk a HasSubtype chain over.
func (c NodeClass) IsTypeClass() bool {
	switch c {
	case ObjectType, VariableType, ReferenceType, DataType:
		return true
	default:
		return false
	}
}

// Reference is a directed, typed edge between two nodes. Every installed
// reference is mirrored at both endpoints with opposing IsForward, so a
// Reference value found on node A's list with IsForward true and a
// matching value on node B's list with IsForward false are the two halves
// of the same logical edge.
type Reference struct {
	ReferenceTypeId ids.NodeId
	TargetId        ids.NodeId
	IsForward       bool
}

// VariableAttributes holds the attributes specific to Variable and
// VariableType nodes.
type VariableAttributes struct {
	Value                   uavalue.Variant
	DataType                ids.NodeId
	ValueRank               int32
	ArrayDimensions         []uint32
	AccessLevel             byte
	MinimumSamplingInterval float64
	Historizing             bool
}

// TypeAttributes holds the attributes specific to ObjectType,
// VariableType, ReferenceType, and DataType nodes. Symmetric and
// InverseName are only meaningful when Class == ReferenceType.
type TypeAttributes struct {
	IsAbstract  bool
	Symmetric   bool
	InverseName uavalue.LocalizedText
}

// MethodHandler is the optional invocation handler for a Method node.
type MethodHandler func(objectId ids.NodeId, args []uavalue.Variant) ([]uavalue.Variant, error)

// MethodAttributes holds the attributes specific to Method nodes.
type MethodAttributes struct {
	Executable     bool
	UserExecutable bool
	Handler        MethodHandler `json:"-"`
}

// Node is every node in the address space: a common header plus, for
// NodeClass-specific attributes, the one non-nil pointer matching Class.
type Node struct {
	Id            ids.NodeId
	Class         NodeClass
	BrowseName    ids.QualifiedName
	DisplayName   uavalue.LocalizedText
	Description   uavalue.LocalizedText
	WriteMask     uint32
	UserWriteMask uint32
	References    []Reference

	VariableAttrs *VariableAttributes `json:",omitempty"`
	TypeAttrs     *TypeAttributes     `json:",omitempty"`
	MethodAttrs   *MethodAttributes   `json:",omitempty"`
}

// Clone returns a deep copy of n, safe to mutate independently. Used by
// the node store's Insert so the stored copy is independent of the
// caller's node.
func (n *Node) Clone() *Node {
	c := *n
	if n.References != nil {
		c.References = make([]Reference, len(n.References))
		copy(c.References, n.References)
	}
	if n.VariableAttrs != nil {
		va := *n.VariableAttrs
		if n.VariableAttrs.ArrayDimensions != nil {
			va.ArrayDimensions = append([]uint32(nil), n.VariableAttrs.ArrayDimensions...)
		}
		c.VariableAttrs = &va
	}
	if n.TypeAttrs != nil {
		ta := *n.TypeAttrs
		c.TypeAttrs = &ta
	}
	if n.MethodAttrs != nil {
		ma := *n.MethodAttrs
		c.MethodAttrs = &ma
	}
	return &c
}

// AddReference appends ref to n's reference list if an identical
// (ReferenceTypeId, TargetId, IsForward) entry is not already present.
// Returns false if it was a duplicate.
func (n *Node) AddReference(ref Reference) bool {
	for _, existing := range n.References {
		if existing == ref {
			return false
		}
	}
	n.References = append(n.References, ref)
	return true
}

// RemoveReference deletes the first matching reference from n's list.
// Returns false if no matching reference was found.
func (n *Node) RemoveReference(ref Reference) bool {
	for i, existing := range n.References {
		if existing == ref {
			n.References = append(n.References[:i], n.References[i+1:]...)
			return true
		}
	}
	return false
}

// HasReference reports whether n's list contains an identical reference.
func (n *Node) HasReference(ref Reference) bool {
	for _, existing := range n.References {
		if existing == ref {
			return true
		}
	}
	return false
}
