/*
Package model defines the node and reference shapes that make up the
address space: Node, NodeClass, Reference, and the NodeClass-specific
attribute payloads (VariableAttributes, TypeAttributes, MethodAttributes).

Node is deliberately one concrete struct rather than an interface
hierarchy: NodeClass is a tag, and the class-specific payload lives behind
a nil-able pointer field selected by that tag (VariableAttrs for
Variable/VariableType, TypeAttrs for ObjectType/VariableType/
ReferenceType/DataType, MethodAttrs for Method). Every package that
pattern-matches on node class — pkg/typesys, pkg/instantiate,
pkg/nodeservice — switches on Class and reads the matching pointer. This
mirrors pkg/types/types.go's own style in the teacher repo: concrete
structs with optional fields, not a polymorphic type hierarchy, because
Go's zero-cost struct embedding plus a switch is cheaper to reason about
than an interface per node and keeps JSON marshaling (used by the bolt
store) trivial.

Node carries its own Reference list; the reference index in pkg/addrspace
is this list considered from both endpoints, not a separate structure.
*/
package model
