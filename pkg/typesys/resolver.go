package typesys

import (
	"github.com/cuemby/opcuad/pkg/addrspace"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/opcuaerr"
)

// ModellingRule is the annotation carried by a type template member that
// says whether it must (Mandatory) or may (Optional) appear on
// instances, and whether new instances of it may be freely added
// (the Placeholder variants).
type ModellingRule string

const (
	// AnyModellingRule matches every modelling rule; pass it to
	// TypeChildren to enumerate the full template regardless of rule.
	AnyModellingRule     ModellingRule = ""
	Mandatory            ModellingRule = "Mandatory"
	Optional             ModellingRule = "Optional"
	MandatoryPlaceholder ModellingRule = "MandatoryPlaceholder"
	OptionalPlaceholder  ModellingRule = "OptionalPlaceholder"
)

var modellingRuleByNodeId = map[ids.NodeId]ModellingRule{
	ids.ModellingRuleMandatoryId:            Mandatory,
	ids.ModellingRuleOptionalId:             Optional,
	ids.ModellingRuleMandatoryPlaceholderId: MandatoryPlaceholder,
	ids.ModellingRuleOptionalPlaceholderId:  OptionalPlaceholder,
}

// ChildTemplate is one member of a type's template, as returned by
// TypeChildren: the type-level node T that instantiation copies, the
// reference type that links T to its type parent (HasComponent or
// HasProperty), and T's modelling rule.
type ChildTemplate struct {
	Template        *model.Node
	ReferenceTypeId ids.NodeId
	Rule            ModellingRule
}

// Resolver answers type-hierarchy questions against a live address
// space. It holds no state of its own; every call reads the store
// fresh, so a Resolver is safe to keep around for the lifetime of a
// server and cheap to construct per-call alike.
type Resolver struct {
	store *addrspace.Store
}

// New returns a Resolver reading from store.
func New(store *addrspace.Store) *Resolver {
	return &Resolver{store: store}
}

// IsSubtypeOf reports whether a chain of forward HasSubtype references
// leads from b to a — i.e. whether a is b itself or a transitive
// subtype of b. The walk is breadth-first and visited-set guarded, so
// it terminates even if invariant 5 (no cycles) were somehow violated.
func (r *Resolver) IsSubtypeOf(a, b ids.NodeId) (bool, error) {
	if a == b {
		return true, nil
	}

	visited := map[ids.NodeId]bool{b: true}
	queue := []ids.NodeId{b}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		node, err := r.store.Get(cur)
		if err != nil {
			return false, err
		}
		for _, ref := range node.References {
			if ref.ReferenceTypeId != ids.HasSubtypeId || !ref.IsForward {
				continue
			}
			if ref.TargetId == a {
				return true, nil
			}
			if !visited[ref.TargetId] {
				visited[ref.TargetId] = true
				queue = append(queue, ref.TargetId)
			}
		}
	}
	return false, nil
}

// TypeDefinition follows instance's unique forward HasTypeDefinition
// reference and returns its target. It returns a BadNotFound error if
// instance carries no such reference.
func (r *Resolver) TypeDefinition(instance ids.NodeId) (ids.NodeId, error) {
	node, err := r.store.Get(instance)
	if err != nil {
		return ids.NULL, err
	}
	for _, ref := range node.References {
		if ref.ReferenceTypeId == ids.HasTypeDefinitionId && ref.IsForward {
			return ref.TargetId, nil
		}
	}
	return ids.NULL, opcuaerr.New(opcuaerr.BadNotFound)
}

// supertypeOf returns the single type node's supertype, following its
// inverse HasSubtype reference, and false if it has none (it is a root
// of its hierarchy, e.g. BaseObjectType).
func supertypeOf(node *model.Node) (ids.NodeId, bool) {
	for _, ref := range node.References {
		if ref.ReferenceTypeId == ids.HasSubtypeId && !ref.IsForward {
			return ref.TargetId, true
		}
	}
	return ids.NULL, false
}

// modellingRuleOf returns the modelling rule of a type's template
// member node, read from its forward HasModellingRule reference. ok is
// false if the node carries none, which means it is not a template
// member (e.g. it is an actual instance, not a type-level child).
func modellingRuleOf(node *model.Node) (ModellingRule, bool) {
	for _, ref := range node.References {
		if ref.ReferenceTypeId == ids.HasModellingRuleId && ref.IsForward {
			rule, known := modellingRuleByNodeId[ref.TargetId]
			return rule, known
		}
	}
	return "", false
}

// TypeChildren enumerates typeId's template members: children reached
// by HasComponent/HasProperty from typeId itself and every ancestor up
// the HasSubtype chain, filtered to the given modelling rule
// (AnyModellingRule for no filtering). When the same BrowseName
// appears at more than one level, the most-derived definition wins and
// ancestor entries with that BrowseName are suppressed, regardless of
// which level the filter ultimately keeps.
func (r *Resolver) TypeChildren(typeId ids.NodeId, filter ModellingRule) ([]ChildTemplate, error) {
	chain, err := r.Ancestors(typeId)
	if err != nil {
		return nil, err
	}

	type resolved struct {
		child ChildTemplate
		name  ids.QualifiedName
	}
	winners := map[ids.QualifiedName]resolved{}
	order := []ids.QualifiedName{}

	for _, levelId := range chain {
		level, err := r.store.Get(levelId)
		if err != nil {
			return nil, err
		}
		for _, ref := range level.References {
			if !ref.IsForward || (ref.ReferenceTypeId != ids.HasComponentId && ref.ReferenceTypeId != ids.HasPropertyId) {
				continue
			}
			child, err := r.store.Get(ref.TargetId)
			if err != nil {
				return nil, err
			}
			rule, known := modellingRuleOf(child)
			if !known {
				continue
			}
			if _, already := winners[child.BrowseName]; already {
				continue
			}
			winners[child.BrowseName] = resolved{
				child: ChildTemplate{Template: child, ReferenceTypeId: ref.ReferenceTypeId, Rule: rule},
				name:  child.BrowseName,
			}
			order = append(order, child.BrowseName)
		}
	}

	result := make([]ChildTemplate, 0, len(order))
	for _, name := range order {
		w := winners[name]
		if filter != AnyModellingRule && w.child.Rule != filter {
			continue
		}
		result = append(result, w.child)
	}
	return result, nil
}

// Ancestors returns typeId followed by each ancestor up the HasSubtype
// chain, most-derived first, visited-set guarded against cycles. Used
// by TypeChildren's hierarchy walk and by pkg/instantiate to find the
// most-derived type in the chain with a registered lifecycle hook.
func (r *Resolver) Ancestors(typeId ids.NodeId) ([]ids.NodeId, error) {
	var chain []ids.NodeId
	visited := map[ids.NodeId]bool{}
	cur := typeId
	for {
		if visited[cur] {
			break
		}
		visited[cur] = true
		chain = append(chain, cur)

		node, err := r.store.Get(cur)
		if err != nil {
			return nil, err
		}
		parent, ok := supertypeOf(node)
		if !ok {
			break
		}
		cur = parent
	}
	return chain, nil
}
