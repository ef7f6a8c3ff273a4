package instantiate

import (
	"github.com/cuemby/opcuad/pkg/addrspace"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/lifecycle"
	"github.com/cuemby/opcuad/pkg/log"
	"github.com/cuemby/opcuad/pkg/metrics"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/opcuaerr"
	"github.com/cuemby/opcuad/pkg/typesys"
	"github.com/cuemby/opcuad/pkg/uavalue"
)

// Callback is invoked once per materialized node (the root and every
// mandatory template descendant), in depth-first order of the template
// walk, with the node's fresh NodeId, the type-level template node it
// was copied from (itself for the root), and the handle its
// constructor returned, if any fired.
type Callback func(newNodeId, templateId ids.NodeId, handle any)

// Request is the instantiator's input, matching spec.md §4.5's tuple
// plus the common, NodeClass-independent attributes spec.md §3 gives
// every node (DisplayName, Description, WriteMask, UserWriteMask),
// which apply to the root instance only — template children copy
// these attributes from their type-level node, not from the caller.
type Request struct {
	NewInstanceId         ids.NodeId // NULL to have one assigned
	ParentId              ids.NodeId
	ReferenceTypeToParent ids.NodeId
	BrowseName            ids.QualifiedName
	DisplayName           uavalue.LocalizedText
	Description           uavalue.LocalizedText
	WriteMask             uint32
	UserWriteMask         uint32
	TypeDefinitionId      ids.NodeId
	VariableAttrs         *model.VariableAttributes // only meaningful when the type is a VariableType
	Callback              Callback
}

// Instantiator materializes instance subtrees from type definitions.
type Instantiator struct {
	store     *addrspace.Store
	types     *typesys.Resolver
	lifecycle *lifecycle.Registry
}

// New returns an Instantiator wired to store, types and registry.
func New(store *addrspace.Store, types *typesys.Resolver, registry *lifecycle.Registry) *Instantiator {
	return &Instantiator{store: store, types: types, lifecycle: registry}
}

// Instantiate runs the five-step algorithm of spec.md §4.5: validate
// the type, create the root, recursively materialize mandatory
// template children, invoke constructors and the caller's callback
// depth-first, and roll back everything created so far — invoking
// destructors for any successfully-constructed sub-instances — the
// moment any step fails.
func (in *Instantiator) Instantiate(req Request) (ids.NodeId, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.InstantiationDuration)

	typeNode, err := in.store.Get(req.TypeDefinitionId)
	if err != nil {
		metrics.InstantiationsTotal.WithLabelValues("invalid_type").Inc()
		return ids.NULL, opcuaerr.Wrap(opcuaerr.BadTypeDefinitionInvalid, err)
	}
	if typeNode.Class != model.ObjectType && typeNode.Class != model.VariableType {
		metrics.InstantiationsTotal.WithLabelValues("invalid_type").Inc()
		return ids.NULL, opcuaerr.New(opcuaerr.BadTypeDefinitionInvalid)
	}
	if typeNode.TypeAttrs != nil && typeNode.TypeAttrs.IsAbstract {
		metrics.InstantiationsTotal.WithLabelValues("abstract_type").Inc()
		return ids.NULL, opcuaerr.New(opcuaerr.BadTypeDefinitionInvalid)
	}

	var created []ids.NodeId
	rollback := func() {
		metrics.InstantiationRollbacksTotal.Inc()
		for i := len(created) - 1; i >= 0; i-- {
			in.destroy(created[i])
		}
	}

	rootNode := &model.Node{
		Id:            req.NewInstanceId,
		Class:         instanceClassFor(typeNode.Class),
		BrowseName:    req.BrowseName,
		DisplayName:   req.DisplayName,
		Description:   req.Description,
		WriteMask:     req.WriteMask,
		UserWriteMask: req.UserWriteMask,
		VariableAttrs: req.VariableAttrs,
	}
	rootId, err := in.store.Insert(rootNode)
	if err != nil {
		metrics.InstantiationsTotal.WithLabelValues("root_insert_failed").Inc()
		return ids.NULL, opcuaerr.Wrap(opcuaerr.BadNodeIdExists, err)
	}
	created = append(created, rootId)

	if err := in.store.AddReferencePair(rootId, ids.HasTypeDefinitionId, req.TypeDefinitionId, true); err != nil {
		rollback()
		metrics.InstantiationsTotal.WithLabelValues("reference_failed").Inc()
		return ids.NULL, opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	}
	if err := in.store.AddReferencePair(req.ParentId, req.ReferenceTypeToParent, rootId, true); err != nil {
		rollback()
		metrics.InstantiationsTotal.WithLabelValues("reference_failed").Inc()
		return ids.NULL, opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	}

	if err := in.materializeChildren(rootId, req.TypeDefinitionId, req.Callback, &created); err != nil {
		rollback()
		metrics.InstantiationsTotal.WithLabelValues("child_failed").Inc()
		return ids.NULL, err
	}

	handle, err := in.invokeConstructor(rootId, req.TypeDefinitionId)
	if err != nil {
		rollback()
		metrics.InstantiationsTotal.WithLabelValues("constructor_failed").Inc()
		return ids.NULL, err
	}
	if req.Callback != nil {
		req.Callback(rootId, req.TypeDefinitionId, handle)
	}

	log.WithTypeID(req.TypeDefinitionId.String()).Debug().
		Str("node_id", rootId.String()).
		Int("children", len(created)-1).
		Msg("instance materialized")
	metrics.InstantiationsTotal.WithLabelValues("ok").Inc()
	return rootId, nil
}

// materializeChildren walks typeDefinitionId's Mandatory template and
// recreates each child under parentId, recursing into typed children
// and invoking constructors/callback depth-first.
func (in *Instantiator) materializeChildren(parentId, typeDefinitionId ids.NodeId, callback Callback, created *[]ids.NodeId) error {
	children, err := in.types.TypeChildren(typeDefinitionId, typesys.Mandatory)
	if err != nil {
		return opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	}

	for _, child := range children {
		template := child.Template

		childNode := &model.Node{
			Class:       template.Class,
			BrowseName:  template.BrowseName,
			DisplayName: template.DisplayName,
			Description: template.Description,
		}
		if template.VariableAttrs != nil {
			va := *template.VariableAttrs
			if template.VariableAttrs.ArrayDimensions != nil {
				va.ArrayDimensions = append([]uint32(nil), template.VariableAttrs.ArrayDimensions...)
			}
			childNode.VariableAttrs = &va
		}

		newId, err := in.store.Insert(childNode)
		if err != nil {
			return opcuaerr.Wrap(opcuaerr.BadInternalError, err)
		}
		*created = append(*created, newId)

		if err := in.store.AddReferencePair(parentId, child.ReferenceTypeId, newId, true); err != nil {
			return opcuaerr.Wrap(opcuaerr.BadInternalError, err)
		}

		childTypeId, hasType := typeDefinitionOf(template)
		if hasType {
			if err := in.store.AddReferencePair(newId, ids.HasTypeDefinitionId, childTypeId, true); err != nil {
				return opcuaerr.Wrap(opcuaerr.BadInternalError, err)
			}
			if err := in.materializeChildren(newId, childTypeId, callback, created); err != nil {
				return err
			}
		}

		var handle any
		if hasType {
			h, err := in.invokeConstructor(newId, childTypeId)
			if err != nil {
				return err
			}
			handle = h
		}

		if callback != nil {
			callback(newId, template.Id, handle)
		}
	}
	return nil
}

// invokeConstructor finds the most-derived type in typeId's ancestor
// chain with a registered Constructor, invokes it, and records the
// handle under instanceId. If no ancestor has a Constructor but one has
// a Destructor, the most-derived such type is recorded with a nil
// handle so its Destructor fires when the instance is destroyed. It
// returns (nil, nil) if no ancestor has a Constructor registered — that
// is not a failure.
func (in *Instantiator) invokeConstructor(instanceId, typeId ids.NodeId) (any, error) {
	chain, err := in.types.Ancestors(typeId)
	if err != nil {
		return nil, opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	}
	for _, t := range chain {
		hooks, ok := in.lifecycle.HooksFor(t)
		if !ok || hooks.Constructor == nil {
			continue
		}
		metrics.ConstructorInvocationsTotal.Inc()
		handle, err := hooks.Constructor(instanceId)
		if err != nil {
			return nil, opcuaerr.Wrap(opcuaerr.BadInternalError, err)
		}
		in.lifecycle.PutHandle(instanceId, t, handle)
		return handle, nil
	}
	for _, t := range chain {
		if hooks, ok := in.lifecycle.HooksFor(t); ok && hooks.Destructor != nil {
			in.lifecycle.PutHandle(instanceId, t, nil)
			return nil, nil
		}
	}
	return nil, nil
}

// destroy invokes id's registered destructor, if instantiation recorded
// a handle and owning type for it, then removes it and any dangling
// references to it from the store. Used both by rollback and, symmetrically, by
// pkg/nodeservice.DeleteNode.
func (in *Instantiator) destroy(id ids.NodeId) {
	if handle, typeId, ok := in.lifecycle.TakeHandle(id); ok {
		if hooks, ok := in.lifecycle.HooksFor(typeId); ok && hooks.Destructor != nil {
			metrics.DestructorInvocationsTotal.Inc()
			hooks.Destructor(id, handle)
		}
	}
	_ = in.store.RemoveAllReferencesTo(id)
	_, _ = in.store.Remove(id)
}

// Destroy exposes the same destructor-then-remove sequence Instantiate
// uses for rollback, for pkg/nodeservice.DeleteNode to call on an
// ordinary (non-rollback) deletion so constructor/destructor symmetry
// holds regardless of why a node goes away.
func (in *Instantiator) Destroy(id ids.NodeId) {
	in.destroy(id)
}

func instanceClassFor(typeClass model.NodeClass) model.NodeClass {
	if typeClass == model.VariableType {
		return model.Variable
	}
	return model.Object
}

func typeDefinitionOf(n *model.Node) (ids.NodeId, bool) {
	for _, ref := range n.References {
		if ref.ReferenceTypeId == ids.HasTypeDefinitionId && ref.IsForward {
			return ref.TargetId, true
		}
	}
	return ids.NULL, false
}
