package nodeservice

import (
	"errors"

	"github.com/cuemby/opcuad/pkg/addrspace"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/instantiate"
	"github.com/cuemby/opcuad/pkg/lifecycle"
	"github.com/cuemby/opcuad/pkg/log"
	"github.com/cuemby/opcuad/pkg/metrics"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/opcuaerr"
	"github.com/cuemby/opcuad/pkg/typesys"
)

// Service is the node-management service. It is safe for concurrent
// use only to the extent its collaborators are; pkg/server wraps a
// Service with the reader-writer capability spec.md §5 requires.
type Service struct {
	store     *addrspace.Store
	types     *typesys.Resolver
	inst      *instantiate.Instantiator
	lifecycle *lifecycle.Registry
}

// New returns a Service wired to the given collaborators.
func New(store *addrspace.Store, types *typesys.Resolver, inst *instantiate.Instantiator, registry *lifecycle.Registry) *Service {
	return &Service{store: store, types: types, inst: inst, lifecycle: registry}
}

// AddNode validates req in the order spec.md §4.7 specifies — the
// first failure returns immediately with no state mutated — then
// either delegates to the instantiator (for classes that carry a type
// definition) or inserts a single node and its parent reference
// atomically.
func (s *Service) AddNode(req AddNodeRequest) (ids.NodeId, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.ServiceCallDuration, "AddNode")

	assignedId, err := s.addNode(req)
	metrics.ServiceCallsTotal.WithLabelValues("AddNode", string(opcuaerr.CodeOf(err))).Inc()
	if err != nil {
		log.WithComponent("nodeservice").Warn().Err(err).Str("browse_name", req.BrowseName.String()).Msg("AddNode failed")
	}
	return assignedId, err
}

func (s *Service) addNode(req AddNodeRequest) (ids.NodeId, error) {
	if !s.store.Exists(req.ParentId) {
		return ids.NULL, opcuaerr.New(opcuaerr.BadParentNodeIdInvalid)
	}

	refTypeNode, err := s.store.Get(req.ReferenceTypeToParent)
	if err != nil || refTypeNode.Class != model.ReferenceType {
		return ids.NULL, opcuaerr.New(opcuaerr.BadReferenceTypeIdInvalid)
	}

	if !req.RequestedId.IsNull() && s.store.Exists(req.RequestedId) {
		return ids.NULL, opcuaerr.New(opcuaerr.BadNodeIdExists)
	}

	if req.NodeClass.HasTypeDefinitionSlot() {
		typeNode, err := s.store.Get(req.TypeDefinitionId)
		if err != nil {
			return ids.NULL, opcuaerr.New(opcuaerr.BadTypeDefinitionInvalid)
		}
		wantClass := model.ObjectType
		if req.NodeClass == model.Variable {
			wantClass = model.VariableType
		}
		if typeNode.Class != wantClass {
			return ids.NULL, opcuaerr.New(opcuaerr.BadTypeDefinitionInvalid)
		}
		if typeNode.TypeAttrs != nil && typeNode.TypeAttrs.IsAbstract {
			return ids.NULL, opcuaerr.New(opcuaerr.BadTypeDefinitionInvalid)
		}
	}

	if dup, err := s.siblingBrowseNameExists(req.ParentId, req.ReferenceTypeToParent, req.BrowseName); err != nil {
		return ids.NULL, opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	} else if dup {
		return ids.NULL, opcuaerr.New(opcuaerr.BadBrowseNameDuplicated)
	}

	if req.NodeClass.HasTypeDefinitionSlot() {
		assignedId, err := s.inst.Instantiate(instantiate.Request{
			NewInstanceId:         req.RequestedId,
			ParentId:              req.ParentId,
			ReferenceTypeToParent: req.ReferenceTypeToParent,
			BrowseName:            req.BrowseName,
			DisplayName:           req.DisplayName,
			Description:           req.Description,
			WriteMask:             req.WriteMask,
			UserWriteMask:         req.UserWriteMask,
			TypeDefinitionId:      req.TypeDefinitionId,
			VariableAttrs:         req.VariableAttrs,
			Callback:              req.Callback,
		})
		if err != nil {
			return ids.NULL, err
		}
		metrics.NodesTotal.WithLabelValues(string(req.NodeClass)).Inc()
		return assignedId, nil
	}

	node := &model.Node{
		Id:            req.RequestedId,
		Class:         req.NodeClass,
		BrowseName:    req.BrowseName,
		DisplayName:   req.DisplayName,
		Description:   req.Description,
		WriteMask:     req.WriteMask,
		UserWriteMask: req.UserWriteMask,
		VariableAttrs: req.VariableAttrs,
		TypeAttrs:     req.TypeAttrs,
		MethodAttrs:   req.MethodAttrs,
	}
	assignedId, err := s.store.Insert(node)
	if err != nil {
		return ids.NULL, opcuaerr.Wrap(opcuaerr.BadNodeIdExists, err)
	}
	if err := s.store.AddReferencePair(req.ParentId, req.ReferenceTypeToParent, assignedId, true); err != nil {
		_, _ = s.store.Remove(assignedId)
		return ids.NULL, opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	}
	metrics.NodesTotal.WithLabelValues(string(req.NodeClass)).Inc()
	return assignedId, nil
}

// siblingBrowseNameExists reports whether parent already has a child
// reached via refType whose BrowseName matches name.
func (s *Service) siblingBrowseNameExists(parent, refType ids.NodeId, name ids.QualifiedName) (bool, error) {
	parentNode, err := s.store.Get(parent)
	if err != nil {
		return false, err
	}
	for _, ref := range parentNode.References {
		if !ref.IsForward || ref.ReferenceTypeId != refType {
			continue
		}
		sibling, err := s.store.Get(ref.TargetId)
		if err != nil {
			continue
		}
		if sibling.BrowseName == name {
			return true, nil
		}
	}
	return false, nil
}

// AddReference validates existence of source, reference type and
// target, rejects an already-existing pair, and installs both
// endpoints atomically.
func (s *Service) AddReference(sourceId, refTypeId, targetId ids.NodeId, isForward bool) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.ServiceCallDuration, "AddReference")

	err := s.addReference(sourceId, refTypeId, targetId, isForward)
	metrics.ServiceCallsTotal.WithLabelValues("AddReference", string(opcuaerr.CodeOf(err))).Inc()
	return err
}

func (s *Service) addReference(sourceId, refTypeId, targetId ids.NodeId, isForward bool) error {
	if !s.store.Exists(sourceId) {
		return opcuaerr.New(opcuaerr.BadNodeIdInvalid)
	}
	if refTypeNode, err := s.store.Get(refTypeId); err != nil || refTypeNode.Class != model.ReferenceType {
		return opcuaerr.New(opcuaerr.BadReferenceTypeIdInvalid)
	}
	if !s.store.Exists(targetId) {
		return opcuaerr.New(opcuaerr.BadNodeIdInvalid)
	}

	if err := s.store.AddReferencePair(sourceId, refTypeId, targetId, isForward); err != nil {
		if errors.Is(err, addrspace.ErrDuplicateReference) {
			return opcuaerr.New(opcuaerr.BadDuplicateReferenceNotAllowed)
		}
		return opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	}
	metrics.ReferencesTotal.Inc()
	return nil
}

// DeleteNode implements the five steps of spec.md §4.7's DeleteNode:
// fire the registered destructor, unhook outgoing references (and,
// if deleteTargetReferences, incoming ones too), remove the node, and
// recursively delete any HasComponent/HasProperty-owned child that is
// left unreachable from RootFolder.
func (s *Service) DeleteNode(id ids.NodeId, deleteTargetReferences bool) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.ServiceCallDuration, "DeleteNode")

	err := s.deleteNode(id, deleteTargetReferences)
	metrics.ServiceCallsTotal.WithLabelValues("DeleteNode", string(opcuaerr.CodeOf(err))).Inc()
	return err
}

func (s *Service) deleteNode(id ids.NodeId, deleteTargetReferences bool) error {
	node, err := s.store.Get(id)
	if err != nil {
		return opcuaerr.New(opcuaerr.BadNotFound)
	}

	s.invokeDestructor(id)

	var cascadeCandidates []ids.NodeId
	for _, ref := range node.References {
		if ref.IsForward {
			if ref.ReferenceTypeId == ids.HasComponentId || ref.ReferenceTypeId == ids.HasPropertyId {
				cascadeCandidates = append(cascadeCandidates, ref.TargetId)
			}
			_ = s.store.RemoveReferencePair(id, ref.ReferenceTypeId, ref.TargetId, true)
		} else if deleteTargetReferences {
			_ = s.store.RemoveReferencePair(ref.TargetId, ref.ReferenceTypeId, id, true)
		}
	}

	if _, err := s.store.Remove(id); err != nil {
		return opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	}
	metrics.NodesTotal.WithLabelValues(string(node.Class)).Dec()

	for _, child := range cascadeCandidates {
		if !s.store.Exists(child) {
			continue
		}
		reachable, err := s.reachableFromRoot(child)
		if err != nil || reachable {
			continue
		}
		_ = s.deleteNode(child, true)
	}
	return nil
}

// invokeDestructor fires id's registered destructor, if instantiation
// recorded a handle and owning type for it, without touching the
// store — DeleteNode owns reference/node removal itself.
func (s *Service) invokeDestructor(id ids.NodeId) {
	handle, typeId, ok := s.lifecycle.TakeHandle(id)
	if !ok {
		return
	}
	hooks, ok := s.lifecycle.HooksFor(typeId)
	if !ok || hooks.Destructor == nil {
		return
	}
	metrics.DestructorInvocationsTotal.Inc()
	hooks.Destructor(id, handle)
}

// reachableFromRoot reports whether target can be reached from
// RootFolder by a chain of forward references whose type is a
// (transitive) subtype of HierarchicalReferences.
func (s *Service) reachableFromRoot(target ids.NodeId) (bool, error) {
	if target == ids.RootFolderId {
		return true, nil
	}
	visited := map[ids.NodeId]bool{ids.RootFolderId: true}
	queue := []ids.NodeId{ids.RootFolderId}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		node, err := s.store.Get(cur)
		if err != nil {
			continue
		}
		for _, ref := range node.References {
			if !ref.IsForward {
				continue
			}
			hierarchical, err := s.types.IsSubtypeOf(ref.ReferenceTypeId, ids.HierarchicalReferencesId)
			if err != nil || !hierarchical {
				continue
			}
			if ref.TargetId == target {
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

// DeleteReference removes a reference pair. If deleteBidirectional is
// set, it also removes any separately-installed pair in the opposite
// direction between the same nodes under the same reference type,
// which matters for Symmetric reference types that may have been
// linked both ways independently.
func (s *Service) DeleteReference(sourceId, refTypeId, targetId ids.NodeId, isForward, deleteBidirectional bool) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.ServiceCallDuration, "DeleteReference")

	err := s.deleteReference(sourceId, refTypeId, targetId, isForward, deleteBidirectional)
	metrics.ServiceCallsTotal.WithLabelValues("DeleteReference", string(opcuaerr.CodeOf(err))).Inc()
	return err
}

func (s *Service) deleteReference(sourceId, refTypeId, targetId ids.NodeId, isForward, deleteBidirectional bool) error {
	if !s.store.Exists(sourceId) {
		return opcuaerr.New(opcuaerr.BadNodeIdInvalid)
	}
	if refTypeNode, err := s.store.Get(refTypeId); err != nil || refTypeNode.Class != model.ReferenceType {
		return opcuaerr.New(opcuaerr.BadReferenceTypeIdInvalid)
	}
	if !s.store.Exists(targetId) {
		return opcuaerr.New(opcuaerr.BadNodeIdInvalid)
	}

	if err := s.store.RemoveReferencePair(sourceId, refTypeId, targetId, isForward); err != nil {
		return opcuaerr.Wrap(opcuaerr.BadInternalError, err)
	}
	metrics.ReferencesTotal.Dec()
	if deleteBidirectional {
		_ = s.store.RemoveReferencePair(sourceId, refTypeId, targetId, !isForward)
	}
	return nil
}
