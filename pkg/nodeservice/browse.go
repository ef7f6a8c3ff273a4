package nodeservice

import (
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/metrics"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/opcuaerr"
)

// Browse returns the ReferenceDescription records reachable from
// desc.NodeId matching its direction, reference-type and node-class
// filters. Reference type filtering honors the subtype expansion from
// pkg/typesys when desc.IncludeSubtypes is set. sessionId is accepted
// to match spec.md §4.7's signature but is not otherwise consulted —
// session-scoped continuation points are a network-layer concern out
// of this core's scope.
func (s *Service) Browse(sessionId string, desc BrowseDescription) (BrowseResult, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.ServiceCallDuration, "Browse")

	result, err := s.browse(desc)
	metrics.ServiceCallsTotal.WithLabelValues("Browse", string(opcuaerr.CodeOf(err))).Inc()
	if err == nil {
		metrics.BrowseResultsReturned.Observe(float64(len(result.References)))
	}
	return result, err
}

func (s *Service) browse(desc BrowseDescription) (BrowseResult, error) {
	node, err := s.store.Get(desc.NodeId)
	if err != nil {
		return BrowseResult{}, opcuaerr.New(opcuaerr.BadNodeIdInvalid)
	}

	var out []ReferenceDescription
	for _, ref := range node.References {
		if !s.directionMatches(desc.Direction, ref.IsForward) {
			continue
		}
		if !desc.ReferenceTypeId.IsNull() {
			matches, err := s.referenceTypeMatches(ref.ReferenceTypeId, desc.ReferenceTypeId, desc.IncludeSubtypes)
			if err != nil {
				return BrowseResult{}, opcuaerr.Wrap(opcuaerr.BadInternalError, err)
			}
			if !matches {
				continue
			}
		}

		target, err := s.store.Get(ref.TargetId)
		if err != nil {
			continue
		}
		if desc.NodeClassMask != 0 && maskFor(target.Class)&desc.NodeClassMask == 0 {
			continue
		}

		out = append(out, s.describeReference(ref.ReferenceTypeId, ref.IsForward, target, desc.ResultMask))
	}

	return BrowseResult{References: out}, nil
}

func (s *Service) directionMatches(dir BrowseDirection, isForward bool) bool {
	switch dir {
	case BrowseForward:
		return isForward
	case BrowseInverse:
		return !isForward
	default:
		return true
	}
}

func (s *Service) referenceTypeMatches(candidate, wanted ids.NodeId, includeSubtypes bool) (bool, error) {
	if candidate == wanted {
		return true, nil
	}
	if !includeSubtypes {
		return false, nil
	}
	return s.types.IsSubtypeOf(candidate, wanted)
}

func (s *Service) describeReference(refType ids.NodeId, isForward bool, target *model.Node, mask ResultMask) ReferenceDescription {
	rd := ReferenceDescription{NodeId: target.Id}
	if mask.has(ResultReferenceType) {
		rd.ReferenceTypeId = refType
	}
	if mask.has(ResultIsForward) {
		rd.IsForward = isForward
	}
	if mask.has(ResultNodeClass) {
		rd.NodeClass = target.Class
	}
	if mask.has(ResultBrowseName) {
		rd.BrowseName = target.BrowseName
	}
	if mask.has(ResultDisplayName) {
		rd.DisplayName = target.DisplayName
	}
	if mask.has(ResultTypeDefinition) && target.Class.HasTypeDefinitionSlot() {
		if typeId, err := s.types.TypeDefinition(target.Id); err == nil {
			rd.TypeDefinition = typeId
		}
	}
	return rd
}
