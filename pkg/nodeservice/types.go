package nodeservice

import (
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/instantiate"
	"github.com/cuemby/opcuad/pkg/model"
	"github.com/cuemby/opcuad/pkg/uavalue"
)

// AddNodeRequest is the argument record for AddNode, matching
// spec.md §4.7's tuple plus the common, NodeClass-independent
// attributes spec.md §3 gives every node (DisplayName, Description,
// WriteMask, UserWriteMask).
type AddNodeRequest struct {
	ParentId              ids.NodeId
	ReferenceTypeToParent ids.NodeId
	RequestedId           ids.NodeId // NULL to have one assigned
	BrowseName            ids.QualifiedName
	DisplayName           uavalue.LocalizedText
	Description           uavalue.LocalizedText
	WriteMask             uint32
	UserWriteMask         uint32
	NodeClass             model.NodeClass
	TypeDefinitionId      ids.NodeId // required when NodeClass.HasTypeDefinitionSlot()
	VariableAttrs         *model.VariableAttributes
	TypeAttrs             *model.TypeAttributes
	MethodAttrs           *model.MethodAttributes
	Callback              instantiate.Callback
}

// BrowseDirection selects which half of a node's reference list Browse
// considers.
type BrowseDirection string

const (
	BrowseForward BrowseDirection = "Forward"
	BrowseInverse BrowseDirection = "Inverse"
	BrowseBoth    BrowseDirection = "Both"
)

// NodeClassMask filters Browse results to target nodes of the given
// classes; zero means no filtering.
type NodeClassMask uint32

const (
	MaskObject NodeClassMask = 1 << iota
	MaskVariable
	MaskMethod
	MaskObjectType
	MaskVariableType
	MaskReferenceType
	MaskDataType
	MaskView
)

func maskFor(class model.NodeClass) NodeClassMask {
	switch class {
	case model.Object:
		return MaskObject
	case model.Variable:
		return MaskVariable
	case model.Method:
		return MaskMethod
	case model.ObjectType:
		return MaskObjectType
	case model.VariableType:
		return MaskVariableType
	case model.ReferenceType:
		return MaskReferenceType
	case model.DataType:
		return MaskDataType
	case model.View:
		return MaskView
	default:
		return 0
	}
}

// ResultMask selects which optional fields Browse populates on each
// ReferenceDescription; zero means "populate everything", matching the
// common OPC UA client convention of a default, unrestricted browse.
type ResultMask uint32

const (
	ResultReferenceType ResultMask = 1 << iota
	ResultIsForward
	ResultNodeClass
	ResultBrowseName
	ResultDisplayName
	ResultTypeDefinition
)

func (m ResultMask) has(bit ResultMask) bool {
	return m == 0 || m&bit != 0
}

// BrowseDescription is Browse's argument record, matching
// spec.md §4.7's tuple.
type BrowseDescription struct {
	NodeId          ids.NodeId
	ReferenceTypeId ids.NodeId // NULL matches any reference type
	IncludeSubtypes bool
	Direction       BrowseDirection
	NodeClassMask   NodeClassMask
	ResultMask      ResultMask
}

// ReferenceDescription is one row of a BrowseResult.
type ReferenceDescription struct {
	ReferenceTypeId ids.NodeId
	IsForward       bool
	NodeId          ids.NodeId
	BrowseName      ids.QualifiedName
	DisplayName     uavalue.LocalizedText
	NodeClass       model.NodeClass
	TypeDefinition  ids.NodeId // NULL if the target has none
}

// BrowseResult is Browse's return value.
type BrowseResult struct {
	References []ReferenceDescription
}
