package ids

// Well-known NodeIds are the fixed numeric identifiers OPC UA Part 6
// assigns in namespace 0. pkg/nszero uses these to build the bootstrap
// node records; pkg/typesys and pkg/instantiate use them to recognize
// the reference types and modelling rules they walk without needing to
// look anything up by BrowseName.
var (
	ReferencesId             = NewNumeric(0, 31)
	HierarchicalReferencesId = NewNumeric(0, 33)
	HasChildId               = NewNumeric(0, 34)
	AggregatesId             = NewNumeric(0, 44)
	HasComponentId           = NewNumeric(0, 47)
	HasPropertyId            = NewNumeric(0, 46)
	HasSubtypeId             = NewNumeric(0, 45)
	HasTypeDefinitionId      = NewNumeric(0, 40)
	HasModellingRuleId       = NewNumeric(0, 37)
	OrganizesId              = NewNumeric(0, 35)

	BaseObjectTypeId       = NewNumeric(0, 58)
	BaseVariableTypeId     = NewNumeric(0, 62)
	BaseDataVariableTypeId = NewNumeric(0, 63)
	PropertyTypeId         = NewNumeric(0, 68)

	RootFolderId    = NewNumeric(0, 84)
	ObjectsFolderId = NewNumeric(0, 85)
	TypesFolderId   = NewNumeric(0, 86)

	ModellingRuleMandatoryId            = NewNumeric(0, 78)
	ModellingRuleMandatoryPlaceholderId = NewNumeric(0, 79)
	ModellingRuleOptionalId             = NewNumeric(0, 80)
	ModellingRuleOptionalPlaceholderId  = NewNumeric(0, 81)
)
