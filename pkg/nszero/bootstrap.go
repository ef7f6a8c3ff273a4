package nszero

import (
	"fmt"

	"github.com/cuemby/opcuad/pkg/addrspace"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/model"
)

type refType struct {
	id         ids.NodeId
	name       string
	supertype  ids.NodeId // NULL for a hierarchy root
	symmetric  bool
	isAbstract bool
}

var referenceTypes = []refType{
	{id: ids.ReferencesId, name: "References", isAbstract: true},
	{id: ids.HierarchicalReferencesId, name: "HierarchicalReferences", supertype: ids.ReferencesId, isAbstract: true},
	{id: ids.HasChildId, name: "HasChild", supertype: ids.HierarchicalReferencesId, isAbstract: true},
	{id: ids.AggregatesId, name: "Aggregates", supertype: ids.HasChildId, isAbstract: true},
	{id: ids.HasComponentId, name: "HasComponent", supertype: ids.AggregatesId},
	{id: ids.HasPropertyId, name: "HasProperty", supertype: ids.AggregatesId},
	{id: ids.HasSubtypeId, name: "HasSubtype", supertype: ids.HasChildId},
	{id: ids.OrganizesId, name: "Organizes", supertype: ids.HierarchicalReferencesId},
	{id: ids.HasTypeDefinitionId, name: "HasTypeDefinition", supertype: ids.ReferencesId},
	{id: ids.HasModellingRuleId, name: "HasModellingRule", supertype: ids.ReferencesId},
}

type objectOrVariableType struct {
	id        ids.NodeId
	name      string
	class     model.NodeClass // ObjectType or VariableType
	supertype ids.NodeId      // NULL for a hierarchy root
}

var baseTypes = []objectOrVariableType{
	{id: ids.BaseObjectTypeId, name: "BaseObjectType", class: model.ObjectType},
	{id: ids.BaseVariableTypeId, name: "BaseVariableType", class: model.VariableType},
	{id: ids.BaseDataVariableTypeId, name: "BaseDataVariableType", class: model.VariableType, supertype: ids.BaseVariableTypeId},
	{id: ids.PropertyTypeId, name: "PropertyType", class: model.VariableType, supertype: ids.BaseVariableTypeId},
}

type modellingRuleMarker struct {
	id   ids.NodeId
	name string
}

var modellingRules = []modellingRuleMarker{
	{id: ids.ModellingRuleMandatoryId, name: "Mandatory"},
	{id: ids.ModellingRuleOptionalId, name: "Optional"},
	{id: ids.ModellingRuleMandatoryPlaceholderId, name: "MandatoryPlaceholder"},
	{id: ids.ModellingRuleOptionalPlaceholderId, name: "OptionalPlaceholder"},
}

// Bootstrap installs namespace 0 into store: the reference-type
// hierarchy, the base object/variable types, the modelling rule
// markers, and the RootFolder/ObjectsFolder/TypesFolder organized
// under RootFolder. It is idempotent only in the sense that calling
// it twice against the same store fails on the second call's
// duplicate inserts — callers run it once, against a freshly opened
// Store.
func Bootstrap(store *addrspace.Store) error {
	for _, rt := range referenceTypes {
		if err := insertReferenceType(store, rt); err != nil {
			return fmt.Errorf("nszero: reference type %s: %w", rt.name, err)
		}
	}
	for _, rt := range referenceTypes {
		if rt.supertype.IsNull() {
			continue
		}
		if err := store.AddReferencePair(rt.supertype, ids.HasSubtypeId, rt.id, true); err != nil {
			return fmt.Errorf("nszero: %s HasSubtype %s: %w", rt.name, "supertype", err)
		}
	}

	for _, bt := range baseTypes {
		if err := insertBaseType(store, bt); err != nil {
			return fmt.Errorf("nszero: base type %s: %w", bt.name, err)
		}
	}
	for _, bt := range baseTypes {
		if bt.supertype.IsNull() {
			continue
		}
		if err := store.AddReferencePair(bt.supertype, ids.HasSubtypeId, bt.id, true); err != nil {
			return fmt.Errorf("nszero: %s HasSubtype supertype: %w", bt.name, err)
		}
	}

	for _, mr := range modellingRules {
		if _, err := store.Insert(&model.Node{
			Id:         mr.id,
			Class:      model.Object,
			BrowseName: ids.QualifiedName{Name: mr.name},
		}); err != nil {
			return fmt.Errorf("nszero: modelling rule %s: %w", mr.name, err)
		}
	}

	if err := insertFolders(store); err != nil {
		return fmt.Errorf("nszero: folders: %w", err)
	}

	return nil
}

func insertReferenceType(store *addrspace.Store, rt refType) error {
	_, err := store.Insert(&model.Node{
		Id:         rt.id,
		Class:      model.ReferenceType,
		BrowseName: ids.QualifiedName{Name: rt.name},
		TypeAttrs: &model.TypeAttributes{
			IsAbstract: rt.isAbstract,
			Symmetric:  rt.symmetric,
		},
	})
	return err
}

func insertBaseType(store *addrspace.Store, bt objectOrVariableType) error {
	_, err := store.Insert(&model.Node{
		Id:         bt.id,
		Class:      bt.class,
		BrowseName: ids.QualifiedName{Name: bt.name},
		TypeAttrs:  &model.TypeAttributes{IsAbstract: true},
	})
	return err
}

func insertFolders(store *addrspace.Store) error {
	folders := []struct {
		id   ids.NodeId
		name string
	}{
		{ids.RootFolderId, "Root"},
		{ids.ObjectsFolderId, "Objects"},
		{ids.TypesFolderId, "Types"},
	}
	for _, f := range folders {
		if _, err := store.Insert(&model.Node{
			Id:         f.id,
			Class:      model.Object,
			BrowseName: ids.QualifiedName{Name: f.name},
		}); err != nil {
			return err
		}
		if f.id == ids.RootFolderId {
			continue
		}
		if err := store.AddReferencePair(ids.RootFolderId, ids.OrganizesId, f.id, true); err != nil {
			return err
		}
	}
	return nil
}
