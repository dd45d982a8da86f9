package decorators

import (
	"github.com/diwise/premis-registry/pkg/premis/types"
)

func ObjectIdentifier(idType, idValue string) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		o.ObjectIdentifiers = append(o.ObjectIdentifiers, types.Identifier{Type: idType, Value: idValue})
	}
}

func OriginalName(name string) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		o.OriginalName = name
	}
}

func SignificantProperty(propType, propValue string) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		o.SignificantProperties = append(o.SignificantProperties, types.SignificantProperty{
			Type:  propType,
			Value: propValue,
		})
	}
}

func CompositionLevel(level int) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		characteristicsOf(o).CompositionLevel = &level
	}
}

func Fixity(algorithm, digest, originator string) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		oc := characteristicsOf(o)
		oc.Fixity = append(oc.Fixity, types.Fixity{
			MessageDigestAlgorithm:  algorithm,
			MessageDigest:           digest,
			MessageDigestOriginator: originator,
		})
	}
}

func Size(bytes int64) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		characteristicsOf(o).Size = &bytes
	}
}

func Format(name, version string) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		oc := characteristicsOf(o)
		oc.Formats = append(oc.Formats, types.Format{
			Designation: &types.FormatDesignation{Name: name, Version: version},
		})
	}
}

func FormatRegistry(name, key, role string) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		oc := characteristicsOf(o)
		oc.Formats = append(oc.Formats, types.Format{
			Registry: &types.FormatRegistry{Name: name, Key: key, Role: role},
		})
	}
}

func Storage(locationType, locationValue, medium string) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		s := types.Storage{Medium: medium}
		if locationValue != "" {
			s.ContentLocation = &types.ContentLocation{Type: locationType, Value: locationValue}
		}
		o.Storage = append(o.Storage, s)
	}
}

func Relationship(relType, subType string, related ...types.Identifier) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		o.Relationships = append(o.Relationships, types.Relationship{
			Type:                     relType,
			SubType:                  subType,
			RelatedObjectIdentifiers: related,
		})
	}
}

func LinkingEvent(id types.Identifier) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		o.LinkingEventIdentifiers = append(o.LinkingEventIdentifiers, id)
	}
}

func LinkingRightsStatement(id types.Identifier) types.ObjectDecoratorFunc {
	return func(o *types.Object) {
		o.LinkingRightsStatementIdentifiers = append(o.LinkingRightsStatementIdentifiers, id)
	}
}

// characteristicsOf returns the object's first characteristics block,
// creating it when the object has none yet.
func characteristicsOf(o *types.Object) *types.ObjectCharacteristics {
	if len(o.ObjectCharacteristics) == 0 {
		o.ObjectCharacteristics = append(o.ObjectCharacteristics, types.ObjectCharacteristics{})
	}
	return &o.ObjectCharacteristics[0]
}

func EventDetail(detail string) types.EventDecoratorFunc {
	return func(e *types.Event) {
		e.EventDetails = append(e.EventDetails, detail)
	}
}

func EventOutcome(outcome string, notes ...string) types.EventDecoratorFunc {
	return func(e *types.Event) {
		e.EventOutcomes = append(e.EventOutcomes, types.EventOutcome{
			Outcome: outcome,
			Notes:   notes,
		})
	}
}

func LinkingAgent(id types.Identifier, roles ...string) types.EventDecoratorFunc {
	return func(e *types.Event) {
		e.LinkingAgentIdentifiers = append(e.LinkingAgentIdentifiers, types.LinkingAgentIdentifier{
			Identifier: id,
			Roles:      roles,
		})
	}
}

func LinkingObject(id types.Identifier, roles ...string) types.EventDecoratorFunc {
	return func(e *types.Event) {
		e.LinkingObjectIdentifiers = append(e.LinkingObjectIdentifiers, types.LinkingObjectIdentifier{
			Identifier: id,
			Roles:      roles,
		})
	}
}

func AgentIdentifier(idType, idValue string) types.AgentDecoratorFunc {
	return func(a *types.Agent) {
		a.AgentIdentifiers = append(a.AgentIdentifiers, types.Identifier{Type: idType, Value: idValue})
	}
}

func AgentName(name string) types.AgentDecoratorFunc {
	return func(a *types.Agent) {
		a.AgentNames = append(a.AgentNames, name)
	}
}

func AgentNote(note string) types.AgentDecoratorFunc {
	return func(a *types.Agent) {
		a.AgentNotes = append(a.AgentNotes, note)
	}
}

func AgentVersion(version string) types.AgentDecoratorFunc {
	return func(a *types.Agent) {
		a.AgentVersion = version
	}
}

func Copyright(status, jurisdiction string, notes ...string) types.RightsStatementDecoratorFunc {
	return func(s *types.RightsStatement) {
		s.Copyright = &types.CopyrightInformation{
			Status:       status,
			Jurisdiction: jurisdiction,
			Notes:        notes,
		}
	}
}

func License(terms string, notes ...string) types.RightsStatementDecoratorFunc {
	return func(s *types.RightsStatement) {
		s.License = &types.LicenseInformation{
			Terms: terms,
			Notes: notes,
		}
	}
}

func Statute(jurisdiction, citation string, notes ...string) types.RightsStatementDecoratorFunc {
	return func(s *types.RightsStatement) {
		s.Statute = &types.StatuteInformation{
			Jurisdiction: jurisdiction,
			Citation:     citation,
			Notes:        notes,
		}
	}
}

func RightsGranted(act string, restrictions ...string) types.RightsStatementDecoratorFunc {
	return func(s *types.RightsStatement) {
		s.RightsGranted = append(s.RightsGranted, types.RightsGranted{
			Act:          act,
			Restrictions: restrictions,
		})
	}
}

func StatementLinkingObject(id types.Identifier, roles ...string) types.RightsStatementDecoratorFunc {
	return func(s *types.RightsStatement) {
		s.LinkingObjectIdentifiers = append(s.LinkingObjectIdentifiers, types.LinkingObjectIdentifier{
			Identifier: id,
			Roles:      roles,
		})
	}
}
