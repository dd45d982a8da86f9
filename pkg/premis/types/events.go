package types

import (
	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/xmltree"
)

// EventDecoratorFunc modifies an event under construction.
type EventDecoratorFunc func(*Event)

// Event describes a preservation action, when it happened and with what
// outcome. Unlike the other kinds an event is registered under exactly
// one identifier.
type Event struct {
	EventIdentifier          Identifier
	EventType                string
	EventDateTime            string
	EventDetails             []string
	EventOutcomes            []EventOutcome
	LinkingAgentIdentifiers  []LinkingAgentIdentifier
	LinkingObjectIdentifiers []LinkingObjectIdentifier
}

// EventOutcome is the result of an event, with any detail notes.
type EventOutcome struct {
	Outcome string
	Notes   []string
}

// NewEvent creates an event of the given type. The timestamp is kept
// verbatim so that records round trip without reformatting.
func NewEvent(id Identifier, eventType, dateTime string, decorators ...EventDecoratorFunc) *Event {
	e := &Event{
		EventIdentifier: id,
		EventType:       eventType,
		EventDateTime:   dateTime,
	}

	for _, decorator := range decorators {
		decorator(e)
	}

	return e
}

func (e *Event) Kind() Kind {
	return KindEvent
}

func (e *Event) Identifiers() []Identifier {
	return []Identifier{e.EventIdentifier}
}

func (e *Event) premisRecord() {}

// ToNode projects the event in PREMIS schema order.
func (e *Event) ToNode() xmltree.Node {
	nodes := []xmltree.Node{
		identifierNode("eventIdentifier", e.EventIdentifier),
		xmltree.Text("premis:eventType", e.EventType),
		xmltree.Text("premis:eventDateTime", e.EventDateTime),
	}

	for _, detail := range e.EventDetails {
		nodes = append(nodes, xmltree.Element("premis:eventDetailInformation",
			xmltree.Text("premis:eventDetail", detail),
		))
	}

	for _, outcome := range e.EventOutcomes {
		info := []xmltree.Node{}
		info = appendText(info, "eventOutcome", outcome.Outcome)
		for _, note := range outcome.Notes {
			info = append(info, xmltree.Element("premis:eventOutcomeDetail",
				xmltree.Text("premis:eventOutcomeDetailNote", note),
			))
		}
		nodes = append(nodes, xmltree.Element("premis:eventOutcomeInformation", info...))
	}

	for _, la := range e.LinkingAgentIdentifiers {
		agent := []xmltree.Node{
			xmltree.Text("premis:linkingAgentIdentifierType", la.Identifier.Type),
			xmltree.Text("premis:linkingAgentIdentifierValue", la.Identifier.Value),
		}
		for _, role := range la.Roles {
			agent = appendText(agent, "linkingAgentRole", role)
		}
		nodes = append(nodes, xmltree.Element("premis:linkingAgentIdentifier", agent...))
	}

	for _, lo := range e.LinkingObjectIdentifiers {
		object := []xmltree.Node{
			xmltree.Text("premis:linkingObjectIdentifierType", lo.Identifier.Type),
			xmltree.Text("premis:linkingObjectIdentifierValue", lo.Identifier.Value),
		}
		for _, role := range lo.Roles {
			object = appendText(object, "linkingObjectRole", role)
		}
		nodes = append(nodes, xmltree.Element("premis:linkingObjectIdentifier", object...))
	}

	return xmltree.Element("premis:event", nodes...)
}

// EventFromNode converts an event element back into a typed record.
func EventFromNode(n xmltree.Node) (*Event, error) {
	idNode, ok := n.Child("eventIdentifier")
	if !ok {
		return nil, errors.NewInvalidRecordError("event is missing its eventIdentifier")
	}

	e := &Event{
		EventIdentifier: identifierFromNode("eventIdentifier", idNode),
		EventType:       n.ChildValue("eventType"),
		EventDateTime:   n.ChildValue("eventDateTime"),
	}

	for _, c := range n.Children("eventDetailInformation") {
		e.EventDetails = append(e.EventDetails, c.ChildValue("eventDetail"))
	}

	for _, c := range n.Children("eventOutcomeInformation") {
		outcome := EventOutcome{Outcome: c.ChildValue("eventOutcome")}
		for _, d := range c.Children("eventOutcomeDetail") {
			outcome.Notes = append(outcome.Notes, d.ChildValue("eventOutcomeDetailNote"))
		}
		e.EventOutcomes = append(e.EventOutcomes, outcome)
	}

	for _, c := range n.Children("linkingAgentIdentifier") {
		e.LinkingAgentIdentifiers = append(e.LinkingAgentIdentifiers, LinkingAgentIdentifier{
			Identifier: identifierFromNode("linkingAgentIdentifier", c),
			Roles:      valuesOf(c.Children("linkingAgentRole")),
		})
	}

	for _, c := range n.Children("linkingObjectIdentifier") {
		e.LinkingObjectIdentifiers = append(e.LinkingObjectIdentifiers, LinkingObjectIdentifier{
			Identifier: identifierFromNode("linkingObjectIdentifier", c),
			Roles:      valuesOf(c.Children("linkingObjectRole")),
		})
	}

	return e, nil
}
