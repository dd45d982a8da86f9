package types

import (
	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/xmltree"
)

// AgentDecoratorFunc modifies an agent under construction.
type AgentDecoratorFunc func(*Agent)

// Agent describes a person, organization, or piece of software associated
// with events or rights statements.
type Agent struct {
	AgentIdentifiers        []Identifier
	AgentNames              []string
	AgentType               string
	AgentVersion            string
	AgentNotes              []string
	LinkingEventIdentifiers []Identifier
}

// NewAgent creates an agent of the given type (person, organization or
// software) registered under the given identifier.
func NewAgent(id Identifier, name, agentType string, decorators ...AgentDecoratorFunc) *Agent {
	a := &Agent{
		AgentIdentifiers: []Identifier{id},
		AgentType:        agentType,
	}

	if name != "" {
		a.AgentNames = []string{name}
	}

	for _, decorator := range decorators {
		decorator(a)
	}

	return a
}

func (a *Agent) Kind() Kind {
	return KindAgent
}

func (a *Agent) Identifiers() []Identifier {
	return a.AgentIdentifiers
}

func (a *Agent) premisRecord() {}

// ToNode projects the agent in PREMIS schema order.
func (a *Agent) ToNode() xmltree.Node {
	nodes := []xmltree.Node{}

	for _, id := range a.AgentIdentifiers {
		nodes = append(nodes, identifierNode("agentIdentifier", id))
	}

	for _, name := range a.AgentNames {
		nodes = appendText(nodes, "agentName", name)
	}

	nodes = appendText(nodes, "agentType", a.AgentType)
	nodes = appendText(nodes, "agentVersion", a.AgentVersion)

	for _, note := range a.AgentNotes {
		nodes = appendText(nodes, "agentNote", note)
	}

	for _, id := range a.LinkingEventIdentifiers {
		nodes = append(nodes, identifierNode("linkingEventIdentifier", id))
	}

	return xmltree.Element("premis:agent", nodes...)
}

// AgentFromNode converts an agent element back into a typed record.
func AgentFromNode(n xmltree.Node) (*Agent, error) {
	a := &Agent{
		AgentIdentifiers: identifiersFromNodes("agentIdentifier", n.Children("agentIdentifier")),
		AgentNames:       valuesOf(n.Children("agentName")),
		AgentType:        n.ChildValue("agentType"),
		AgentVersion:     n.ChildValue("agentVersion"),
		AgentNotes:       valuesOf(n.Children("agentNote")),
	}

	if len(a.AgentIdentifiers) == 0 {
		return nil, errors.NewInvalidRecordError("agent must carry at least one agentIdentifier")
	}

	a.LinkingEventIdentifiers = identifiersFromNodes("linkingEventIdentifier", n.Children("linkingEventIdentifier"))

	return a, nil
}
