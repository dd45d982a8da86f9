// Package types defines the four PREMIS v3 record kinds (object, event,
// agent and rights) together with the identifier type they are addressed by.
//
// The Record union is closed. Every kind knows how to list the identifiers
// it is registered under and how to project itself to and from the generic
// element tree in the xmltree package.
package types

import (
	"strings"

	"github.com/diwise/premis-registry/pkg/premis/xmltree"
	"github.com/google/uuid"
)

// Kind names one of the four PREMIS record kinds.
type Kind string

const (
	KindObject Kind = "object"
	KindEvent  Kind = "event"
	KindAgent  Kind = "agent"
	KindRights Kind = "rights"
)

// Record is implemented by the four PREMIS record kinds and by nothing else.
type Record interface {
	Kind() Kind
	// Identifiers returns the identifiers the record is registered under.
	// Objects and agents carry one or more, events exactly one, and rights
	// records one per contained rights statement.
	Identifiers() []Identifier
	// ToNode projects the record onto a generic element tree.
	ToNode() xmltree.Node

	premisRecord()
}

// Identifier is a (type, value) pair such as ("UUID", "f81d4fae-..."). Two
// identifiers are equal when both parts match exactly, case sensitively.
type Identifier struct {
	Type  string
	Value string
}

func (i Identifier) String() string {
	return i.Type + ":" + i.Value
}

// NewUUIDIdentifier mints an identifier of type UUID with a fresh random value.
func NewUUIDIdentifier() Identifier {
	return Identifier{Type: "UUID", Value: uuid.NewString()}
}

// LinkingAgentIdentifier points from a record to an agent, optionally
// qualified with the roles the agent played.
type LinkingAgentIdentifier struct {
	Identifier Identifier
	Roles      []string
}

// LinkingObjectIdentifier points from a record to an object, optionally
// qualified with the roles the object had.
type LinkingObjectIdentifier struct {
	Identifier Identifier
	Roles      []string
}

// identifierNode renders an identifier as the PREMIS element pair
// <name>Type / <name>Value under an element called name.
func identifierNode(name string, id Identifier) xmltree.Node {
	return xmltree.Element("premis:"+name,
		xmltree.Text("premis:"+name+"Type", id.Type),
		xmltree.Text("premis:"+name+"Value", id.Value),
	)
}

func identifierFromNode(name string, n xmltree.Node) Identifier {
	return Identifier{
		Type:  n.ChildValue(name + "Type"),
		Value: n.ChildValue(name + "Value"),
	}
}

func identifiersFromNodes(name string, nodes []xmltree.Node) []Identifier {
	if len(nodes) == 0 {
		return nil
	}

	ids := make([]Identifier, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, identifierFromNode(name, n))
	}
	return ids
}

func appendText(nodes []xmltree.Node, name, value string) []xmltree.Node {
	if value == "" {
		return nodes
	}
	return append(nodes, xmltree.Text("premis:"+name, value))
}

func valuesOf(nodes []xmltree.Node) []string {
	if len(nodes) == 0 {
		return nil
	}

	values := make([]string, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, n.Value())
	}
	return values
}

func localPartOf(name string) string {
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
