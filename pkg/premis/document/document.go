// Package document reads and writes PREMIS v3 XML documents. Reading turns
// the top level elements of a document into typed records, writing projects
// records back under a premis:premis root with the fixed namespace
// declarations and schema version.
package document

import (
	"fmt"
	"io"
	"os"

	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/diwise/premis-registry/pkg/premis/xmltree"
)

const (
	NamespacePREMIS = "http://www.loc.gov/premis/v3"
	NamespaceXSI    = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaVersion   = "3.0"
)

// File is a parsed PREMIS document. The element tree is parsed once up
// front, conversion to typed records happens on enumeration.
type File struct {
	path string
	root xmltree.Node
}

// New parses a complete PREMIS document from r.
func New(r io.Reader) (*File, error) {
	root, err := xmltree.Parse(r)
	if err != nil {
		return nil, errors.NewInvalidDocumentError(fmt.Sprintf("unparsable document: %s", err.Error()))
	}

	if root.Local() != "premis" {
		return nil, errors.NewInvalidDocumentError(fmt.Sprintf("unexpected root element \"%s\"", root.XMLName.Local))
	}

	return &File{root: root}, nil
}

// NewFromFile parses the PREMIS document stored at path.
func NewFromFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := New(f)
	if err != nil {
		return nil, err
	}

	doc.path = path
	return doc, nil
}

// Path returns the path the document was read from, if any.
func (f *File) Path() string {
	return f.path
}

// Objects returns the object records of the document in document order.
func (f *File) Objects() ([]*types.Object, error) {
	nodes := f.root.Children("object")
	objects := make([]*types.Object, 0, len(nodes))

	for _, n := range nodes {
		o, err := types.ObjectFromNode(n)
		if err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}

	return objects, nil
}

// Events returns the event records of the document in document order.
func (f *File) Events() ([]*types.Event, error) {
	nodes := f.root.Children("event")
	events := make([]*types.Event, 0, len(nodes))

	for _, n := range nodes {
		e, err := types.EventFromNode(n)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}

// Agents returns the agent records of the document in document order.
func (f *File) Agents() ([]*types.Agent, error) {
	nodes := f.root.Children("agent")
	agents := make([]*types.Agent, 0, len(nodes))

	for _, n := range nodes {
		a, err := types.AgentFromNode(n)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}

	return agents, nil
}

// Rights returns the rights records of the document in document order.
func (f *File) Rights() ([]*types.Rights, error) {
	nodes := f.root.Children("rights")
	rights := make([]*types.Rights, 0, len(nodes))

	for _, n := range nodes {
		r, err := types.RightsFromNode(n)
		if err != nil {
			return nil, err
		}
		rights = append(rights, r)
	}

	return rights, nil
}

// ParseFragment reads a single record element, such as a premis:event,
// from r and converts it into a typed record.
func ParseFragment(r io.Reader) (types.Record, error) {
	n, err := xmltree.Parse(r)
	if err != nil {
		return nil, errors.NewInvalidDocumentError(fmt.Sprintf("unparsable record fragment: %s", err.Error()))
	}

	return RecordFromNode(n)
}

// RecordFromNode converts a record element into the matching record kind.
func RecordFromNode(n xmltree.Node) (types.Record, error) {
	switch n.Local() {
	case "object":
		o, err := types.ObjectFromNode(n)
		if err != nil {
			return nil, err
		}
		return o, nil
	case "event":
		e, err := types.EventFromNode(n)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "agent":
		a, err := types.AgentFromNode(n)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "rights":
		r, err := types.RightsFromNode(n)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	return nil, errors.NewInvalidRecordError(fmt.Sprintf("unknown record element \"%s\"", n.Local()))
}
