// Package xmltree provides a generic XML element tree that preservation
// records are projected to and from. Nodes keep element order and attribute
// values verbatim so that a document can round trip without loss.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// Node is a single XML element with its attributes, character data and
// child elements in document order.
//
// Nodes created by Parse carry namespace resolved names, while nodes built
// programmatically carry literal prefixed names such as "premis:object".
// Local normalizes both forms for matching.
type Node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []Node     `xml:",any"`
}

// Parse reads a complete XML document from r and returns its root element.
func Parse(r io.Reader) (Node, error) {
	n := Node{}
	err := xml.NewDecoder(r).Decode(&n)
	return n, err
}

// Element creates a node with the given (possibly prefixed) element name.
func Element(name string, children ...Node) Node {
	return Node{
		XMLName: xml.Name{Local: name},
		Nodes:   children,
	}
}

// Text creates a leaf node holding the given character data.
func Text(name, value string) Node {
	return Node{
		XMLName: xml.Name{Local: name},
		Content: value,
	}
}

// Attr creates an attribute with a literal (possibly prefixed) name.
func Attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// SetAttr appends an attribute with a literal (possibly prefixed) name.
func (n *Node) SetAttr(name, value string) {
	n.Attrs = append(n.Attrs, Attr(name, value))
}

// Local returns the element name without any namespace prefix.
func (n Node) Local() string {
	return localPart(n.XMLName.Local)
}

// Value returns the character data of the node with surrounding whitespace removed.
func (n Node) Value() string {
	return strings.TrimSpace(n.Content)
}

// Child returns the first child element matching the given local name.
func (n Node) Child(name string) (Node, bool) {
	for _, c := range n.Nodes {
		if c.Local() == name {
			return c, true
		}
	}
	return Node{}, false
}

// ChildValue returns the trimmed character data of the first child element
// matching the given local name, or the empty string if there is none.
func (n Node) ChildValue(name string) string {
	if c, ok := n.Child(name); ok {
		return c.Value()
	}
	return ""
}

// Children returns all child elements matching the given local name, in order.
func (n Node) Children(name string) []Node {
	found := []Node{}
	for _, c := range n.Nodes {
		if c.Local() == name {
			found = append(found, c)
		}
	}
	return found
}

// AttrValue returns the value of the first attribute matching the given
// local name, regardless of namespace prefix.
func (n Node) AttrValue(name string) string {
	for _, a := range n.Attrs {
		if localPart(a.Name.Local) == name {
			return a.Value
		}
	}
	return ""
}

// String returns a compact serialization of the node and its subtree.
func (n Node) String() string {
	buf := &bytes.Buffer{}
	err := xml.NewEncoder(buf).Encode(n)
	if err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return buf.String()
}

func localPart(name string) string {
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
