package document

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/diwise/premis-registry/pkg/premis/xmltree"
)

// WriteOption configures how a document is serialized.
type WriteOption func(*writeConfig)

type writeConfig struct {
	indent string
}

// Indent makes Write emit one record element per line, indented with the
// given string. The default is compact output on a single line.
func Indent(indent string) WriteOption {
	return func(cfg *writeConfig) {
		cfg.indent = indent
	}
}

// Root wraps the given record projections in a premis:premis element
// carrying the PREMIS and xsi namespace declarations and the schema version.
func Root(children ...xmltree.Node) xmltree.Node {
	root := xmltree.Element("premis:premis", children...)
	root.SetAttr("xmlns:premis", NamespacePREMIS)
	root.SetAttr("xmlns:xsi", NamespaceXSI)
	root.SetAttr("version", SchemaVersion)
	return root
}

// Fragment projects a single record with the namespace declarations it
// needs to stand alone outside a document root.
func Fragment(record types.Record) xmltree.Node {
	n := record.ToNode()
	n.SetAttr("xmlns:premis", NamespacePREMIS)
	n.SetAttr("xmlns:xsi", NamespaceXSI)
	return n
}

// Write serializes a document root to w in a single pass, preceded by an
// XML declaration.
func Write(w io.Writer, root xmltree.Node, options ...WriteOption) error {
	cfg := &writeConfig{}
	for _, option := range options {
		option(cfg)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	if cfg.indent != "" {
		enc.Indent("", cfg.indent)
	}

	if err := enc.Encode(root); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile serializes a document root to a file at path, replacing any
// previous contents.
func WriteFile(path string, root xmltree.Node, options ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, root, options...); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
