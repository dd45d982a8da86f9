package types

import (
	"fmt"
	"strconv"

	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/xmltree"
)

// ObjectDecoratorFunc modifies an object under construction.
type ObjectDecoratorFunc func(*Object)

// Object describes a digital object in custody, such as a file, a
// bitstream, a representation or an intellectual entity.
type Object struct {
	ObjectIdentifiers                 []Identifier
	ObjectCategory                    string
	SignificantProperties             []SignificantProperty
	ObjectCharacteristics             []ObjectCharacteristics
	OriginalName                      string
	Storage                           []Storage
	Relationships                     []Relationship
	LinkingEventIdentifiers           []Identifier
	LinkingRightsStatementIdentifiers []Identifier
}

// SignificantProperty is a characteristic of an object that must survive
// preservation action, such as "page count: 7".
type SignificantProperty struct {
	Type  string
	Value string
}

// ObjectCharacteristics holds the technical properties of an object.
type ObjectCharacteristics struct {
	CompositionLevel *int
	Fixity           []Fixity
	Size             *int64
	Formats          []Format
}

// Fixity is a message digest over the object's content.
type Fixity struct {
	MessageDigestAlgorithm  string
	MessageDigest           string
	MessageDigestOriginator string
}

// Format identifies the file format of an object, by designation,
// by registry reference, or both.
type Format struct {
	Designation *FormatDesignation
	Registry    *FormatRegistry
	Notes       []string
}

type FormatDesignation struct {
	Name    string
	Version string
}

type FormatRegistry struct {
	Name string
	Key  string
	Role string
}

// Storage says where and on what medium object content is stored.
type Storage struct {
	ContentLocation *ContentLocation
	Medium          string
}

type ContentLocation struct {
	Type  string
	Value string
}

// Relationship relates an object to other objects, and optionally to the
// events that gave rise to the relationship.
type Relationship struct {
	Type                     string
	SubType                  string
	RelatedObjectIdentifiers []Identifier
	RelatedEventIdentifiers  []Identifier
}

// NewObject creates an object of the given category (file, representation,
// bitstream or intellectualEntity) registered under the given identifier.
func NewObject(id Identifier, category string, decorators ...ObjectDecoratorFunc) *Object {
	o := &Object{
		ObjectIdentifiers: []Identifier{id},
		ObjectCategory:    category,
	}

	for _, decorator := range decorators {
		decorator(o)
	}

	return o
}

func (o *Object) Kind() Kind {
	return KindObject
}

func (o *Object) Identifiers() []Identifier {
	return o.ObjectIdentifiers
}

func (o *Object) premisRecord() {}

// ToNode projects the object in PREMIS schema order.
func (o *Object) ToNode() xmltree.Node {
	nodes := []xmltree.Node{}

	for _, id := range o.ObjectIdentifiers {
		nodes = append(nodes, identifierNode("objectIdentifier", id))
	}

	for _, sp := range o.SignificantProperties {
		prop := []xmltree.Node{}
		prop = appendText(prop, "significantPropertiesType", sp.Type)
		prop = appendText(prop, "significantPropertiesValue", sp.Value)
		nodes = append(nodes, xmltree.Element("premis:significantProperties", prop...))
	}

	for _, oc := range o.ObjectCharacteristics {
		nodes = append(nodes, oc.toNode())
	}

	nodes = appendText(nodes, "originalName", o.OriginalName)

	for _, s := range o.Storage {
		storage := []xmltree.Node{}
		if s.ContentLocation != nil {
			storage = append(storage, xmltree.Element("premis:contentLocation",
				xmltree.Text("premis:contentLocationType", s.ContentLocation.Type),
				xmltree.Text("premis:contentLocationValue", s.ContentLocation.Value),
			))
		}
		storage = appendText(storage, "storageMedium", s.Medium)
		nodes = append(nodes, xmltree.Element("premis:storage", storage...))
	}

	for _, r := range o.Relationships {
		rel := []xmltree.Node{
			xmltree.Text("premis:relationshipType", r.Type),
			xmltree.Text("premis:relationshipSubType", r.SubType),
		}
		for _, id := range r.RelatedObjectIdentifiers {
			rel = append(rel, identifierNode("relatedObjectIdentifier", id))
		}
		for _, id := range r.RelatedEventIdentifiers {
			rel = append(rel, identifierNode("relatedEventIdentifier", id))
		}
		nodes = append(nodes, xmltree.Element("premis:relationship", rel...))
	}

	for _, id := range o.LinkingEventIdentifiers {
		nodes = append(nodes, identifierNode("linkingEventIdentifier", id))
	}

	for _, id := range o.LinkingRightsStatementIdentifiers {
		nodes = append(nodes, identifierNode("linkingRightsStatementIdentifier", id))
	}

	n := xmltree.Element("premis:object", nodes...)
	n.SetAttr("xsi:type", "premis:"+o.ObjectCategory)
	return n
}

func (oc ObjectCharacteristics) toNode() xmltree.Node {
	nodes := []xmltree.Node{}

	if oc.CompositionLevel != nil {
		nodes = append(nodes, xmltree.Text("premis:compositionLevel", strconv.Itoa(*oc.CompositionLevel)))
	}

	for _, f := range oc.Fixity {
		fixity := []xmltree.Node{
			xmltree.Text("premis:messageDigestAlgorithm", f.MessageDigestAlgorithm),
			xmltree.Text("premis:messageDigest", f.MessageDigest),
		}
		fixity = appendText(fixity, "messageDigestOriginator", f.MessageDigestOriginator)
		nodes = append(nodes, xmltree.Element("premis:fixity", fixity...))
	}

	if oc.Size != nil {
		nodes = append(nodes, xmltree.Text("premis:size", strconv.FormatInt(*oc.Size, 10)))
	}

	for _, f := range oc.Formats {
		format := []xmltree.Node{}
		if f.Designation != nil {
			designation := []xmltree.Node{}
			designation = appendText(designation, "formatName", f.Designation.Name)
			designation = appendText(designation, "formatVersion", f.Designation.Version)
			format = append(format, xmltree.Element("premis:formatDesignation", designation...))
		}
		if f.Registry != nil {
			registry := []xmltree.Node{}
			registry = appendText(registry, "formatRegistryName", f.Registry.Name)
			registry = appendText(registry, "formatRegistryKey", f.Registry.Key)
			registry = appendText(registry, "formatRegistryRole", f.Registry.Role)
			format = append(format, xmltree.Element("premis:formatRegistry", registry...))
		}
		for _, note := range f.Notes {
			format = appendText(format, "formatNote", note)
		}
		nodes = append(nodes, xmltree.Element("premis:format", format...))
	}

	return xmltree.Element("premis:objectCharacteristics", nodes...)
}

// ObjectFromNode converts an object element back into a typed record.
func ObjectFromNode(n xmltree.Node) (*Object, error) {
	o := &Object{}

	category := localPartOf(n.AttrValue("type"))
	if category == "" {
		return nil, errors.NewInvalidRecordError("object is missing its xsi:type category")
	}
	o.ObjectCategory = category

	o.ObjectIdentifiers = identifiersFromNodes("objectIdentifier", n.Children("objectIdentifier"))
	if len(o.ObjectIdentifiers) == 0 {
		return nil, errors.NewInvalidRecordError("object must carry at least one objectIdentifier")
	}

	for _, c := range n.Children("significantProperties") {
		o.SignificantProperties = append(o.SignificantProperties, SignificantProperty{
			Type:  c.ChildValue("significantPropertiesType"),
			Value: c.ChildValue("significantPropertiesValue"),
		})
	}

	for _, c := range n.Children("objectCharacteristics") {
		oc, err := objectCharacteristicsFromNode(c)
		if err != nil {
			return nil, err
		}
		o.ObjectCharacteristics = append(o.ObjectCharacteristics, oc)
	}

	o.OriginalName = n.ChildValue("originalName")

	for _, c := range n.Children("storage") {
		s := Storage{Medium: c.ChildValue("storageMedium")}
		if loc, ok := c.Child("contentLocation"); ok {
			s.ContentLocation = &ContentLocation{
				Type:  loc.ChildValue("contentLocationType"),
				Value: loc.ChildValue("contentLocationValue"),
			}
		}
		o.Storage = append(o.Storage, s)
	}

	for _, c := range n.Children("relationship") {
		o.Relationships = append(o.Relationships, Relationship{
			Type:                     c.ChildValue("relationshipType"),
			SubType:                  c.ChildValue("relationshipSubType"),
			RelatedObjectIdentifiers: identifiersFromNodes("relatedObjectIdentifier", c.Children("relatedObjectIdentifier")),
			RelatedEventIdentifiers:  identifiersFromNodes("relatedEventIdentifier", c.Children("relatedEventIdentifier")),
		})
	}

	o.LinkingEventIdentifiers = identifiersFromNodes("linkingEventIdentifier", n.Children("linkingEventIdentifier"))
	o.LinkingRightsStatementIdentifiers = identifiersFromNodes("linkingRightsStatementIdentifier", n.Children("linkingRightsStatementIdentifier"))

	return o, nil
}

func objectCharacteristicsFromNode(n xmltree.Node) (ObjectCharacteristics, error) {
	oc := ObjectCharacteristics{}

	if v := n.ChildValue("compositionLevel"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			return oc, errors.NewInvalidRecordError(fmt.Sprintf("compositionLevel %q is not an integer", v))
		}
		oc.CompositionLevel = &level
	}

	for _, c := range n.Children("fixity") {
		oc.Fixity = append(oc.Fixity, Fixity{
			MessageDigestAlgorithm:  c.ChildValue("messageDigestAlgorithm"),
			MessageDigest:           c.ChildValue("messageDigest"),
			MessageDigestOriginator: c.ChildValue("messageDigestOriginator"),
		})
	}

	if v := n.ChildValue("size"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return oc, errors.NewInvalidRecordError(fmt.Sprintf("size %q is not an integer", v))
		}
		oc.Size = &size
	}

	for _, c := range n.Children("format") {
		f := Format{}
		if d, ok := c.Child("formatDesignation"); ok {
			f.Designation = &FormatDesignation{
				Name:    d.ChildValue("formatName"),
				Version: d.ChildValue("formatVersion"),
			}
		}
		if r, ok := c.Child("formatRegistry"); ok {
			f.Registry = &FormatRegistry{
				Name: r.ChildValue("formatRegistryName"),
				Key:  r.ChildValue("formatRegistryKey"),
				Role: r.ChildValue("formatRegistryRole"),
			}
		}
		for _, note := range c.Children("formatNote") {
			f.Notes = append(f.Notes, note.Value())
		}
		oc.Formats = append(oc.Formats, f)
	}

	return oc, nil
}
