package types

import (
	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/xmltree"
)

// RightsStatementDecoratorFunc modifies a rights statement under construction.
type RightsStatementDecoratorFunc func(*RightsStatement)

// Rights collects one or more rights statements. The record is registered
// under one identifier per statement.
type Rights struct {
	RightsStatements []RightsStatement
}

// RightsStatement asserts a permission basis and the acts granted on it.
type RightsStatement struct {
	RightsStatementIdentifier Identifier
	RightsBasis               string
	Copyright                 *CopyrightInformation
	License                   *LicenseInformation
	Statute                   *StatuteInformation
	RightsGranted             []RightsGranted
	LinkingObjectIdentifiers  []LinkingObjectIdentifier
	LinkingAgentIdentifiers   []LinkingAgentIdentifier
}

type CopyrightInformation struct {
	Status            string
	Jurisdiction      string
	DeterminationDate string
	Notes             []string
}

type LicenseInformation struct {
	Terms string
	Notes []string
}

type StatuteInformation struct {
	Jurisdiction      string
	Citation          string
	DeterminationDate string
	Notes             []string
}

// RightsGranted names an act that may be performed, with restrictions and
// an optional validity period.
type RightsGranted struct {
	Act          string
	Restrictions []string
	TermOfGrant  *TermOfGrant
	Notes        []string
}

type TermOfGrant struct {
	StartDate string
	EndDate   string
}

// NewRights creates a rights record from one or more statements.
func NewRights(statements ...RightsStatement) *Rights {
	return &Rights{RightsStatements: statements}
}

// NewRightsStatement creates a statement with the given basis (copyright,
// license, statute, institutional policy or other).
func NewRightsStatement(id Identifier, basis string, decorators ...RightsStatementDecoratorFunc) RightsStatement {
	s := RightsStatement{
		RightsStatementIdentifier: id,
		RightsBasis:               basis,
	}

	for _, decorator := range decorators {
		decorator(&s)
	}

	return s
}

func (r *Rights) Kind() Kind {
	return KindRights
}

func (r *Rights) Identifiers() []Identifier {
	ids := make([]Identifier, 0, len(r.RightsStatements))
	for _, s := range r.RightsStatements {
		ids = append(ids, s.RightsStatementIdentifier)
	}
	return ids
}

func (r *Rights) premisRecord() {}

// ToNode projects the rights record in PREMIS schema order.
func (r *Rights) ToNode() xmltree.Node {
	nodes := make([]xmltree.Node, 0, len(r.RightsStatements))
	for _, s := range r.RightsStatements {
		nodes = append(nodes, s.toNode())
	}
	return xmltree.Element("premis:rights", nodes...)
}

func (s RightsStatement) toNode() xmltree.Node {
	nodes := []xmltree.Node{
		identifierNode("rightsStatementIdentifier", s.RightsStatementIdentifier),
		xmltree.Text("premis:rightsBasis", s.RightsBasis),
	}

	if c := s.Copyright; c != nil {
		info := []xmltree.Node{}
		info = appendText(info, "copyrightStatus", c.Status)
		info = appendText(info, "copyrightJurisdiction", c.Jurisdiction)
		info = appendText(info, "copyrightStatusDeterminationDate", c.DeterminationDate)
		for _, note := range c.Notes {
			info = appendText(info, "copyrightNote", note)
		}
		nodes = append(nodes, xmltree.Element("premis:copyrightInformation", info...))
	}

	if l := s.License; l != nil {
		info := []xmltree.Node{}
		info = appendText(info, "licenseTerms", l.Terms)
		for _, note := range l.Notes {
			info = appendText(info, "licenseNote", note)
		}
		nodes = append(nodes, xmltree.Element("premis:licenseInformation", info...))
	}

	if st := s.Statute; st != nil {
		info := []xmltree.Node{}
		info = appendText(info, "statuteJurisdiction", st.Jurisdiction)
		info = appendText(info, "statuteCitation", st.Citation)
		info = appendText(info, "statuteInformationDeterminationDate", st.DeterminationDate)
		for _, note := range st.Notes {
			info = appendText(info, "statuteNote", note)
		}
		nodes = append(nodes, xmltree.Element("premis:statuteInformation", info...))
	}

	for _, g := range s.RightsGranted {
		granted := []xmltree.Node{
			xmltree.Text("premis:act", g.Act),
		}
		for _, restriction := range g.Restrictions {
			granted = appendText(granted, "restriction", restriction)
		}
		if g.TermOfGrant != nil {
			term := []xmltree.Node{}
			term = appendText(term, "startDate", g.TermOfGrant.StartDate)
			term = appendText(term, "endDate", g.TermOfGrant.EndDate)
			granted = append(granted, xmltree.Element("premis:termOfGrant", term...))
		}
		for _, note := range g.Notes {
			granted = appendText(granted, "rightsGrantedNote", note)
		}
		nodes = append(nodes, xmltree.Element("premis:rightsGranted", granted...))
	}

	for _, lo := range s.LinkingObjectIdentifiers {
		object := []xmltree.Node{
			xmltree.Text("premis:linkingObjectIdentifierType", lo.Identifier.Type),
			xmltree.Text("premis:linkingObjectIdentifierValue", lo.Identifier.Value),
		}
		for _, role := range lo.Roles {
			object = appendText(object, "linkingObjectRole", role)
		}
		nodes = append(nodes, xmltree.Element("premis:linkingObjectIdentifier", object...))
	}

	for _, la := range s.LinkingAgentIdentifiers {
		agent := []xmltree.Node{
			xmltree.Text("premis:linkingAgentIdentifierType", la.Identifier.Type),
			xmltree.Text("premis:linkingAgentIdentifierValue", la.Identifier.Value),
		}
		for _, role := range la.Roles {
			agent = appendText(agent, "linkingAgentRole", role)
		}
		nodes = append(nodes, xmltree.Element("premis:linkingAgentIdentifier", agent...))
	}

	return xmltree.Element("premis:rightsStatement", nodes...)
}

// RightsFromNode converts a rights element back into a typed record.
func RightsFromNode(n xmltree.Node) (*Rights, error) {
	statements := n.Children("rightsStatement")
	if len(statements) == 0 {
		return nil, errors.NewInvalidRecordError("rights must carry at least one rightsStatement")
	}

	r := &Rights{RightsStatements: make([]RightsStatement, 0, len(statements))}

	for _, c := range statements {
		s, err := rightsStatementFromNode(c)
		if err != nil {
			return nil, err
		}
		r.RightsStatements = append(r.RightsStatements, s)
	}

	return r, nil
}

func rightsStatementFromNode(n xmltree.Node) (RightsStatement, error) {
	idNode, ok := n.Child("rightsStatementIdentifier")
	if !ok {
		return RightsStatement{}, errors.NewInvalidRecordError("rightsStatement is missing its rightsStatementIdentifier")
	}

	s := RightsStatement{
		RightsStatementIdentifier: identifierFromNode("rightsStatementIdentifier", idNode),
		RightsBasis:               n.ChildValue("rightsBasis"),
	}

	if c, ok := n.Child("copyrightInformation"); ok {
		s.Copyright = &CopyrightInformation{
			Status:            c.ChildValue("copyrightStatus"),
			Jurisdiction:      c.ChildValue("copyrightJurisdiction"),
			DeterminationDate: c.ChildValue("copyrightStatusDeterminationDate"),
			Notes:             valuesOf(c.Children("copyrightNote")),
		}
	}

	if l, ok := n.Child("licenseInformation"); ok {
		s.License = &LicenseInformation{
			Terms: l.ChildValue("licenseTerms"),
			Notes: valuesOf(l.Children("licenseNote")),
		}
	}

	if st, ok := n.Child("statuteInformation"); ok {
		s.Statute = &StatuteInformation{
			Jurisdiction:      st.ChildValue("statuteJurisdiction"),
			Citation:          st.ChildValue("statuteCitation"),
			DeterminationDate: st.ChildValue("statuteInformationDeterminationDate"),
			Notes:             valuesOf(st.Children("statuteNote")),
		}
	}

	for _, g := range n.Children("rightsGranted") {
		granted := RightsGranted{
			Act:          g.ChildValue("act"),
			Restrictions: valuesOf(g.Children("restriction")),
			Notes:        valuesOf(g.Children("rightsGrantedNote")),
		}
		if term, ok := g.Child("termOfGrant"); ok {
			granted.TermOfGrant = &TermOfGrant{
				StartDate: term.ChildValue("startDate"),
				EndDate:   term.ChildValue("endDate"),
			}
		}
		s.RightsGranted = append(s.RightsGranted, granted)
	}

	for _, c := range n.Children("linkingObjectIdentifier") {
		s.LinkingObjectIdentifiers = append(s.LinkingObjectIdentifiers, LinkingObjectIdentifier{
			Identifier: identifierFromNode("linkingObjectIdentifier", c),
			Roles:      valuesOf(c.Children("linkingObjectRole")),
		})
	}

	for _, c := range n.Children("linkingAgentIdentifier") {
		s.LinkingAgentIdentifiers = append(s.LinkingAgentIdentifiers, LinkingAgentIdentifier{
			Identifier: identifierFromNode("linkingAgentIdentifier", c),
			Roles:      valuesOf(c.Children("linkingAgentRole")),
		})
	}

	return s, nil
}
