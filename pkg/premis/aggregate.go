// Package premis holds PREMIS v3 preservation records in an identifier
// indexed aggregate with a lossless projection to and from XML documents.
//
// An aggregate keeps one registry per record kind. Identifiers are the sole
// collision key: adding a record whose identifier is already registered for
// its kind fails, and records are never silently replaced. Records can only
// be added, never removed.
package premis

import (
	"fmt"
	"io"

	"github.com/diwise/premis-registry/pkg/premis/document"
	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/diwise/premis-registry/pkg/premis/xmltree"
)

// Importer is the boundary through which an aggregate is populated from an
// external document. document.File implements it.
type Importer interface {
	Events() ([]*types.Event, error)
	Agents() ([]*types.Agent, error)
	Rights() ([]*types.Rights, error)
	Objects() ([]*types.Object, error)
}

// Aggregate is a set of preservation records covering the four PREMIS
// kinds, with an optional provenance path naming the document it came from.
//
// An aggregate performs no internal locking. It must be confined to a
// single goroutine while records are added and may be shared for reading
// once fully populated.
type Aggregate struct {
	objects *NodeSet
	events  *NodeSet
	agents  *NodeSet
	rights  *NodeSet

	path string
}

// Option configures a new aggregate.
type Option func(*settings)

type settings struct {
	objects []*types.Object
	events  []*types.Event
	agents  []*types.Agent
	rights  []*types.Rights

	haveRecords bool
	sources     []func() (Importer, string, error)
}

// WithObjects seeds the aggregate with the given object records.
func WithObjects(objects ...*types.Object) Option {
	return func(cfg *settings) {
		cfg.objects = append(cfg.objects, objects...)
		cfg.haveRecords = cfg.haveRecords || len(objects) > 0
	}
}

// WithEvents seeds the aggregate with the given event records.
func WithEvents(events ...*types.Event) Option {
	return func(cfg *settings) {
		cfg.events = append(cfg.events, events...)
		cfg.haveRecords = cfg.haveRecords || len(events) > 0
	}
}

// WithAgents seeds the aggregate with the given agent records.
func WithAgents(agents ...*types.Agent) Option {
	return func(cfg *settings) {
		cfg.agents = append(cfg.agents, agents...)
		cfg.haveRecords = cfg.haveRecords || len(agents) > 0
	}
}

// WithRights seeds the aggregate with the given rights records.
func WithRights(rights ...*types.Rights) Option {
	return func(cfg *settings) {
		cfg.rights = append(cfg.rights, rights...)
		cfg.haveRecords = cfg.haveRecords || len(rights) > 0
	}
}

// FromFile populates the aggregate from the PREMIS document stored at path
// and records the path as the aggregate's provenance.
func FromFile(path string) Option {
	return func(cfg *settings) {
		cfg.sources = append(cfg.sources, func() (Importer, string, error) {
			doc, err := document.NewFromFile(path)
			if err != nil {
				return nil, "", err
			}
			return doc, path, nil
		})
	}
}

// FromReader populates the aggregate from a PREMIS document read from r.
func FromReader(r io.Reader) Option {
	return func(cfg *settings) {
		cfg.sources = append(cfg.sources, func() (Importer, string, error) {
			doc, err := document.New(r)
			if err != nil {
				return nil, "", err
			}
			return doc, "", nil
		})
	}
}

// WithImporter populates the aggregate from a custom importer.
func WithImporter(imp Importer) Option {
	return func(cfg *settings) {
		cfg.sources = append(cfg.sources, func() (Importer, string, error) {
			return imp, "", nil
		})
	}
}

// New creates an aggregate from exactly one of two sources: explicit record
// sequences, or a single document. Supplying both, or neither, is a
// configuration error and no records are touched.
func New(options ...Option) (*Aggregate, error) {
	cfg := &settings{}
	for _, option := range options {
		option(cfg)
	}

	if cfg.haveRecords && len(cfg.sources) > 0 {
		return nil, errors.NewInvalidConfigurationError("explicit records and a document source are mutually exclusive")
	}

	if !cfg.haveRecords && len(cfg.sources) == 0 {
		return nil, errors.NewInvalidConfigurationError("either records or a document source must be provided")
	}

	if len(cfg.sources) > 1 {
		return nil, errors.NewInvalidConfigurationError("more than one document source provided")
	}

	a := &Aggregate{
		objects: NewNodeSet(),
		events:  NewNodeSet(),
		agents:  NewNodeSet(),
		rights:  NewNodeSet(),
	}

	if len(cfg.sources) == 1 {
		imp, path, err := cfg.sources[0]()
		if err != nil {
			return nil, err
		}

		if err := a.ImportFrom(imp); err != nil {
			return nil, err
		}

		a.path = path
		return a, nil
	}

	for _, o := range cfg.objects {
		if err := a.AddObject(o); err != nil {
			return nil, err
		}
	}
	for _, e := range cfg.events {
		if err := a.AddEvent(e); err != nil {
			return nil, err
		}
	}
	for _, agent := range cfg.agents {
		if err := a.AddAgent(agent); err != nil {
			return nil, err
		}
	}
	for _, r := range cfg.rights {
		if err := a.AddRights(r); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// ImportFrom adds every record the importer provides, events first, then
// agents, rights and objects. Import fails fast: on the first error the
// aggregate keeps everything added before it and nothing is rolled back.
func (a *Aggregate) ImportFrom(imp Importer) error {
	events, err := imp.Events()
	if err != nil {
		return err
	}
	for _, e := range events {
		if err := a.AddEvent(e); err != nil {
			return err
		}
	}

	agents, err := imp.Agents()
	if err != nil {
		return err
	}
	for _, agent := range agents {
		if err := a.AddAgent(agent); err != nil {
			return err
		}
	}

	rights, err := imp.Rights()
	if err != nil {
		return err
	}
	for _, r := range rights {
		if err := a.AddRights(r); err != nil {
			return err
		}
	}

	objects, err := imp.Objects()
	if err != nil {
		return err
	}
	for _, o := range objects {
		if err := a.AddObject(o); err != nil {
			return err
		}
	}

	return nil
}

func (a *Aggregate) AddObject(o *types.Object) error {
	return a.objects.Add(o)
}

func (a *Aggregate) AddEvent(e *types.Event) error {
	return a.events.Add(e)
}

func (a *Aggregate) AddAgent(agent *types.Agent) error {
	return a.agents.Add(agent)
}

func (a *Aggregate) AddRights(r *types.Rights) error {
	return a.rights.Add(r)
}

// AddRecord routes a record to the registry for its kind.
func (a *Aggregate) AddRecord(record types.Record) error {
	set, err := a.registryFor(record.Kind())
	if err != nil {
		return err
	}
	return set.Add(record)
}

// Object returns the object registered under the given identifier.
func (a *Aggregate) Object(id types.Identifier) (*types.Object, error) {
	record, ok := a.objects.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no object registered under identifier %s", id))
	}
	return record.(*types.Object), nil
}

// Event returns the event registered under the given identifier.
func (a *Aggregate) Event(id types.Identifier) (*types.Event, error) {
	record, ok := a.events.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no event registered under identifier %s", id))
	}
	return record.(*types.Event), nil
}

// Agent returns the agent registered under the given identifier.
func (a *Aggregate) Agent(id types.Identifier) (*types.Agent, error) {
	record, ok := a.agents.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no agent registered under identifier %s", id))
	}
	return record.(*types.Agent), nil
}

// Rights returns the rights record registered under the given identifier,
// which may be any of its statement identifiers.
func (a *Aggregate) Rights(id types.Identifier) (*types.Rights, error) {
	record, ok := a.rights.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no rights record registered under identifier %s", id))
	}
	return record.(*types.Rights), nil
}

// Record returns the record of the given kind registered under the given
// identifier.
func (a *Aggregate) Record(kind types.Kind, id types.Identifier) (types.Record, error) {
	set, err := a.registryFor(kind)
	if err != nil {
		return nil, err
	}

	record, ok := set.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no %s registered under identifier %s", kind, id))
	}

	return record, nil
}

// RecordsOfKind returns the records of one kind in insertion order. The
// returned slice is shared with the aggregate and must be treated as read
// only.
func (a *Aggregate) RecordsOfKind(kind types.Kind) ([]types.Record, error) {
	set, err := a.registryFor(kind)
	if err != nil {
		return nil, err
	}
	return set.All(), nil
}

// Objects returns all object records in insertion order.
func (a *Aggregate) Objects() []*types.Object {
	records := a.objects.All()
	objects := make([]*types.Object, 0, len(records))
	for _, r := range records {
		objects = append(objects, r.(*types.Object))
	}
	return objects
}

// Events returns all event records in insertion order.
func (a *Aggregate) Events() []*types.Event {
	records := a.events.All()
	events := make([]*types.Event, 0, len(records))
	for _, r := range records {
		events = append(events, r.(*types.Event))
	}
	return events
}

// Agents returns all agent records in insertion order.
func (a *Aggregate) Agents() []*types.Agent {
	records := a.agents.All()
	agents := make([]*types.Agent, 0, len(records))
	for _, r := range records {
		agents = append(agents, r.(*types.Agent))
	}
	return agents
}

// AllRights returns all rights records in insertion order.
func (a *Aggregate) AllRights() []*types.Rights {
	records := a.rights.All()
	rights := make([]*types.Rights, 0, len(records))
	for _, r := range records {
		rights = append(rights, r.(*types.Rights))
	}
	return rights
}

// Records returns every record of the aggregate, objects first, then
// events, rights and agents, each kind in insertion order. This is also
// the order records appear in when the aggregate is written out.
func (a *Aggregate) Records() []types.Record {
	records := make([]types.Record, 0, a.Size())
	records = append(records, a.objects.All()...)
	records = append(records, a.events.All()...)
	records = append(records, a.rights.All()...)
	records = append(records, a.agents.All()...)
	return records
}

// Size returns the total number of records across all kinds.
func (a *Aggregate) Size() int {
	return a.objects.Size() + a.events.Size() + a.rights.Size() + a.agents.Size()
}

// Equal reports whether two aggregates hold the same multiset of records,
// compared by serialized projection and ignoring insertion order. It runs
// in linear time over the number of records.
func (a *Aggregate) Equal(other *Aggregate) bool {
	if other == nil {
		return false
	}

	if a.Size() != other.Size() {
		return false
	}

	counts := make(map[string]int, a.Size())
	for _, r := range a.Records() {
		counts[r.ToNode().String()]++
	}

	for _, r := range other.Records() {
		key := r.ToNode().String()
		counts[key]--
		if counts[key] < 0 {
			return false
		}
	}

	return true
}

// ToNode projects every record under a fresh document root.
func (a *Aggregate) ToNode() xmltree.Node {
	records := a.Records()
	nodes := make([]xmltree.Node, 0, len(records))
	for _, r := range records {
		nodes = append(nodes, r.ToNode())
	}
	return document.Root(nodes...)
}

// Write serializes the aggregate as a complete PREMIS document.
func (a *Aggregate) Write(w io.Writer, options ...document.WriteOption) error {
	return document.Write(w, a.ToNode(), options...)
}

// WriteFile serializes the aggregate to a file at path.
func (a *Aggregate) WriteFile(path string, options ...document.WriteOption) error {
	return document.WriteFile(path, a.ToNode(), options...)
}

// Validate is reserved for schema validation of the aggregate's document
// projection and always fails until an XSD backed validator is hooked in.
func (a *Aggregate) Validate() error {
	return errors.ErrNotImplemented
}

// Path returns the provenance path of the aggregate, if it has one.
func (a *Aggregate) Path() string {
	return a.path
}

// SetPath records the path the aggregate is associated with.
func (a *Aggregate) SetPath(path string) {
	a.path = path
}

func (a *Aggregate) registryFor(kind types.Kind) (*NodeSet, error) {
	switch kind {
	case types.KindObject:
		return a.objects, nil
	case types.KindEvent:
		return a.events, nil
	case types.KindAgent:
		return a.agents, nil
	case types.KindRights:
		return a.rights, nil
	}

	return nil, errors.NewInvalidRecordError(fmt.Sprintf("unknown record kind \"%s\"", kind))
}
