package registry

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/diwise/premis-registry/pkg/premis"
	"github.com/diwise/premis-registry/pkg/premis/document"
	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("premis-registry/registry")

const (
	TraceAttributeCollection string = "premis-collection"
	TraceAttributeRecordKind string = "record-kind"
)

// CollectionRegistry manages one record aggregate per configured collection
// and serializes concurrent access to each of them.
type CollectionRegistry interface {
	ImportDocument(ctx context.Context, collectionID string, doc io.Reader) (*premis.ImportResult, error)
	AddRecord(ctx context.Context, collectionID string, record types.Record) error
	RetrieveRecord(ctx context.Context, collectionID string, kind types.Kind, id types.Identifier) (types.Record, error)
	ListRecords(ctx context.Context, collectionID string, kind types.Kind) ([]types.Record, error)
	ExportDocument(ctx context.Context, collectionID string, w io.Writer) error
}

type collection struct {
	name string

	mu        sync.RWMutex
	aggregate *premis.Aggregate
}

type registryApp struct {
	collections map[string]*collection
}

// noRecords seeds a collection that starts out empty.
type noRecords struct{}

func (noRecords) Events() ([]*types.Event, error)   { return nil, nil }
func (noRecords) Agents() ([]*types.Agent, error)   { return nil, nil }
func (noRecords) Rights() ([]*types.Rights, error)  { return nil, nil }
func (noRecords) Objects() ([]*types.Object, error) { return nil, nil }

// New creates a registry holding one aggregate per configured collection.
// Collections with a source document are preloaded from it, and a source
// that can not be loaded fails the entire setup.
func New(ctx context.Context, cfg *Config) (CollectionRegistry, error) {
	log := logging.GetFromContext(ctx)

	app := &registryApp{
		collections: map[string]*collection{},
	}

	for _, cc := range cfg.Collections {
		var aggregate *premis.Aggregate
		var err error

		if cc.Source != "" {
			aggregate, err = premis.New(premis.FromFile(cc.Source))
		} else {
			aggregate, err = premis.New(premis.WithImporter(noRecords{}))
		}

		if err != nil {
			return nil, fmt.Errorf("failed to set up collection %s: %w", cc.ID, err)
		}

		log.Info("collection configured", "collection", cc.ID, "records", aggregate.Size())

		app.collections[cc.ID] = &collection{name: cc.Name, aggregate: aggregate}
	}

	return app, nil
}

func (app *registryApp) ImportDocument(ctx context.Context, collectionID string, doc io.Reader) (*premis.ImportResult, error) {
	var err error

	_, span := tracer.Start(ctx, "import-document",
		trace.WithAttributes(attribute.String(TraceAttributeCollection, collectionID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	c, ok := app.collections[collectionID]
	if !ok {
		err = errors.NewUnknownCollectionError(fmt.Sprintf("unknown collection %s", collectionID))
		return nil, err
	}

	var parsed *document.File
	parsed, err = document.New(doc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	before := countByKind(c.aggregate)

	err = c.aggregate.ImportFrom(parsed)
	if err != nil {
		return nil, err
	}

	after := countByKind(c.aggregate)

	return &premis.ImportResult{
		ObjectsAdded: after.objects - before.objects,
		EventsAdded:  after.events - before.events,
		AgentsAdded:  after.agents - before.agents,
		RightsAdded:  after.rights - before.rights,
	}, nil
}

func (app *registryApp) AddRecord(ctx context.Context, collectionID string, record types.Record) error {
	var err error

	_, span := tracer.Start(ctx, "add-record",
		trace.WithAttributes(
			attribute.String(TraceAttributeCollection, collectionID),
			attribute.String(TraceAttributeRecordKind, string(record.Kind())),
		),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	c, ok := app.collections[collectionID]
	if !ok {
		err = errors.NewUnknownCollectionError(fmt.Sprintf("unknown collection %s", collectionID))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.aggregate.AddRecord(record)
	return err
}

func (app *registryApp) RetrieveRecord(ctx context.Context, collectionID string, kind types.Kind, id types.Identifier) (types.Record, error) {
	var err error

	_, span := tracer.Start(ctx, "retrieve-record",
		trace.WithAttributes(
			attribute.String(TraceAttributeCollection, collectionID),
			attribute.String(TraceAttributeRecordKind, string(kind)),
		),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	c, ok := app.collections[collectionID]
	if !ok {
		err = errors.NewUnknownCollectionError(fmt.Sprintf("unknown collection %s", collectionID))
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var record types.Record
	record, err = c.aggregate.Record(kind, id)
	return record, err
}

func (app *registryApp) ListRecords(ctx context.Context, collectionID string, kind types.Kind) ([]types.Record, error) {
	var err error

	_, span := tracer.Start(ctx, "list-records",
		trace.WithAttributes(
			attribute.String(TraceAttributeCollection, collectionID),
			attribute.String(TraceAttributeRecordKind, string(kind)),
		),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	c, ok := app.collections[collectionID]
	if !ok {
		err = errors.NewUnknownCollectionError(fmt.Sprintf("unknown collection %s", collectionID))
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	shared, err := c.aggregate.RecordsOfKind(kind)
	if err != nil {
		return nil, err
	}

	// callers outlive the read lock, so they get their own slice
	records := make([]types.Record, len(shared))
	copy(records, shared)

	return records, nil
}

func (app *registryApp) ExportDocument(ctx context.Context, collectionID string, w io.Writer) error {
	var err error

	_, span := tracer.Start(ctx, "export-document",
		trace.WithAttributes(attribute.String(TraceAttributeCollection, collectionID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	c, ok := app.collections[collectionID]
	if !ok {
		err = errors.NewUnknownCollectionError(fmt.Sprintf("unknown collection %s", collectionID))
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	err = c.aggregate.Write(w)
	return err
}

type kindCount struct {
	objects int
	events  int
	agents  int
	rights  int
}

func countByKind(a *premis.Aggregate) kindCount {
	return kindCount{
		objects: len(a.Objects()),
		events:  len(a.Events()),
		agents:  len(a.Agents()),
		rights:  len(a.AllRights()),
	}
}
