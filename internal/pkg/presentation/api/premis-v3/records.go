package premisv3

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/diwise/premis-registry/internal/pkg/application/registry"
	"github.com/diwise/premis-registry/internal/pkg/presentation/api/premis-v3/auth"
	"github.com/diwise/premis-registry/pkg/premis/document"
	premiserrors "github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/diwise/premis-registry/pkg/premis/xmltree"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NewAddRecordHandler handles POST requests with a single record fragment
// to be added to a collection
func NewAddRecordHandler(
	app registry.CollectionRegistry,
	authenticator auth.Enticator) http.HandlerFunc {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		collection := GetCollectionFromContext(ctx)
		kindParam := chi.URLParam(r, "kind")

		ctx, span := tracer.Start(ctx, "add-record",
			trace.WithAttributes(
				attribute.String(TraceAttributePremisCollection, collection),
				attribute.String(TraceAttributeRecordKind, kindParam),
			),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		kind, ok := kindFromParam(kindParam)
		if !ok {
			err = fmt.Errorf("unknown record kind %s", kindParam)
			premiserrors.ReportNotFoundError(w, err.Error(), traceID)
			return
		}

		err = authenticator.CheckAccess(ctx, r, collection, []string{string(kind)})
		if err != nil {
			log.Warn("access not granted", "err", err.Error())
			premiserrors.ReportUnauthorizedRequest(w, "unauthorized", traceID)
			return
		}

		var record types.Record
		record, err = document.ParseFragment(r.Body)
		if err != nil {
			log.Error("failed to parse record fragment", "err", err.Error())
			mapRegistryError(w, err, traceID)
			return
		}

		if record.Kind() != kind {
			err = premiserrors.NewInvalidRecordError(fmt.Sprintf("expected a record of kind %s, got %s", kind, record.Kind()))
			premiserrors.ReportNewInvalidRecord(w, err.Error(), traceID)
			return
		}

		err = app.AddRecord(ctx, collection, record)
		if err != nil {
			log.Error("failed to add record", "err", err.Error())
			mapRegistryError(w, err, traceID)
			return
		}

		w.Header().Add("Location", recordLocation(kind, record.Identifiers()[0]))
		w.WriteHeader(http.StatusCreated)
	})
}

// NewRetrieveRecordHandler handles GET requests for records of one kind,
// either a single record addressed by identifier or all of them wrapped in
// a document
func NewRetrieveRecordHandler(
	app registry.CollectionRegistry,
	authenticator auth.Enticator) http.HandlerFunc {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		collection := GetCollectionFromContext(ctx)
		kindParam := chi.URLParam(r, "kind")

		idType := r.URL.Query().Get("identifierType")
		idValue := r.URL.Query().Get("identifierValue")

		ctx, span := tracer.Start(ctx, "retrieve-records",
			trace.WithAttributes(
				attribute.String(TraceAttributePremisCollection, collection),
				attribute.String(TraceAttributeRecordKind, kindParam),
			),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		kind, ok := kindFromParam(kindParam)
		if !ok {
			err = fmt.Errorf("unknown record kind %s", kindParam)
			premiserrors.ReportNotFoundError(w, err.Error(), traceID)
			return
		}

		err = authenticator.CheckAccess(ctx, r, collection, []string{string(kind)})
		if err != nil {
			log.Warn("access not granted", "err", err.Error())
			premiserrors.ReportUnauthorizedRequest(w, "unauthorized", traceID)
			return
		}

		if idType == "" && idValue == "" {
			var records []types.Record
			records, err = app.ListRecords(ctx, collection, kind)
			if err != nil {
				log.Error("failed to list records", "err", err.Error())
				mapRegistryError(w, err, traceID)
				return
			}

			nodes := make([]xmltree.Node, 0, len(records))
			for _, record := range records {
				nodes = append(nodes, record.ToNode())
			}

			w.Header().Add("Content-Type", "application/xml")
			w.WriteHeader(http.StatusOK)
			err = document.Write(w, document.Root(nodes...))
			return
		}

		if idType == "" || idValue == "" {
			err = premiserrors.NewInvalidRequestError("identifierType and identifierValue must be supplied together")
			premiserrors.ReportNewInvalidRequest(w, err.Error(), traceID)
			return
		}

		id := types.Identifier{Type: idType, Value: idValue}
		span.SetAttributes(attribute.String(TraceAttributeRecordIdentifier, id.String()))

		var record types.Record
		record, err = app.RetrieveRecord(ctx, collection, kind, id)
		if err != nil {
			log.Error("failed to retrieve record", "err", err.Error())
			mapRegistryError(w, err, traceID)
			return
		}

		w.Header().Add("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		err = document.Write(w, document.Fragment(record))
	})
}

func recordLocation(kind types.Kind, id types.Identifier) string {
	query := url.Values{}
	query.Set("identifierType", id.Type)
	query.Set("identifierValue", id.Value)

	return "/premis/v3/records/" + string(kind) + "?" + query.Encode()
}
