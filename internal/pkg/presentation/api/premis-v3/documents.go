package premisv3

import (
	"bytes"
	"net/http"

	"github.com/diwise/premis-registry/internal/pkg/application/registry"
	"github.com/diwise/premis-registry/internal/pkg/presentation/api/premis-v3/auth"
	"github.com/diwise/premis-registry/pkg/premis"
	premiserrors "github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NewImportDocumentHandler handles POST requests with complete PREMIS
// documents to be imported into a collection
func NewImportDocumentHandler(
	app registry.CollectionRegistry,
	authenticator auth.Enticator) http.HandlerFunc {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		collection := GetCollectionFromContext(ctx)

		ctx, span := tracer.Start(ctx, "import-document",
			trace.WithAttributes(attribute.String(TraceAttributePremisCollection, collection)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		err = authenticator.CheckAccess(ctx, r, collection, allKinds)
		if err != nil {
			log.Warn("access not granted", "err", err.Error())
			premiserrors.ReportUnauthorizedRequest(w, "unauthorized", traceID)
			return
		}

		var result *premis.ImportResult
		result, err = app.ImportDocument(ctx, collection, r.Body)
		if err != nil {
			log.Error("document import failed", "err", err.Error())
			mapRegistryError(w, err, traceID)
			return
		}

		log.Info("document imported", "records", result.Total())

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(result.Bytes())
	})
}

// NewExportDocumentHandler handles GET requests for a collection rendered
// as a single PREMIS document
func NewExportDocumentHandler(
	app registry.CollectionRegistry,
	authenticator auth.Enticator) http.HandlerFunc {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		collection := GetCollectionFromContext(ctx)

		ctx, span := tracer.Start(ctx, "export-document",
			trace.WithAttributes(attribute.String(TraceAttributePremisCollection, collection)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		err = authenticator.CheckAccess(ctx, r, collection, allKinds)
		if err != nil {
			log.Warn("access not granted", "err", err.Error())
			premiserrors.ReportUnauthorizedRequest(w, "unauthorized", traceID)
			return
		}

		// render to a buffer so that errors do not leave a half written response
		body := &bytes.Buffer{}

		err = app.ExportDocument(ctx, collection, body)
		if err != nil {
			log.Error("document export failed", "err", err.Error())
			mapRegistryError(w, err, traceID)
			return
		}

		w.Header().Add("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		w.Write(body.Bytes())
	})
}
