package premisv3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diwise/premis-registry/internal/pkg/application/registry"
	"github.com/diwise/premis-registry/internal/pkg/presentation/api/premis-v3/auth"
	premiserrors "github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("premis-registry/api")

const (
	TraceAttributePremisCollection string = "premis-collection"
	TraceAttributeRecordKind       string = "record-kind"
	TraceAttributeRecordIdentifier string = "record-identifier"
)

func RegisterHandlers(ctx context.Context, r *chi.Mux, policies io.Reader, app registry.CollectionRegistry) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/premis/v3", func(r chi.Router) {
		r.Use(
			Logger(logging.GetFromContext(ctx)),
			CollectionMiddleware(),
			RequiredContentTypes([]string{"application/xml", "text/xml"}),
		)

		r.Get("/documents", NewExportDocumentHandler(app, authenticator))
		r.Post("/documents", NewImportDocumentHandler(app, authenticator))

		r.Get("/records/{kind}", NewRetrieveRecordHandler(app, authenticator))
		r.Post("/records/{kind}", NewAddRecordHandler(app, authenticator))
	})

	return nil
}

type collectionContextKey struct {
	name string
}

var collectionCtxKey = &collectionContextKey{"premis-collection"}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequiredContentTypes(validTypes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			isValidContentType := true

			if len(contentType) > 0 {
				isValidContentType = false

				for _, t := range validTypes {
					if strings.HasPrefix(contentType, t) {
						isValidContentType = true
						break
					}
				}
			}

			if isValidContentType {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			}
		})
	}
}

// CollectionMiddleware packs any collection id into the context
func CollectionMiddleware() func(http.Handler) http.Handler {
	collectionHeaderName := http.CanonicalHeaderKey("Premis-Collection")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			collection := "default"

			collectionHeader := r.Header[collectionHeaderName]
			if len(collectionHeader) > 0 {
				collection = collectionHeader[0]
			}

			if labeler, found := otelhttp.LabelerFromContext(r.Context()); found {
				labeler.Add(attribute.String(TraceAttributePremisCollection, collection))
			}

			ctx := context.WithValue(r.Context(), collectionCtxKey, collection)

			ctx = logging.NewContextWithLogger(
				ctx,
				logging.GetFromContext(r.Context()),
				"collection",
				collection,
			)

			if collection != "default" {
				w.Header().Add(collectionHeaderName, collection)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCollectionFromContext extracts the collection id, if any, from the provided context
func GetCollectionFromContext(ctx context.Context) string {
	collection, ok := ctx.Value(collectionCtxKey).(string)

	if !ok {
		return ""
	}

	return collection
}

func traceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)

	if spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}

	return ""
}

var allKinds = []string{
	string(types.KindObject),
	string(types.KindEvent),
	string(types.KindAgent),
	string(types.KindRights),
}

// kindFromParam maps a kind segment from the request path to a record kind.
func kindFromParam(param string) (types.Kind, bool) {
	kind := types.Kind(param)

	switch kind {
	case types.KindObject, types.KindEvent, types.KindAgent, types.KindRights:
		return kind, true
	}

	return "", false
}

func mapRegistryError(w http.ResponseWriter, err error, traceID string) {
	switch {
	case errors.Is(err, premiserrors.ErrUnknownCollection):
		premiserrors.ReportUnknownCollectionError(w, err.Error(), traceID)
	case errors.Is(err, premiserrors.ErrDuplicateIdentifier):
		premiserrors.ReportNewDuplicateIdentifierError(w, err.Error(), traceID)
	case errors.Is(err, premiserrors.ErrNotFound):
		premiserrors.ReportNotFoundError(w, err.Error(), traceID)
	case errors.Is(err, premiserrors.ErrInvalidDocument):
		premiserrors.ReportNewInvalidDocument(w, err.Error(), traceID)
	case errors.Is(err, premiserrors.ErrInvalidRecord):
		premiserrors.ReportNewInvalidRecord(w, err.Error(), traceID)
	case errors.Is(err, premiserrors.ErrInvalidRequest):
		premiserrors.ReportNewInvalidRequest(w, err.Error(), traceID)
	default:
		premiserrors.ReportNewInternalError(w, err.Error(), traceID)
	}
}
