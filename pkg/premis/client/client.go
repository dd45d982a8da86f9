package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/diwise/premis-registry/pkg/premis"
	"github.com/diwise/premis-registry/pkg/premis/document"
	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate moq -rm -out ../../test/registryclient_mock.go . RegistryClient

type RegistryClient interface {
	ImportDocument(ctx context.Context, doc io.Reader, headers map[string][]string) (*premis.ImportResult, error)
	AddRecord(ctx context.Context, record types.Record, headers map[string][]string) (*premis.AddRecordResult, error)
	RetrieveRecord(ctx context.Context, kind types.Kind, id types.Identifier, headers map[string][]string) (types.Record, error)
	ListRecords(ctx context.Context, kind types.Kind, headers map[string][]string) ([]types.Record, error)
	ExportDocument(ctx context.Context, headers map[string][]string) (*premis.Aggregate, error)
}

// DefaultCollection is the collection requests are routed to when no other
// collection has been selected.
const DefaultCollection string = "default"

func Debug(enabled string) func(*registryClient) {
	return func(c *registryClient) {
		c.debug = (enabled == "true")
	}
}

func Collection(collection string) func(*registryClient) {
	return func(c *registryClient) {
		c.collection = collection
	}
}

func NewRegistryClient(registry string, options ...func(*registryClient)) RegistryClient {
	c := &registryClient{
		baseURL:    registry,
		collection: DefaultCollection,
		debug:      false,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

const (
	TraceAttributePremisCollection string = "premis-collection"
	TraceAttributeRecordKind       string = "record-kind"
	TraceAttributeRecordIdentifier string = "record-identifier"
)

var tracer = otel.Tracer("premis-registry-client")

type registryClient struct {
	baseURL    string
	collection string
	debug      bool
}

func (c registryClient) ImportDocument(ctx context.Context, doc io.Reader, headers map[string][]string) (*premis.ImportResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "import-document",
		trace.WithAttributes(attribute.String(TraceAttributePremisCollection, c.collection)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	resp, respBody, err := c.callRegistry(
		ctx, http.MethodPost, c.baseURL+"/premis/v3/documents", doc, headers,
	)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		contentType := resp.Header.Get("Content-Type")
		err = errors.NewErrorFromProblemReport(resp.StatusCode, contentType, respBody)
		return nil, err
	}

	if resp.StatusCode != http.StatusCreated {
		err = fmt.Errorf("unexpected response code %d (%w)", resp.StatusCode, errors.ErrInternal)
		return nil, err
	}

	return premis.NewImportResult(respBody)
}

func (c registryClient) AddRecord(ctx context.Context, record types.Record, headers map[string][]string) (*premis.AddRecordResult, error) {
	var err error

	kind := record.Kind()

	ctx, span := tracer.Start(ctx, "add-record",
		trace.WithAttributes(attribute.String(TraceAttributePremisCollection, c.collection)),
		trace.WithAttributes(attribute.String(TraceAttributeRecordKind, string(kind))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body := &bytes.Buffer{}
	err = document.Write(body, document.Fragment(record))
	if err != nil {
		return nil, err
	}

	resp, respBody, err := c.callRegistry(
		ctx, http.MethodPost, c.baseURL+"/premis/v3/records/"+string(kind), body, headers,
	)

	if err != nil {
		return nil, err
	}

	log := logging.GetFromContext(ctx)

	if resp.StatusCode >= http.StatusBadRequest {
		contentType := resp.Header.Get("Content-Type")
		err = errors.NewErrorFromProblemReport(resp.StatusCode, contentType, respBody)
		return nil, err
	}

	if resp.StatusCode != http.StatusCreated {
		err = fmt.Errorf("unexpected response code %d (%w)", resp.StatusCode, errors.ErrInternal)
		return nil, err
	}

	location := resp.Header.Get("Location")
	if location == "" {
		log.Warn("registry failed to provide a location header with created response")
		location = "/premis/v3/records/" + string(kind) + "?" + identifierQuery(record.Identifiers()[0])
	}

	return premis.NewAddRecordResult(location), nil
}

func (c registryClient) RetrieveRecord(ctx context.Context, kind types.Kind, id types.Identifier, headers map[string][]string) (types.Record, error) {
	var err error

	ctx, span := tracer.Start(ctx, "retrieve-record",
		trace.WithAttributes(attribute.String(TraceAttributePremisCollection, c.collection)),
		trace.WithAttributes(attribute.String(TraceAttributeRecordKind, string(kind))),
		trace.WithAttributes(attribute.String(TraceAttributeRecordIdentifier, id.String())),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := c.callRegistry(
		ctx, http.MethodGet, c.baseURL+"/premis/v3/records/"+string(kind)+"?"+identifierQuery(id), nil, headers,
	)

	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		contentType := response.Header.Get("Content-Type")
		if response.StatusCode >= http.StatusBadRequest && response.StatusCode <= http.StatusInternalServerError {
			err = errors.NewErrorFromProblemReport(response.StatusCode, contentType, responseBody)
			return nil, err
		}

		err = fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, errors.ErrInternal)
		return nil, err
	}

	return document.ParseFragment(bytes.NewReader(responseBody))
}

func (c registryClient) ListRecords(ctx context.Context, kind types.Kind, headers map[string][]string) ([]types.Record, error) {
	var err error

	ctx, span := tracer.Start(ctx, "list-records",
		trace.WithAttributes(attribute.String(TraceAttributePremisCollection, c.collection)),
		trace.WithAttributes(attribute.String(TraceAttributeRecordKind, string(kind))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := c.callRegistry(
		ctx, http.MethodGet, c.baseURL+"/premis/v3/records/"+string(kind), nil, headers,
	)

	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		contentType := response.Header.Get("Content-Type")
		if response.StatusCode >= http.StatusBadRequest && response.StatusCode <= http.StatusInternalServerError {
			err = errors.NewErrorFromProblemReport(response.StatusCode, contentType, responseBody)
			return nil, err
		}

		err = fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, errors.ErrInternal)
		return nil, err
	}

	var doc *document.File
	doc, err = document.New(bytes.NewReader(responseBody))
	if err != nil {
		return nil, err
	}

	return recordsOfKind(doc, kind)
}

func (c registryClient) ExportDocument(ctx context.Context, headers map[string][]string) (*premis.Aggregate, error) {
	var err error

	ctx, span := tracer.Start(ctx, "export-document",
		trace.WithAttributes(attribute.String(TraceAttributePremisCollection, c.collection)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := c.callRegistry(
		ctx, http.MethodGet, c.baseURL+"/premis/v3/documents", nil, headers,
	)

	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		contentType := response.Header.Get("Content-Type")
		if response.StatusCode >= http.StatusBadRequest && response.StatusCode <= http.StatusInternalServerError {
			err = errors.NewErrorFromProblemReport(response.StatusCode, contentType, responseBody)
			return nil, err
		}

		err = fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, errors.ErrInternal)
		return nil, err
	}

	return premis.New(premis.FromReader(bytes.NewReader(responseBody)))
}

func (c registryClient) callRegistry(ctx context.Context, method, endpoint string, body io.Reader, headers map[string][]string) (*http.Response, []byte, error) {
	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	if body != nil {
		req.Header.Add("Content-Type", "application/xml")
	}

	if c.collection != DefaultCollection {
		req.Header.Add("Premis-Collection", c.collection)
	}

	for header, headerValue := range headers {
		for _, val := range headerValue {
			req.Header.Add(header, val)
		}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusNotFound {
			reqbytes, _ := httputil.DumpRequest(req, false)
			respbytes, _ := httputil.DumpResponse(resp, false)

			log := logging.GetFromContext(ctx)
			log.Error("request failed", "request", string(reqbytes), "response", string(respbytes))
		}
	}

	return resp, respBody, nil
}

func identifierQuery(id types.Identifier) string {
	query := url.Values{}
	query.Set("identifierType", id.Type)
	query.Set("identifierValue", id.Value)

	return query.Encode()
}

func recordsOfKind(doc *document.File, kind types.Kind) ([]types.Record, error) {
	switch kind {
	case types.KindObject:
		objects, err := doc.Objects()
		if err != nil {
			return nil, err
		}

		records := make([]types.Record, 0, len(objects))
		for _, o := range objects {
			records = append(records, o)
		}
		return records, nil
	case types.KindEvent:
		events, err := doc.Events()
		if err != nil {
			return nil, err
		}

		records := make([]types.Record, 0, len(events))
		for _, e := range events {
			records = append(records, e)
		}
		return records, nil
	case types.KindAgent:
		agents, err := doc.Agents()
		if err != nil {
			return nil, err
		}

		records := make([]types.Record, 0, len(agents))
		for _, a := range agents {
			records = append(records, a)
		}
		return records, nil
	case types.KindRights:
		rights, err := doc.Rights()
		if err != nil {
			return nil, err
		}

		records := make([]types.Record, 0, len(rights))
		for _, r := range rights {
			records = append(records, r)
		}
		return records, nil
	}

	return nil, errors.NewInvalidRequestError(fmt.Sprintf("unknown record kind %s", kind))
}
