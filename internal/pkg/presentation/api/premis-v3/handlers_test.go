package premisv3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/premis-registry/internal/pkg/application/registry"
	"github.com/diwise/premis-registry/pkg/premis"
	"github.com/diwise/premis-registry/pkg/premis/document"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
)

func TestImportDocument(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, body := newTestRequest(is, ts, "POST", "/premis/v3/documents", bytes.NewBufferString(documentXML))

	is.Equal(resp.StatusCode, http.StatusCreated) // Check status code
	is.Equal(resp.Header.Get("Content-Type"), "application/json")

	result, err := premis.NewImportResult([]byte(body))
	is.NoErr(err)
	is.Equal(result.Total(), 4) // all four records should have been imported
}

func TestImportDocumentWithWrongContentTypeReturnsUnsupportedMediaType(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	req, _ := http.NewRequest("POST", ts.URL+"/premis/v3/documents", bytes.NewBufferString(documentXML))
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err) // http request failed
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusUnsupportedMediaType) // Check status code
}

func TestImportDocumentWithBadDataReturnsBadRequest(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "POST", "/premis/v3/documents", bytes.NewBufferString("this is not my xml"))

	is.Equal(resp.StatusCode, http.StatusBadRequest) // Check status code
}

func TestImportDocumentTwiceReturnsConflict(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "POST", "/premis/v3/documents", bytes.NewBufferString(documentXML))
	is.Equal(resp.StatusCode, http.StatusCreated)

	resp, _ = newTestRequest(is, ts, "POST", "/premis/v3/documents", bytes.NewBufferString(documentXML))

	is.Equal(resp.StatusCode, http.StatusConflict) // Check status code
	is.Equal(resp.Header.Get("Content-Type"), "application/problem+json")
}

func TestImportDocumentIntoUnknownCollectionReturnsNotFound(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	req, _ := http.NewRequest("POST", ts.URL+"/premis/v3/documents", bytes.NewBufferString(documentXML))
	req.Header.Add("Content-Type", "application/xml")
	req.Header.Add("Premis-Collection", "nosuchcollection")
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err) // http request failed
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusNotFound) // Check status code
}

func TestExportedDocumentRoundTrips(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "POST", "/premis/v3/documents", bytes.NewBufferString(documentXML))
	is.Equal(resp.StatusCode, http.StatusCreated)

	resp, body := newTestRequest(is, ts, "GET", "/premis/v3/documents", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("Content-Type"), "application/xml")

	exported, err := premis.New(premis.FromReader(strings.NewReader(body)))
	is.NoErr(err)

	imported, err := premis.New(premis.FromReader(strings.NewReader(documentXML)))
	is.NoErr(err)

	is.True(exported.Equal(imported)) // exported document should round trip
}

func TestAddRecord(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "POST", "/premis/v3/records/event", bytes.NewBufferString(eventXML))

	is.Equal(resp.StatusCode, http.StatusCreated) // Check status code

	location := resp.Header.Get("Location")
	is.True(location != "") // should return the location of the new record

	resp, body := newTestRequest(is, ts, "GET", location, nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	record, err := document.ParseFragment(strings.NewReader(body))
	is.NoErr(err)
	is.Equal(record.Kind(), types.KindEvent)
}

func TestAddRecordOfMismatchedKindReturnsBadRequest(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "POST", "/premis/v3/records/object", bytes.NewBufferString(eventXML))

	is.Equal(resp.StatusCode, http.StatusBadRequest) // Check status code
}

func TestAddRecordTwiceReturnsConflict(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "POST", "/premis/v3/records/event", bytes.NewBufferString(eventXML))
	is.Equal(resp.StatusCode, http.StatusCreated)

	resp, _ = newTestRequest(is, ts, "POST", "/premis/v3/records/event", bytes.NewBufferString(eventXML))

	is.Equal(resp.StatusCode, http.StatusConflict) // Check status code
}

func TestRetrieveRecordOfUnknownKindReturnsNotFound(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "GET", "/premis/v3/records/frogs", nil)

	is.Equal(resp.StatusCode, http.StatusNotFound) // Check status code
}

func TestRetrieveMissingRecordReturnsNotFound(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "GET", "/premis/v3/records/object?identifierType=UUID&identifierValue=missing", nil)

	is.Equal(resp.StatusCode, http.StatusNotFound) // Check status code
	is.Equal(resp.Header.Get("Content-Type"), "application/problem+json")
}

func TestRetrieveRecordWithHalfAnIdentifierReturnsBadRequest(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "GET", "/premis/v3/records/object?identifierType=UUID", nil)

	is.Equal(resp.StatusCode, http.StatusBadRequest) // Check status code
}

func TestListRecordsReturnsADocumentWithAllRecordsOfTheKind(t *testing.T) {
	is, ts := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "POST", "/premis/v3/documents", bytes.NewBufferString(documentXML))
	is.Equal(resp.StatusCode, http.StatusCreated)

	resp, body := newTestRequest(is, ts, "GET", "/premis/v3/records/event", nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	doc, err := document.New(strings.NewReader(body))
	is.NoErr(err)

	events, err := doc.Events()
	is.NoErr(err)
	is.Equal(len(events), 1) // the listing should contain the single imported event

	objects, err := doc.Objects()
	is.NoErr(err)
	is.Equal(len(objects), 0) // records of other kinds should not be included
}

func TestRequestsWithoutTokenAreRejectedWhenPoliciesRequireOne(t *testing.T) {
	is, ts := setupTestWithPolicies(t, tokenRequiringOpaModule)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, "POST", "/premis/v3/documents", bytes.NewBufferString(documentXML))
	is.Equal(resp.StatusCode, http.StatusUnauthorized) // Check status code

	req, _ := http.NewRequest("POST", ts.URL+"/premis/v3/documents", bytes.NewBufferString(documentXML))
	req.Header.Add("Content-Type", "application/xml")
	req.Header.Add("Authorization", "Bearer sometoken")
	authorized, err := http.DefaultClient.Do(req)
	is.NoErr(err) // http request failed
	defer authorized.Body.Close()

	is.Equal(authorized.StatusCode, http.StatusCreated) // a valid token should let the request through
}

func newTestRequest(is *is.I, ts *httptest.Server, method, path string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	req.Header.Add("Content-Type", "application/xml")

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err) // http request failed
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	is.NoErr(err) // failed to read response body

	return resp, string(respBody)
}

func setupTest(t *testing.T) (*is.I, *httptest.Server) {
	return setupTestWithPolicies(t, opaModule)
}

func setupTestWithPolicies(t *testing.T, policies string) (*is.I, *httptest.Server) {
	is := is.New(t)

	ctx := context.Background()

	app, err := registry.New(ctx, &registry.Config{
		Collections: []registry.CollectionConfig{{ID: "default", Name: "Default collection"}},
	})
	is.NoErr(err)

	r := chi.NewRouter()
	err = RegisterHandlers(ctx, r, bytes.NewBufferString(policies), app)
	is.NoErr(err)

	ts := httptest.NewServer(r)

	return is, ts
}

const opaModule string = `
package premis.authz

default allow := false

allow = response {
    response := {
    }
}
`

const tokenRequiringOpaModule string = `
package premis.authz

default allow := false

allow = response {
    input.token == "sometoken"

    response := {
    }
}
`

var documentXML string = `<?xml version="1.0" encoding="UTF-8"?>
<premis:premis xmlns:premis="http://www.loc.gov/premis/v3" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" version="3.0">
  <premis:object xsi:type="premis:file">
    <premis:objectIdentifier>
      <premis:objectIdentifierType>UUID</premis:objectIdentifierType>
      <premis:objectIdentifierValue>d1</premis:objectIdentifierValue>
    </premis:objectIdentifier>
    <premis:originalName>report.pdf</premis:originalName>
  </premis:object>
  <premis:event>
    <premis:eventIdentifier>
      <premis:eventIdentifierType>UUID</premis:eventIdentifierType>
      <premis:eventIdentifierValue>e1</premis:eventIdentifierValue>
    </premis:eventIdentifier>
    <premis:eventType>ingestion</premis:eventType>
    <premis:eventDateTime>2017-06-01T12:00:00Z</premis:eventDateTime>
  </premis:event>
  <premis:agent>
    <premis:agentIdentifier>
      <premis:agentIdentifierType>local</premis:agentIdentifierType>
      <premis:agentIdentifierValue>a1</premis:agentIdentifierValue>
    </premis:agentIdentifier>
    <premis:agentName>ingest daemon</premis:agentName>
    <premis:agentType>software</premis:agentType>
  </premis:agent>
  <premis:rights>
    <premis:rightsStatement>
      <premis:rightsStatementIdentifier>
        <premis:rightsStatementIdentifierType>local</premis:rightsStatementIdentifierType>
        <premis:rightsStatementIdentifierValue>r1</premis:rightsStatementIdentifierValue>
      </premis:rightsStatementIdentifier>
      <premis:rightsBasis>copyright</premis:rightsBasis>
    </premis:rightsStatement>
  </premis:rights>
</premis:premis>`

var eventXML string = `<premis:event xmlns:premis="http://www.loc.gov/premis/v3">
  <premis:eventIdentifier>
    <premis:eventIdentifierType>UUID</premis:eventIdentifierType>
    <premis:eventIdentifierValue>e77</premis:eventIdentifierValue>
  </premis:eventIdentifier>
  <premis:eventType>fixity check</premis:eventType>
  <premis:eventDateTime>2017-06-02T08:00:00Z</premis:eventDateTime>
</premis:event>`
