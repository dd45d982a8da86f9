package registry

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diwise/premis-registry/pkg/premis"
	premiserrors "github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/matryer/is"
)

func TestNewWithEmptyConfig(t *testing.T) {
	is := is.New(t)

	_, err := New(context.Background(), &Config{})

	is.NoErr(err)
}

func TestNewPreloadsCollectionFromSource(t *testing.T) {
	is := is.New(t)

	source := filepath.Join(t.TempDir(), "default.xml")
	err := os.WriteFile(source, []byte(testDocument), 0600)
	is.NoErr(err)

	app, err := New(context.Background(), &Config{
		Collections: []CollectionConfig{{ID: "default", Name: "Default collection", Source: source}},
	})
	is.NoErr(err)

	records, err := app.ListRecords(context.Background(), "default", types.KindEvent)
	is.NoErr(err)
	is.Equal(len(records), 1) // preloaded collection should hold the event from the source document
}

func TestNewFailsOnMissingSource(t *testing.T) {
	is := is.New(t)

	_, err := New(context.Background(), &Config{
		Collections: []CollectionConfig{{ID: "default", Source: "/no/such/file.xml"}},
	})

	is.True(err != nil) // a collection source that can not be read should fail setup
}

func TestImportDocumentCountsAddedRecords(t *testing.T) {
	is, app := setupRegistry(t)

	result, err := app.ImportDocument(context.Background(), "default", strings.NewReader(testDocument))
	is.NoErr(err)

	is.Equal(result.ObjectsAdded, 1)
	is.Equal(result.EventsAdded, 1)
	is.Equal(result.AgentsAdded, 1)
	is.Equal(result.RightsAdded, 1)
	is.Equal(result.Total(), 4)
}

func TestImportDocumentIntoUnknownCollectionFails(t *testing.T) {
	is, app := setupRegistry(t)

	_, err := app.ImportDocument(context.Background(), "nosuchcollection", strings.NewReader(testDocument))

	is.True(errors.Is(err, premiserrors.ErrUnknownCollection))
}

func TestImportDocumentRejectsUnparsableDocuments(t *testing.T) {
	is, app := setupRegistry(t)

	_, err := app.ImportDocument(context.Background(), "default", strings.NewReader("<premis:premis"))

	is.True(errors.Is(err, premiserrors.ErrInvalidDocument))
}

func TestImportDocumentKeepsEarlierRecordsOnDuplicate(t *testing.T) {
	is, app := setupRegistry(t)

	_, err := app.ImportDocument(context.Background(), "default", strings.NewReader(testDocument))
	is.NoErr(err)

	_, err = app.ImportDocument(context.Background(), "default", strings.NewReader(conflictingDocument))
	is.True(errors.Is(err, premiserrors.ErrDuplicateIdentifier))

	records, err := app.ListRecords(context.Background(), "default", types.KindEvent)
	is.NoErr(err)
	is.Equal(len(records), 2) // the event added before the duplicate should remain
}

func TestAddAndRetrieveRecord(t *testing.T) {
	is, app := setupRegistry(t)

	agent := types.NewAgent(types.Identifier{Type: "local", Value: "a17"}, "archivist", "person")
	err := app.AddRecord(context.Background(), "default", agent)
	is.NoErr(err)

	record, err := app.RetrieveRecord(context.Background(), "default", types.KindAgent, types.Identifier{Type: "local", Value: "a17"})
	is.NoErr(err)
	is.Equal(record.Kind(), types.KindAgent)
}

func TestAddRecordWithDuplicateIdentifierFails(t *testing.T) {
	is, app := setupRegistry(t)

	agent := types.NewAgent(types.Identifier{Type: "local", Value: "a17"}, "archivist", "person")
	err := app.AddRecord(context.Background(), "default", agent)
	is.NoErr(err)

	err = app.AddRecord(context.Background(), "default", types.NewAgent(types.Identifier{Type: "local", Value: "a17"}, "someone else", "person"))
	is.True(errors.Is(err, premiserrors.ErrDuplicateIdentifier))
}

func TestRetrieveMissingRecordReturnsNotFound(t *testing.T) {
	is, app := setupRegistry(t)

	_, err := app.RetrieveRecord(context.Background(), "default", types.KindObject, types.Identifier{Type: "UUID", Value: "missing"})

	is.True(errors.Is(err, premiserrors.ErrNotFound))
}

func TestExportedDocumentRoundTrips(t *testing.T) {
	is, app := setupRegistry(t)

	_, err := app.ImportDocument(context.Background(), "default", strings.NewReader(testDocument))
	is.NoErr(err)

	exported := &bytes.Buffer{}
	err = app.ExportDocument(context.Background(), "default", exported)
	is.NoErr(err)

	got, err := premis.New(premis.FromReader(exported))
	is.NoErr(err)

	want, err := premis.New(premis.FromReader(strings.NewReader(testDocument)))
	is.NoErr(err)

	is.True(got.Equal(want)) // exported document should hold the same records as the imported one
}

func setupRegistry(t *testing.T) (*is.I, CollectionRegistry) {
	is := is.New(t)

	app, err := New(context.Background(), &Config{
		Collections: []CollectionConfig{{ID: "default", Name: "Default collection"}},
	})
	is.NoErr(err)

	return is, app
}

var testDocument string = `<?xml version="1.0" encoding="UTF-8"?>
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

// conflictingDocument adds a new event before re-registering e1, so a failed
// import leaves a visible trace.
var conflictingDocument string = `<?xml version="1.0" encoding="UTF-8"?>
<premis:premis xmlns:premis="http://www.loc.gov/premis/v3" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" version="3.0">
  <premis:event>
    <premis:eventIdentifier>
      <premis:eventIdentifierType>UUID</premis:eventIdentifierType>
      <premis:eventIdentifierValue>e2</premis:eventIdentifierValue>
    </premis:eventIdentifier>
    <premis:eventType>fixity check</premis:eventType>
    <premis:eventDateTime>2017-06-02T08:00:00Z</premis:eventDateTime>
  </premis:event>
  <premis:event>
    <premis:eventIdentifier>
      <premis:eventIdentifierType>UUID</premis:eventIdentifierType>
      <premis:eventIdentifierValue>e1</premis:eventIdentifierValue>
    </premis:eventIdentifier>
    <premis:eventType>ingestion</premis:eventType>
    <premis:eventDateTime>2017-06-01T12:00:00Z</premis:eventDateTime>
  </premis:event>
</premis:premis>`
