package premis

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	premiserrors "github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/matryer/is"
)

func TestNewRequiresARecordSourceOrRecords(t *testing.T) {
	is := is.New(t)

	_, err := New()
	is.True(errors.Is(err, premiserrors.ErrInvalidConfiguration)) // neither records nor a document should fail

	_, err = New(WithEvents(), WithObjects())
	is.True(errors.Is(err, premiserrors.ErrInvalidConfiguration)) // empty record sequences count as nothing supplied
}

func TestNewRejectsRecordsAndADocumentTogether(t *testing.T) {
	is := is.New(t)

	_, err := New(
		WithEvents(types.NewEvent(types.Identifier{Type: "UUID", Value: "e1"}, "ingestion", "2017-06-01T12:00:00Z")),
		FromReader(strings.NewReader(smallDocument)),
	)
	is.True(errors.Is(err, premiserrors.ErrInvalidConfiguration))
}

func TestNewRejectsMultipleDocumentSources(t *testing.T) {
	is := is.New(t)

	_, err := New(
		FromReader(strings.NewReader(smallDocument)),
		FromReader(strings.NewReader(smallDocument)),
	)
	is.True(errors.Is(err, premiserrors.ErrInvalidConfiguration))
}

func TestNewFromRecords(t *testing.T) {
	is := is.New(t)

	a, err := New(
		WithObjects(types.NewObject(types.Identifier{Type: "UUID", Value: "d1"}, "file")),
		WithEvents(types.NewEvent(types.Identifier{Type: "UUID", Value: "e1"}, "ingestion", "2017-06-01T12:00:00Z")),
	)
	is.NoErr(err)
	is.Equal(a.Size(), 2)
	is.Equal(a.Path(), "") // no document, no provenance
}

func TestNewPropagatesSeedDuplicates(t *testing.T) {
	is := is.New(t)

	_, err := New(WithEvents(
		types.NewEvent(types.Identifier{Type: "local", Value: "1"}, "ingestion", "2017-06-01T12:00:00Z"),
		types.NewEvent(types.Identifier{Type: "local", Value: "1"}, "fixity check", "2017-06-02T12:00:00Z"),
	))
	is.True(errors.Is(err, premiserrors.ErrDuplicateIdentifier))
}

func TestNewFromReader(t *testing.T) {
	is := is.New(t)

	a, err := New(FromReader(strings.NewReader(smallDocument)))
	is.NoErr(err)

	is.Equal(len(a.Objects()), 1)
	is.Equal(len(a.Events()), 1)
	is.Equal(len(a.Agents()), 1)
	is.Equal(len(a.AllRights()), 1)
}

func TestNewFromFileRecordsProvenance(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "premis.xml")
	is.NoErr(os.WriteFile(path, []byte(smallDocument), 0600))

	a, err := New(FromFile(path))
	is.NoErr(err)
	is.Equal(a.Path(), path)

	a.SetPath("/somewhere/else.xml")
	is.Equal(a.Path(), "/somewhere/else.xml")
}

func TestImportFailsFastAndKeepsEarlierRecords(t *testing.T) {
	is := is.New(t)

	imp := &stubImporter{
		events: []*types.Event{
			types.NewEvent(types.Identifier{Type: "local", Value: "1"}, "ingestion", "2017-06-01T12:00:00Z"),
			types.NewEvent(types.Identifier{Type: "local", Value: "1"}, "fixity check", "2017-06-02T12:00:00Z"),
		},
		agents: []*types.Agent{
			types.NewAgent(types.Identifier{Type: "local", Value: "a1"}, "ingest daemon", "software"),
		},
	}

	_, err := New(WithImporter(imp))
	is.True(errors.Is(err, premiserrors.ErrDuplicateIdentifier))

	a, err := New(WithEvents(types.NewEvent(types.Identifier{Type: "UUID", Value: "seed"}, "ingestion", "2017-06-01T12:00:00Z")))
	is.NoErr(err)

	err = a.ImportFrom(imp)
	is.True(errors.Is(err, premiserrors.ErrDuplicateIdentifier))
	is.Equal(len(a.Events()), 2) // the first imported event should still be there
	is.Equal(len(a.Agents()), 0) // agents are imported after events, so none should have been added
}

func TestRecordsAreOrderedByKindThenInsertion(t *testing.T) {
	is := is.New(t)

	a, err := New(WithAgents(types.NewAgent(types.Identifier{Type: "local", Value: "a1"}, "archivist", "person")))
	is.NoErr(err)

	is.NoErr(a.AddEvent(types.NewEvent(types.Identifier{Type: "UUID", Value: "e1"}, "ingestion", "2017-06-01T12:00:00Z")))
	is.NoErr(a.AddRights(types.NewRights(types.NewRightsStatement(types.Identifier{Type: "local", Value: "r1"}, "copyright"))))
	is.NoErr(a.AddObject(types.NewObject(types.Identifier{Type: "UUID", Value: "d1"}, "file")))

	kinds := []types.Kind{}
	for _, r := range a.Records() {
		kinds = append(kinds, r.Kind())
	}
	is.Equal(kinds, []types.Kind{types.KindObject, types.KindEvent, types.KindRights, types.KindAgent})
}

func TestLookupMissesShareOneContract(t *testing.T) {
	is := is.New(t)

	a, err := New(WithObjects(types.NewObject(types.Identifier{Type: "UUID", Value: "d1"}, "file")))
	is.NoErr(err)

	missing := types.Identifier{Type: "UUID", Value: "nope"}

	_, err = a.Object(missing)
	is.True(errors.Is(err, premiserrors.ErrNotFound))
	_, err = a.Event(missing)
	is.True(errors.Is(err, premiserrors.ErrNotFound))
	_, err = a.Agent(missing)
	is.True(errors.Is(err, premiserrors.ErrNotFound))
	_, err = a.Rights(missing)
	is.True(errors.Is(err, premiserrors.ErrNotFound))
	_, err = a.Record(types.KindObject, missing)
	is.True(errors.Is(err, premiserrors.ErrNotFound))
}

func TestRightsAreReachableThroughEveryStatementIdentifier(t *testing.T) {
	is := is.New(t)

	r := types.NewRights(
		types.NewRightsStatement(types.Identifier{Type: "local", Value: "r1"}, "copyright"),
		types.NewRightsStatement(types.Identifier{Type: "local", Value: "r2"}, "license"),
	)

	a, err := New(WithRights(r))
	is.NoErr(err)

	byFirst, err := a.Rights(types.Identifier{Type: "local", Value: "r1"})
	is.NoErr(err)
	bySecond, err := a.Rights(types.Identifier{Type: "local", Value: "r2"})
	is.NoErr(err)
	is.Equal(byFirst, bySecond) // both statement identifiers should reach the same record
}

func TestAddRecordRoutesOnKind(t *testing.T) {
	is := is.New(t)

	a, err := New(WithObjects(types.NewObject(types.Identifier{Type: "UUID", Value: "d1"}, "file")))
	is.NoErr(err)

	var record types.Record = types.NewEvent(types.Identifier{Type: "UUID", Value: "e1"}, "ingestion", "2017-06-01T12:00:00Z")
	is.NoErr(a.AddRecord(record))

	records, err := a.RecordsOfKind(types.KindEvent)
	is.NoErr(err)
	is.Equal(len(records), 1)
}

func TestEqualityIgnoresInsertionOrder(t *testing.T) {
	is := is.New(t)

	e1 := types.NewEvent(types.Identifier{Type: "UUID", Value: "e1"}, "ingestion", "2017-06-01T12:00:00Z")
	e2 := types.NewEvent(types.Identifier{Type: "UUID", Value: "e2"}, "fixity check", "2017-06-02T12:00:00Z")
	o1 := types.NewObject(types.Identifier{Type: "UUID", Value: "d1"}, "file")

	a, err := New(WithEvents(e1, e2), WithObjects(o1))
	is.NoErr(err)

	b, err := New(WithEvents(e2, e1), WithObjects(o1))
	is.NoErr(err)

	is.True(a.Equal(b))
	is.True(b.Equal(a))
}

func TestEqualityDetectsDifferingRecords(t *testing.T) {
	is := is.New(t)

	a, err := New(WithEvents(types.NewEvent(types.Identifier{Type: "UUID", Value: "e1"}, "ingestion", "2017-06-01T12:00:00Z")))
	is.NoErr(err)

	b, err := New(WithEvents(types.NewEvent(types.Identifier{Type: "UUID", Value: "e1"}, "ingestion", "2018-01-01T00:00:00Z")))
	is.NoErr(err)

	is.Equal(a.Equal(b), false) // same identifier but different contents should differ
	is.Equal(a.Equal(nil), false)

	c, err := New(WithEvents(
		types.NewEvent(types.Identifier{Type: "UUID", Value: "e1"}, "ingestion", "2017-06-01T12:00:00Z"),
		types.NewEvent(types.Identifier{Type: "UUID", Value: "e2"}, "ingestion", "2017-06-01T12:00:00Z"),
	))
	is.NoErr(err)
	is.Equal(a.Equal(c), false) // differing sizes should differ
}

func TestRoundTripThroughDocument(t *testing.T) {
	is := is.New(t)

	a, err := New(FromReader(strings.NewReader(smallDocument)))
	is.NoErr(err)

	buf := &bytes.Buffer{}
	is.NoErr(a.Write(buf))

	b, err := New(FromReader(buf))
	is.NoErr(err)

	is.True(a.Equal(b)) // a written aggregate should read back as an equal one
}

func TestValidateIsNotImplemented(t *testing.T) {
	is := is.New(t)

	a, err := New(WithObjects(types.NewObject(types.Identifier{Type: "UUID", Value: "d1"}, "file")))
	is.NoErr(err)

	is.True(errors.Is(a.Validate(), premiserrors.ErrNotImplemented))
}

type stubImporter struct {
	events []*types.Event
	agents []*types.Agent
}

func (s *stubImporter) Events() ([]*types.Event, error) {
	return s.events, nil
}

func (s *stubImporter) Agents() ([]*types.Agent, error) {
	return s.agents, nil
}

func (s *stubImporter) Rights() ([]*types.Rights, error) {
	return nil, nil
}

func (s *stubImporter) Objects() ([]*types.Object, error) {
	return nil, nil
}

var smallDocument string = `<?xml version="1.0" encoding="UTF-8"?>
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
