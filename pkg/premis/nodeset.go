package premis

import (
	"fmt"

	"github.com/diwise/premis-registry/pkg/premis/errors"
	"github.com/diwise/premis-registry/pkg/premis/types"
)

// NodeSet is an insertion ordered collection of records of a single kind,
// indexed by every identifier its records are registered under.
type NodeSet struct {
	records []types.Record
	index   map[types.Identifier]int
}

func NewNodeSet() *NodeSet {
	return &NodeSet{index: map[types.Identifier]int{}}
}

// Add registers a record under all of its identifiers. Registration is all
// or nothing: if any identifier is already taken, or repeated within the
// record itself, the set is left untouched and the returned error names the
// colliding identifier.
func (s *NodeSet) Add(record types.Record) error {
	ids := record.Identifiers()
	if len(ids) == 0 {
		return errors.NewInvalidRecordError(fmt.Sprintf("%s record has no identifiers", record.Kind()))
	}

	seen := make(map[types.Identifier]struct{}, len(ids))
	for _, id := range ids {
		if _, taken := s.index[id]; taken {
			return errors.NewDuplicateIdentifierError(fmt.Sprintf("a %s record is already registered under identifier %s", record.Kind(), id))
		}
		if _, repeated := seen[id]; repeated {
			return errors.NewDuplicateIdentifierError(fmt.Sprintf("%s record repeats identifier %s", record.Kind(), id))
		}
		seen[id] = struct{}{}
	}

	position := len(s.records)
	s.records = append(s.records, record)
	for _, id := range ids {
		s.index[id] = position
	}

	return nil
}

// Get returns the record registered under the given identifier, if any.
func (s *NodeSet) Get(id types.Identifier) (types.Record, bool) {
	if position, ok := s.index[id]; ok {
		return s.records[position], true
	}
	return nil, false
}

// GetAll returns the records registered under the given identifiers, in
// the order asked for. A single miss fails the whole lookup.
func (s *NodeSet) GetAll(ids ...types.Identifier) ([]types.Record, error) {
	records := make([]types.Record, 0, len(ids))

	for _, id := range ids {
		record, ok := s.Get(id)
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("no record registered under identifier %s", id))
		}
		records = append(records, record)
	}

	return records, nil
}

// All returns the records in insertion order. The returned slice is shared
// with the set and must be treated as read only.
func (s *NodeSet) All() []types.Record {
	return s.records
}

func (s *NodeSet) Size() int {
	return len(s.records)
}
