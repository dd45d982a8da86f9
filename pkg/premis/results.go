package premis

import (
	"encoding/json"
)

// AddRecordResult holds the canonical location of a newly added record.
type AddRecordResult struct {
	location string
}

func NewAddRecordResult(location string) *AddRecordResult {
	return &AddRecordResult{
		location: location,
	}
}

func (r AddRecordResult) Location() string {
	return r.location
}

// ImportResult reports how many records of each kind a document import
// added to the aggregate.
type ImportResult struct {
	ObjectsAdded int `json:"objectsAdded"`
	EventsAdded  int `json:"eventsAdded"`
	AgentsAdded  int `json:"agentsAdded"`
	RightsAdded  int `json:"rightsAdded"`
}

func (ir *ImportResult) Total() int {
	return ir.ObjectsAdded + ir.EventsAdded + ir.AgentsAdded + ir.RightsAdded
}

func (ir *ImportResult) Bytes() []byte {
	b, _ := json.Marshal(ir)
	return b
}

func NewImportResult(body []byte) (*ImportResult, error) {
	ir := &ImportResult{}
	if len(body) > 0 {
		err := json.Unmarshal(body, ir)
		if err != nil {
			return nil, err
		}
	}
	return ir, nil
}
