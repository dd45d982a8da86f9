package loc

import (
	"time"

	"github.com/diwise/premis-registry/pkg/premis/types"
	ed "github.com/diwise/premis-registry/pkg/premis/types/decorators"
)

// NewIngestionEvent creates an ingestion event with a fresh UUID identifier.
func NewIngestionEvent(timestamp time.Time, decorators ...types.EventDecoratorFunc) *types.Event {
	return types.NewEvent(
		types.NewUUIDIdentifier(),
		EventTypeIngestion,
		timestamp.UTC().Format(time.RFC3339),
		decorators...,
	)
}

// NewFixityCheckEvent creates a fixity check event whose outcome reflects
// whether the recorded digest matched.
func NewFixityCheckEvent(timestamp time.Time, matched bool, decorators ...types.EventDecoratorFunc) *types.Event {
	outcome := OutcomeSuccess
	if !matched {
		outcome = OutcomeFail
	}

	decorators = append(decorators, ed.EventOutcome(outcome))

	return types.NewEvent(
		types.NewUUIDIdentifier(),
		EventTypeFixityCheck,
		timestamp.UTC().Format(time.RFC3339),
		decorators...,
	)
}
