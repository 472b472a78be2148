package backend

import (
	"context"
	"encoding/json"
)

// EventStream is the push-event boundary: named events carrying JSON
// payloads, delivered asynchronously by the backend.
type EventStream interface {
	// Subscribe starts delivery of one named event. The returned release
	// function stops delivery and is safe to call more than once; every
	// consumer must release on all exit paths.
	Subscribe(ctx context.Context, event string) (<-chan Event, func(), error)

	// Close shuts the stream down and closes all subscription channels.
	Close() error
}

// Push event names
const (
	EventCheckProgress        = "check-progress"
	EventCheckComplete        = "check-complete"
	EventVerificationRequired = "verification-required"
)

// Event is one push message from the backend.
type Event struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// CheckProgress is pushed for each item of a bulk availability run.
type CheckProgress struct {
	RunID     string `json:"run_id"`
	Current   int    `json:"current"` // 1-based index of the item just checked
	Total     int    `json:"total"`
	ProductID string `json:"product_id,omitempty"`
}

// VerificationRequired asks the user to complete a manual verification
// (e.g. a captcha) before a retailer can be checked again.
type VerificationRequired struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// DecodeProgress decodes a check-progress event payload.
func DecodeProgress(e Event) (CheckProgress, error) {
	var p CheckProgress
	err := json.Unmarshal(e.Payload, &p)
	return p, err
}

// DecodeVerification decodes a verification-required event payload.
func DecodeVerification(e Event) (VerificationRequired, error) {
	var v VerificationRequired
	err := json.Unmarshal(e.Payload, &v)
	return v, err
}
