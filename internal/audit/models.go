package audit

import (
	"time"

	id "residentportal/pkg/domain"
)

// EventName is the action recorded in the trail and the `event` log attribute.
type EventName string

const (
	EventProfileSubmitted        EventName = "profile_submitted"
	EventProfileSubmissionFailed EventName = "profile_submission_failed"
	EventStatusChanged           EventName = "profile_status_changed"
	EventUpdateRequested         EventName = "profile_update_requested"
	EventPendingReviewNotified   EventName = "pending_review_notified"
)

// Event is one append-only entry. From and To carry status names for
// transitions and are empty otherwise.
type Event struct {
	ID         id.EventID    `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	ResidentID id.ResidentID `json:"resident_id"`
	Actor      string        `json:"actor"`
	Action     EventName     `json:"action"`
	From       string        `json:"from,omitempty"`
	To         string        `json:"to,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
}
