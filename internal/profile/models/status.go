package models

import (
	"fmt"
	"time"

	id "residentportal/pkg/domain"
)

// ProfileStatus is the administrative review state of a resident profile.
// Integer codes are persisted and must stay stable.
//
// Lifecycle:
//   - none + submission → PendingInitialReview
//   - PendingUpdateRequest + submission → UpdateSubmittedPendingReview
//   - any other status + submission → PendingInitialReview
//   - pending → Approved | Rejected | RequiredToUpdate (administrator)
//   - Approved → PendingUpdateRequest (resident asks to amend)
//   - Approved → RequiredToUpdate (administrator demands an update)
//   - RequiredToUpdate → Rejected (administrator)
type ProfileStatus int

const (
	StatusApproved                     ProfileStatus = 1
	StatusRejected                     ProfileStatus = 2
	StatusPendingInitialReview         ProfileStatus = 3
	StatusPendingUpdateRequest         ProfileStatus = 4
	StatusUpdateSubmittedPendingReview ProfileStatus = 5
	StatusRequiredToUpdate             ProfileStatus = 6
)

var statusNames = map[ProfileStatus]string{
	StatusApproved:                     "approved",
	StatusRejected:                     "rejected",
	StatusPendingInitialReview:         "pending_initial_review",
	StatusPendingUpdateRequest:         "pending_update_request",
	StatusUpdateSubmittedPendingReview: "update_submitted_pending_review",
	StatusRequiredToUpdate:             "required_to_update",
}

// AllStatuses lists every status in code order.
var AllStatuses = []ProfileStatus{
	StatusApproved,
	StatusRejected,
	StatusPendingInitialReview,
	StatusPendingUpdateRequest,
	StatusUpdateSubmittedPendingReview,
	StatusRequiredToUpdate,
}

func (s ProfileStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

func (s ProfileStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseProfileStatus accepts the string name of a status.
func ParseProfileStatus(name string) (ProfileStatus, bool) {
	for s, n := range statusNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// IsPending reports whether the profile awaits an administrator decision.
func (s ProfileStatus) IsPending() bool {
	switch s {
	case StatusPendingInitialReview, StatusPendingUpdateRequest, StatusUpdateSubmittedPendingReview:
		return true
	}
	return false
}

// IsReadOnly reports whether the wizard must present the profile without
// accepting edits.
func (s ProfileStatus) IsReadOnly() bool {
	return s == StatusApproved
}

// ClearsIntake reports whether the resident flow restarts from an empty profile.
func (s ProfileStatus) ClearsIntake() bool {
	return s == StatusRejected
}

// CanTransitionTo reports whether an administrator or resident action may move
// the status to next. Submission is not covered here; see NextOnSubmission.
func (s ProfileStatus) CanTransitionTo(next ProfileStatus) bool {
	switch {
	case s.IsPending():
		return next == StatusApproved || next == StatusRejected || next == StatusRequiredToUpdate
	case s == StatusApproved:
		return next == StatusPendingUpdateRequest || next == StatusRequiredToUpdate
	case s == StatusRequiredToUpdate:
		return next == StatusRejected
	}
	return false
}

// NextOnSubmission computes the status written when a resident submits.
// A nil current status means the resident has never submitted.
func NextOnSubmission(current *ProfileStatus) ProfileStatus {
	if current != nil && *current == StatusPendingUpdateRequest {
		return StatusUpdateSubmittedPendingReview
	}
	return StatusPendingInitialReview
}

// StatusRecord is the persisted status row for one resident.
type StatusRecord struct {
	Status    ProfileStatus `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	UpdatedBy string        `json:"updated_by,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// MarshalText lets statuses travel as names in JSON and query strings.
func (s ProfileStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ProfileStatus) UnmarshalText(text []byte) error {
	parsed, ok := ParseProfileStatus(string(text))
	if !ok {
		return fmt.Errorf("unknown profile status %q", string(text))
	}
	*s = parsed
	return nil
}

// ResidentRecord joins a resident's status row with the persisted profile.
// Profile is nil when the status exists without a saved profile.
type ResidentRecord struct {
	ResidentID id.ResidentID    `json:"resident_id"`
	Status     StatusRecord     `json:"status"`
	Profile    *ResidentProfile `json:"profile,omitempty"`
}
