// Package notification tells administrators that a profile awaits review.
//
// Dispatch is fire-and-forget: NotifyPendingReview only enqueues, and the
// Dispatcher's Run loop hands notices to a Sender in the background. A
// failed send is logged and never reaches the submitting resident.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"residentportal/internal/profile/models"
	id "residentportal/pkg/domain"
)

// TopicPendingReview is the event type emitted for new submissions.
const TopicPendingReview = "profile.pending_review"

// ErrQueueFull is returned when the dispatch queue cannot accept a notice.
var ErrQueueFull = errors.New("notification queue full")

// Notice is the payload sent to administrators.
type Notice struct {
	ID          id.EventID    `json:"id"`
	Type        string        `json:"type"`
	ResidentID  id.ResidentID `json:"resident_id"`
	HeadName    string        `json:"household_head"`
	Barangay    string        `json:"barangay"`
	Members     int           `json:"household_members"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// NewNotice summarizes a submitted profile.
func NewNotice(residentID id.ResidentID, profile *models.ResidentProfile, at time.Time) Notice {
	n := Notice{
		ID:          id.NewEventID(),
		Type:        TopicPendingReview,
		ResidentID:  residentID,
		SubmittedAt: at,
	}
	if profile != nil {
		n.HeadName = fullName(profile.Head.Identity)
		n.Barangay = profile.Head.Barangay
		n.Members = 1 + len(profile.Dependents)
		if profile.Spouse != nil {
			n.Members++
		}
	}
	return n
}

func fullName(i models.Identity) string {
	name := i.FirstName
	if i.MiddleInitial != "" {
		name += " " + i.MiddleInitial
	}
	if i.LastName != "" {
		name += " " + i.LastName
	}
	if i.Suffix != "" {
		name += " " + i.Suffix
	}
	return name
}

// Sender delivers a notice to its destination.
type Sender interface {
	Send(ctx context.Context, notice Notice) error
}

// LogSender writes notices to the log. Used when no broker is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, n Notice) error {
	s.logger.InfoContext(ctx, "profile pending review",
		"notice_id", n.ID.String(),
		"resident_id", n.ResidentID.String(),
		"household_head", n.HeadName,
		"barangay", n.Barangay,
	)
	return nil
}
