package policy

import (
	"math"
	"time"

	"github.com/spec-kit/gym-entry/internal/domain"
)

// Membership status messages shown to members.
const (
	MessageActive       = "active"
	MessageExpiringSoon = "expiring soon"
	MessageExpired      = "expired"
	MessageSuspended    = "suspended"
)

const expiringSoonDays = 3

// MembershipSummary is a presentation view of a membership snapshot.
type MembershipSummary struct {
	IsActive      bool
	DaysRemaining int
	Message       string
	PlanName      string
	EndDate       time.Time
}

// Summarize derives the member-facing status of m at now.
func Summarize(m domain.Membership, now time.Time) MembershipSummary {
	summary := MembershipSummary{PlanName: m.Plan.Name, EndDate: m.EndDate}
	daysRemaining := int(math.Ceil(m.EndDate.Sub(now).Hours() / 24))

	switch {
	case m.Status == domain.MembershipStatusSuspended:
		summary.Message = MessageSuspended
	case m.Status == domain.MembershipStatusExpired || daysRemaining < 0:
		summary.Message = MessageExpired
	default:
		summary.IsActive = true
		summary.DaysRemaining = daysRemaining
		summary.Message = MessageActive
		if daysRemaining <= expiringSoonDays {
			summary.Message = MessageExpiringSoon
		}
	}
	return summary
}
