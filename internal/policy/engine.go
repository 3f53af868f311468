// Package policy decides whether a subject may enter, given a snapshot of
// their account and membership.
package policy

import (
	"time"

	"github.com/spec-kit/gym-entry/internal/domain"
)

// Engine evaluates entry rules. It holds no state besides its clock.
type Engine struct {
	now func() time.Time
}

// NewEngine builds an engine. A nil clock defaults to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Decide applies the full rule set, first match wins.
func (e *Engine) Decide(subject *domain.Subject) domain.EntryDecision {
	if decision, denied := checkAccount(subject); denied {
		return decision
	}
	if subject.Membership == nil {
		return domain.Deny(domain.ReasonNoMembership, subject)
	}
	if !IsMembershipActive(subject.Membership, e.now()) {
		return domain.Deny(domain.ReasonMembershipExpiredOrSuspended, subject)
	}
	return domain.Grant(subject)
}

// DecideWalkIn applies only the account rules. Walk-in visitors pay at the
// desk and are not expected to hold a membership.
func (e *Engine) DecideWalkIn(subject *domain.Subject) domain.EntryDecision {
	if decision, denied := checkAccount(subject); denied {
		return decision
	}
	return domain.Grant(subject)
}

func checkAccount(subject *domain.Subject) (domain.EntryDecision, bool) {
	if subject == nil {
		return domain.Deny(domain.ReasonSubjectNotFound, nil), true
	}
	switch subject.Status {
	case domain.SubjectStatusActive:
		return domain.EntryDecision{}, false
	case domain.SubjectStatusBanned:
		return domain.Deny(domain.ReasonSubjectBanned, subject), true
	default:
		// unknown statuses are treated as inactive
		return domain.Deny(domain.ReasonSubjectInactive, subject), true
	}
}

// IsMembershipActive reports whether m is ACTIVE and now has not passed its end date.
func IsMembershipActive(m *domain.Membership, now time.Time) bool {
	if m == nil {
		return false
	}
	return m.Status == domain.MembershipStatusActive && !now.After(m.EndDate)
}
