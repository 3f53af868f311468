package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/gym-entry/internal/domain"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func membership(status domain.MembershipStatus, end time.Time) *domain.Membership {
	return &domain.Membership{ID: "m1", Status: status, StartDate: end.AddDate(0, -1, 0), EndDate: end, Plan: domain.Plan{Name: "Monthly"}}
}

func TestDecide(t *testing.T) {
	engine := NewEngine(fixedClock)
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	cases := []struct {
		name    string
		subject *domain.Subject
		want    domain.ReasonCode
	}{
		{"nil subject", nil, domain.ReasonSubjectNotFound},
		{"banned without membership", &domain.Subject{Status: domain.SubjectStatusBanned}, domain.ReasonSubjectBanned},
		{"banned with active membership", &domain.Subject{Status: domain.SubjectStatusBanned, Membership: membership(domain.MembershipStatusActive, nextWeek)}, domain.ReasonSubjectBanned},
		{"inactive", &domain.Subject{Status: domain.SubjectStatusInactive}, domain.ReasonSubjectInactive},
		{"unknown status", &domain.Subject{Status: "ARCHIVED"}, domain.ReasonSubjectInactive},
		{"no membership", &domain.Subject{Status: domain.SubjectStatusActive}, domain.ReasonNoMembership},
		{"ended yesterday", &domain.Subject{Status: domain.SubjectStatusActive, Membership: membership(domain.MembershipStatusActive, yesterday)}, domain.ReasonMembershipExpiredOrSuspended},
		{"suspended", &domain.Subject{Status: domain.SubjectStatusActive, Membership: membership(domain.MembershipStatusSuspended, nextWeek)}, domain.ReasonMembershipExpiredOrSuspended},
		{"expired status", &domain.Subject{Status: domain.SubjectStatusActive, Membership: membership(domain.MembershipStatusExpired, nextWeek)}, domain.ReasonMembershipExpiredOrSuspended},
		{"ends exactly now", &domain.Subject{Status: domain.SubjectStatusActive, Membership: membership(domain.MembershipStatusActive, now)}, domain.ReasonGranted},
		{"active", &domain.Subject{Status: domain.SubjectStatusActive, Membership: membership(domain.MembershipStatusActive, nextWeek)}, domain.ReasonGranted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first := engine.Decide(tc.subject)
			second := engine.Decide(tc.subject)

			assert.Equal(t, tc.want, first.Reason)
			assert.Equal(t, tc.want == domain.ReasonGranted, first.Granted)
			assert.Equal(t, first, second, "decisions are deterministic")
			assert.Same(t, tc.subject, first.Subject)
		})
	}
}

func TestDecideWalkIn(t *testing.T) {
	engine := NewEngine(fixedClock)

	assert.Equal(t, domain.ReasonSubjectNotFound, engine.DecideWalkIn(nil).Reason)
	assert.Equal(t, domain.ReasonSubjectBanned, engine.DecideWalkIn(&domain.Subject{Status: domain.SubjectStatusBanned}).Reason)
	assert.Equal(t, domain.ReasonSubjectInactive, engine.DecideWalkIn(&domain.Subject{Status: domain.SubjectStatusInactive}).Reason)

	decision := engine.DecideWalkIn(&domain.Subject{Status: domain.SubjectStatusActive})
	assert.True(t, decision.Granted)
	assert.Equal(t, domain.ReasonGranted, decision.Reason)
}

func TestIsMembershipActive(t *testing.T) {
	assert.False(t, IsMembershipActive(nil, now))
	assert.True(t, IsMembershipActive(membership(domain.MembershipStatusActive, now), now))
	assert.False(t, IsMembershipActive(membership(domain.MembershipStatusActive, now), now.Add(time.Nanosecond)))
}
