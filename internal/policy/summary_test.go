package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/gym-entry/internal/domain"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		name    string
		status  domain.MembershipStatus
		end     time.Time
		active  bool
		days    int
		message string
	}{
		{"suspended", domain.MembershipStatusSuspended, now.AddDate(0, 0, 20), false, 0, MessageSuspended},
		{"expired status", domain.MembershipStatusExpired, now.AddDate(0, 0, 20), false, 0, MessageExpired},
		{"ended two days ago", domain.MembershipStatusActive, now.AddDate(0, 0, -2), false, 0, MessageExpired},
		{"ends in 2.5 days", domain.MembershipStatusActive, now.Add(60 * time.Hour), true, 3, MessageExpiringSoon},
		{"ends in 3 days", domain.MembershipStatusActive, now.AddDate(0, 0, 3), true, 3, MessageExpiringSoon},
		{"ends in 10 days", domain.MembershipStatusActive, now.AddDate(0, 0, 10), true, 10, MessageActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(*membership(tc.status, tc.end), now)
			assert.Equal(t, tc.active, got.IsActive)
			assert.Equal(t, tc.days, got.DaysRemaining)
			assert.Equal(t, tc.message, got.Message)
			assert.Equal(t, "Monthly", got.PlanName)
		})
	}
}
