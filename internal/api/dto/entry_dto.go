package dto

import (
	"time"

	"github.com/spec-kit/gym-entry/internal/domain"
)

// ScanRequest payload posted by scanner devices.
type ScanRequest struct {
	Token string `json:"token"`
}

// ManualEntryRequest payload posted by the front desk.
type ManualEntryRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	IsWalkIn  bool   `json:"is_walk_in"`
}

// EntryTokenResponse is returned to a member's device.
type EntryTokenResponse struct {
	Success    bool        `json:"success"`
	Token      string      `json:"token"`
	ExpiresAt  time.Time   `json:"expires_at"`
	TTLSeconds int         `json:"ttl_seconds"`
	Member     MemberBrief `json:"member"`
}

// MemberBrief is the subject view embedded in entry responses.
type MemberBrief struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	MembershipPlan string     `json:"membership_plan,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
}

// DecisionResponse reports the verdict of an entry attempt.
type DecisionResponse struct {
	Success   bool               `json:"success"`
	Reason    domain.ReasonCode  `json:"reason"`
	Message   string             `json:"message,omitempty"`
	Error     string             `json:"error,omitempty"`
	Method    domain.EntryMethod `json:"method,omitempty"`
	WalkIn    bool               `json:"walk_in,omitempty"`
	Member    *MemberBrief       `json:"member,omitempty"`
	EntryTime *time.Time         `json:"entry_time,omitempty"`
}

// MembershipResponse is the member dashboard view.
type MembershipResponse struct {
	IsActive      bool      `json:"is_active"`
	DaysRemaining int       `json:"days_remaining"`
	Message       string    `json:"message"`
	PlanName      string    `json:"plan_name"`
	EndDate       time.Time `json:"end_date"`
}

// EntryLogResponse is one row of the admin entry log.
type EntryLogResponse struct {
	ID          string             `json:"id"`
	SubjectID   string             `json:"member_id"`
	SubjectName string             `json:"member_name"`
	Method      domain.EntryMethod `json:"method"`
	EntryTime   time.Time          `json:"entry_time"`
}
