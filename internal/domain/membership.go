package domain

import "time"

// MembershipStatus enumerates subscription states.
type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "ACTIVE"
	MembershipStatusExpired   MembershipStatus = "EXPIRED"
	MembershipStatusSuspended MembershipStatus = "SUSPENDED"
)

// Plan is the product a membership was sold from.
type Plan struct {
	ID           string
	Name         string
	DurationDays int
	Price        int
}

// Membership links a subject to a plan for a bounded period.
type Membership struct {
	ID        string
	Status    MembershipStatus
	StartDate time.Time
	EndDate   time.Time
	Plan      Plan
}
