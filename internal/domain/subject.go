package domain

import (
	"strings"
	"time"
)

// SubjectStatus represents lifecycle states for a gym account.
type SubjectStatus string

const (
	SubjectStatusActive   SubjectStatus = "ACTIVE"
	SubjectStatusInactive SubjectStatus = "INACTIVE"
	SubjectStatusBanned   SubjectStatus = "BANNED"
)

// Subject is a person who may enter the facility.
type Subject struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	QRCode     string
	Role       Role
	Status     SubjectStatus
	Membership *Membership
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName joins first and last name for display.
func (s *Subject) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
