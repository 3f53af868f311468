package domain

import "time"

// EntryMethod records how a subject was let in.
type EntryMethod string

const (
	EntryMethodQR     EntryMethod = "QR"
	EntryMethodManual EntryMethod = "MANUAL"
	EntryMethodWalkIn EntryMethod = "WALK_IN"
)

// EntryRecord is an append-only log line for a granted entry.
type EntryRecord struct {
	ID        string
	SubjectID string
	Method    EntryMethod
	EntryTime time.Time

	// SubjectName is filled in by listings only.
	SubjectName string
}
