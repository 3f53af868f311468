package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/entry/scan", "POST", 200, time.Millisecond)
	m.RecordRequest("/api/entry/scan", "POST", 200, time.Millisecond)
	m.RecordError("/api/entry/scan", "POST", "DEPENDENCY_UNAVAILABLE")
	m.RecordDecision("QR", "GRANTED")
	m.RecordDecision("QR", "TOKEN_REPLAYED")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/entry/scan|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/entry/scan|POST|DEPENDENCY_UNAVAILABLE"])
	assert.Equal(t, int64(1), snap.Decisions["QR|GRANTED"])

	snap.Decisions["QR|GRANTED"] = 99
	assert.Equal(t, int64(1), m.Snapshot().Decisions["QR|GRANTED"], "snapshot is a copy")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordDecision("QR", "GRANTED")
	assert.Empty(t, m.Snapshot().Decisions)
}
