package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-entry/internal/domain"
	"github.com/spec-kit/gym-entry/internal/events"
)

func TestEntryNotifier_ForwardsToPublisher(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{}
	NewEntryNotifier(dispatcher, publisher, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventEntryDenied,
		SubjectID: "U1",
		Method:    domain.EntryMethodQR,
		Reason:    domain.ReasonTokenExpired,
	})
	require.NoError(t, err)

	require.Len(t, publisher.sent, 1)
	assert.Equal(t, "entry.denied", publisher.sent[0].routingKey)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(publisher.sent[0].payload, &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.Equal(t, domain.ReasonTokenExpired, decoded.Reason)
}

func TestEntryNotifier_WithoutPublisher(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewEntryNotifier(dispatcher, nil, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventEntryGranted, SubjectID: "U1"})
	assert.NoError(t, err)
}
