package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-entry/internal/events"
)

// EntryNotifier forwards entry events to the log and, when configured, to a broker.
type EntryNotifier struct {
	dispatcher events.Dispatcher
	publisher  events.Publisher
	logger     *zap.Logger
}

// NewEntryNotifier creates the notifier. publisher may be nil.
func NewEntryNotifier(dispatcher events.Dispatcher, publisher events.Publisher, logger *zap.Logger) *EntryNotifier {
	return &EntryNotifier{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *EntryNotifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEntryGranted, n.handleEntryGranted)
	n.dispatcher.Subscribe(events.EventEntryDenied, n.handleEntryDenied)
}

func (n *EntryNotifier) handleEntryGranted(ctx context.Context, event events.Event) error {
	n.logger.Info("EntryGranted",
		zap.String("subject_id", event.SubjectID),
		zap.String("method", string(event.Method)),
		zap.String("entry_id", event.EntryID))
	return n.forward(ctx, event)
}

func (n *EntryNotifier) handleEntryDenied(ctx context.Context, event events.Event) error {
	n.logger.Info("EntryDenied",
		zap.String("subject_id", event.SubjectID),
		zap.String("method", string(event.Method)),
		zap.String("reason", string(event.Reason)))
	return n.forward(ctx, event)
}

func (n *EntryNotifier) forward(ctx context.Context, event events.Event) error {
	if n.publisher == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, event.Type.RoutingKey(), payload)
}
