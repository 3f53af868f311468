package worker

import (
	"github.com/spec-kit/gym-entry/internal/service"
)

// StartEntryNotifier registers entry event handlers.
func StartEntryNotifier(notifier *service.EntryNotifier) {
	if notifier == nil {
		return
	}
	notifier.RegisterHandlers()
}
