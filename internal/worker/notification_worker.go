package worker

import (
	"github.com/spec-kit/offer-service/internal/audit"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/service"
)

// StartSubscribers attaches event consumers to the dispatcher. The audit recorder goes
// first so the audit entry is written before any notification side effects run.
func StartSubscribers(dispatcher events.Dispatcher, recorder *audit.Recorder, notifications *service.NotificationService) {
	if dispatcher == nil {
		return
	}
	if recorder != nil {
		recorder.Subscribe(dispatcher)
	}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
}
