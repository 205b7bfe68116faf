package audit

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/ids"
	"github.com/spec-kit/offer-service/internal/observability"
	"github.com/spec-kit/offer-service/internal/repository"
)

var (
	errMissingAction = errors.New("audit: action is required")
	errMissingSource = errors.New("audit: source is required")
)

// Recorder appends audit entries. It is best effort: a failed append is logged and
// counted but never reported to the caller, so it cannot undo the mutation it describes.
type Recorder struct {
	store   repository.AuditLogRepository
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewRecorder builds a recorder. metrics may be nil.
func NewRecorder(store repository.AuditLogRepository, logger *zap.Logger, metrics *observability.Metrics) *Recorder {
	return &Recorder{store: store, logger: logger, metrics: metrics}
}

// Record validates and appends entry. The caller's entry is not modified.
func (r *Recorder) Record(ctx context.Context, entry domain.AuditLogEntry) {
	entry.Action = strings.TrimSpace(entry.Action)
	if err := validate(entry); err != nil {
		r.fail(entry, err)
		return
	}

	entry.ID = ids.NewSortable()
	entry.Payload = clonePayload(entry.Payload)
	if err := r.store.Append(ctx, &entry); err != nil {
		r.fail(entry, err)
	}
}

// Subscribe attaches the recorder to every event type the services publish.
func (r *Recorder) Subscribe(d events.Dispatcher) {
	events.SubscribeAll(d, r.HandleEvent)
}

// HandleEvent turns a domain event into exactly one audit entry.
func (r *Recorder) HandleEvent(ctx context.Context, event events.Event) error {
	entry := domain.AuditLogEntry{
		UserID:  event.ActorID,
		Action:  string(event.Type),
		Payload: event.Payload,
		Source:  event.Source,
	}
	if entry.Source == "" {
		entry.Source = domain.AuditSourceAPI
	}
	if event.EntityType != "" {
		entityType := event.EntityType
		entry.EntityType = &entityType
	}
	if event.EntityID != "" {
		entityID := event.EntityID
		entry.EntityID = &entityID
	}
	r.Record(ctx, entry)
	return nil
}

func (r *Recorder) fail(entry domain.AuditLogEntry, err error) {
	r.metrics.RecordAuditFailure()
	fields := []zap.Field{
		zap.String("action", entry.Action),
		zap.String("source", string(entry.Source)),
		zap.Error(err),
	}
	if entry.EntityID != nil {
		fields = append(fields, zap.String("entity_id", *entry.EntityID))
	}
	if entry.UserID != nil {
		fields = append(fields, zap.String("user_id", *entry.UserID))
	}
	r.logger.Error("audit append failed", fields...)
}

func validate(entry domain.AuditLogEntry) error {
	if entry.Action == "" {
		return errMissingAction
	}
	if entry.Source == "" {
		return errMissingSource
	}
	return nil
}

func clonePayload(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
