package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"temp_compliance/internal/logger"
	"temp_compliance/internal/models"
	"temp_compliance/internal/publisher"
	"temp_compliance/internal/repository"
)

// emitter appends compliance events to the store and forwards them to the
// publisher. Failures are logged; the operation that raised the event has
// already been persisted.
type emitter struct {
	repo repository.EventRepo
	pub  publisher.Publisher
	log  *logger.Logger
}

func newEmitter(repo repository.EventRepo, pub publisher.Publisher, log *logger.Logger) *emitter {
	return &emitter{repo: repo, pub: pub, log: log}
}

func (e *emitter) emit(ctx context.Context, at time.Time, typ, subject, description string, meta map[string]any) {
	ev := models.ComplianceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  at.UTC(),
		Type:        typ,
		Subject:     subject,
		Description: description,
	}
	if meta != nil {
		ev.Metadata = meta
	}

	if err := e.repo.Append(ctx, ev); err != nil {
		e.log.Errorw("event_append_failed", "type", typ, "subject", subject, "error", err)
	}
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.Warnw("event_publish_failed", "type", typ, "subject", subject, "error", err)
	}
}
