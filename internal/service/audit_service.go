package service

import (
	"context"
	"log/slog"

	"github.com/Jonatndm/API-Authenticate/internal/event"
)

// AuditService writes every published auth event as a structured "audit"
// log line.
type AuditService struct {
	events      <-chan event.Event
	unsubscribe func()
	logger      *slog.Logger
}

// NewAuditService subscribes immediately so events published before Run
// starts are buffered rather than lost.
func NewAuditService(bus event.Bus, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	events, unsubscribe := bus.Subscribe()
	return &AuditService{events: events, unsubscribe: unsubscribe, logger: logger}
}

// Run consumes events until ctx is cancelled, then unsubscribes.
func (s *AuditService) Run(ctx context.Context) {
	defer s.unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-s.events:
			if !ok {
				return
			}
			s.Log(ctx, e)
		}
	}
}

func (s *AuditService) Log(ctx context.Context, e event.Event) {
	attrs := []slog.Attr{
		slog.String("event_id", e.ID),
		slog.String("type", string(e.Type)),
		slog.String("occurred_at", e.Timestamp),
	}
	if e.ActorID != "" {
		attrs = append(attrs, slog.String("user_id", e.ActorID))
	}
	for key, value := range e.Payload {
		attrs = append(attrs, slog.Any(key, value))
	}

	level := slog.LevelInfo
	if e.Type == event.TypeAccountLocked || e.Type == event.TypeLoginFailed {
		level = slog.LevelWarn
	}

	s.logger.LogAttrs(ctx, level, "audit", attrs...)
}
