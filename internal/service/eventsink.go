package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"teleop_console/internal/logger"
	"teleop_console/internal/models"
	"teleop_console/internal/repository"
)

const (
	defaultSinkBuffer = 256
	sinkWriteTimeout  = 2 * time.Second
)

// EventSink writes console events to the event log off the caller's path.
// Emit never blocks; when the buffer is full the event is dropped and logged.
type EventSink struct {
	repo repository.EventRepo
	log  *logger.Logger
	ch   chan models.ConsoleEvent
}

func NewEventSink(repo repository.EventRepo, log *logger.Logger, buffer int) *EventSink {
	if buffer <= 0 {
		buffer = defaultSinkBuffer
	}
	if log == nil {
		log = logger.Nop()
	}
	return &EventSink{
		repo: repo,
		log:  log,
		ch:   make(chan models.ConsoleEvent, buffer),
	}
}

// Emit queues ev, filling in EventID and OccurredAt when empty. Safe on a nil sink.
func (s *EventSink) Emit(ev models.ConsoleEvent) {
	if s == nil {
		return
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	select {
	case s.ch <- ev:
	default:
		s.log.Warnw("event_dropped", "type", ev.Type, "event_id", ev.EventID)
	}
}

// Run drains queued events into the repository until ctx is cancelled, then
// flushes whatever is still buffered.
func (s *EventSink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.flush()
			return
		case ev := <-s.ch:
			s.write(ctx, ev)
		}
	}
}

func (s *EventSink) flush() {
	for {
		select {
		case ev := <-s.ch:
			s.write(context.Background(), ev)
		default:
			return
		}
	}
}

func (s *EventSink) write(parent context.Context, ev models.ConsoleEvent) {
	ctx, cancel := context.WithTimeout(parent, sinkWriteTimeout)
	defer cancel()
	if err := s.repo.Append(ctx, ev); err != nil {
		s.log.Errorw("event_append_failed", "type", ev.Type, "event_id", ev.EventID, "err", err)
	}
}
