package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentRejected  = "appointment_rejected"
	ActionAppointmentCanceled  = "appointment_canceled"
	ActionAppointmentCompleted = "appointment_completed"
	ActionScheduleReplaced     = "schedule_replaced"
	ActionScheduleDeleted      = "schedule_deleted"
	ActionShiftsChanged        = "staff_shifts_changed"
	ActionStaffRestored        = "staff_restored"
	ActionStaffForceDeleted    = "staff_force_deleted"
)

type Event struct {
	BusinessID uint
	ActorID    *uint
	ActorRole  string
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
}

// Sink accepts audit events without blocking the caller.
type Sink interface {
	Dispatch(ev Event)
}

// Writer persists one event.
type Writer interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	writer Writer
	log    *slog.Logger
	queue  chan Event

	// mu guards closed so Dispatch never sends on a closed queue.
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(writer Writer, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		log:    log,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.writer.Write(ctx, ev); err != nil {
			d.log.Error("audit write failed",
				slog.String("action", ev.Action),
				slog.Uint64("business_id", uint64(ev.BusinessID)),
				slog.Any("err", err),
			)
		}
		cancel()
	}
}

// Dispatch drops the event when the queue is full or the dispatcher is
// closed. Auditing never fails a request.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("audit dispatcher closed, dropping event", slog.String("action", ev.Action))
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", slog.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

// Discard is a Sink that ignores every event.
type Discard struct{}

func (Discard) Dispatch(Event) {}
