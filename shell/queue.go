package shell

import "github.com/gopatchy/artnode/logic"

// EventQueue is the bounded channel feeding the logic task. Overflow on an
// rx-packet push drops the oldest queued event and records a diagnostic
// counter rather than blocking the receiver; command-bus sends use the raw
// channel directly and block on a context deadline instead (commands must
// never be silently dropped).
type EventQueue struct {
	ch   chan logic.Event
	diag *Diagnostics
}

// NewEventQueue creates a queue with room for capacity pending events.
func NewEventQueue(capacity int, diag *Diagnostics) *EventQueue {
	return &EventQueue{ch: make(chan logic.Event, capacity), diag: diag}
}

// Chan returns the underlying channel, for the logic task to range over and
// the command bus to send on directly.
func (q *EventQueue) Chan() chan logic.Event { return q.ch }

// PushRx enqueues an inbound-packet event, dropping the oldest queued event
// on overflow instead of blocking the caller.
func (q *EventQueue) PushRx(ev logic.RxPacket) {
	select {
	case q.ch <- ev:
		return
	default:
	}

	select {
	case <-q.ch:
		q.diag.Inc("event_queue_overflow")
	default:
	}

	select {
	case q.ch <- ev:
	default:
		// Another producer won the freed slot; drop ev rather than block.
		q.diag.Inc("event_queue_overflow")
	}
}

// Close closes the event channel. Only the owner of the receiver/command-bus
// lifecycle should call this, and only after confirming nothing still sends
// on it.
func (q *EventQueue) Close() { close(q.ch) }
