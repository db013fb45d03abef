package shell

import (
	"log"
	"time"

	"github.com/gopatchy/artnode/bufferpool"
	"github.com/gopatchy/artnode/logic"
	"github.com/gopatchy/artnode/netio"
	"github.com/gopatchy/artnode/resolve"
)

// Sender is the task that owns the tx side of a Channel: drain the action
// stream, apply delay-ms, resolve a target, borrow a tx buffer, transmit,
// release. Non-Send actions (callbacks, replies) are serviced inline, since
// the logic step requires callers never block on them.
type Sender struct {
	channel               *netio.Channel
	pool                  *bufferpool.Pool
	actions               <-chan logic.Action
	defaultTarget         *resolve.Target
	allowLimitedBroadcast bool
	diag                  *Diagnostics
}

// NewSender builds a Sender bound to channel, consuming actions and falling
// back to defaultTarget when a Send action names no explicit target.
func NewSender(channel *netio.Channel, pool *bufferpool.Pool, actions <-chan logic.Action, defaultTarget *resolve.Target, allowLimitedBroadcast bool, diag *Diagnostics) *Sender {
	return &Sender{
		channel:               channel,
		pool:                  pool,
		actions:               actions,
		defaultTarget:         defaultTarget,
		allowLimitedBroadcast: allowLimitedBroadcast,
		diag:                  diag,
	}
}

// Run drains actions until the channel is closed.
func (s *Sender) Run() {
	for action := range s.actions {
		s.apply(action)
	}
}

func (s *Sender) apply(action logic.Action) {
	switch a := action.(type) {
	case logic.Send:
		s.send(a)
	case logic.Callback:
		if a.Fn != nil {
			a.Fn(a.Payload)
		}
	case logic.Reply:
		if a.Handle != nil {
			select {
			case a.Handle <- a.Value:
			default:
				// Caller already gave up waiting.
			}
		}
	case logic.MutateState:
		// The logic step does not apply the patch to its state, and the
		// sender does nothing with it either; the action only carries the
		// patch for observers of the stream.
	}
}

func (s *Sender) send(a logic.Send) {
	if a.DelayMs > 0 {
		time.Sleep(time.Duration(a.DelayMs) * time.Millisecond)
	}

	target := a.Target
	if target == nil {
		target = s.defaultTarget
	}
	if target == nil {
		s.diag.Inc("send_missing_target")
		log.Printf("[->shell] send error: no target for packet len=%d", len(a.Packet))
		return
	}

	addr, err := resolve.ResolveTarget(*target, s.allowLimitedBroadcast)
	if err != nil {
		s.diag.Inc("send_resolve_error")
		log.Printf("[->shell] resolve error: dst=%s err=%v", target.Host, err)
		return
	}

	if len(a.Packet) > s.pool.Size() {
		s.diag.Inc("send_packet_too_large")
		log.Printf("[->shell] packet too large: dst=%s len=%d max=%d", addr, len(a.Packet), s.pool.Size())
		return
	}

	buf, err := s.pool.Get()
	if err != nil {
		return // pool closed
	}
	defer s.pool.Release(buf)

	n := copy(buf, a.Packet)
	if err := s.channel.Send(buf[:n], addr); err != nil {
		s.diag.Inc("send_error")
		log.Printf("[->shell] send error: dst=%s err=%v", addr, err)
	}
}
