package shell

import (
	"testing"

	"github.com/gopatchy/artnode/logic"
)

func TestEventQueuePushRxDropsOldestOnOverflow(t *testing.T) {
	diag := NewDiagnostics()
	q := NewEventQueue(2, diag)

	first := logic.RxPacket{Packet: logic.DecodedPacket{Op: 1}}
	second := logic.RxPacket{Packet: logic.DecodedPacket{Op: 2}}
	third := logic.RxPacket{Packet: logic.DecodedPacket{Op: 3}}

	q.PushRx(first)
	q.PushRx(second)
	q.PushRx(third) // queue full (capacity 2): should drop `first`, keep second+third

	got := []uint16{(<-q.Chan()).(logic.RxPacket).Packet.Op, (<-q.Chan()).(logic.RxPacket).Packet.Op}
	if got[0] != 2 || got[1] != 3 {
		t.Fatalf("queue contents = %v, want [2 3]", got)
	}
	if diag.Snapshot()["event_queue_overflow"] != 1 {
		t.Fatalf("expected exactly one overflow diagnostic")
	}
}

func TestEventQueueCommandSendDoesNotDropEvents(t *testing.T) {
	diag := NewDiagnostics()
	q := NewEventQueue(2, diag)

	q.PushRx(logic.RxPacket{Packet: logic.DecodedPacket{Op: 1}})
	select {
	case q.Chan() <- logic.Command{Kind: logic.CommandShutdown}:
	default:
		t.Fatalf("expected room for a second queued event")
	}

	if diag.Snapshot()["event_queue_overflow"] != 0 {
		t.Fatalf("a non-overflowing send should not record a diagnostic")
	}
}
