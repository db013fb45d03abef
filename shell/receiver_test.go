package shell

import (
	"net"
	"testing"
	"time"

	"github.com/gopatchy/artnode/artnet"
	"github.com/gopatchy/artnode/bufferpool"
	"github.com/gopatchy/artnode/logic"
)

func TestReceiverEmitsRxPacketForValidDatagram(t *testing.T) {
	ch, client := newLoopbackChannel(t)
	defer client.Close()

	pool := bufferpool.New(bufferpool.Config{Count: 2, Size: 1024})
	diag := NewDiagnostics()
	events := NewEventQueue(4, diag)

	r := NewReceiver(ch, pool, events, diag)
	go r.Run()
	defer r.Stop()
	defer ch.Close()

	target := ch.LocalAddr().(*net.UDPAddr)
	if _, err := client.WriteToUDP(artnet.EncodePoll(0, 0), target); err != nil {
		t.Fatalf("WriteToUDP: %v", err)
	}

	select {
	case ev := <-events.Chan():
		rx, ok := ev.(logic.RxPacket)
		if !ok {
			t.Fatalf("event = %T, want logic.RxPacket", ev)
		}
		if rx.Packet.Op != artnet.OpPoll {
			t.Fatalf("Op = %#x, want ArtPoll", rx.Packet.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event received")
	}
}

func TestReceiverDropsMalformedDatagramAndContinues(t *testing.T) {
	ch, client := newLoopbackChannel(t)
	defer client.Close()

	pool := bufferpool.New(bufferpool.Config{Count: 2, Size: 1024})
	diag := NewDiagnostics()
	events := NewEventQueue(4, diag)

	r := NewReceiver(ch, pool, events, diag)
	go r.Run()
	defer r.Stop()
	defer ch.Close()

	target := ch.LocalAddr().(*net.UDPAddr)
	if _, err := client.WriteToUDP([]byte("not art-net"), target); err != nil {
		t.Fatalf("WriteToUDP: %v", err)
	}
	if _, err := client.WriteToUDP(artnet.EncodePoll(0, 0), target); err != nil {
		t.Fatalf("WriteToUDP: %v", err)
	}

	select {
	case ev := <-events.Chan():
		rx := ev.(logic.RxPacket)
		if rx.Packet.Op != artnet.OpPoll {
			t.Fatalf("Op = %#x, want ArtPoll (the malformed datagram should have been skipped)", rx.Packet.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event received")
	}

	if diag.Snapshot()["decode_error"] < 1 {
		t.Fatalf("expected at least one decode_error diagnostic")
	}
}

func TestReceiverStopUnblocksPromptly(t *testing.T) {
	ch, client := newLoopbackChannel(t)
	defer client.Close()

	pool := bufferpool.New(bufferpool.Config{Count: 2, Size: 1024})
	diag := NewDiagnostics()
	events := NewEventQueue(4, diag)

	r := NewReceiver(ch, pool, events, diag)
	done := make(chan struct{})
	go func() {
		r.Run()
		close(done)
	}()

	r.Stop()
	ch.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Stop + channel close")
	}
}
