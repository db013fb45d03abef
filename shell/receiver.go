package shell

import (
	"log"
	"time"

	"github.com/gopatchy/artnode/artnet"
	"github.com/gopatchy/artnode/bufferpool"
	"github.com/gopatchy/artnode/logic"
	"github.com/gopatchy/artnode/netio"
)

// receiverTask is the shape Lifecycle drives its rx task through. Receiver
// (a bound UDP socket) and PcapReceiver (live packet capture) both satisfy
// it, so Lifecycle can run either one without knowing which.
type receiverTask interface {
	Run()
	Stop()
}

// Receiver is the task that owns the rx side of a Channel: borrow a buffer,
// block on Recv, decode, emit an RxPacket event, release the buffer. It
// never blocks on the event queue — PushRx drops the oldest event rather
// than stall the socket read.
type Receiver struct {
	channel *netio.Channel
	pool    *bufferpool.Pool
	events  *EventQueue
	diag    *Diagnostics
	done    chan struct{}
}

// NewReceiver builds a Receiver bound to channel, borrowing from pool and
// publishing onto events.
func NewReceiver(channel *netio.Channel, pool *bufferpool.Pool, events *EventQueue, diag *Diagnostics) *Receiver {
	return &Receiver{channel: channel, pool: pool, events: events, diag: diag, done: make(chan struct{})}
}

// Run reads datagrams until Stop is called or the channel closes out from
// under it. It returns when neither condition leaves anything left to do.
func (r *Receiver) Run() {
	for {
		select {
		case <-r.done:
			return
		default:
		}

		buf, err := r.pool.Get()
		if err != nil {
			return // pool closed
		}

		n, sender, err := r.channel.Recv(buf)
		if err != nil {
			r.pool.Release(buf)
			if !r.channel.IsOpen() {
				return
			}
			r.diag.Inc("recv_error")
			log.Printf("[<-shell] recv error: %v", err)
			continue
		}

		pkt, ok := decodePacket(buf[:n])
		r.pool.Release(buf)
		if !ok {
			// Invalid packets are silently ignored beyond the diagnostic
			// counter — a malformed datagram is expected background noise
			// on a shared broadcast segment, not worth a log line per drop.
			r.diag.Inc("decode_error")
			continue
		}

		r.events.PushRx(logic.RxPacket{Packet: pkt, Sender: sender, Timestamp: time.Now()})
	}
}

// Stop signals Run to exit after its current Recv call returns. Callers
// also close the underlying Channel so a blocked Recv unblocks promptly.
func (r *Receiver) Stop() {
	close(r.done)
}

// decodePacket identifies the opcode and decodes the matching packet type.
// Payload slices that would otherwise alias data (RDM/RDMsub) are copied,
// since data is a pool buffer the caller releases immediately after this
// call returns. Packets with a recognized header but unknown opcode are
// passed through with only Op set, for the logic step's discard path;
// malformed packets (bad length, bad header) fail decode entirely.
func decodePacket(data []byte) (logic.DecodedPacket, bool) {
	op, err := artnet.PeekOpCode(data)
	if err != nil {
		return logic.DecodedPacket{}, false
	}

	switch op {
	case artnet.OpDmx:
		pkt, err := artnet.DecodeDMX(data)
		if err != nil {
			return logic.DecodedPacket{}, false
		}
		return logic.DecodedPacket{Op: op, Dmx: pkt}, true

	case artnet.OpPoll:
		pkt, err := artnet.DecodePoll(data)
		if err != nil {
			return logic.DecodedPacket{}, false
		}
		return logic.DecodedPacket{Op: op, Poll: pkt}, true

	case artnet.OpAddress:
		pkt, err := artnet.DecodeAddress(data)
		if err != nil {
			return logic.DecodedPacket{}, false
		}
		return logic.DecodedPacket{Op: op, Addr: pkt}, true

	case artnet.OpInput:
		pkt, err := artnet.DecodeInput(data)
		if err != nil {
			return logic.DecodedPacket{}, false
		}
		return logic.DecodedPacket{Op: op, Input: pkt}, true

	case artnet.OpIpProg:
		pkt, err := artnet.DecodeIpProg(data)
		if err != nil {
			return logic.DecodedPacket{}, false
		}
		return logic.DecodedPacket{Op: op, IPProg: pkt}, true

	case artnet.OpRdm:
		pkt, err := artnet.DecodeRdm(data)
		if err != nil {
			return logic.DecodedPacket{}, false
		}
		pkt.Payload = append([]byte(nil), pkt.Payload...)
		return logic.DecodedPacket{Op: op, Rdm: pkt}, true

	case artnet.OpRdmSub:
		pkt, err := artnet.DecodeRdmSub(data)
		if err != nil {
			return logic.DecodedPacket{}, false
		}
		pkt.Payload = append([]byte(nil), pkt.Payload...)
		return logic.DecodedPacket{Op: op, RdmSub: pkt}, true

	default:
		return logic.DecodedPacket{Op: op}, true
	}
}
