// Package logic implements the pure logic step that turns incoming Art-Net
// events into node-state transitions and outbound actions: no I/O, no
// blocking, no direct mutation of shared state — callers apply the
// returned state and act on the returned actions.
package logic

import (
	"net"
	"time"

	"github.com/gopatchy/artnode/artnet"
	"github.com/gopatchy/artnode/resolve"
)

// Event is the tagged variant the logic step consumes: an inbound packet,
// an external command, or a clock tick.
type Event interface{ isEvent() }

// DecodedPacket is an already-decoded Art-Net packet: exactly one field
// other than Op is populated, matching the opcode. Decoding happens in the
// receiver (an external collaborator, see artnet's packet codec); a
// DecodedPacket is what reaches the logic step.
type DecodedPacket struct {
	Op     uint16
	Dmx    *artnet.DMXPacket
	Poll   *artnet.PollPacket
	Addr   *artnet.AddressPacket
	Input  *artnet.InputPacket
	IPProg *artnet.IpProgPacket
	Rdm    *artnet.RdmPacket
	RdmSub *artnet.RdmSubPacket
}

// RxPacket is the event emitted by the receiver for every successfully
// decoded inbound datagram.
type RxPacket struct {
	Packet    DecodedPacket
	Sender    *net.UDPAddr
	Timestamp time.Time
}

func (RxPacket) isEvent() {}

// Command kinds recognized by the logic step.
const (
	CommandApplyState = "apply-state"
	CommandSnapshot   = "snapshot"
	CommandShutdown   = "shutdown"
)

// Command is an external request injected by the command bus.
type Command struct {
	Kind  string
	Args  map[string]any
	Reply chan any // optional; nil when the caller doesn't want a reply
}

func (Command) isEvent() {}

// Tick is a clock event, used to drive periodic behavior (ArtPollReply
// spreading, RDM TOD expiry) without the logic step itself touching a
// clock.
type Tick struct{ Now time.Time }

func (Tick) isEvent() {}

// Action is the tagged variant the logic step produces: instructions for
// the sender, a user callback to invoke, a reply to deliver, or a state
// patch to apply.
type Action interface{ isAction() }

// Send instructs the sender to transmit a raw packet, optionally to an
// explicit target and/or after a delay.
type Send struct {
	Packet  []byte
	Target  *resolve.Target // nil means "use the configured default target"
	DelayMs int
}

func (Send) isAction() {}

// Callback instructs the sender to invoke a user function with a payload.
// Callbacks must not block the sender.
type Callback struct {
	Fn      func(payload any)
	Payload any
}

func (Callback) isAction() {}

// Reply delivers a value to a caller waiting on a command-bus handle.
type Reply struct {
	Handle chan any
	Value  any
}

func (Reply) isAction() {}

// MutateState is an internal bookkeeping action the step can emit so a
// caller inspecting the action stream can observe what changed without
// re-deriving it from the new state.
type MutateState struct {
	Patch map[string]any
}

func (MutateState) isAction() {}

// DMXFrame is the payload of the callback{dmx-frame} action.
type DMXFrame struct {
	PortAddress artnet.Universe
	Data        [512]byte
	Length      uint16
	Sequence    uint8
	Physical    uint8
	Net         uint8
	SubUni      uint8
}

// ProgrammingEvent is the payload of the callback{programming} action.
type ProgrammingEvent struct {
	Op      uint16
	Summary string
}
