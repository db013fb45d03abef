package logic

import (
	"fmt"
	"net"

	"github.com/gopatchy/artnode/artnet"
	"github.com/gopatchy/artnode/node"
	"github.com/gopatchy/artnode/rdmsub"
	"github.com/gopatchy/artnode/resolve"
)

// State is the logic step's own private state: the published node.State
// plus bookkeeping the node itself doesn't need to know about (sequence
// counters would go here if the step tracked its own framing sequence;
// today it just wraps node.State and the running flag).
type State struct {
	Node    node.State
	Running bool
}

// Init builds the first State deterministically from cfg. The logic step
// calls this itself on the first invocation when passed a nil *State; it is
// exported so callers (tests, the shell lifecycle) can construct an initial
// snapshot without going through Step.
func Init(cfg Config) *State {
	return &State{
		Node: node.State{
			Identity:  cfg.Identity,
			Network:   cfg.Network,
			Universes: map[artnet.Universe]*node.UniverseData{},
			RDM:       node.NewRDM(false),
		},
		Running: true,
	}
}

// Step is the pure core of the node: given the current state (nil on first
// call), the static config, and one event, it returns the next state and
// the actions the event produced. Step never performs I/O and never
// blocks.
func Step(state *State, cfg Config, event Event) (*State, []Action) {
	if state == nil {
		state = Init(cfg)
	}

	switch e := event.(type) {
	case RxPacket:
		return stepRxPacket(state, cfg, e)
	case Command:
		return stepCommand(state, cfg, e)
	case Tick:
		return state, nil
	default:
		return state, nil
	}
}

func stepRxPacket(state *State, cfg Config, e RxPacket) (*State, []Action) {
	pkt := e.Packet
	switch pkt.Op {
	case artnet.OpDmx:
		return stepArtDMX(state, cfg, pkt.Dmx)
	case artnet.OpPoll:
		return stepArtPoll(state, cfg, e)
	case artnet.OpAddress:
		return stepArtAddress(state, cfg, pkt.Addr)
	case artnet.OpInput:
		return stepArtInput(state, cfg, pkt.Input)
	case artnet.OpIpProg:
		return stepArtIpProg(state, cfg, pkt.IPProg)
	case artnet.OpRdm:
		return stepArtRdm(state, cfg, pkt.Rdm)
	case artnet.OpRdmSub:
		return stepArtRdmSub(state, cfg, pkt.RdmSub)
	default:
		// Unknown opcodes are discarded silently: Art-Net explicitly
		// permits extension.
		return state, nil
	}
}

func stepArtDMX(state *State, cfg Config, dmx *artnet.DMXPacket) (*State, []Action) {
	if dmx == nil {
		return state, nil
	}
	next := *state
	next.Node = state.Node.Clone()

	u := next.Node.Universes[dmx.Universe]
	if u == nil {
		u = &node.UniverseData{}
		next.Node.Universes[dmx.Universe] = u
	}
	u.Data = dmx.Data
	u.Length = dmx.Length
	u.Sequence = dmx.Sequence

	frame := DMXFrame{
		PortAddress: dmx.Universe,
		Data:        dmx.Data,
		Length:      dmx.Length,
		Sequence:    dmx.Sequence,
		Physical:    dmx.Physical,
		Net:         dmx.Universe.Net(),
		SubUni:      (dmx.Universe.SubNet() << 4) | dmx.Universe.Universe(),
	}

	return &next, []Action{dmxFrameCallback(cfg, frame)}
}

func dmxFrameCallback(cfg Config, frame DMXFrame) Action {
	return Callback{
		Fn: func(any) {
			if cfg.Callbacks.DMXFrame != nil {
				cfg.Callbacks.DMXFrame(frame)
			}
		},
		Payload: frame,
	}
}

func programmingCallback(cfg Config, ev ProgrammingEvent) Action {
	return Callback{
		Fn: func(any) {
			if cfg.Callbacks.Programming != nil {
				cfg.Callbacks.Programming(ev)
			}
		},
		Payload: ev,
	}
}

func stepArtPoll(state *State, cfg Config, e RxPacket) (*State, []Action) {
	reply := buildPollReply(state, cfg)
	action := Send{Packet: artnet.EncodePollReply(reply), Target: senderTarget(e.Sender)}
	if cfg.RandomDelayFn != nil {
		action.DelayMs = cfg.RandomDelayFn()
	}
	return state, []Action{action}
}

func stepArtAddress(state *State, cfg Config, pkt *artnet.AddressPacket) (*State, []Action) {
	if pkt == nil {
		return state, nil
	}
	nextNode, changes := node.ApplyArtAddress(state.Node, *pkt)
	next := *state
	next.Node = nextNode

	actions := broadcastIdentityActions(&next, cfg)
	actions = append(actions, programmingCallback(cfg, ProgrammingEvent{
		Op:      artnet.OpAddress,
		Summary: fmt.Sprintf("artaddress applied: command=%#x ports=%v", changes.Command, changes.PortsChanged),
	}))
	return &next, actions
}

func stepArtInput(state *State, cfg Config, pkt *artnet.InputPacket) (*State, []Action) {
	if pkt == nil {
		return state, nil
	}
	nextNode, changes, _, appliedToBase := node.ApplyArtInput(state.Node, *pkt, cfg.BindIndex)
	if !appliedToBase {
		return state, nil
	}
	next := *state
	next.Node = nextNode

	actions := broadcastIdentityActions(&next, cfg)
	actions = append(actions, programmingCallback(cfg, ProgrammingEvent{
		Op:      artnet.OpInput,
		Summary: fmt.Sprintf("artinput applied: ports=%v", changes.PortsChanged),
	}))
	return &next, actions
}

func stepArtIpProg(state *State, cfg Config, pkt *artnet.IpProgPacket) (*State, []Action) {
	if pkt == nil {
		return state, nil
	}
	nextNetwork, reply := node.ApplyArtIpProg(state.Node.Network, cfg.NetworkDefaults, *pkt)
	next := *state
	next.Node = state.Node.Clone()
	next.Node.Network = nextNetwork

	actions := []Action{
		Send{Packet: artnet.EncodeIpProgReply(&reply)},
		programmingCallback(cfg, ProgrammingEvent{
			Op:      artnet.OpIpProg,
			Summary: fmt.Sprintf("artipprog applied: command=%#x", pkt.Command),
		}),
	}
	return &next, actions
}

func stepArtRdm(state *State, cfg Config, pkt *artnet.RdmPacket) (*State, []Action) {
	if pkt == nil || cfg.Callbacks.RDM == nil {
		return state, nil
	}
	payload := pkt.Payload
	return state, []Action{Callback{
		Fn:      func(any) { cfg.Callbacks.RDM(*pkt) },
		Payload: payload,
	}}
}

func stepArtRdmSub(state *State, cfg Config, pkt *artnet.RdmSubPacket) (*State, []Action) {
	if pkt == nil {
		return state, nil
	}
	h := rdmsub.Header{
		CommandClass:  pkt.CommandClass,
		SubDevice:     pkt.SubDevice,
		SubCount:      int(pkt.SubCount),
		PayloadLength: len(pkt.Payload),
	}
	if !rdmsub.ValidRdmSubPacket(h) {
		if cfg.Callbacks.Diagnostics != nil {
			return state, []Action{Callback{Fn: func(any) { cfg.Callbacks.Diagnostics(fmt.Errorf("logic: invalid rdmsub packet %+v", h)) }}}
		}
		return state, nil
	}

	next := *state
	next.Node = state.Node.Clone()
	if next.Node.RDM != nil {
		port := int(pkt.Net) % 4
		for _, sub := range rdmsub.SubDevices(pkt.SubDevice, int(pkt.SubCount)) {
			next.Node.RDM.Record(port, sub)
		}
	}
	return &next, nil
}

func stepCommand(state *State, cfg Config, cmd Command) (*State, []Action) {
	switch cmd.Kind {
	case CommandApplyState:
		return applyStateCommand(state, cmd)
	case CommandSnapshot:
		return state, []Action{snapshotReply(state, cmd)}
	case CommandShutdown:
		next := *state
		next.Running = false
		return &next, nil
	default:
		return state, nil
	}
}

func applyStateCommand(state *State, cmd Command) (*State, []Action) {
	patch := cmd.Args
	if patch == nil {
		patch = map[string]any{}
	}
	// The patch is schema-checked only to the extent that it must be a
	// map; field-level merging is left to the caller's state shape.
	next := *state
	return &next, []Action{MutateState{Patch: patch}}
}

func snapshotReply(state *State, cmd Command) Action {
	if cmd.Reply == nil {
		return MutateState{}
	}
	var path string
	if p, ok := cmd.Args["path"].(string); ok {
		path = p
	}
	return Reply{Handle: cmd.Reply, Value: project(state, path)}
}

// project extracts a sub-view of state named by path. Only the paths the
// shell's snapshot callers actually use are implemented; an unknown path
// returns the whole node state.
func project(state *State, path string) any {
	switch path {
	case "identity":
		return state.Node.Identity
	case "network":
		return state.Node.Network
	case "ports":
		return state.Node.Ports
	default:
		return state.Node
	}
}

func buildPollReply(state *State, cfg Config) *artnet.PollReplyPacket {
	n := state.Node
	ports := [4]artnet.PortInfo{}
	numPorts := 0
	for i, p := range n.Ports {
		ports[i] = artnet.PortInfo{
			GoodInput:  p.GoodInput,
			GoodOutput: p.GoodOutput,
			SwIn:       p.PortAddress.Universe(),
			SwOut:      p.PortAddress.Universe(),
		}
		numPorts = i + 1
	}

	return &artnet.PollReplyPacket{
		IPAddress:   n.Network.IP,
		Port:        n.Network.Port,
		VersionInfo: n.Identity.VersionInfo,
		Oem:         n.Identity.Oem,
		ShortName:   n.Identity.ShortName,
		LongName:    n.Identity.LongName,
		Ports:       ports,
		NumPorts:    numPorts,
		BindIndex:   n.Identity.BindIndex,
		BindIP:      n.Network.IP,
	}
}

func broadcastIdentityActions(state *State, cfg Config) []Action {
	reply := buildPollReply(state, cfg)
	return []Action{Send{Packet: artnet.EncodePollReply(reply)}}
}

func senderTarget(addr *net.UDPAddr) *resolve.Target {
	if addr == nil {
		return nil
	}
	return &resolve.Target{Host: addr.IP.String(), Port: uint16(addr.Port)}
}
