package logic

import (
	"net"
	"testing"

	"github.com/gopatchy/artnode/artnet"
	"github.com/gopatchy/artnode/node"
)

func testUDPAddr(t *testing.T, s string) *net.UDPAddr {
	t.Helper()
	addr, err := net.ResolveUDPAddr("udp", s)
	if err != nil {
		t.Fatalf("ResolveUDPAddr(%q): %v", s, err)
	}
	return addr
}

func baseConfig() Config {
	return Config{
		Identity: node.Identity{ShortName: "n", BindIndex: 1},
		Network:  node.Network{IP: [4]byte{10, 0, 0, 5}, Port: 6454},
	}
}

func TestStepInitializesStateOnFirstCall(t *testing.T) {
	cfg := baseConfig()
	state, actions := Step(nil, cfg, Tick{})
	if state == nil {
		t.Fatalf("expected initialized state")
	}
	if !state.Running {
		t.Fatalf("expected Running = true after init")
	}
	if actions != nil {
		t.Fatalf("tick should produce no actions, got %v", actions)
	}
	if state.Node.Identity != cfg.Identity {
		t.Fatalf("identity not initialized from config: %+v", state.Node.Identity)
	}
}

func TestStepArtDMXUpdatesUniverseAndEmitsCallback(t *testing.T) {
	cfg := baseConfig()
	var got DMXFrame
	cfg.Callbacks.DMXFrame = func(f DMXFrame) { got = f }

	state := Init(cfg)
	universe := artnet.NewUniverse(1, 2, 3)
	data := make([]byte, 512)
	data[0] = 0xAB

	dmx, err := artnet.DecodeDMX(artnet.EncodeDMX(universe, 5, 0, data))
	if err != nil {
		t.Fatalf("DecodeDMX: %v", err)
	}

	next, actions := Step(state, cfg, RxPacket{Packet: DecodedPacket{Op: artnet.OpDmx, Dmx: dmx}})
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	cb, ok := actions[0].(Callback)
	if !ok {
		t.Fatalf("expected Callback action, got %T", actions[0])
	}
	cb.Fn(cb.Payload)
	if got.PortAddress != universe || got.Data[0] != 0xAB {
		t.Fatalf("callback payload mismatch: %+v", got)
	}

	u, ok := next.Node.Universes[universe]
	if !ok {
		t.Fatalf("universe not recorded in state")
	}
	if u.Data[0] != 0xAB {
		t.Fatalf("universe data mismatch: %+v", u.Data[0])
	}

	// Original state untouched (Step must not mutate its input).
	if _, ok := state.Node.Universes[universe]; ok {
		t.Fatalf("Step mutated the input state")
	}
}

func TestStepArtInputNonMatchingBindIndexIsIdentity(t *testing.T) {
	cfg := baseConfig()
	cfg.BindIndex = 7
	state := Init(cfg)

	pkt := &artnet.InputPacket{BindIndex: 9, Disabled: [4]bool{true}}
	next, actions := Step(state, cfg, RxPacket{Packet: DecodedPacket{Op: artnet.OpInput, Input: pkt}})

	if actions != nil {
		t.Fatalf("expected no actions on bind-index mismatch, got %v", actions)
	}
	if next.Node.Ports != state.Node.Ports {
		t.Fatalf("ports should be unchanged: %+v vs %+v", next.Node.Ports, state.Node.Ports)
	}
}

func TestStepArtPollEmitsSendTargetedAtSender(t *testing.T) {
	cfg := baseConfig()
	state := Init(cfg)

	sender := testUDPAddr(t, "192.168.1.5:6454")
	_, actions := Step(state, cfg, RxPacket{Packet: DecodedPacket{Op: artnet.OpPoll}, Sender: sender})

	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	send, ok := actions[0].(Send)
	if !ok {
		t.Fatalf("expected Send action, got %T", actions[0])
	}
	if send.Target == nil || send.Target.Host != "192.168.1.5" {
		t.Fatalf("expected target host 192.168.1.5, got %+v", send.Target)
	}
	op, err := artnet.PeekOpCode(send.Packet)
	if err != nil || op != artnet.OpPollReply {
		t.Fatalf("expected an ArtPollReply packet: op=%#x err=%v", op, err)
	}
}

func TestStepUnknownOpcodeIsDiscarded(t *testing.T) {
	cfg := baseConfig()
	state := Init(cfg)
	next, actions := Step(state, cfg, RxPacket{Packet: DecodedPacket{Op: 0x9999}})
	if actions != nil {
		t.Fatalf("expected no actions for an unknown opcode, got %v", actions)
	}
	if next != state {
		t.Fatalf("expected identical state pointer for a no-op dispatch")
	}
}

func TestStepCommandApplyStateNilAndEmptyAreEquivalent(t *testing.T) {
	cfg := baseConfig()
	state := Init(cfg)

	_, actionsNil := Step(state, cfg, Command{Kind: CommandApplyState, Args: nil})
	_, actionsEmpty := Step(state, cfg, Command{Kind: CommandApplyState, Args: map[string]any{}})

	patchNil := actionsNil[0].(MutateState).Patch
	patchEmpty := actionsEmpty[0].(MutateState).Patch
	if len(patchNil) != len(patchEmpty) {
		t.Fatalf("apply-state(nil) should equal apply-state({}): %v vs %v", patchNil, patchEmpty)
	}
}

func TestStepCommandSnapshotReplies(t *testing.T) {
	cfg := baseConfig()
	state := Init(cfg)
	reply := make(chan any, 1)

	_, actions := Step(state, cfg, Command{Kind: CommandSnapshot, Args: map[string]any{"path": "identity"}, Reply: reply})
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	r, ok := actions[0].(Reply)
	if !ok {
		t.Fatalf("expected Reply action, got %T", actions[0])
	}
	id, ok := r.Value.(node.Identity)
	if !ok || id != cfg.Identity {
		t.Fatalf("expected projected identity, got %+v", r.Value)
	}
}

func TestStepCommandShutdownStopsRunning(t *testing.T) {
	cfg := baseConfig()
	state := Init(cfg)
	next, _ := Step(state, cfg, Command{Kind: CommandShutdown})
	if next.Running {
		t.Fatalf("expected Running = false after shutdown command")
	}
}
