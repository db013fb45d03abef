package node

import (
	"testing"
	"time"

	"github.com/gopatchy/artnode/artnet"
)

// Scenario 3: ArtInput bind mismatch.
func TestApplyArtInputBindMismatchIsIdentity(t *testing.T) {
	base := State{Identity: Identity{BindIndex: 5}}
	pkt := artnet.InputPacket{
		BindIndex: 9,
		Disabled:  [4]bool{true, false, false, false},
	}

	next, changes, applied, appliedToBase := ApplyArtInput(base, pkt, 7)

	if appliedToBase {
		t.Fatalf("appliedToBase should be false on bind-index mismatch")
	}
	if applied != 7 {
		t.Fatalf("appliedBindIndex = %d, want 7", applied)
	}
	if len(changes.PortsChanged) != 0 {
		t.Fatalf("expected no port changes, got %v", changes.PortsChanged)
	}
	if next.Identity != base.Identity || next.Network != base.Network || next.Ports != base.Ports {
		t.Fatalf("node state should be unchanged: got %+v, want %+v", next, base)
	}
}

func TestApplyArtInputMatchingBindIndexApplies(t *testing.T) {
	base := State{Identity: Identity{BindIndex: 7}}
	pkt := artnet.InputPacket{
		BindIndex: 7,
		Disabled:  [4]bool{true, false, true, false},
	}

	next, changes, applied, appliedToBase := ApplyArtInput(base, pkt, 7)

	if !appliedToBase {
		t.Fatalf("appliedToBase should be true on bind-index match")
	}
	if applied != 7 {
		t.Fatalf("appliedBindIndex = %d, want 7", applied)
	}
	want := []int{0, 2}
	if len(changes.PortsChanged) != len(want) {
		t.Fatalf("got changed ports %v, want %v", changes.PortsChanged, want)
	}
	for i, p := range want {
		if changes.PortsChanged[i] != p {
			t.Fatalf("got changed ports %v, want %v", changes.PortsChanged, want)
		}
	}
	if next.Ports[0].GoodInput != GoodInputDisabledBit || !next.Ports[0].Disabled {
		t.Fatalf("port 0 should be disabled: %+v", next.Ports[0])
	}
	if next.Ports[1].GoodInput != 0 || next.Ports[1].Disabled {
		t.Fatalf("port 1 should be enabled: %+v", next.Ports[1])
	}
}

// Scenario 4: ArtIpProg reset.
func TestApplyArtIpProgResetScenario(t *testing.T) {
	network := Network{
		IP:         [4]byte{3, 3, 3, 3},
		SubnetMask: [4]byte{255, 255, 0, 0},
		Gateway:    [4]byte{3, 3, 3, 1},
		Port:       0x3333,
		DHCP:       true,
	}
	defaults := NetworkDefaults{
		IP:         [4]byte{2, 2, 2, 2},
		SubnetMask: [4]byte{255, 0, 0, 0},
	}
	pkt := artnet.IpProgPacket{Command: 0x88}

	next, reply := ApplyArtIpProg(network, defaults, pkt)

	want := Network{
		IP:         [4]byte{2, 2, 2, 2},
		SubnetMask: [4]byte{255, 0, 0, 0},
		Gateway:    [4]byte{0, 0, 0, 0},
		Port:       0x1936,
		DHCP:       false,
	}
	if next != want {
		t.Fatalf("got %+v, want %+v", next, want)
	}
	if reply.IP != want.IP || reply.Mask != want.SubnetMask || reply.Gateway != want.Gateway ||
		reply.Port != want.Port || reply.DHCP != want.DHCP {
		t.Fatalf("reply does not mirror new state: %+v", reply)
	}
}

// Scenario 5: ArtIpProg DHCP enable.
func TestApplyArtIpProgDHCPEnableScenario(t *testing.T) {
	network := Network{
		IP:         [4]byte{10, 0, 0, 5},
		SubnetMask: [4]byte{255, 255, 255, 0},
		Gateway:    [4]byte{10, 0, 0, 1},
		Port:       6454,
		DHCP:       false,
	}
	defaults := NetworkDefaults{}
	pkt := artnet.IpProgPacket{Command: artnet.IpProgCommandEnableDHCP}

	next, reply := ApplyArtIpProg(network, defaults, pkt)

	if !next.DHCP {
		t.Fatalf("DHCP should be enabled")
	}
	if next.IP != network.IP || next.SubnetMask != network.SubnetMask ||
		next.Gateway != network.Gateway || next.Port != network.Port {
		t.Fatalf("other fields should be unchanged: got %+v, want fields from %+v", next, network)
	}
	if !reply.DHCP || reply.IP != network.IP {
		t.Fatalf("reply should mirror new state: %+v", reply)
	}
}

func TestApplyArtAddressIdempotent(t *testing.T) {
	base := State{Ports: [4]Port{
		{Direction: DirectionOutput},
		{Direction: DirectionOutput},
		{Direction: DirectionInput},
		{Direction: DirectionInput},
	}}
	pkt := artnet.AddressPacket{
		ShortName: "node-a",
		LongName:  "node-a long",
		NetSwitch: 1,
		SubSwitch: 2,
		SwOut:     [4]uint8{3, noChangeSwitch, 0, 0},
		SwIn:      [4]uint8{0, 0, 5, noChangeSwitch},
	}

	once, _ := ApplyArtAddress(base, pkt)
	twice, _ := ApplyArtAddress(once, pkt)

	if once.Identity != twice.Identity {
		t.Fatalf("identity should be idempotent: %+v vs %+v", once.Identity, twice.Identity)
	}
	if once.Ports != twice.Ports {
		t.Fatalf("ports should be idempotent: %+v vs %+v", once.Ports, twice.Ports)
	}
}

func TestApplyArtAddressHonorsNoChangeSentinel(t *testing.T) {
	base := State{Ports: [4]Port{{Direction: DirectionOutput, PortAddress: artnet.NewUniverse(9, 9, 9)}}}
	pkt := artnet.AddressPacket{SwOut: [4]uint8{noChangeSwitch, 0, 0, 0}}

	next, changes := ApplyArtAddress(base, pkt)

	if next.Ports[0].PortAddress != base.Ports[0].PortAddress {
		t.Fatalf("port-address should be unchanged when SwOut is the no-change sentinel")
	}
	for _, i := range changes.PortsChanged {
		if i == 0 {
			t.Fatalf("port 0 should not be reported as changed")
		}
	}
}

func TestRDMTrackerRecordAndExpire(t *testing.T) {
	r := NewRDM(true)
	r.Record(0, 100)
	r.Record(0, 101)

	devices := r.SubDevices(0)
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}

	r.Expire(0, -time.Second) // negative maxAge pushes the cutoff into the future, forcing expiry
	if len(r.SubDevices(0)) != 0 {
		t.Fatalf("expected all entries expired")
	}
}

func TestStateCloneDoesNotAliasUniverses(t *testing.T) {
	u := artnet.NewUniverse(0, 0, 1)
	base := State{Universes: map[artnet.Universe]*UniverseData{
		u: {Length: 10},
	}}
	clone := base.Clone()
	clone.Universes[u].Length = 99

	if base.Universes[u].Length == 99 {
		t.Fatalf("Clone should not alias the original Universes map")
	}
}
