// Package node models the long-lived, mutable state of an Art-Net node:
// identity, programmable network settings, per-port status, DMX universe
// buffers, and RDM sub-device bookkeeping.
package node

import "github.com/gopatchy/artnode/artnet"

// GoodInputDisabledBit mirrors artnet.GoodInputDisabledBit so callers that
// only import node need not reach into the artnet package for it.
const GoodInputDisabledBit = artnet.GoodInputDisabledBit

// Identity carries the name/oem/version fields a node reports in
// ArtPollReply and the bind-index that distinguishes multiple nodes
// sharing one IP.
type Identity struct {
	ShortName   string
	LongName    string
	Oem         uint16
	VersionInfo uint16
	BindIndex   uint8 // ∈ [1, 255]
}

// Network is the node's current programmable network configuration.
type Network struct {
	IP         [4]byte
	SubnetMask [4]byte
	Gateway    [4]byte
	Port       uint16
	DHCP       bool
}

// NetworkDefaults is the immutable snapshot captured at startup, used to
// restore Network on an ArtIpProg reset.
type NetworkDefaults struct {
	IP         [4]byte
	SubnetMask [4]byte
}

// Direction distinguishes a port's role.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// Port is one of a node's four physical DMX ports.
type Port struct {
	GoodInput   uint8
	GoodOutput  uint8
	Disabled    bool
	PortAddress artnet.Universe
	Direction   Direction
}

// UniverseData is the buffered DMX frame for one port-address.
type UniverseData struct {
	Data     [512]byte
	Length   uint16
	Sequence uint8
}

// State is the full node state: identity, network, ports, buffered
// universes, and RDM bookkeeping.
type State struct {
	Identity  Identity
	Network   Network
	Ports     [4]Port
	Universes map[artnet.Universe]*UniverseData
	RDM       *RDM
}

// Clone returns a copy of s whose Universes map is independent of s's: the
// per-port array and scalar fields copy by value already, but the map and
// its pointee UniverseData entries need an explicit deep copy so programming
// functions can treat State as a value type.
func (s State) Clone() State {
	out := s
	if s.Universes != nil {
		out.Universes = make(map[artnet.Universe]*UniverseData, len(s.Universes))
		for k, v := range s.Universes {
			cp := *v
			out.Universes[k] = &cp
		}
	}
	return out
}
