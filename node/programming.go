package node

import "github.com/gopatchy/artnode/artnet"

// defaultArtNetPort is 0x1936 (6454), the value an ArtIpProg reset restores
// the port to.
const defaultArtNetPort = 0x1936

// ArtInputChanges records which ports had their disabled flag flipped by
// ApplyArtInput.
type ArtInputChanges struct {
	PortsChanged []int
}

// ApplyArtInput implements §4.4's ArtInput rule: if the packet's bind-index
// does not match targetBindIndex, state is returned unchanged and
// appliedToBase is false — the caller dispatches to whichever bound node
// actually matches. Otherwise each port's disabled flag and good-input byte
// are set from the packet.
func ApplyArtInput(state State, pkt artnet.InputPacket, targetBindIndex uint8) (next State, changes ArtInputChanges, appliedBindIndex uint8, appliedToBase bool) {
	if pkt.BindIndex != targetBindIndex {
		return state, ArtInputChanges{}, targetBindIndex, false
	}

	next = state.Clone()
	for i := 0; i < 4; i++ {
		was := next.Ports[i].Disabled
		next.Ports[i].Disabled = pkt.Disabled[i]
		if pkt.Disabled[i] {
			next.Ports[i].GoodInput = GoodInputDisabledBit
		} else {
			next.Ports[i].GoodInput = 0
		}
		if was != next.Ports[i].Disabled {
			changes.PortsChanged = append(changes.PortsChanged, i)
		}
	}
	return next, changes, targetBindIndex, true
}

// ApplyArtIpProg implements §4.4's ArtIpProg rules: DHCP-enable takes
// priority over reset, which takes priority over the explicit field-set
// bits. Returns the next network state and the mirrored ArtIpProgReply.
func ApplyArtIpProg(network Network, defaults NetworkDefaults, pkt artnet.IpProgPacket) (Network, artnet.IpProgReplyPacket) {
	next := network

	switch {
	case pkt.Command&artnet.IpProgCommandEnableDHCP != 0:
		next.DHCP = true

	case pkt.Command&0x88 == 0x88:
		// Reset requires both the program-enable (0x80) and reset (0x08)
		// bits set together, not 0x08 alone (ArtIpProg command bits beyond
		// 0x40/0x88 decision).
		next.IP = defaults.IP
		next.SubnetMask = defaults.SubnetMask
		next.Gateway = [4]byte{}
		next.Port = defaultArtNetPort
		next.DHCP = false

	default:
		if pkt.Command&artnet.IpProgCommandSetIP != 0 {
			next.IP = pkt.IP
		}
		if pkt.Command&artnet.IpProgCommandSetMask != 0 {
			next.SubnetMask = pkt.Mask
		}
		if pkt.Command&artnet.IpProgCommandSetGateway != 0 {
			next.Gateway = pkt.Gateway
		}
		if pkt.Command&artnet.IpProgCommandSetPort != 0 {
			next.Port = pkt.Port
		}
	}

	reply := artnet.IpProgReplyPacket{
		IP:      next.IP,
		Mask:    next.SubnetMask,
		Gateway: next.Gateway,
		Port:    next.Port,
		DHCP:    next.DHCP,
	}
	return next, reply
}

// noChangeSwitch is the Art-Net convention value (0x7F) in an ArtAddress
// SwIn/SwOut byte meaning "leave this port's switch value unchanged".
const noChangeSwitch = 0x7F

// ArtAddressChanges records which fields ApplyArtAddress actually modified.
type ArtAddressChanges struct {
	ShortName   bool
	LongName    bool
	PortsChanged []int
	Command     uint8
}

// ApplyArtAddress implements §4.4's ArtAddress rule: short-name, long-name,
// and per-port switch values are applied field-locally (the Art-Net 0x7F
// "no change" sentinel is honored for switch bytes), and the command-action
// byte is recorded for the caller to act on. AddressCommandClearOp is also
// applied here: it empties the buffered universes. Applying the same packet twice
// is idempotent: every field assignment is a direct overwrite, not an
// accumulation.
func ApplyArtAddress(state State, pkt artnet.AddressPacket) (State, ArtAddressChanges) {
	next := state.Clone()
	var changes ArtAddressChanges

	if pkt.ShortName != "" {
		next.Identity.ShortName = pkt.ShortName
		changes.ShortName = true
	}
	if pkt.LongName != "" {
		next.Identity.LongName = pkt.LongName
		changes.LongName = true
	}

	for i := 0; i < 4; i++ {
		switch next.Ports[i].Direction {
		case DirectionOutput:
			if pkt.SwOut[i] != noChangeSwitch {
				next.Ports[i].PortAddress = artnet.NewUniverse(pkt.NetSwitch, pkt.SubSwitch, pkt.SwOut[i]&0x0F)
				changes.PortsChanged = append(changes.PortsChanged, i)
			}
		case DirectionInput:
			if pkt.SwIn[i] != noChangeSwitch {
				next.Ports[i].PortAddress = artnet.NewUniverse(pkt.NetSwitch, pkt.SubSwitch, pkt.SwIn[i]&0x0F)
				changes.PortsChanged = append(changes.PortsChanged, i)
			}
		}
	}

	changes.Command = pkt.Command
	switch pkt.Command {
	case artnet.AddressCommandClearOp:
		for addr := range next.Universes {
			delete(next.Universes, addr)
		}
	}

	return next, changes
}
