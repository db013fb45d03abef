package artnet

import "encoding/binary"

// AddressPacket represents an ArtAddress packet (OpCode 0x6000), used to
// reprogram a node's short/long name, port-addresses, and command action.
type AddressPacket struct {
	NetSwitch   uint8
	BindIndex   uint8
	ShortName   string
	LongName    string
	SwIn        [4]uint8
	SwOut       [4]uint8
	SubSwitch   uint8
	Command     uint8 // command-action: cancel-merge, clear-buffers, etc.
}

// ArtAddress command-action values (subset the node core acts on).
const (
	AddressCommandNone        = 0x00
	AddressCommandCancelMerge = 0x01
	AddressCommandClearOp     = 0x04
)

// DecodeAddress parses an ArtAddress packet body.
func DecodeAddress(data []byte) (*AddressPacket, error) {
	if len(data) < 107 {
		return nil, ErrPacketTooShort
	}
	return &AddressPacket{
		NetSwitch: data[10],
		BindIndex: data[11],
		ShortName: trimNulls(data[12:30]),
		LongName:  trimNulls(data[30:94]),
		SwIn:      [4]uint8{data[94], data[95], data[96], data[97]},
		SwOut:     [4]uint8{data[98], data[99], data[100], data[101]},
		SubSwitch: data[102],
		Command:   data[106],
	}, nil
}

// EncodeAddress builds a raw ArtAddress packet.
func EncodeAddress(pkt *AddressPacket) []byte {
	buf := make([]byte, 107)
	putHeader(buf, OpAddress)
	buf[10] = pkt.NetSwitch
	buf[11] = pkt.BindIndex
	copy(buf[12:30], pkt.ShortName)
	copy(buf[30:94], pkt.LongName)
	copy(buf[94:98], pkt.SwIn[:])
	copy(buf[98:102], pkt.SwOut[:])
	buf[102] = pkt.SubSwitch
	buf[106] = pkt.Command
	return buf
}

// InputPacket represents an ArtInput packet (OpCode 0x7000): per-port
// disable flags targeted at a specific bind-index.
type InputPacket struct {
	BindIndex uint8
	Disabled  [4]bool
}

// DecodeInput parses an ArtInput packet body.
func DecodeInput(data []byte) (*InputPacket, error) {
	if len(data) < 19 {
		return nil, ErrPacketTooShort
	}
	pkt := &InputPacket{BindIndex: data[12]}
	for i := 0; i < 4; i++ {
		pkt.Disabled[i] = data[15+i]&GoodInputDisabledBit != 0
	}
	return pkt, nil
}

// EncodeInput builds a raw ArtInput packet.
func EncodeInput(pkt *InputPacket) []byte {
	buf := make([]byte, 19)
	putHeader(buf, OpInput)
	buf[12] = pkt.BindIndex
	for i := 0; i < 4; i++ {
		if pkt.Disabled[i] {
			buf[15+i] = GoodInputDisabledBit
		}
	}
	return buf
}

// ArtIpProg command-byte bits.
const (
	IpProgCommandEnableDHCP = 0x40
	IpProgCommandReset      = 0x08 // combined with 0x80 "program enable" -> 0x88
	IpProgCommandSetIP      = 0x01
	IpProgCommandSetMask    = 0x02
	IpProgCommandSetGateway = 0x04
	IpProgCommandSetPort    = 0x10
)

// IpProgPacket represents an ArtIpProg packet (OpCode 0xF800).
type IpProgPacket struct {
	Command uint8
	IP      [4]byte
	Mask    [4]byte
	Gateway [4]byte
	Port    uint16
}

// DecodeIpProg parses an ArtIpProg packet body.
func DecodeIpProg(data []byte) (*IpProgPacket, error) {
	if len(data) < 32 {
		return nil, ErrPacketTooShort
	}
	pkt := &IpProgPacket{Command: data[14]}
	copy(pkt.IP[:], data[16:20])
	copy(pkt.Mask[:], data[20:24])
	copy(pkt.Gateway[:], data[24:28])
	pkt.Port = binary.BigEndian.Uint16(data[28:30])
	return pkt, nil
}

// EncodeIpProg builds a raw ArtIpProg packet.
func EncodeIpProg(pkt *IpProgPacket) []byte {
	buf := make([]byte, 32)
	putHeader(buf, OpIpProg)
	buf[14] = pkt.Command
	copy(buf[16:20], pkt.IP[:])
	copy(buf[20:24], pkt.Mask[:])
	copy(buf[24:28], pkt.Gateway[:])
	binary.BigEndian.PutUint16(buf[28:30], pkt.Port)
	return buf
}

// IpProgReplyPacket represents an ArtIpProgReply packet (OpCode 0xF900),
// always sent in response to ArtIpProg and mirroring the new network state.
type IpProgReplyPacket struct {
	IP      [4]byte
	Mask    [4]byte
	Gateway [4]byte
	Port    uint16
	DHCP    bool
}

// EncodeIpProgReply builds a raw ArtIpProgReply packet.
func EncodeIpProgReply(pkt *IpProgReplyPacket) []byte {
	buf := make([]byte, 34)
	putHeader(buf, OpIpProgReply)
	copy(buf[10:14], pkt.IP[:])
	copy(buf[14:18], pkt.Mask[:])
	binary.BigEndian.PutUint16(buf[18:20], pkt.Port)
	copy(buf[24:28], pkt.Gateway[:])
	if pkt.DHCP {
		buf[30] = 0x40
	}
	return buf
}
