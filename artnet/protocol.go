// Package artnet implements the wire codec for the Art-Net 4 opcodes this
// node core needs: ArtPoll/ArtPollReply, ArtDmx, ArtAddress/ArtInput/ArtIpProg
// programming, and the ArtRdm/ArtRdmSub framing (sub-device payloads
// themselves are validated by package rdmsub).
package artnet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Port is Art-Net's IANA-assigned UDP port.
	Port = 6454

	OpPoll        = 0x2000
	OpPollReply   = 0x2100
	OpAddress     = 0x6000
	OpInput       = 0x7000
	OpIpProg      = 0xF800
	OpIpProgReply = 0xF900
	OpRdm         = 0x8300
	OpRdmSub      = 0x8400
	OpDmx         = 0x5000

	ProtocolVersion = 14

	// GoodInputDisabledBit marks a port as disabled in a PollReply's
	// GoodInput byte.
	GoodInputDisabledBit = 0x08
)

var (
	// ArtNetID is the fixed 8-byte packet prefix ("Art-Net\0").
	ArtNetID = [8]byte{'A', 'r', 't', '-', 'N', 'e', 't', 0x00}

	ErrInvalidHeader  = errors.New("artnet: invalid header")
	ErrPacketTooShort = errors.New("artnet: packet too short")
	ErrUnknownOpCode  = errors.New("artnet: unknown opcode")
)

// Universe represents an Art-Net port-address (15 bits): Net (7) | SubNet (4) | Universe (4).
type Universe uint16

// NewUniverse packs net/subnet/universe into a Universe (port-address).
func NewUniverse(net, subnet, universe uint8) Universe {
	return Universe((uint16(net&0x7F) << 8) | (uint16(subnet&0x0F) << 4) | uint16(universe&0x0F))
}

func (u Universe) Net() uint8      { return uint8((u >> 8) & 0x7F) }
func (u Universe) SubNet() uint8   { return uint8((u >> 4) & 0x0F) }
func (u Universe) Universe() uint8 { return uint8(u & 0x0F) }

func (u Universe) String() string {
	return fmt.Sprintf("%d.%d.%d", u.Net(), u.SubNet(), u.Universe())
}

// PeekOpCode reads just the header, without fully decoding the packet.
func PeekOpCode(data []byte) (uint16, error) {
	if len(data) < 10 {
		return 0, ErrPacketTooShort
	}
	if !bytes.Equal(data[:8], ArtNetID[:]) {
		return 0, ErrInvalidHeader
	}
	return binary.LittleEndian.Uint16(data[8:10]), nil
}

func putHeader(buf []byte, opCode uint16) {
	copy(buf[0:8], ArtNetID[:])
	binary.LittleEndian.PutUint16(buf[8:10], opCode)
}
