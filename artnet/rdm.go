package artnet

import "encoding/binary"

// RdmPacket represents an ArtRdm packet (OpCode 0x8300): a single RDM
// message routed to/from one responder.
type RdmPacket struct {
	Net     uint8
	RdmVer  uint8
	Address [6]byte
	Payload []byte // raw RDM message bytes, validated by package rdmsub
}

const rdmHeaderLen = 20

// DecodeRdm parses an ArtRdm packet body; Payload aliases data's tail.
func DecodeRdm(data []byte) (*RdmPacket, error) {
	if len(data) < rdmHeaderLen {
		return nil, ErrPacketTooShort
	}
	pkt := &RdmPacket{
		Net:    data[10],
		RdmVer: data[12],
	}
	copy(pkt.Address[:], data[13:19])
	pkt.Payload = data[rdmHeaderLen:]
	return pkt, nil
}

// EncodeRdm builds a raw ArtRdm packet.
func EncodeRdm(pkt *RdmPacket) []byte {
	buf := make([]byte, rdmHeaderLen+len(pkt.Payload))
	putHeader(buf, OpRdm)
	buf[10] = pkt.Net
	buf[12] = pkt.RdmVer
	copy(buf[13:19], pkt.Address[:])
	copy(buf[rdmHeaderLen:], pkt.Payload)
	return buf
}

// RdmSubPacket represents an ArtRdmSub packet (OpCode 0x8400): an RDM
// sub-device command addressed to a contiguous run of sub-devices.
type RdmSubPacket struct {
	Net          uint8
	RdmVer       uint8
	Address      [6]byte
	CommandClass uint8
	SubDevice    uint16
	SubCount     uint16
	ParameterID  uint16
	Payload      []byte // sub-count * 2 bytes of per-sub-device data (SET/GET_RESPONSE) or empty (GET/SET_RESPONSE)
}

const rdmSubHeaderLen = 26

// DecodeRdmSub parses an ArtRdmSub packet body; Payload aliases data's tail.
func DecodeRdmSub(data []byte) (*RdmSubPacket, error) {
	if len(data) < rdmSubHeaderLen {
		return nil, ErrPacketTooShort
	}
	pkt := &RdmSubPacket{
		Net:          data[10],
		RdmVer:       data[12],
		CommandClass: data[19],
	}
	copy(pkt.Address[:], data[13:19])
	pkt.SubDevice = binary.BigEndian.Uint16(data[20:22])
	pkt.SubCount = binary.BigEndian.Uint16(data[22:24])
	pkt.ParameterID = binary.BigEndian.Uint16(data[24:26])
	pkt.Payload = data[rdmSubHeaderLen:]
	return pkt, nil
}

// EncodeRdmSub builds a raw ArtRdmSub packet.
func EncodeRdmSub(pkt *RdmSubPacket) []byte {
	buf := make([]byte, rdmSubHeaderLen+len(pkt.Payload))
	putHeader(buf, OpRdmSub)
	buf[10] = pkt.Net
	buf[12] = pkt.RdmVer
	copy(buf[13:19], pkt.Address[:])
	buf[19] = pkt.CommandClass
	binary.BigEndian.PutUint16(buf[20:22], pkt.SubDevice)
	binary.BigEndian.PutUint16(buf[22:24], pkt.SubCount)
	binary.BigEndian.PutUint16(buf[24:26], pkt.ParameterID)
	copy(buf[rdmSubHeaderLen:], pkt.Payload)
	return buf
}
