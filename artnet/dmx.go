package artnet

import "encoding/binary"

// DMXPacket represents an ArtDmx packet (OpCode 0x5000).
type DMXPacket struct {
	ProtocolVersion uint16
	Sequence        uint8
	Physical        uint8
	Universe        Universe
	Length          uint16
	Data            [512]byte
}

// DecodeDMX parses an ArtDmx packet body (data includes the header).
func DecodeDMX(data []byte) (*DMXPacket, error) {
	if len(data) < 18 {
		return nil, ErrPacketTooShort
	}

	pkt := &DMXPacket{
		ProtocolVersion: binary.BigEndian.Uint16(data[10:12]),
		Sequence:        data[12],
		Physical:        data[13],
		Universe:        Universe(binary.LittleEndian.Uint16(data[14:16])),
		Length:          binary.BigEndian.Uint16(data[16:18]),
	}

	dataLen := int(pkt.Length)
	if dataLen > 512 {
		dataLen = 512
	}
	if len(data) >= 18+dataLen {
		copy(pkt.Data[:], data[18:18+dataLen])
	}

	return pkt, nil
}

// EncodeDMX builds a raw ArtDmx packet.
func EncodeDMX(universe Universe, sequence, physical uint8, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 512 {
		dataLen = 512
	}
	if dataLen%2 != 0 {
		dataLen++
	}
	if dataLen < 2 {
		dataLen = 2
	}

	buf := make([]byte, 18+dataLen)
	putHeader(buf, OpDmx)
	binary.BigEndian.PutUint16(buf[10:12], ProtocolVersion)
	buf[12] = sequence
	buf[13] = physical
	binary.LittleEndian.PutUint16(buf[14:16], uint16(universe))
	binary.BigEndian.PutUint16(buf[16:18], uint16(dataLen))
	copy(buf[18:], data)

	return buf
}
