package artnet

import "encoding/binary"

// PollPacket represents an ArtPoll packet (OpCode 0x2000).
type PollPacket struct {
	ProtocolVersion uint16
	Flags           uint8
	DiagPriority    uint8
}

// DecodePoll parses an ArtPoll packet body.
func DecodePoll(data []byte) (*PollPacket, error) {
	if len(data) < 14 {
		return nil, ErrPacketTooShort
	}
	return &PollPacket{
		ProtocolVersion: binary.BigEndian.Uint16(data[10:12]),
		Flags:           data[12],
		DiagPriority:    data[13],
	}, nil
}

// EncodePoll builds a raw ArtPoll packet.
func EncodePoll(flags, diagPriority uint8) []byte {
	buf := make([]byte, 14)
	putHeader(buf, OpPoll)
	binary.BigEndian.PutUint16(buf[10:12], ProtocolVersion)
	buf[12] = flags
	buf[13] = diagPriority
	return buf
}

// PortInfo describes one of a node's four physical ports, as reported in
// ArtPollReply.
type PortInfo struct {
	GoodInput  uint8
	GoodOutput uint8
	PortType   uint8
	SwIn       uint8
	SwOut      uint8
}

// PollReplyPacket represents an ArtPollReply packet (OpCode 0x2100).
type PollReplyPacket struct {
	IPAddress   [4]byte
	Port        uint16
	VersionInfo uint16
	NetSwitch   uint8
	SubSwitch   uint8
	Oem         uint16
	UbeaVersion uint8
	Status1     uint8
	EstaMan     uint16
	ShortName   string
	LongName    string
	NodeReport  string
	Ports       [4]PortInfo
	NumPorts    int
	Style       uint8
	MAC         [6]byte
	BindIP      [4]byte
	BindIndex   uint8
	Status2     uint8
}

const pollReplySize = 239

// DecodePollReply parses an ArtPollReply packet body.
func DecodePollReply(data []byte) (*PollReplyPacket, error) {
	if len(data) < 207 {
		return nil, ErrPacketTooShort
	}

	pkt := &PollReplyPacket{
		Port:        binary.LittleEndian.Uint16(data[14:16]),
		VersionInfo: binary.BigEndian.Uint16(data[16:18]),
		NetSwitch:   data[18],
		SubSwitch:   data[19],
		Oem:         binary.BigEndian.Uint16(data[20:22]),
		UbeaVersion: data[22],
		Status1:     data[23],
		EstaMan:     binary.LittleEndian.Uint16(data[24:26]),
	}
	copy(pkt.IPAddress[:], data[10:14])
	pkt.ShortName = trimNulls(data[26:44])
	pkt.LongName = trimNulls(data[44:108])
	pkt.NodeReport = trimNulls(data[108:172])

	numPorts := int(data[173])
	if numPorts > 4 {
		numPorts = 4
	}
	pkt.NumPorts = numPorts

	for i := 0; i < numPorts; i++ {
		pkt.Ports[i] = PortInfo{
			PortType:   data[174+i],
			GoodInput:  data[178+i],
			GoodOutput: data[182+i],
			SwIn:       data[186+i],
			SwOut:      data[190+i],
		}
	}

	if len(data) >= pollReplySize {
		pkt.Style = data[200]
		copy(pkt.MAC[:], data[201:207])
		copy(pkt.BindIP[:], data[207:211])
		pkt.BindIndex = data[212]
		pkt.Status2 = data[213]
	}

	return pkt, nil
}

// EncodePollReply builds a raw ArtPollReply packet.
func EncodePollReply(pkt *PollReplyPacket) []byte {
	buf := make([]byte, pollReplySize)
	putHeader(buf, OpPollReply)
	copy(buf[10:14], pkt.IPAddress[:])
	binary.LittleEndian.PutUint16(buf[14:16], Port)
	binary.BigEndian.PutUint16(buf[16:18], pkt.VersionInfo)
	buf[18] = pkt.NetSwitch
	buf[19] = pkt.SubSwitch
	binary.BigEndian.PutUint16(buf[20:22], pkt.Oem)
	buf[22] = pkt.UbeaVersion
	buf[23] = pkt.Status1
	binary.LittleEndian.PutUint16(buf[24:26], pkt.EstaMan)
	copy(buf[26:44], pkt.ShortName)
	copy(buf[44:108], pkt.LongName)
	copy(buf[108:172], pkt.NodeReport)
	buf[173] = byte(pkt.NumPorts)

	for i := 0; i < pkt.NumPorts && i < 4; i++ {
		p := pkt.Ports[i]
		buf[174+i] = p.PortType
		buf[178+i] = p.GoodInput
		buf[182+i] = p.GoodOutput
		buf[186+i] = p.SwIn
		buf[190+i] = p.SwOut
	}

	buf[200] = pkt.Style
	copy(buf[201:207], pkt.MAC[:])
	copy(buf[207:211], pkt.BindIP[:])
	buf[212] = pkt.BindIndex
	buf[213] = pkt.Status2

	return buf
}

func trimNulls(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
