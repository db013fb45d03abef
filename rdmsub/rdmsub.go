// Package rdmsub implements the RDM sub-device transport carried inside
// Art-Net ArtRdmSub packets: command-class classification, payload length
// validation, and sub-device range enumeration.
package rdmsub

import "fmt"

// RDM command-class values, as carried at byte offset 20 of an RDM payload.
const (
	CommandClassGet         = 0x20
	CommandClassGetResponse = 0x21
	CommandClassSet         = 0x30
	CommandClassSetResponse = 0x31
)

// commandClassOffset is the fixed byte offset of the command class within
// an RDM payload.
const commandClassOffset = 20

var requestClasses = map[uint8]bool{
	CommandClassGet: true,
	CommandClassSet: true,
}

var responseClasses = map[uint8]bool{
	CommandClassGetResponse: true,
	CommandClassSetResponse: true,
}

// IsRequest reports whether cc is a request command class.
func IsRequest(cc uint8) bool { return requestClasses[cc] }

// IsResponse reports whether cc is a response command class.
func IsResponse(cc uint8) bool { return responseClasses[cc] }

// IsValidCommandClass reports whether cc is any known command class.
func IsValidCommandClass(cc uint8) bool { return requestClasses[cc] || responseClasses[cc] }

// CommandClassFromPayload extracts the command class from an RDM payload
// without consuming any notion of position: it works identically whether
// the caller passes a raw byte slice or a positioned buffer's remaining
// bytes, since Go slices carry no implicit cursor.
//
// Returns ok=false when the payload is shorter than commandClassOffset+1.
func CommandClassFromPayload(payload []byte) (cc uint8, ok bool) {
	if len(payload) < commandClassOffset+1 {
		return 0, false
	}
	return payload[commandClassOffset], true
}

// ExpectedDataLength returns the required payload-data length for a given
// command class and sub-device count, per the RDMsub framing contract.
// ok=false means the command class has no defined length rule.
func ExpectedDataLength(cc uint8, subCount int) (length int, ok bool) {
	switch cc {
	case CommandClassGet, CommandClassSetResponse:
		return 0, true
	case CommandClassSet, CommandClassGetResponse:
		return subCount * 2, true
	default:
		return 0, false
	}
}

// Header captures the fields of an RDMsub packet that validity and
// enumeration rules operate over.
type Header struct {
	CommandClass  uint8
	SubDevice     uint16
	SubCount      int
	PayloadLength int
}

// ValidRdmSubPacket reports whether h is a well-formed RDMsub packet:
// command class known, sub-count at least 1, and payload-length matching
// the command class's data-length rule exactly.
func ValidRdmSubPacket(h Header) bool {
	if !IsValidCommandClass(h.CommandClass) {
		return false
	}
	if h.SubCount < 1 {
		return false
	}
	expected, ok := ExpectedDataLength(h.CommandClass, h.SubCount)
	if !ok {
		return false
	}
	return h.PayloadLength == expected
}

// Range describes a contiguous (wrapping) run of sub-device ids.
type Range struct {
	First uint16
	Count int
	Last  uint16
}

// NewRange computes the sub-device range for a base sub-device id and a
// sub-count, with 16-bit modular wraparound.
func NewRange(subDevice uint16, subCount int) Range {
	r := Range{First: subDevice, Count: subCount}
	if subCount > 0 {
		r.Last = uint16(uint32(subDevice) + uint32(subCount) - 1)
	} else {
		r.Last = subDevice
	}
	return r
}

// SubDevices enumerates the sub-device ids in the range, in order, with
// arithmetic modulo 2^16.
func SubDevices(subDevice uint16, subCount int) []uint16 {
	if subCount <= 0 {
		return nil
	}
	out := make([]uint16, subCount)
	for i := 0; i < subCount; i++ {
		out[i] = uint16(uint32(subDevice) + uint32(i))
	}
	return out
}

// Entry zips one enumerated sub-device with its positional index and an
// optional value.
type Entry struct {
	Index     int
	SubDevice uint16
	Value     *uint16
}

// Entries zips sub-devices [subDevice, subDevice+1, ...] (length subCount)
// against values; positions beyond len(values) carry a nil Value.
func Entries(subDevice uint16, subCount int, values []uint16) []Entry {
	devices := SubDevices(subDevice, subCount)
	out := make([]Entry, len(devices))
	for i, d := range devices {
		e := Entry{Index: i, SubDevice: d}
		if i < len(values) {
			v := values[i]
			e.Value = &v
		}
		out[i] = e
	}
	return out
}

// PayloadTooShort reports a payload shorter than the minimum allowed length.
type PayloadTooShort struct {
	N   int
	Min int
}

func (e PayloadTooShort) Error() string {
	return fmt.Sprintf("rdmsub: payload too short: %d bytes, minimum %d", e.N, e.Min)
}

// PayloadTooLong reports a payload longer than the maximum allowed length.
type PayloadTooLong struct {
	N   int
	Max int
}

func (e PayloadTooLong) Error() string {
	return fmt.Sprintf("rdmsub: payload too long: %d bytes, maximum %d", e.N, e.Max)
}

const (
	minPayloadLength = 24
	maxPayloadLength = 255
)

// ValidateLength checks n against the RDM payload length bounds (24..255
// inclusive), returning n unchanged when valid.
func ValidateLength(n int) (int, error) {
	if n < minPayloadLength {
		return 0, PayloadTooShort{N: n, Min: minPayloadLength}
	}
	if n > maxPayloadLength {
		return 0, PayloadTooLong{N: n, Max: maxPayloadLength}
	}
	return n, nil
}

// NormalizeBytes returns an owned, contiguous copy of x's bytes: it never
// aliases the input, so later mutation of x cannot observably affect the
// result (and vice versa).
func NormalizeBytes(x []byte) []byte {
	out := make([]byte, len(x))
	copy(out, x)
	return out
}

// NormalizeBuffer returns a read-only view over a normalized copy of x.
// The returned Buffer owns its backing array independently of x.
func NormalizeBuffer(x []byte) Buffer {
	return Buffer{data: NormalizeBytes(x)}
}

// Buffer is a read-only byte view produced by NormalizeBuffer.
type Buffer struct {
	data []byte
}

// Len returns the number of bytes in the buffer.
func (b Buffer) Len() int { return len(b.data) }

// Bytes returns the buffer's contents. Callers must not mutate the
// returned slice; Buffer does not re-copy on every access.
func (b Buffer) Bytes() []byte { return b.data }

// At returns the byte at index i.
func (b Buffer) At(i int) byte { return b.data[i] }
