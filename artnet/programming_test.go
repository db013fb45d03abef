package artnet

import "testing"

func TestAddressRoundtrip(t *testing.T) {
	want := &AddressPacket{
		NetSwitch: 1,
		BindIndex: 2,
		ShortName: "short",
		LongName:  "a longer descriptive name",
		SwIn:      [4]uint8{1, 2, 3, 4},
		SwOut:     [4]uint8{5, 6, 7, 8},
		SubSwitch: 9,
		Command:   AddressCommandCancelMerge,
	}
	got, err := DecodeAddress(EncodeAddress(want))
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if *got != *want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAddressDecodeTooShort(t *testing.T) {
	if _, err := DecodeAddress(make([]byte, 10)); err != ErrPacketTooShort {
		t.Fatalf("got %v, want ErrPacketTooShort", err)
	}
}

func TestInputRoundtrip(t *testing.T) {
	want := &InputPacket{
		BindIndex: 3,
		Disabled:  [4]bool{true, false, true, false},
	}
	got, err := DecodeInput(EncodeInput(want))
	if err != nil {
		t.Fatalf("DecodeInput: %v", err)
	}
	if *got != *want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestIpProgRoundtrip(t *testing.T) {
	want := &IpProgPacket{
		Command: IpProgCommandSetIP | IpProgCommandSetMask,
		IP:      [4]byte{192, 168, 1, 10},
		Mask:    [4]byte{255, 255, 255, 0},
		Gateway: [4]byte{192, 168, 1, 1},
		Port:    6454,
	}
	got, err := DecodeIpProg(EncodeIpProg(want))
	if err != nil {
		t.Fatalf("DecodeIpProg: %v", err)
	}
	if *got != *want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestIpProgReplyEncodesDHCPBit(t *testing.T) {
	pkt := EncodeIpProgReply(&IpProgReplyPacket{
		IP:   [4]byte{10, 0, 0, 1},
		Mask: [4]byte{255, 0, 0, 0},
		Port: 6454,
		DHCP: true,
	})
	if pkt[30] != 0x40 {
		t.Fatalf("expected DHCP bit set at offset 30, got %#x", pkt[30])
	}
}

func FuzzAddressDecodeNeverPanics(f *testing.F) {
	f.Add(EncodeAddress(&AddressPacket{ShortName: "x", LongName: "y"}))
	f.Add(make([]byte, 0))
	f.Add(make([]byte, 107))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeAddress(data)
	})
}
