package shell

import (
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/gopatchy/artnode/logic"
)

// PcapReceiver is an alternate receiver task that captures Art-Net traffic
// off the wire via libpcap instead of binding a UDP socket, so a node can
// observe traffic on a port another process already owns (a second node on
// the same host, a packet logger, etc). It only reads — transmission still
// goes through a netio.Channel-backed Sender.
type PcapReceiver struct {
	handle *pcap.Handle
	events *EventQueue
	diag   *Diagnostics
	done   chan struct{}
}

const pcapSnapLen = 1600

// NewPcapReceiver opens iface for live, promiscuous capture filtered to
// Art-Net's UDP port. Opening the device typically requires capture
// privileges (root, CAP_NET_RAW, or an administrator-installed packet
// filter driver on Windows).
func NewPcapReceiver(iface string, events *EventQueue, diag *Diagnostics) (*PcapReceiver, error) {
	handle, err := pcap.OpenLive(iface, pcapSnapLen, true, pcap.BlockForever)
	if err != nil {
		return nil, err
	}
	if err := handle.SetBPFFilter("udp port 6454"); err != nil {
		handle.Close()
		return nil, err
	}
	return &PcapReceiver{handle: handle, events: events, diag: diag, done: make(chan struct{})}, nil
}

// Run consumes captured packets until Stop closes the handle.
func (r *PcapReceiver) Run() {
	source := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	for {
		select {
		case <-r.done:
			return
		case packet, ok := <-source.Packets():
			if !ok {
				return
			}
			r.handlePacket(packet)
		}
	}
}

// Stop closes the capture handle, unblocking Run's packet channel read.
func (r *PcapReceiver) Stop() {
	close(r.done)
	r.handle.Close()
}

func (r *PcapReceiver) handlePacket(packet gopacket.Packet) {
	udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if !ok || udp == nil {
		return
	}

	var srcIP net.IP
	if ip, ok := packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4); ok && ip != nil {
		srcIP = append(net.IP(nil), ip.SrcIP...)
	}

	decoded, ok := decodePacket(udp.Payload)
	if !ok {
		r.diag.Inc("decode_error")
		return
	}

	r.events.PushRx(logic.RxPacket{
		Packet:    decoded,
		Sender:    &net.UDPAddr{IP: srcIP, Port: int(udp.SrcPort)},
		Timestamp: time.Now(),
	})
}
