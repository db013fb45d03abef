// Package netio wraps a UDP socket as the node's single send/receive channel.
package netio

import (
	"errors"
	"net"
	"sync"

	"golang.org/x/net/ipv4"
)

// ErrClosed is returned by Recv/Send once the channel has been closed.
var ErrClosed = errors.New("netio: channel closed")

// Config describes how to bind the channel.
type Config struct {
	IP           [4]byte
	Port         uint16
	Broadcast    bool // enable sending to/receiving from broadcast addresses
	ReuseAddress bool // SO_REUSEADDR, so multiple nodes can share bind-index on one host
	TTL          int  // outgoing unicast IP TTL; 0 leaves the OS default in place
}

// Channel is a bound UDP endpoint shared read/write between a receiver and a
// sender task. At most one bound address per Channel; Open transitions from
// true to false exactly once.
type Channel struct {
	conn *net.UDPConn

	mu   sync.Mutex
	open bool
}

// Listen binds a new Channel per cfg.
func Listen(cfg Config) (*Channel, error) {
	addr := &net.UDPAddr{IP: net.IPv4(cfg.IP[0], cfg.IP[1], cfg.IP[2], cfg.IP[3]), Port: int(cfg.Port)}

	conn, err := listenConfigured(addr, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Broadcast {
		if err := enableBroadcast(conn); err != nil {
			conn.Close()
			return nil, err
		}
	}

	channel := &Channel{conn: conn, open: true}

	if cfg.TTL > 0 {
		if err := channel.SetTTL(cfg.TTL); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return channel, nil
}

// LocalAddr returns the bound local address.
func (c *Channel) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Recv reads one datagram into buf, returning the number of bytes read and
// the sender's address.
func (c *Channel) Recv(buf []byte) (int, *net.UDPAddr, error) {
	n, addr, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		if !c.IsOpen() {
			return 0, nil, ErrClosed
		}
		return 0, nil, err
	}
	return n, addr, nil
}

// Send writes one datagram to addr.
func (c *Channel) Send(buf []byte, addr *net.UDPAddr) error {
	_, err := c.conn.WriteToUDP(buf, addr)
	if err != nil && !c.IsOpen() {
		return ErrClosed
	}
	return err
}

// SetTTL sets the outgoing unicast IP TTL for broadcast/poll-reply traffic.
// Art-Net nodes never leave the local subnet, but an explicit low TTL keeps a
// misconfigured route from carrying node traffic further than intended.
func (c *Channel) SetTTL(ttl int) error {
	return ipv4.NewPacketConn(c.conn).SetTTL(ttl)
}

// IsOpen reports whether the channel has not yet been closed.
func (c *Channel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Close closes the underlying socket. Safe to call repeatedly.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil
	}
	c.open = false
	return c.conn.Close()
}
