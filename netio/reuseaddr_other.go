//go:build !unix

package netio

import "net"

// listenConfigured binds addr. SO_REUSEADDR has no portable equivalent
// outside unix-likes, so ReuseAddress is a no-op here.
func listenConfigured(addr *net.UDPAddr, cfg Config) (*net.UDPConn, error) {
	return net.ListenUDP("udp4", addr)
}
