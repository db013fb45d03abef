//go:build !unix

package netio

import "net"

// enableBroadcast is a no-op outside unix-likes; Go's net package already
// permits broadcast sends on those platforms without SO_BROADCAST.
func enableBroadcast(conn *net.UDPConn) error {
	return nil
}
