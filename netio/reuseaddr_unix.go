//go:build unix

package netio

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// listenConfigured binds addr, applying SO_REUSEADDR first when requested.
func listenConfigured(addr *net.UDPAddr, cfg Config) (*net.UDPConn, error) {
	if !cfg.ReuseAddress {
		return net.ListenUDP("udp4", addr)
	}

	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var setErr error
			if err := c.Control(func(fd uintptr) {
				setErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return setErr
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp4", addr.String())
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}
