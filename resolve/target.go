package resolve

import (
	"errors"
	"net"
)

// ErrLimitedBroadcastDisabled is returned by ResolveTarget when the target is
// the limited broadcast address but policy disallows it.
var ErrLimitedBroadcastDisabled = errors.New("resolve: limited broadcast disabled")

// ErrMissingTargetHost is returned when a target lacks a usable host.
var ErrMissingTargetHost = errors.New("resolve: missing target host")

const limitedBroadcast = "255.255.255.255"

// Target is a host/port pair as supplied by configuration or an action.
type Target struct {
	Host string // dotted-quad or empty
	Port uint16 // 0 means "use the Art-Net default"
}

// NormalizeTarget fills in the default Art-Net port when Port is zero and
// validates that Host is present.
func NormalizeTarget(t *Target) (Target, error) {
	if t == nil || t.Host == "" {
		return Target{}, ErrMissingTargetHost
	}
	out := *t
	if out.Port == 0 {
		out.Port = DefaultPort
	}
	return out, nil
}

// ResolveTarget turns a Target into a concrete *net.UDPAddr, gating the
// limited-broadcast address (255.255.255.255) behind allowLimitedBroadcast.
func ResolveTarget(t Target, allowLimitedBroadcast bool) (*net.UDPAddr, error) {
	normalized, err := NormalizeTarget(&t)
	if err != nil {
		return nil, err
	}

	if normalized.Host == limitedBroadcast && !allowLimitedBroadcast {
		return nil, ErrLimitedBroadcastDisabled
	}

	ip := net.ParseIP(normalized.Host)
	if ip == nil {
		return nil, &InvalidHostFormat{Value: normalized.Host}
	}

	return &net.UDPAddr{IP: ip, Port: int(normalized.Port)}, nil
}

// DetectBroadcastAddrs returns the broadcast address of every up,
// non-loopback IPv4 interface on the host.
func DetectBroadcastAddrs(port uint16) []*net.UDPAddr {
	var out []*net.UDPAddr
	seen := map[string]bool{}

	ifaces, err := net.Interfaces()
	if err != nil {
		return out
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil || len(ipnet.Mask) != 4 {
				continue
			}

			bcast := make(net.IP, 4)
			for i := 0; i < 4; i++ {
				bcast[i] = ip4[i] | ^ipnet.Mask[i]
			}

			key := bcast.String()
			if seen[key] {
				continue
			}
			seen[key] = true

			out = append(out, &net.UDPAddr{IP: bcast, Port: int(port)})
		}
	}

	return out
}
