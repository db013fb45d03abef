package resolve

// Source tags the provenance of a resolved field.
type Source string

const (
	SourceExplicitNode Source = "explicit-node"
	SourceExplicitBind Source = "explicit-bind"
	SourceAutoDetected Source = "auto-detected"
	SourceFallback     Source = "fallback"
	SourceDefault      Source = "default"
)

// DefaultPort is Art-Net's IANA-assigned UDP port.
const DefaultPort = 6454

// FallbackIP is used when auto-detection of a local interface fails.
var FallbackIP = [4]byte{127, 0, 0, 1}

// BindConfig mirrors the recognized `node`/`bind` configuration keys.
// Each field is nil when absent from configuration.
type BindConfig struct {
	NodeIP   interface{} // string, [4]byte, or nil
	NodePort *int

	BindHost interface{} // string, [4]byte, or nil
	BindPort *int
}

// Result is the outcome of bind resolution.
type Result struct {
	IP               [4]byte
	Port             uint16
	IPSource         Source
	PortSource       Source
	NonStandardPort  bool
}

// Resolve merges cfg's precedence into a concrete (ip, port) binding. The
// resulting IP is never the wildcard.
func Resolve(cfg BindConfig) (Result, error) {
	ip, ipSource, err := resolveIP(cfg)
	if err != nil {
		return Result{}, err
	}

	port, portSource, nonStandard := resolvePort(cfg)

	return Result{
		IP:              ip,
		Port:            port,
		IPSource:        ipSource,
		PortSource:      portSource,
		NonStandardPort: nonStandard,
	}, nil
}

func resolveIP(cfg BindConfig) ([4]byte, Source, error) {
	if cfg.NodeIP != nil && !Wildcard(cfg.NodeIP) {
		ip, ok, err := ParseHost(cfg.NodeIP)
		if err != nil {
			return [4]byte{}, "", &InvalidConfig{Field: "node.ip"}
		}
		if ok {
			return ip, SourceExplicitNode, nil
		}
	}

	if cfg.BindHost != nil && !Wildcard(cfg.BindHost) {
		ip, ok, err := ParseHost(cfg.BindHost)
		if err != nil {
			return [4]byte{}, "", &InvalidConfig{Field: "bind.host"}
		}
		if ok {
			return ip, SourceExplicitBind, nil
		}
	}

	// Both absent, nil, or wildcard: try auto-detection.
	if ip, ok := DetectLocalIP(); ok {
		return ip, SourceAutoDetected, nil
	}
	return FallbackIP, SourceFallback, nil
}

func resolvePort(cfg BindConfig) (uint16, Source, bool) {
	if cfg.NodePort != nil {
		return uint16(*cfg.NodePort), SourceExplicitNode, false
	}
	if cfg.BindPort != nil {
		p := uint16(*cfg.BindPort)
		return p, SourceExplicitBind, p != DefaultPort
	}
	return DefaultPort, SourceDefault, false
}
