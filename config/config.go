// Package config loads the on-disk TOML configuration and resolves it,
// together with caller-supplied callbacks, into a shell.Config ready for
// shell.New.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/gopatchy/artnode/bufferpool"
	"github.com/gopatchy/artnode/logic"
	"github.com/gopatchy/artnode/node"
	"github.com/gopatchy/artnode/resolve"
	"github.com/gopatchy/artnode/shell"
)

const (
	defaultBufferCount  = 8
	defaultBufferSize   = 1024
	defaultQueueCapacity = 64
	defaultMaxPacket    = 576
)

type fileNode struct {
	ShortName   string `toml:"short_name"`
	LongName    string `toml:"long_name"`
	Oem         uint16 `toml:"oem"`
	VersionInfo uint16 `toml:"version_info"`
	BindIndex   uint8  `toml:"bind_index"`
	IP          string `toml:"ip"`
	Port        *int   `toml:"port"`
}

type fileBind struct {
	Host string `toml:"host"`
	Port *int   `toml:"port"`
}

type fileNetwork struct {
	SubnetMask string `toml:"subnet_mask"`
	Gateway    string `toml:"gateway"`
	DHCP       bool   `toml:"dhcp"`
}

type fileShell struct {
	Broadcast             bool `toml:"broadcast"`
	ReuseAddress          bool `toml:"reuse_address"`
	RxBufferCount         int  `toml:"rx_buffer_count"`
	RxBufferSize          int  `toml:"rx_buffer_size"`
	TxBufferCount         int  `toml:"tx_buffer_count"`
	TxBufferSize          int  `toml:"tx_buffer_size"`
	EventQueueCapacity    int  `toml:"event_queue_capacity"`
	ActionQueueCapacity   int  `toml:"action_queue_capacity"`
	AllowLimitedBroadcast bool   `toml:"allow_limited_broadcast"`
	MaxPacket             int    `toml:"max_packet"`
	PcapInterface         string `toml:"pcap_interface"`
	TTL                   int    `toml:"ttl"`
}

type fileTarget struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// file is the raw shape of the TOML document; Load resolves it into a
// shell.Config.
type file struct {
	Node    fileNode    `toml:"node"`
	Bind    fileBind    `toml:"bind"`
	Network fileNetwork `toml:"network"`
	Shell   fileShell   `toml:"shell"`
	Target  *fileTarget `toml:"target"`
}

// Loaded is the fully resolved configuration. The callback functions are
// not read from the file (TOML has no representation for a function):
// embedders supply Callbacks via Load's second argument, and build places
// them in Shell.Logic.Callbacks.
type Loaded struct {
	Shell shell.Config
	Bind  resolve.Result
}

// Load reads path as TOML, resolves the bind address per package resolve's
// precedence rules, and assembles a shell.Config ready for shell.New.
func Load(path string, callbacks logic.Callbacks) (Loaded, error) {
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return Loaded{}, fmt.Errorf("config: %w", err)
	}
	return build(f, callbacks)
}

func build(f file, callbacks logic.Callbacks) (Loaded, error) {
	bindResult, err := resolve.Resolve(resolve.BindConfig{
		NodeIP:   optionalHost(f.Node.IP),
		NodePort: f.Node.Port,
		BindHost: optionalHost(f.Bind.Host),
		BindPort: f.Bind.Port,
	})
	if err != nil {
		return Loaded{}, err
	}

	subnetMask, err := parseQuad(f.Network.SubnetMask)
	if err != nil {
		return Loaded{}, fmt.Errorf("config: network.subnet_mask: %w", err)
	}
	gateway, err := parseQuad(f.Network.Gateway)
	if err != nil {
		return Loaded{}, fmt.Errorf("config: network.gateway: %w", err)
	}

	identity := node.Identity{
		ShortName:   f.Node.ShortName,
		LongName:    f.Node.LongName,
		Oem:         f.Node.Oem,
		VersionInfo: f.Node.VersionInfo,
		BindIndex:   f.Node.BindIndex,
	}
	network := node.Network{
		IP:         bindResult.IP,
		SubnetMask: subnetMask,
		Gateway:    gateway,
		Port:       bindResult.Port,
		DHCP:       f.Network.DHCP,
	}
	defaults := node.NetworkDefaults{
		IP:         bindResult.IP,
		SubnetMask: subnetMask,
	}

	var target *resolve.Target
	if f.Target != nil {
		target = &resolve.Target{Host: f.Target.Host, Port: uint16(f.Target.Port)}
	}

	logicCfg := logic.Config{
		Identity:              identity,
		Network:               network,
		NetworkDefaults:       defaults,
		BindIndex:             identity.BindIndex,
		Callbacks:             callbacks,
		DefaultTarget:         target,
		AllowLimitedBroadcast: f.Shell.AllowLimitedBroadcast,
		MaxPacket:             withDefault(f.Shell.MaxPacket, defaultMaxPacket),
	}

	shellCfg := shell.Config{
		Bind:         bindResult,
		Broadcast:    f.Shell.Broadcast,
		ReuseAddress: f.Shell.ReuseAddress,
		RxBuffer: bufferpool.Config{
			Count: withDefault(f.Shell.RxBufferCount, defaultBufferCount),
			Size:  withDefault(f.Shell.RxBufferSize, defaultBufferSize),
		},
		TxBuffer: bufferpool.Config{
			Count: withDefault(f.Shell.TxBufferCount, defaultBufferCount),
			Size:  withDefault(f.Shell.TxBufferSize, defaultBufferSize),
		},
		EventQueueCapacity:  withDefault(f.Shell.EventQueueCapacity, defaultQueueCapacity),
		ActionQueueCapacity: withDefault(f.Shell.ActionQueueCapacity, defaultQueueCapacity),
		TTL:                 f.Shell.TTL,
		PcapInterface:       f.Shell.PcapInterface,
		Logic:               logicCfg,
	}

	return Loaded{Shell: shellCfg, Bind: bindResult}, nil
}

func optionalHost(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func parseQuad(s string) ([4]byte, error) {
	if s == "" {
		return [4]byte{}, nil
	}
	ip, _, err := resolve.ParseHost(s)
	return ip, err
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
