package logic

import (
	"github.com/gopatchy/artnode/artnet"
	"github.com/gopatchy/artnode/node"
	"github.com/gopatchy/artnode/resolve"
)

// Callbacks are the user-supplied hooks the logic step schedules via
// Callback actions. Any of them may be nil.
type Callbacks struct {
	DMXFrame    func(DMXFrame)
	Programming func(ProgrammingEvent)
	RDM         func(packet artnet.RdmPacket)
	Diagnostics func(err error)
}

// Config is the subset of the embedder's configuration the logic step needs
// to initialize its private state on first invocation. It is built by
// package config from the on-disk TOML configuration.
type Config struct {
	Identity         node.Identity
	Network          node.Network
	NetworkDefaults  node.NetworkDefaults
	BindIndex        uint8 // target bind-index used to match ArtInput packets
	Callbacks        Callbacks
	DefaultTarget    *resolve.Target
	AllowLimitedBroadcast bool
	RandomDelayFn    func() int // supplies jitter in ms for ArtPollReply spreading; nil means no jitter
	MaxPacket        int
}
