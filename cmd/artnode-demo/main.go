// Command artnode-demo is a minimal illustration of embedding the node
// pipeline: load a TOML config, wire logging callbacks, run until
// interrupted. It is not the library's public surface — callers embed
// package config/logic/node/shell directly.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gopatchy/artnode/artnet"
	"github.com/gopatchy/artnode/config"
	"github.com/gopatchy/artnode/logic"
	"github.com/gopatchy/artnode/shell"
)

func main() {
	configPath := flag.String("config", "artnode.toml", "path to TOML config file")
	statsInterval := flag.Duration("stats-interval", 10*time.Second, "diagnostics logging interval")
	flag.Parse()

	callbacks := logic.Callbacks{
		DMXFrame: func(f logic.DMXFrame) {
			log.Printf("[dmx] port-address=%s seq=%d len=%d", f.PortAddress, f.Sequence, f.Length)
		},
		Programming: func(ev logic.ProgrammingEvent) {
			log.Printf("[programming] op=%#x %s", ev.Op, ev.Summary)
		},
		RDM: func(pkt artnet.RdmPacket) {
			log.Printf("[rdm] net=%d len=%d", pkt.Net, len(pkt.Payload))
		},
		Diagnostics: func(err error) {
			log.Printf("[diag] %v", err)
		},
	}

	loaded, err := config.Load(*configPath, callbacks)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lifecycle, err := shell.New(loaded.Shell)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}

	log.Printf("[main] listening addr=%s ip-source=%s port-source=%s",
		lifecycle.LocalAddr(), loaded.Bind.IPSource, loaded.Bind.PortSource)

	lifecycle.Run()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			log.Println("[main] shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = lifecycle.CommandBus().Shutdown(ctx)
			cancel()
			lifecycle.Wait()
			return
		case <-ticker.C:
			for name, count := range lifecycle.Diagnostics().Snapshot() {
				log.Printf("[stats] %s=%d", name, count)
			}
		}
	}
}
