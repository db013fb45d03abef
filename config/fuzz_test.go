package config

import (
	"testing"

	"github.com/gopatchy/artnode/logic"
)

func FuzzParseQuad(f *testing.F) {
	f.Add("0.0.0.0")
	f.Add("255.255.255.0")
	f.Add("10.0.0.5")
	f.Add("")
	f.Add("not an ip")
	f.Add("1.2.3")
	f.Add("1.2.3.4.5")
	f.Add("256.0.0.0")
	f.Add("-1.0.0.0")

	f.Fuzz(func(t *testing.T, input string) {
		// Must never panic, regardless of input.
		_, _ = parseQuad(input)
	})
}

func FuzzBuildNeverPanics(f *testing.F) {
	f.Add("10.0.0.5", "192.168.1.1", 6454, "255.255.255.0", "0.0.0.1")
	f.Add("", "", 0, "", "")
	f.Add("not an ip", "also not an ip", -1, "garbage", "garbage")

	f.Fuzz(func(t *testing.T, nodeIP, bindHost string, port int, subnetMask, gateway string) {
		portCopy := port
		fileCfg := file{
			Node:    fileNode{IP: nodeIP, Port: &portCopy},
			Bind:    fileBind{Host: bindHost},
			Network: fileNetwork{SubnetMask: subnetMask, Gateway: gateway},
		}
		// Must never panic; an invalid host is a reported error, not a crash.
		_, _ = build(fileCfg, logic.Callbacks{})
	})
}
