package shell

import "sync"

// Diagnostics is a set of named counters recording runtime conditions the
// pipeline treats as non-fatal: decode failures, queue overflows, send
// errors. Uses the same swap-and-reset approach as a periodic stats printer.
type Diagnostics struct {
	mu     sync.Mutex
	counts map[string]uint64
}

// NewDiagnostics returns an empty counter set.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{counts: map[string]uint64{}}
}

// Inc increments the named counter by one.
func (d *Diagnostics) Inc(name string) {
	d.mu.Lock()
	d.counts[name]++
	d.mu.Unlock()
}

// Snapshot returns the current counts and resets them to zero.
func (d *Diagnostics) Snapshot() map[string]uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.counts
	d.counts = map[string]uint64{}
	return out
}
