// Package bufferpool provides a bounded pool of fixed-size byte buffers.
package bufferpool

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Get once the pool has been closed.
var ErrClosed = errors.New("bufferpool: closed")

// Config describes a pool's shape.
type Config struct {
	Count  int // number of buffers in the pool
	Size   int // size in bytes of each buffer
	Direct bool
}

// Pool is a fixed-capacity set of reusable byte buffers. Outstanding checkouts
// can never exceed Count; Release on an already-released buffer is a no-op.
type Pool struct {
	size int

	mu       sync.Mutex
	cond     *sync.Cond
	free     [][]byte
	checked  map[*byte]bool // outstanding checkouts, keyed by buffer identity
	closed   bool
}

func bufID(buf []byte) *byte {
	if cap(buf) == 0 {
		return nil
	}
	return &buf[:1][0]
}

// New creates a pool with cfg.Count buffers of cfg.Size bytes each, all
// available for checkout immediately.
func New(cfg Config) *Pool {
	p := &Pool{
		size:    cfg.Size,
		free:    make([][]byte, 0, cfg.Count),
		checked: make(map[*byte]bool, cfg.Count),
	}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < cfg.Count; i++ {
		p.free = append(p.free, make([]byte, cfg.Size))
	}
	return p
}

// Get checks out a buffer, blocking until one is available or the pool is
// closed.
func (p *Pool) Get() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.closed && len(p.free) == 0 {
		p.cond.Wait()
	}
	if p.closed {
		return nil, ErrClosed
	}

	n := len(p.free) - 1
	buf := p.free[n]
	p.free = p.free[:n]
	buf = buf[:cap(buf)]
	p.checked[bufID(buf)] = true
	return buf, nil
}

// TryGet checks out a buffer without blocking; ok is false if none is
// currently available or the pool is closed.
func (p *Pool) TryGet() (buf []byte, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || len(p.free) == 0 {
		return nil, false
	}

	n := len(p.free) - 1
	buf = p.free[n]
	p.free = p.free[:n]
	buf = buf[:cap(buf)]
	p.checked[bufID(buf)] = true
	return buf, true
}

// Release returns a buffer to the pool, making it eligible for reuse. Passing
// a buffer not originally sized by this pool, or releasing nil, is a no-op.
func (p *Pool) Release(buf []byte) {
	if buf == nil || cap(buf) != p.size {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	id := bufID(buf)
	if !p.checked[id] {
		// Not currently checked out: double release, ignore.
		return
	}
	delete(p.checked, id)
	p.free = append(p.free, buf)
	p.cond.Signal()
}

// Close marks the pool closed, waking any blocked Get calls. Safe to call
// repeatedly.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.cond.Broadcast()
}

// Size returns the configured buffer size.
func (p *Pool) Size() int {
	return p.size
}

// Available returns the number of buffers currently checked in. Intended for
// diagnostics/tests, not for synchronization.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
