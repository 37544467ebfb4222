package sftppool

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// DefaultMaxIdle is the idle-capacity used by NewPool.
const DefaultMaxIdle = 10

// Exported variables.
var (
	// ErrPoolNotStarted is returned by Acquire before Start has been called.
	ErrPoolNotStarted = errors.New("session pool is unavailable: not started")
	// ErrInvalidPoolSize is returned by Start when the idle capacity is not positive.
	ErrInvalidPoolSize = errors.New("max idle capacity must be greater than 0")
)

// Pool caches idle SFTP sessions up to a configured capacity.
//
// Acquire returns a cached idle session when one exists and otherwise asks
// the factory for a new one; it never blocks waiting for a session to be
// released. Release caches the session while the pool is running and there
// is idle capacity left, and destroys it otherwise. Only the idle cache is
// bounded: a burst of concurrent callers can hold more live sessions than
// the capacity, and they are trimmed back down as they are released.
//
// A single mutex serializes every state-mutating operation, including
// factory calls on a cache miss. Slow connection setup therefore delays
// concurrent acquires and releases; acceptable for a low-concurrency
// polling adapter, wrong for a high-throughput server.
type Pool struct {
	factory Factory
	maxIdle int

	mu      sync.Mutex
	idle    []Session // nil until Start; FIFO, bounded by maxIdle
	running bool
}

// NewPool creates a pool with the default idle capacity.
// The pool must be started before sessions can be acquired.
func NewPool(factory Factory) *Pool {
	return NewPoolWithSize(factory, DefaultMaxIdle)
}

// NewPoolWithSize creates a pool that keeps at most maxIdle idle sessions.
// The capacity is validated at Start, not here, so a misconfigured pool
// fails loudly at lifecycle time rather than silently clamping.
func NewPoolWithSize(factory Factory, maxIdle int) *Pool {
	return &Pool{
		factory: factory,
		maxIdle: maxIdle,
	}
}

// Start allocates the idle cache and marks the pool running.
// Any sessions still idle from a previous run are destroyed first, so a
// restart never leaks live connections.
func (p *Pool) Start() error {
	if p.maxIdle <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidPoolSize, p.maxIdle)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.idle {
		p.destroy(s)
	}

	p.idle = make([]Session, 0, p.maxIdle)
	p.running = true

	return nil
}

// Stop destroys every idle session, empties the idle cache, and marks the
// pool not running. Sessions released after Stop are destroyed immediately
// instead of being cached. Destruction is best-effort: a close failure on
// one session never prevents the rest from being torn down.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
}

// StopWith runs the same shutdown pass as Stop and then invokes done,
// signaling that dependent components may now shut down as well. The
// not-running transition is guaranteed even if done panics.
func (p *Pool) StopWith(done func()) {
	p.mu.Lock()
	defer func() {
		p.running = false
		p.mu.Unlock()
	}()

	p.stopLocked()
	done()
}

// stopLocked destroys and drops all idle sessions. Caller holds p.mu.
func (p *Pool) stopLocked() {
	for _, s := range p.idle {
		p.destroy(s)
	}
	if p.idle != nil {
		p.idle = p.idle[:0]
	}
	p.running = false
}

// MaxIdle returns the configured idle capacity.
func (p *Pool) MaxIdle() int {
	return p.maxIdle
}

// IdleSize returns the current number of idle sessions in the cache.
func (p *Pool) IdleSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.idle)
}

// IsRunning reports whether the pool is accepting releases into the cache.
func (p *Pool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// Acquire returns an idle session, or a freshly constructed one when the
// cache is empty. It fails with ErrPoolNotStarted before Start and never
// waits for a session to be released. A factory failure propagates to the
// caller unmodified and leaves the pool state untouched.
//
// The factory call happens while holding the pool mutex so that the
// check-then-create sequence is atomic.
func (p *Pool) Acquire() (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.idle == nil {
		return nil, ErrPoolNotStarted
	}

	if len(p.idle) > 0 {
		// FIFO pop; shift in place so the slice keeps its capacity.
		session := p.idle[0]
		copy(p.idle, p.idle[1:])
		p.idle = p.idle[:len(p.idle)-1]

		return session, nil
	}

	return p.factory.NewSession() //nolint:wrapcheck // Factory failures reach the caller unmodified
}

// Release hands a checked-out session back to the pool. While the pool is
// running the session is cached if there is idle capacity left and
// destroyed otherwise; when the pool is not running it is always destroyed.
// A nil session is a no-op. Release never fails observably: it is meant to
// be safe from cleanup/defer paths.
func (p *Pool) Release(session Session) {
	if session == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running && len(p.idle) < p.maxIdle {
		p.idle = append(p.idle, session)
		return
	}

	p.destroy(session)
}

// destroy force-closes a session: first the SFTP channel, then the SSH
// connection underneath, each only if still connected. Close failures are
// logged at warn level and swallowed; teardown must never surface an error
// into caller code.
func (p *Pool) destroy(session Session) {
	if session == nil {
		return
	}

	if channel := session.Channel(); channel != nil && channel.Connected() {
		if err := channel.Close(); err != nil {
			slog.Warn("failed to close SFTP channel during session teardown", "error", err)
		}
	}

	if conn := session.Conn(); conn != nil && conn.Connected() {
		if err := conn.Close(); err != nil {
			slog.Warn("failed to close SSH connection during session teardown", "error", err)
		}
	}
}
