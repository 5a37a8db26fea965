// Package command implements the external signal channel: a line-oriented
// parser that maintains one shared [0,1] value updated from incoming text
// commands, with a staleness decay applied once per emitted frame.
//
// The channel is best-effort telemetry, not a control channel. Anything
// that does not parse as `<key>:<float>` or `<key>=<float>` is silently
// dropped with no acknowledgment.
package command

import (
	"context"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/roomlens/roomlens/pkg/signal"
)

const (
	// DefaultKey is the recognized command key.
	DefaultKey = "cam"
	// DefaultMaxLine bounds the line buffer; bytes past it are dropped
	// until the next terminator so a malformed unterminated stream
	// cannot grow memory.
	DefaultMaxLine = 32
	// DefaultStalenessMs is how long the stored value stays fresh
	// without an update.
	DefaultStalenessMs = 4000
	// DefaultDecayFactor is applied to a stale value once per frame.
	DefaultDecayFactor = 0.8
	// DefaultBacklog is the pump buffer size in bytes.
	DefaultBacklog = 256
)

// Channel owns the external signal pair: the current value and the clock
// tick of its last update. The value is mutated only by a successful parse
// and by DecayIfStale; both run on the loop thread. A concurrent receive
// path hands raw bytes over through Pump, so the shared pair is never
// touched mid-read during frame assembly.
type Channel struct {
	key         string
	maxLine     int
	stalenessMs uint32
	decayFactor float32

	line []byte

	value      float32
	lastUpdate uint32

	backlog chan byte
}

// New creates a channel for the given key. Zero or out-of-range arguments
// fall back to the package defaults.
func New(key string, stalenessMs uint32, decayFactor float32) *Channel {
	if key == "" {
		key = DefaultKey
	}
	if stalenessMs == 0 {
		stalenessMs = DefaultStalenessMs
	}
	if decayFactor <= 0 || decayFactor >= 1 {
		decayFactor = DefaultDecayFactor
	}
	return &Channel{
		key:         key,
		maxLine:     DefaultMaxLine,
		stalenessMs: stalenessMs,
		decayFactor: decayFactor,
		line:        make([]byte, 0, DefaultMaxLine),
		backlog:     make(chan byte, DefaultBacklog),
	}
}

// Value returns the current external signal value, always in [0,1].
func (c *Channel) Value() float32 {
	return c.value
}

// LastUpdate returns the clock tick of the last successful parse.
func (c *Channel) LastUpdate() uint32 {
	return c.lastUpdate
}

// Feed processes incoming bytes on the loop thread, assembling them into
// logical lines on \r or \n boundaries. Empty lines are ignored. now is
// recorded as the update tick for any command completed by these bytes.
func (c *Channel) Feed(data []byte, now uint32) {
	for _, b := range data {
		c.feedByte(b, now)
	}
}

func (c *Channel) feedByte(b byte, now uint32) {
	if b == '\r' || b == '\n' {
		if len(c.line) > 0 {
			c.parseLine(string(c.line), now)
		}
		c.line = c.line[:0]
		return
	}
	// Excess bytes are dropped; the truncated prefix still parses at
	// the terminator.
	if len(c.line) < c.maxLine {
		c.line = append(c.line, b)
	}
}

// parseLine accepts `<key>:<float>` or `<key>=<float>` equivalently. The
// parsed value is clamped into [0,1]. Unrecognized lines are dropped.
func (c *Channel) parseLine(line string, now uint32) {
	if !strings.HasPrefix(line, c.key) {
		return
	}
	rest := line[len(c.key):]
	if len(rest) < 2 || (rest[0] != ':' && rest[0] != '=') {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rest[1:]), 32)
	if err != nil {
		return
	}
	c.value = signal.Clamp01(float32(v))
	c.lastUpdate = now
}

// DecayIfStale fades the value toward zero when no update has arrived for
// longer than the staleness threshold. The pipeline calls this exactly
// once per emitted frame; pollers must not, or the observable geometric
// decay curve changes shape.
func (c *Channel) DecayIfStale(now uint32) {
	if now-c.lastUpdate > c.stalenessMs {
		c.value *= c.decayFactor
	}
}

// Drain consumes all currently backlogged bytes without blocking. Call on
// every loop iteration, before any cadence check, so commands are never
// starved behind frame emission.
func (c *Channel) Drain(now uint32) {
	for {
		select {
		case b := <-c.backlog:
			c.feedByte(b, now)
		default:
			return
		}
	}
}

// Pump copies bytes from r into the backlog until r fails or ctx is done.
// Run it in its own goroutine; it never parses and never touches the
// shared value, so all mutation stays on the loop thread. When the
// backlog is full, bytes are dropped (best-effort channel).
func (c *Channel) Pump(ctx context.Context, r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case c.backlog <- b:
			case <-ctx.Done():
				return
			default:
				// Backlog full; drop.
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("command pump: read error: %v", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
