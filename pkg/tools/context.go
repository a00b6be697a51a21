package tools

import (
	"time"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

// Context carries per-turn caller state into tool handlers. The
// dispatcher hands every call its own copy, so handlers may use the
// streaming hook without coordinating with each other.
type Context struct {
	UserID                string
	TurnID                string
	Unit                  string
	SoundEnabled          bool
	TimezoneOffsetMinutes int
	Now                   time.Time

	toolName  string
	stream    BlockHandler
	collected blocks.List
	streamed  bool
}

// BlockHandler delivers blocks produced by a tool call. The return
// value reports whether the delivery was actually accepted.
type BlockHandler func(toolName string, bl blocks.List) bool

// forCall returns a per-call copy bound to one tool invocation.
func (c *Context) forCall(toolName string, stream BlockHandler) *Context {
	cc := &Context{}
	if c != nil {
		*cc = *c
	}
	cc.toolName = toolName
	cc.stream = stream
	cc.collected = nil
	cc.streamed = false
	return cc
}

// LocalNow returns the turn timestamp shifted into the caller's
// timezone. A zero Now falls back to the wall clock.
func (c *Context) LocalNow() time.Time {
	now := c.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return now.Add(time.Duration(c.TimezoneOffsetMinutes) * time.Minute)
}

// LocalDayBounds returns the UTC instants framing the caller's current
// local day.
func (c *Context) LocalDayBounds() (time.Time, time.Time) {
	local := c.LocalNow()
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	offset := time.Duration(c.TimezoneOffsetMinutes) * time.Minute
	start := dayStart.Add(-offset)
	return start, start.Add(24 * time.Hour)
}

// StreamBlocks pushes blocks to the client before the tool returns.
// Streamed blocks still end up in the final response; the dispatcher
// only suppresses the duplicate stream emission.
func (c *Context) StreamBlocks(bl blocks.List) bool {
	if len(bl) == 0 {
		return false
	}
	c.collected = append(c.collected, bl...)
	if c.stream == nil {
		return false
	}
	if c.stream(c.toolName, bl) {
		c.streamed = true
		return true
	}
	return false
}

// Streamed reports whether this call already delivered blocks itself.
func (c *Context) Streamed() bool {
	return c.streamed
}
