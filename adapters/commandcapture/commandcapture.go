// Package commandcapture provides the default port.CommandCapture used when
// the runner collects a child's combined output instead of streaming it.
package commandcapture

import (
	"slices"
	"sync"

	"pkt.systems/seqrun/port"
)

type capture struct {
	buf   port.Buffer
	reset func()
	once  sync.Once
}

var _ port.CommandCapture = (*capture)(nil)

// New returns a disabled capture. Until Enable is called Finish returns nil,
// which is what streaming runs expect.
func New() port.CommandCapture {
	return &capture{}
}

// Enable makes buf the destination of the child's output. The buffer is read
// when Finish is called, so writes made after Enable are kept.
func (c *capture) Enable(buf port.Buffer, reset func()) {
	c.buf = buf
	c.reset = reset
}

func (c *capture) Finish() []byte {
	c.Restore()
	if c.buf == nil {
		return nil
	}
	return slices.Clone(c.buf.Bytes())
}

func (c *capture) Restore() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		if c.reset != nil {
			c.reset()
			c.reset = nil
		}
	})
}
