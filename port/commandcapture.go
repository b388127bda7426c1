package port

import "io"

// CommandCapture redirects a command's stdout and stderr into one buffer for
// the lifetime of a single run. Finish hands back a copy of what was
// collected; Restore puts the original writers back and is safe to call more
// than once. The adapter lives in adapters/commandcapture.
type CommandCapture interface {
	Enable(buf Buffer, reset func())
	Finish() []byte
	Restore()
}

// Buffer is where a capture collects a child's combined output. *bytes.Buffer
// satisfies it.
type Buffer interface {
	io.Writer
	Bytes() []byte
}
