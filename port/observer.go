package port

import "time"

// Observer receives lifecycle events for every task the runner spawns.
// Implementations must be safe for use from the goroutine that reaps the
// child as well as the caller's goroutine.
type Observer interface {
	TaskStarted(path string, pid int)
	TaskStartFailed(path string, reason string)
	TaskExited(path string, exitCode int, elapsed time.Duration)
}
