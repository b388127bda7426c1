package seqrun

import "context"

// Child is a started task. Done delivers exactly one Result once the process
// has been reaped and is then closed. Cancel kills the child.
type Child struct {
	Path    string
	Pid     int
	Context context.Context
	Cancel  context.CancelFunc
	Done    <-chan Result
}

// Wait blocks until the child finishes or the stored context is
// cancelled. If the stored context is nil it behaves like
// WaitWithContext(context.Background()).
func (c *Child) Wait() Result {
	if c == nil {
		return Result{}
	}
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return c.WaitWithContext(ctx)
}

// WaitWithContext blocks until the child is reaped or ctx is cancelled.
// Cancellation returns a Result whose Error is ctx.Err(); the child may still
// be running, so callers that must not leak it should receive from Done.
func (c *Child) WaitWithContext(ctx context.Context) Result {
	if c == nil || c.Done == nil {
		return Result{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case res, ok := <-c.Done:
		if !ok {
			return Result{}
		}
		return res
	case <-ctx.Done():
		return Result{Error: ctx.Err()}
	}
}

// Reap blocks until the child has exited, ignoring any context. It is the
// only wait that guarantees no process table entry is left behind.
func (c *Child) Reap() Result {
	if c == nil || c.Done == nil {
		return Result{}
	}
	res, ok := <-c.Done
	if !ok {
		return Result{}
	}
	return res
}
