// Package mockrunner is a scripted port.CommandRunner for tests. It never
// starts a real process.
package mockrunner

import (
	"os/exec"
	"slices"
	"sync"

	"pkt.systems/seqrun/port"
)

// Behavior is invoked in place of starting cmd. It may write to cmd.Stdout or
// cmd.Stderr to simulate child output. A non-nil error is returned from Start.
type Behavior func(cmd *exec.Cmd) error

// Runner hands out behaviors in order, one per Start. Start calls beyond the
// scripted behaviors succeed without side effects.
type Runner struct {
	mu        sync.Mutex
	behaviors []Behavior
	exits     map[*exec.Cmd]error
	Calls     int
	Waits     int
	Paths     []string
	Args      [][]string
}

var _ port.CommandRunner = (*Runner)(nil)

// New constructs a Runner that consumes behaviors sequentially.
func New(behaviors ...Behavior) *Runner {
	return &Runner{
		behaviors: slices.Clone(behaviors),
		exits:     make(map[*exec.Cmd]error),
	}
}

// Start records the call and dispatches to the next behavior. The behavior
// runs without the lock held so it may call ExitWith.
func (r *Runner) Start(cmd *exec.Cmd) error {
	r.mu.Lock()
	r.Calls++
	r.Paths = append(r.Paths, cmd.Path)
	r.Args = append(r.Args, slices.Clone(cmd.Args))
	var behavior Behavior
	if len(r.behaviors) > 0 {
		behavior = r.behaviors[0]
		r.behaviors = r.behaviors[1:]
	}
	r.mu.Unlock()

	if behavior != nil {
		if err := behavior(cmd); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exits[cmd]; !ok {
		r.exits[cmd] = nil
	}
	return nil
}

// ExitWith makes the next Wait on cmd return err. Behaviors use it to
// simulate a child that started but exited non-zero.
func (r *Runner) ExitWith(cmd *exec.Cmd, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exits[cmd] = err
}

// Wait returns whatever ExitWith registered for cmd, or nil.
func (r *Runner) Wait(cmd *exec.Cmd) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Waits++
	err := r.exits[cmd]
	delete(r.exits, cmd)
	return err
}

// Outstanding reports how many started commands have not been waited on.
func (r *Runner) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.exits)
}

// Remaining returns the number of queued behaviors not yet consumed.
func (r *Runner) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.behaviors)
}
