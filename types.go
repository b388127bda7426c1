// Package seqrun runs external commands one after another, announcing each
// step on a shared output stream and reaping every child before moving on.
package seqrun

import (
	"errors"
	"fmt"
)

// EnvRunID is set in every child's environment to the ID of the run that
// spawned it.
const EnvRunID = "SEQRUN_RUN_ID"

var (
	ErrNoSteps      = errors.New("seqrun: sequence has no steps")
	ErrEmptyPath    = errors.New("seqrun: task has no executable path")
	ErrNilRunner    = errors.New("seqrun: nil command runner")
	ErrNilCommand   = errors.New("seqrun: nil command")
	ErrStdioClaimed = errors.New("seqrun: combined output requested with configured stdout or stderr")
)

// Task is one invocation of an executable. The child sees Path as argv[0]
// followed by Args.
type Task struct {
	Path string
	Args []string
	Dir  string
	Env  []string
}

func (t Task) String() string {
	return fmt.Sprintf("%s %v", t.Path, t.Args)
}

// Step is a Task preceded by an announcement line.
type Step struct {
	Announce string
	Task     Task
}

// Sequence is an ordered list of steps with an optional header line printed
// once before the first step.
type Sequence struct {
	Header string
	Steps  []Step
}

// Result is the outcome of one reaped child.
type Result struct {
	ExitCode       int
	Error          error
	CombinedOutput []byte
}

// Report collects the results of a run in step order. Results only holds
// entries for children that were actually started.
type Report struct {
	RunID   string
	Results []Result
}

// StartReason classifies why a task never ran.
type StartReason string

const (
	ReasonNotFound      StartReason = "not_found"
	ReasonNotExecutable StartReason = "not_executable"
	ReasonDenied        StartReason = "denied"
	ReasonFailed        StartReason = "start_failed"
)

// StartError is returned when a task could not be started at all.
type StartError struct {
	Path   string
	Reason StartReason
	Err    error
}

func (e *StartError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("seqrun: start %s (%s): %v", e.Path, e.Reason, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// ExitCode maps the failure to the status a shell would report.
func (e *StartError) ExitCode() int {
	switch e.Reason {
	case ReasonNotFound:
		return 127
	case ReasonNotExecutable, ReasonDenied:
		return 126
	default:
		return 1
	}
}

// ExitError is returned in strict mode when a child exits non-zero.
type ExitError struct {
	Path string
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("seqrun: %s exited with status %d", e.Path, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the child's exit status, or 1 if it was killed.
func (e *ExitError) ExitCode() int {
	if e.Code > 0 {
		return e.Code
	}
	return 1
}
