package seqrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"pkt.systems/seqrun/adapters/commandrunner"
	"pkt.systems/seqrun/port"
)

// Runner executes a Sequence strictly in order. Each step's announcement is
// written to Stdout, then the task is spawned and reaped before the next step
// begins, so child output and announcements never interleave.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// CommandRunner defaults to commandrunner.Default.
	CommandRunner port.CommandRunner
	// Observer, if set, is told about every start, start failure and exit.
	Observer port.Observer
	Logger   *slog.Logger

	// Strict stops the run at the first child that exits non-zero.
	Strict bool
	// Capture buffers each child's combined output into its Result and
	// copies it to Stdout after the child exits, instead of streaming.
	Capture bool
	// CaptureBuffer, if set, supplies the buffer each child's output is
	// captured into. It is called once per step.
	CaptureBuffer func() port.Buffer
	// RunID is exported to children as EnvRunID. A random UUID is used when
	// empty.
	RunID string
}

// Run executes seq and returns a report of every child that was started.
// Execution stops at the first task that cannot be started, is denied by the
// context's policy, or, in strict mode, exits non-zero. Run never returns
// while a child it spawned is still running.
func (r *Runner) Run(ctx context.Context, seq Sequence) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := r.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	report := &Report{RunID: runID}
	if len(seq.Steps) == 0 {
		return report, ErrNoSteps
	}
	log := r.logger().With("run_id", runID)
	out := r.stdout()

	if seq.Header != "" {
		if _, err := fmt.Fprintln(out, seq.Header); err != nil {
			return report, fmt.Errorf("seqrun: write header: %w", err)
		}
	}

	for i, step := range seq.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		stepLog := log.With("step", i+1, "path", step.Task.Path)
		if step.Announce != "" {
			if _, err := fmt.Fprintln(out, step.Announce); err != nil {
				return report, fmt.Errorf("seqrun: write announcement: %w", err)
			}
		}

		if err := CheckExecutable(ctx, step.Task); err != nil {
			reason := classifyStartError(err)
			if errors.Is(err, ErrDenied) {
				reason = ReasonDenied
			}
			r.observer().TaskStartFailed(step.Task.Path, string(reason))
			stepLog.Error("task rejected before start", "reason", reason, "error", err)
			return report, &StartError{Path: step.Task.Path, Reason: reason, Err: err}
		}

		var captureBuf port.Buffer
		if r.Capture && r.CaptureBuffer != nil {
			captureBuf = r.CaptureBuffer()
		}
		started := time.Now()
		child, err := Spawn(ctx, step.Task, SpawnOptions{
			Runner:        r.commandRunner(),
			Stdin:         r.Stdin,
			Stdout:        out,
			Stderr:        r.Stderr,
			Combined:      r.Capture,
			CaptureBuffer: captureBuf,
			Env:           []string{EnvRunID + "=" + runID},
		})
		if err != nil {
			reason := ReasonFailed
			var se *StartError
			if errors.As(err, &se) {
				reason = se.Reason
			}
			r.observer().TaskStartFailed(step.Task.Path, string(reason))
			stepLog.Error("task failed to start", "reason", reason, "error", err)
			return report, err
		}
		r.observer().TaskStarted(step.Task.Path, child.Pid)
		stepLog.Debug("task started", "pid", child.Pid, "args", step.Task.Args)

		// Reap rather than Wait: a cancelled ctx kills the child, and the
		// run must still collect it.
		res := child.Reap()
		elapsed := time.Since(started)
		report.Results = append(report.Results, res)
		r.observer().TaskExited(step.Task.Path, res.ExitCode, elapsed)
		stepLog.Info("task exited", "pid", child.Pid, "exit_code", res.ExitCode, "elapsed", elapsed)

		if r.Capture && len(res.CombinedOutput) > 0 {
			if _, err := out.Write(res.CombinedOutput); err != nil {
				return report, fmt.Errorf("seqrun: write captured output: %w", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if res.ExitCode != 0 && r.Strict {
			return report, &ExitError{Path: step.Task.Path, Code: res.ExitCode, Err: res.Error}
		}
		if res.Error != nil && res.ExitCode == 0 {
			stepLog.Warn("task wait reported an error", "error", res.Error)
		}
	}
	return report, nil
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) commandRunner() port.CommandRunner {
	if r.CommandRunner == nil {
		return commandrunner.Default
	}
	return r.CommandRunner
}

func (r *Runner) observer() port.Observer {
	if r.Observer == nil {
		return nopObserver{}
	}
	return r.Observer
}

type nopObserver struct{}

func (nopObserver) TaskStarted(string, int)               {}
func (nopObserver) TaskStartFailed(string, string)        {}
func (nopObserver) TaskExited(string, int, time.Duration) {}

// RunAll runs path once per argument, in order, without announcements. A nil
// w inherits the process's stdout and stderr.
func RunAll(ctx context.Context, w io.Writer, path string, args ...string) (*Report, error) {
	seq := Sequence{}
	for _, arg := range args {
		seq.Steps = append(seq.Steps, Step{Task: Task{Path: path, Args: []string{arg}}})
	}
	r := &Runner{Stdout: w, Stderr: w}
	return r.Run(ctx, seq)
}
