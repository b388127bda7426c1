package seqrun

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"slices"

	"pkt.systems/seqrun/adapters/commandcapture"
	"pkt.systems/seqrun/adapters/commandrunner"
	"pkt.systems/seqrun/port"
)

// RunCommand starts cmd with runner and waits for it. When combinedOutput is
// true stdout and stderr are collected into a shared buffer and returned as a
// copy; otherwise the configured streams are left alone and the returned
// slice is nil.
func RunCommand(runner port.CommandRunner, cmd *exec.Cmd, combinedOutput bool) ([]byte, error) {
	capture, err := StartCommand(runner, cmd, combinedOutput)
	if err != nil {
		return nil, err
	}
	res := WaitCommand(runner, cmd, capture)
	return res.CombinedOutput, res.Error
}

// StartCommand starts cmd using runner while optionally capturing combined
// stdout/stderr. The returned CommandCapture must later be passed to
// WaitCommand, or restored, to release the original writers.
func StartCommand(runner port.CommandRunner, cmd *exec.Cmd, combinedOutput bool) (port.CommandCapture, error) {
	return startCommand(runner, cmd, combinedOutput, nil)
}

func startCommand(runner port.CommandRunner, cmd *exec.Cmd, combinedOutput bool, buf port.Buffer) (port.CommandCapture, error) {
	if runner == nil {
		return nil, ErrNilRunner
	}
	capture, err := newCommandCapture(cmd, combinedOutput, buf)
	if err != nil {
		return nil, err
	}
	if err := runner.Start(cmd); err != nil {
		capture.Restore()
		return nil, err
	}
	return capture, nil
}

// WaitCommand reaps cmd and returns a Result carrying the exit code, the wait
// error and any output buffered by StartCommand.
func WaitCommand(runner port.CommandRunner, cmd *exec.Cmd, capture port.CommandCapture) Result {
	if runner == nil {
		runner = commandrunner.Default
	}
	var res Result
	err := runner.Wait(cmd)
	res.Error = err
	res.ExitCode = exitCodeFrom(err, cmd.ProcessState)
	if capture != nil {
		res.CombinedOutput = capture.Finish()
	}
	return res
}

// newCommandCapture points cmd's stdout and stderr at buf, or at a fresh
// bytes.Buffer when buf is nil.
func newCommandCapture(cmd *exec.Cmd, combined bool, buf port.Buffer) (port.CommandCapture, error) {
	if cmd == nil {
		return nil, ErrNilCommand
	}
	capture := commandcapture.New()
	if !combined {
		return capture, nil
	}
	if cmd.Stdout != nil || cmd.Stderr != nil {
		return nil, ErrStdioClaimed
	}
	if buf == nil {
		b := &bytes.Buffer{}
		b.Grow(128)
		buf = b
	}
	cmd.Stdout = buf
	cmd.Stderr = buf
	capture.Enable(buf, func() {
		cmd.Stdout = nil
		cmd.Stderr = nil
	})
	return capture, nil
}

func exitCodeFrom(waitErr error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode()
	}
	return -1
}

// SpawnOptions wires the stdio and process control of a spawned task. Nil
// streams are inherited from the current process unless Combined is set, in
// which case stdout and stderr are captured into Result.CombinedOutput.
// CaptureBuffer, if set, receives the combined output instead of an internal
// buffer.
type SpawnOptions struct {
	Runner        port.CommandRunner
	Stdin         io.Reader
	Stdout        io.Writer
	Stderr        io.Writer
	Combined      bool
	CaptureBuffer port.Buffer
	Env           []string
}

// Spawn starts task and returns a handle whose Done channel reports the
// reaped Result. A task that cannot be started yields a *StartError and no
// handle. Cancelling parentCtx, or calling Child.Cancel, kills the child.
//
//	child, err := seqrun.Spawn(ctx, seqrun.Task{Path: "./my_cat", Args: []string{"data/grades.txt"}}, seqrun.SpawnOptions{})
//	if err != nil {
//		return err
//	}
//	res := child.Reap()
func Spawn(parentCtx context.Context, task Task, opts SpawnOptions) (*Child, error) {
	if task.Path == "" {
		return nil, &StartError{Reason: ReasonNotFound, Err: ErrEmptyPath}
	}
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	runner := opts.Runner
	if runner == nil {
		runner = commandrunner.Default
	}
	ctx, cancel := context.WithCancel(parentCtx)
	cmd := exec.CommandContext(ctx, task.Path, task.Args...)
	cmd.Dir = task.Dir
	if env := slices.Concat(task.Env, opts.Env); len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	} else {
		cmd.Stdin = os.Stdin
	}
	if !opts.Combined {
		cmd.Stdout = opts.Stdout
		if cmd.Stdout == nil {
			cmd.Stdout = os.Stdout
		}
		cmd.Stderr = opts.Stderr
		if cmd.Stderr == nil {
			cmd.Stderr = os.Stderr
		}
	}
	capture, err := startCommand(runner, cmd, opts.Combined, opts.CaptureBuffer)
	if err != nil {
		cancel()
		return nil, &StartError{Path: task.Path, Reason: classifyStartError(err), Err: err}
	}
	pid := 0
	if cmd.Process != nil {
		pid = cmd.Process.Pid
	}
	done := make(chan Result, 1)
	go func() {
		done <- WaitCommand(runner, cmd, capture)
		close(done)
		cancel()
	}()
	return &Child{
		Path:    task.Path,
		Pid:     pid,
		Context: ctx,
		Cancel:  cancel,
		Done:    done,
	}, nil
}
