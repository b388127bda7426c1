package commandrunner_test

import (
	"bytes"
	"errors"
	"os/exec"
	"testing"

	"pkt.systems/seqrun/adapters/commandrunner"
)

func TestDefaultRunnerStartWait(t *testing.T) {
	cmd := exec.Command("/bin/sh", "-c", "echo first && echo second >&2")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := commandrunner.Default.Start(cmd); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if cmd.Process == nil {
		t.Fatalf("expected process to be set after Start")
	}
	if err := commandrunner.Default.Wait(cmd); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if stdout.String() != "first\n" {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
	if stderr.String() != "second\n" {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

func TestDefaultRunnerWaitReportsExitStatus(t *testing.T) {
	cmd := exec.Command("/bin/sh", "-c", "exit 3")
	if err := commandrunner.Default.Start(cmd); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	err := commandrunner.Default.Wait(cmd)
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %T (%v)", err, err)
	}
	if exitErr.ExitCode() != 3 {
		t.Fatalf("unexpected exit code: %d", exitErr.ExitCode())
	}
}

func TestDefaultRunnerStartMissingExecutable(t *testing.T) {
	cmd := exec.Command("/nonexistent/seqrun-target")
	if err := commandrunner.Default.Start(cmd); err == nil {
		t.Fatalf("expected Start to fail for a missing executable")
	}
}
