package mockrunner

import (
	"errors"
	"os/exec"
	"testing"
)

func TestRunnerRecordsCallMetadata(t *testing.T) {
	runner := New(func(cmd *exec.Cmd) error {
		if cmd.Path != "./my_cat" {
			t.Fatalf("unexpected command path: %q", cmd.Path)
		}
		return nil
	})

	cmd := &exec.Cmd{Path: "./my_cat", Args: []string{"./my_cat", "data/grades.txt"}}
	if err := runner.Start(cmd); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if runner.Outstanding() != 1 {
		t.Fatalf("Outstanding() = %d, want 1", runner.Outstanding())
	}
	if err := runner.Wait(cmd); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}

	if runner.Calls != 1 || runner.Waits != 1 {
		t.Fatalf("Calls/Waits = %d/%d, want 1/1", runner.Calls, runner.Waits)
	}
	if len(runner.Args) != 1 || runner.Args[0][1] != "data/grades.txt" {
		t.Fatalf("Args recorded %v", runner.Args)
	}
	if runner.Outstanding() != 0 {
		t.Fatalf("Outstanding() = %d, want 0", runner.Outstanding())
	}
	if runner.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", runner.Remaining())
	}
}

func TestRunnerSequentialBehaviors(t *testing.T) {
	sentinel := errors.New("sentinel")
	exitErr := errors.New("exit status 1")
	var runner *Runner
	runner = New(
		func(cmd *exec.Cmd) error { return nil },
		func(cmd *exec.Cmd) error { return sentinel },
		func(cmd *exec.Cmd) error {
			runner.ExitWith(cmd, exitErr)
			return nil
		},
	)

	first := &exec.Cmd{Path: "first"}
	if err := runner.Start(first); err != nil {
		t.Fatalf("first Start returned error: %v", err)
	}
	if err := runner.Start(&exec.Cmd{Path: "second"}); !errors.Is(err, sentinel) {
		t.Fatalf("second Start error = %v, want sentinel", err)
	}
	third := &exec.Cmd{Path: "third"}
	if err := runner.Start(third); err != nil {
		t.Fatalf("third Start returned error: %v", err)
	}
	if err := runner.Wait(third); !errors.Is(err, exitErr) {
		t.Fatalf("third Wait error = %v, want scripted exit", err)
	}
	if err := runner.Wait(first); err != nil {
		t.Fatalf("first Wait returned error: %v", err)
	}

	wantPaths := []string{"first", "second", "third"}
	if len(runner.Paths) != len(wantPaths) {
		t.Fatalf("Paths = %v, want %v", runner.Paths, wantPaths)
	}
	for i, want := range wantPaths {
		if runner.Paths[i] != want {
			t.Fatalf("Paths[%d] = %q, want %q", i, runner.Paths[i], want)
		}
	}
	if runner.Outstanding() != 0 {
		t.Fatalf("Outstanding() = %d, want 0", runner.Outstanding())
	}
}
