package seqrun

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChildWaitReturnsResult(t *testing.T) {
	done := make(chan Result, 1)
	done <- Result{ExitCode: 42}
	c := &Child{Done: done}
	if got := c.Wait(); got.ExitCode != 42 {
		t.Fatalf("unexpected exit code: got %d want 42", got.ExitCode)
	}
}

func TestChildWaitNilReceiver(t *testing.T) {
	var c *Child
	got := c.Wait()
	if got.ExitCode != 0 || got.Error != nil || len(got.CombinedOutput) != 0 {
		t.Fatalf("expected zero result, got %#v", got)
	}
	if got := c.Reap(); got.Error != nil {
		t.Fatalf("expected zero result from Reap, got %#v", got)
	}
}

func TestChildWaitRespectsStoredContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Child{Context: ctx, Done: make(chan Result)}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if res := c.Wait(); !errors.Is(res.Error, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", res.Error)
	}
}

func TestChildWaitWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Child{Done: make(chan Result)}
	if res := c.WaitWithContext(ctx); !errors.Is(res.Error, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", res.Error)
	}
}

func TestChildReapIgnoresContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan Result, 1)
	c := &Child{Context: ctx, Done: done}
	go func() {
		time.Sleep(10 * time.Millisecond)
		done <- Result{ExitCode: 7}
		close(done)
	}()
	if res := c.Reap(); res.ExitCode != 7 {
		t.Fatalf("Reap returned %#v, want exit code 7", res)
	}
}

func TestChildClosedDone(t *testing.T) {
	done := make(chan Result)
	close(done)
	c := &Child{Done: done}
	if res := c.Wait(); res.ExitCode != 0 || res.Error != nil {
		t.Fatalf("expected zero result from closed channel, got %#v", res)
	}
}
