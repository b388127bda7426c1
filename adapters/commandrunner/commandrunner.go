// Package commandrunner is the production port.CommandRunner backed by
// os/exec.
package commandrunner

import (
	"os/exec"

	"pkt.systems/seqrun/port"
)

// DefaultRunner starts and reaps commands with os/exec directly.
type DefaultRunner struct{}

var _ port.CommandRunner = DefaultRunner{}

// Start launches cmd without waiting for it.
func (DefaultRunner) Start(cmd *exec.Cmd) error {
	return cmd.Start()
}

// Wait blocks until cmd exits and its stdio copying goroutines are done.
func (DefaultRunner) Wait(cmd *exec.Cmd) error {
	return cmd.Wait()
}

// Default is a shared instance of DefaultRunner.
var Default port.CommandRunner = DefaultRunner{}
