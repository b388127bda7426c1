package port

import (
	"os/exec"
)

// CommandRunner abstracts process control so the sequential runner can be
// driven by os/exec in production and by scripted mocks in tests. Start must
// not block on the child; Wait must reap it.
type CommandRunner interface {
	Start(cmd *exec.Cmd) error
	Wait(cmd *exec.Cmd) error
}
