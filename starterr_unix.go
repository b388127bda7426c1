//go:build unix

package seqrun

import (
	"errors"
	"io/fs"
	"os/exec"

	"golang.org/x/sys/unix"
)

func classifyStartError(err error) StartReason {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, ErrEmptyPath),
		errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENOTDIR), errors.Is(err, fs.ErrNotExist):
		return ReasonNotFound
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM), errors.Is(err, unix.ENOEXEC),
		errors.Is(err, fs.ErrPermission):
		return ReasonNotExecutable
	default:
		return ReasonFailed
	}
}
