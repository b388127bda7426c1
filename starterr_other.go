//go:build !unix

package seqrun

import (
	"errors"
	"io/fs"
	"os/exec"
)

func classifyStartError(err error) StartReason {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, ErrEmptyPath), errors.Is(err, fs.ErrNotExist):
		return ReasonNotFound
	case errors.Is(err, fs.ErrPermission):
		return ReasonNotExecutable
	default:
		return ReasonFailed
	}
}
