// Package cli holds the cobra commands behind the coordinator, my_cat and
// get_port binaries. Errors are reported the way the original tools did:
// a plain message on stdout and a process exit code.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is reported by "coordinator version".
var Version = "v0.1.0"

// IO is the set of streams a command reads and writes.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Stdio returns the process's standard streams.
func Stdio() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ExitError carries the exit code a command wants and the message to print
// before exiting. An empty Message prints nothing.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// annotationUsage on a command turns --help into a usage error: Execute
// prints the annotation and returns 1.
const annotationUsage = "seqrun/usage"

// Execute runs cmd with args and returns the exit code to hand to os.Exit.
// Any *ExitError message is written to the command's stdout.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	c, err := cmd.ExecuteContextC(ctx)
	if err == nil {
		usage, ok := c.Annotations[annotationUsage]
		if !ok || !helpRequested(c) {
			return 0
		}
		err = &ExitError{Code: 1, Message: usage}
	}
	var ee *ExitError
	if !errors.As(err, &ee) {
		ee = &ExitError{Code: 1, Message: err.Error(), Err: err}
	}
	if ee.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), ee.Message)
	}
	return ee.Code
}

func helpRequested(cmd *cobra.Command) bool {
	h, err := cmd.Flags().GetBool("help")
	return err == nil && h
}

func bind(cmd *cobra.Command, stdio IO) {
	if stdio.In != nil {
		cmd.SetIn(stdio.In)
	}
	if stdio.Out != nil {
		cmd.SetOut(stdio.Out)
	}
	if stdio.Err != nil {
		cmd.SetErr(stdio.Err)
	}
}
