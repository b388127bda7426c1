package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"pkt.systems/seqrun/internal/dump"
)

const catUsage = "Usage: my_cat <filename>"

// NewCatCommand builds my_cat: print one file, then wait for enter.
func NewCatCommand(stdio IO) *cobra.Command {
	var noPrompt bool
	cmd := &cobra.Command{
		Use:   "my_cat <filename>",
		Short: "Print a file to stdout and wait for enter",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &ExitError{Code: 1, Message: catUsage}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			n, err := dump.File(cmd.OutOrStdout(), path)
			if err != nil {
				var ae *dump.AccessError
				if errors.As(err, &ae) {
					slog.Debug("cannot open file", "path", path, "error", ae.Err)
				}
				return &ExitError{Code: 1, Message: err.Error(), Err: err}
			}
			slog.Debug("dumped file", "path", path, "bytes", n)
			if noPrompt {
				return nil
			}
			if err := dump.Prompt(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return &ExitError{Code: 1, Message: err.Error(), Err: err}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "exit right after printing instead of waiting for enter")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &ExitError{Code: 1, Message: catUsage, Err: err}
	})
	// my_cat has no help screen; -h is reported like any other misuse.
	cmd.Annotations = map[string]string{annotationUsage: catUsage}
	cmd.SetHelpFunc(func(*cobra.Command, []string) {})
	bind(cmd, stdio)
	return cmd
}
