package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"pkt.systems/seqrun/internal/portfilter"
)

// NewGetPortCommand builds get_port: read a JSON line from stdin and print
// the 127.0.0.1 port in its url field, or -1.
func NewGetPortCommand(stdio IO) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get_port",
		Short: "Print the local port from a JSON response read on stdin",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := portfilter.Extract(cmd.InOrStdin())
			if err != nil {
				slog.Debug("no port in input", "error", err)
				fmt.Fprint(cmd.OutOrStdout(), portfilter.NotFound)
				return &ExitError{Code: 1, Err: err}
			}
			fmt.Fprint(cmd.OutOrStdout(), port)
			return nil
		},
	}
	bind(cmd, stdio)
	return cmd
}
