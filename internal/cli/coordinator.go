package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"pkt.systems/seqrun"
	"pkt.systems/seqrun/internal/config"
	"pkt.systems/seqrun/internal/metrics"
)

type coordinatorOptions struct {
	planPath    string
	metricsPath string
	strict      bool
	capture     bool
}

// NewCoordinatorCommand builds the coordinator: run the plan's steps one
// after another, reaping each child before starting the next.
func NewCoordinatorCommand(stdio IO) *cobra.Command {
	var opts coordinatorOptions
	cmd := &cobra.Command{
		Use:   "coordinator",
		Short: "Run the dump utility once per plan step, in order",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &ExitError{Code: 2, Message: fmt.Sprintf("coordinator takes no arguments, got %q", args)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoordinator(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.planPath, "plan", "p", "", "YAML plan file (default: built-in grades/users plan)")
	cmd.Flags().StringVar(&opts.metricsPath, "metrics-textfile", "", "write Prometheus metrics to this file when the run ends")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "stop at the first child that exits non-zero")
	cmd.Flags().BoolVar(&opts.capture, "capture", false, "buffer each child's output and print it after the child exits")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error(), Err: err}
	})
	cmd.AddCommand(newVersionCommand())
	bind(cmd, stdio)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show seqrun version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "seqrun", Version)
		},
	}
}

// runCoordinator applies flags on top of the plan file; flags win only when
// given explicitly.
func runCoordinator(cmd *cobra.Command, opts coordinatorOptions) error {
	plan, err := config.Load(opts.planPath)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}
	if cmd.Flags().Changed("strict") {
		plan.Strict = opts.strict
	}
	if cmd.Flags().Changed("capture") {
		plan.Capture = opts.capture
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, err = plan.Context(ctx)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}

	rec := metrics.New()
	runner := &seqrun.Runner{
		Stdin:    cmd.InOrStdin(),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Observer: rec,
		Logger:   slog.Default(),
		Strict:   plan.Strict,
		Capture:  plan.Capture,
	}
	report, runErr := runner.Run(ctx, plan.Sequence())
	log := slog.Default().With("run_id", report.RunID)

	if opts.metricsPath != "" {
		if err := rec.WriteTextfile(opts.metricsPath); err != nil {
			log.Warn("unable to write metrics textfile", "path", opts.metricsPath, "error", err)
		}
	}
	if runErr == nil {
		log.Info("run complete", "tasks", len(report.Results))
		return nil
	}

	var se *seqrun.StartError
	var ee *seqrun.ExitError
	switch {
	case errors.As(runErr, &se):
		return &ExitError{Code: se.ExitCode(), Message: se.Error(), Err: runErr}
	case errors.As(runErr, &ee):
		return &ExitError{Code: ee.ExitCode(), Message: ee.Error(), Err: runErr}
	default:
		return &ExitError{Code: 1, Message: runErr.Error(), Err: runErr}
	}
}
