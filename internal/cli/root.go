// Package cli wires the pricing engine to the mcprice command line.
package cli

import (
	"io"

	"github.com/mcstate/pricer/internal/calculation"
	"github.com/mcstate/pricer/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel  string
	prettyLog bool
	log       zerolog.Logger
}

// NewRootCommand builds the mcprice command tree. Reports go to out, logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "mcprice",
		Short:         "Monte Carlo option pricer for Black-Scholes and Heston datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log = logger.New(logger.Config{
				Level:  opts.logLevel,
				Pretty: opts.prettyLog,
				Out:    errOut,
			})
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error, off")
	cmd.PersistentFlags().BoolVar(&opts.prettyLog, "pretty-log", false, "human readable log output")

	cmd.AddCommand(
		newPriceCommand(opts),
		newStripCommand(opts),
		newValidateCommand(opts),
		newExampleCommand(),
	)
	return cmd
}

func (o *rootOptions) pricer() *calculation.MonteCarloPricer {
	return calculation.NewMonteCarloPricer(logger.NewAdapter(o.log))
}
