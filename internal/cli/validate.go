package cli

import (
	"fmt"
	"strings"

	"github.com/mcstate/pricer/internal/config"
	"github.com/mcstate/pricer/internal/domain"
	"github.com/spf13/cobra"
)

func newValidateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Check a dataset and print the model it selects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			family, err := ds.ModelFamily()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: OK\n", args[0])
			fmt.Fprintf(out, "  model:  %s (%s)\n", family, strings.Join(ds.ModelledAssets(), ", "))
			fmt.Fprintf(out, "  paths:  %d, seed %d, timestep %g\n", ds.MC.Paths, ds.MC.Seed, ds.MC.Timestep)
			fmt.Fprintf(out, "  base:   %s\n", ds.Base)
			if family == domain.ModelHeston && !config.FellerSatisfied(ds.Heston) {
				root.log.Warn().
					Float64("kappa", ds.Heston.MeanReversion).
					Float64("theta", ds.Heston.LongVariance).
					Float64("xi", ds.Heston.VolOfVariance).
					Msg("Feller condition 2κθ ≥ ξ² violated; variance will hit zero on some paths")
				fmt.Fprintln(out, "  warning: Feller condition violated")
			}
			return nil
		},
	}
}
