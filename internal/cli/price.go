package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcstate/pricer/internal/calculation"
	"github.com/mcstate/pricer/internal/config"
	"github.com/mcstate/pricer/internal/domain"
	"github.com/mcstate/pricer/internal/output"
	"github.com/spf13/cobra"
)

// reportFlags are shared by the commands that produce a price report.
type reportFlags struct {
	dataset string
	format  string
	output  string
	dir     string
	paths   int
	seed    int64
}

func (f *reportFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.dataset, "dataset", "d", "", "dataset YAML file (required)")
	fl.StringVarP(&f.format, "format", "f", "console", "output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	fl.StringVarP(&f.output, "output", "o", "", "write the report to this file instead of stdout")
	fl.StringVar(&f.dir, "output-dir", "", "write the report to a timestamped file in this directory")
	fl.IntVar(&f.paths, "paths", 0, "override MC.PATHS")
	fl.Int64Var(&f.seed, "seed", -1, "override MC.SEED (0 draws a fresh seed)")
	_ = cmd.MarkFlagRequired("dataset")
	cmd.MarkFlagsMutuallyExclusive("output", "output-dir")
}

// load reads the dataset and applies command line overrides.
func (f *reportFlags) load() (*domain.Dataset, error) {
	ds, err := config.NewInputParser().LoadFromFile(f.dataset)
	if err != nil {
		return nil, err
	}
	if f.paths > 0 {
		ds.MC.Paths = f.paths
	}
	if f.seed >= 0 {
		ds.MC.Seed = f.seed
	}
	return ds, nil
}

func (f *reportFlags) report(cmd *cobra.Command, ds *domain.Dataset, results []*domain.PriceResult) error {
	report := &domain.PriceReport{
		Dataset:   filepath.Base(f.dataset),
		PricingTS: ds.PricingTS,
		Base:      ds.Base,
		Results:   results,
	}
	if f.dir == "" {
		return output.WriteReport(report, f.format, f.output, cmd.OutOrStdout())
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	name, err := output.GenerateReport(report, f.format, f.dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", name)
	return nil
}

func newPriceCommand(root *rootOptions) *cobra.Command {
	var (
		rf     reportFlags
		cf     contractFlags
		strike float64
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price one contract",
		Example: `  mcprice price -d spx.yaml --asset SPX --strike 2800 --maturity 1
  mcprice price -d spx.yaml --type asian-call --asset SPX --strike 2800 --observations 3M,6M,9M,1Y`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := rf.load()
			if err != nil {
				return err
			}
			contract, err := cf.build(strike, ds.PricingTS)
			if err != nil {
				return err
			}
			result, err := root.pricer().Price(cmd.Context(), contract, ds)
			if err != nil {
				return err
			}
			root.log.Info().
				Str("contract", result.Contract).
				Str("price", result.Price.StringFixed(4)).
				Dur("elapsed", result.Elapsed).
				Msg("priced")
			return rf.report(cmd, ds, []*domain.PriceResult{result})
		},
	}
	rf.register(cmd)
	cf.register(cmd)
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price")
	return cmd
}

func newStripCommand(root *rootOptions) *cobra.Command {
	var (
		rf      reportFlags
		cf      contractFlags
		strikes string
	)
	cmd := &cobra.Command{
		Use:     "strip",
		Short:   "Price the same contract across several strikes in parallel",
		Example: `  mcprice strip -d spx.yaml --asset SPX --maturity 1 --strikes 2600,2800,3000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := parseStrikes(strikes)
			if err != nil {
				return err
			}
			ds, err := rf.load()
			if err != nil {
				return err
			}
			contracts := make([]calculation.Contract, 0, len(ks))
			for _, k := range ks {
				c, err := cf.build(k, ds.PricingTS)
				if err != nil {
					return err
				}
				contracts = append(contracts, c)
			}
			results, err := root.pricer().PriceStrip(cmd.Context(), contracts, ds)
			if err != nil {
				return err
			}
			return rf.report(cmd, ds, results)
		},
	}
	rf.register(cmd)
	cf.register(cmd)
	cmd.Flags().StringVar(&strikes, "strikes", "", "comma separated strikes (required)")
	_ = cmd.MarkFlagRequired("strikes")
	return cmd
}
