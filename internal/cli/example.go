package cli

import (
	"fmt"

	"github.com/mcstate/pricer/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExampleCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example dataset with BS, BS2 and HESTON sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := config.NewInputParser().CreateExampleDataset()
			if path != "" {
				if err := config.SaveDataset(ds, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "example dataset written to %s\n", path)
				return nil
			}
			b, err := yaml.Marshal(ds)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "output", "o", "", "write the dataset to this file instead of stdout")
	return cmd
}
