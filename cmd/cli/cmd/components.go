// Package cmd - CLI command: motor-supplychain components
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"motor-supplychain/core/options"
	"motor-supplychain/core/pipeline"
)

var componentsModel string

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List the registered analysis components",
	Long: `List every component a host can build by name. With --model, list
only the components the model file instantiates.`,
	Args: cobra.NoArgs,
	RunE: runComponents,
}

func init() {
	rootCmd.AddCommand(componentsCmd)
	componentsCmd.Flags().StringVar(&componentsModel, "model", "", "motor model file (.yaml, .yml, .hcl)")
}

func runComponents(cmd *cobra.Command, args []string) error {
	names := pipeline.Default().Names()
	if componentsModel != "" {
		model, err := options.Load(componentsModel)
		if err != nil {
			return err
		}
		names = model.Components()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No supply chain components enabled for this model.")
			return nil
		}
	}

	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
