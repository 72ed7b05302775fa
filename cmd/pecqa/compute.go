package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fyerfyer/pec-qa/internal/compute"
	"github.com/spf13/cobra"
)

var computeJSON bool

var computeCmd = &cobra.Command{
	Use:   "compute [question]",
	Short: "Run the electrical calculation helper on a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompute,
}

func init() {
	computeCmd.Flags().BoolVar(&computeJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, args []string) error {
	result := compute.Evaluate(strings.Join(args, " "))

	if computeJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "type: %s\n", result.Type)
	if result.Result != nil {
		fmt.Fprintln(cmd.OutOrStdout(), result.Text())
	}
	return nil
}
