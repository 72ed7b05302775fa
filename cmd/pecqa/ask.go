package main

import (
	"github.com/fyerfyer/pec-qa/internal/shell"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask questions interactively",
	Long:  `Starts an interactive loop. Type a question per line, or "exit"/"quit" to leave.`,
	Args:  cobra.NoArgs,
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) error {
	a, err := setupApp(cmd.Context(), appConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()

	return shell.New(a.qa, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Run(cmd.Context())
}
