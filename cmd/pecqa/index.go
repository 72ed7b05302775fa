package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load or build the semantic index",
	Long: `Loads the persisted index when it exists. Otherwise embeds every chunk of the
chunk artifact, builds the index and saves it to the index directory.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	embedder, err := setupEmbedding(appConfig)
	if err != nil {
		return err
	}

	index, err := setupIndex(cmd.Context(), appConfig, embedder)
	if err != nil {
		return err
	}
	defer index.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "%s index at %s holds %d sections\n",
		index.Type(), appConfig.VectorDB.Path, index.Count())
	return nil
}
