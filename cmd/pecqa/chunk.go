package main

import (
	"fmt"

	"github.com/fyerfyer/pec-qa/internal/document"
	"github.com/spf13/cobra"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Build the chunk artifact from the structured document",
	Long: `Reads the structured Chapter 2 document from storage, produces one chunk per
section and writes the chunk artifact. Re-running overwrites the artifact with
identical content.`,
	Args: cobra.NoArgs,
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, _ []string) error {
	s, store, err := setupChunkStore(appConfig)
	if err != nil {
		return err
	}

	chunks, err := document.NewBuilder(s, appConfig.Source.DocumentKey, store).Run()
	if err != nil {
		return err
	}

	logger.WithField("chunks", len(chunks)).Info("Chunk artifact written")
	fmt.Fprintf(cmd.OutOrStdout(), "%s generated with %d chunks\n", store.Key(), len(chunks))
	return nil
}
