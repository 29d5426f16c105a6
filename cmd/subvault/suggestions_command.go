package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSuggestionsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "List popular titles worth preloading subtitles for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			result, err := client.Suggestions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(result.Suggestions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to preload; popular titles are already cached.")
				return nil
			}

			rows := make([][]string, 0, len(result.Suggestions))
			for _, suggestion := range result.Suggestions {
				rows = append(rows, []string{
					suggestion.MovieKey,
					suggestion.Language,
					strconv.FormatInt(suggestion.RequestCount, 10),
				})
			}
			writeRows(cmd.OutOrStdout(),
				[]string{"Movie", "Language", "Requests"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight})
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of suggestions")
	return cmd
}
