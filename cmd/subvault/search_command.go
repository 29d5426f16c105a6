package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var language string
	var limit int
	var session string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the media catalog",
		Long: "Search matches the query as a case-insensitive regular expression\n" +
			"against normalized titles. Results are paged; rerun with --session to\n" +
			"continue where the previous page stopped.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			query := strings.TrimSpace(strings.Join(args, " "))
			result, err := client.Search(cmd.Context(), query, language, session, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(result.Items) == 0 {
				fmt.Fprintln(out, "No matches.")
				return nil
			}

			rows := make([][]string, 0, len(result.Items))
			for _, item := range result.Items {
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					item.Title,
					item.Language,
					item.Resolution,
					item.Category,
				})
			}
			writeRows(out,
				[]string{"ID", "Title", "Language", "Resolution", "Category"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft})

			fmt.Fprintf(out, "Showing %d of %d matches.\n", len(result.Items), result.Total)
			if result.HasMore {
				fmt.Fprintf(out, "More available: rerun with --session %s\n", result.Session)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Filter by language")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size")
	cmd.Flags().StringVar(&session, "session", "", "Resume a previous search session")
	return cmd
}
