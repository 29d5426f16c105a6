package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newPopularCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show the most requested movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			popular, err := client.Popular(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(popular.Movies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No subtitle requests recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(popular.Movies))
			for i, movie := range popular.Movies {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					movie.MovieKey,
					strconv.FormatInt(movie.RequestCount, 10),
					strings.Join(movie.Languages, ", "),
					movie.LastRequestedAt,
				})
			}
			writeRows(cmd.OutOrStdout(),
				[]string{"#", "Movie", "Requests", "Languages", "Last Requested"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft})
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of movies to show")
	return cmd
}
