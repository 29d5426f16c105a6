package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var language string
	var output string

	cmd := &cobra.Command{
		Use:   "fetch <title>",
		Short: "Fetch subtitles for a title",
		Long: "Fetch resolves subtitles through the daemon: cached content is served\n" +
			"directly, otherwise the daemon tries its providers and falls back to a\n" +
			"synthesized placeholder track.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("title is required")
			}

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			result, err := client.Subtitle(cmd.Context(), title, language)
			if err != nil {
				return err
			}

			origin := result.Source
			if result.CacheHit {
				origin += " (cached)"
			} else if result.Provider != "" {
				origin += " via " + result.Provider
			}

			if output != "" {
				if err := os.WriteFile(output, result.Content, 0o644); err != nil {
					return fmt.Errorf("write subtitle file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s [%s]\n", len(result.Content), output, origin)
				return nil
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Source: %s\n", origin)
			_, err = cmd.OutOrStdout().Write(result.Content)
			return err
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Subtitle language (defaults to the daemon's configured language)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the subtitle to a file instead of stdout")
	return cmd
}
