package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			running := "stopped"
			if status.Running {
				running = fmt.Sprintf("running (pid %d)", status.PID)
			}
			fmt.Fprintf(out, "Daemon:     %s\n", running)
			fmt.Fprintf(out, "Database:   %s\n", status.DatabasePath)
			fmt.Fprintf(out, "Remote:     %s\n", enabledLabel(status.RemoteEnabled))
			fmt.Fprintf(out, "Subtitles:  %d cached (%d remote, %d fallback, %d bytes)\n",
				status.Subtitles.Total, status.Subtitles.RemoteCount,
				status.Subtitles.FallbackCount, status.Subtitles.TotalBytes)
			fmt.Fprintf(out, "Popularity: %d movies tracked, %d requests total\n",
				status.Popularity.TrackedMovies, status.Popularity.TotalRequests)
			fmt.Fprintf(out, "Catalog:    %d media entries\n", status.MediaCount)
			if status.Quota != nil {
				if status.Quota.Error != "" {
					fmt.Fprintf(out, "Quota:      unavailable (%s)\n", status.Quota.Error)
				} else {
					fmt.Fprintf(out, "Quota:      %d/%d used today, %d remaining\n",
						status.Quota.UsedToday, status.Quota.DailyLimit, status.Quota.Remaining)
				}
			}
			return nil
		},
	}
	return cmd
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled (cache and fallback only)"
}
