package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cardpress/internal/jobs"
)

func newJobsCommand(cmdCtx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect export history",
	}

	jobsCmd.AddCommand(newJobsListCommand(cmdCtx))
	jobsCmd.AddCommand(newJobsShowCommand(cmdCtx))
	jobsCmd.AddCommand(newJobsClearCommand(cmdCtx))
	jobsCmd.AddCommand(newJobsStatsCommand(cmdCtx))
	return jobsCmd
}

func newJobsShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one recorded export in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if job == nil {
				return fmt.Errorf("job %d not found", id)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job:        %d\n", job.ID)
			fmt.Fprintf(out, "Mode:       %s\n", job.Mode)
			fmt.Fprintf(out, "Status:     %s\n", job.Status)
			fmt.Fprintf(out, "Cards:      %d\n", job.Fronts)
			fmt.Fprintf(out, "Batches:    %d\n", job.Batches)
			fmt.Fprintf(out, "Pages:      %d\n", job.Pages)
			fmt.Fprintf(out, "Progress:   %.0f%%\n", job.ProgressPercent)
			if job.Filename != "" {
				fmt.Fprintf(out, "File:       %s\n", job.Filename)
			}
			if job.OutputPath != "" {
				fmt.Fprintf(out, "Output:     %s\n", job.OutputPath)
			}
			if job.RequestID != "" {
				fmt.Fprintf(out, "Request:    %s\n", job.RequestID)
			}
			if job.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:      %s\n", job.ErrorMessage)
			}
			fmt.Fprintf(out, "Created:    %s\n", formatJobTime(job.CreatedAt))
			fmt.Fprintf(out, "Updated:    %s\n", formatJobTime(job.UpdatedAt))
			return nil
		},
	}
}

func newJobsListCommand(cmdCtx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded exports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			var filters []jobs.Status
			if statusFilter != "" {
				status := jobs.Status(statusFilter)
				if !status.Valid() {
					return fmt.Errorf("unknown status %q", statusFilter)
				}
				filters = append(filters, status)
			}

			recorded, err := store.List(cmd.Context(), filters...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recorded) == 0 {
				fmt.Fprintln(out, "No exports recorded")
				return nil
			}

			rows := make([][]string, 0, len(recorded))
			for _, job := range recorded {
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					job.Mode,
					string(job.Status),
					strconv.Itoa(job.Fronts),
					strconv.Itoa(job.Pages),
					job.Filename,
					formatJobTime(job.CreatedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Mode", "Status", "Cards", "Pages", "File", "Created"},
				rows, 1, 4, 5,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (running, delivered, cancelled, failed)")
	return cmd
}

func newJobsClearCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete finished exports from the history",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d finished exports\n", removed)
			return nil
		},
	}
}

func newJobsStatsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize export history",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:     %d\n", summary.Total)
			fmt.Fprintf(out, "Running:   %d\n", summary.Running)
			fmt.Fprintf(out, "Delivered: %d\n", summary.Delivered)
			fmt.Fprintf(out, "Cancelled: %d\n", summary.Cancelled)
			fmt.Fprintf(out, "Failed:    %d\n", summary.Failed)
			return nil
		},
	}
}

func openStore(cmdCtx *commandContext) (*jobs.Store, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := jobs.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open job history: %w", err)
	}
	return store, nil
}

func formatJobTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format("2006-01-02 15:04")
}
