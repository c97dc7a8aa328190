package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cardpress/internal/history"
	"github.com/pdiddy/cardpress/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past processing jobs",
	Long: `History lists recorded jobs, newest first, followed by totals. With
--export the summary and the matching jobs are written as YAML or JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		status, _ := cmd.Flags().GetString("status")
		since, _ := cmd.Flags().GetDuration("since")
		asJSON, _ := cmd.Flags().GetBool("json")
		export, _ := cmd.Flags().GetString("export")

		opts := history.ListOptions{Limit: limit, Status: types.JobStatus(status)}
		switch opts.Status {
		case "", types.JobDone, types.JobFailed:
		default:
			return fmt.Errorf("unknown status %q (want done or failed)", status)
		}
		if since > 0 {
			opts.Since = time.Now().Add(-since)
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if export != "" {
			f := history.Format(export)
			if f != history.FormatYAML && f != history.FormatJSON {
				return fmt.Errorf("unknown export format %q (want yaml or json)", export)
			}
			if !cmd.Flags().Changed("limit") {
				opts.Limit = 0
			}
			return store.Export(ctx, out, f, opts)
		}

		jobs, err := store.List(ctx, opts)
		if err != nil {
			return err
		}
		if asJSON {
			if jobs == nil {
				jobs = []types.Job{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(jobs)
		}

		sum, err := store.Summarize(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CREATED\tSTATUS\tKIND\tITEMS\tSOURCE\tOUTPUT")
		for _, j := range jobs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
				j.CreatedAt.Local().Format("2006-01-02 15:04"), j.Status, j.SourceKind,
				j.ItemCount, j.SourceName, j.OutputName)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d jobs (%d done, %d failed), %d cards rendered\n",
			sum.Jobs, sum.Done, sum.Failed, sum.Items)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of jobs to show")
	historyCmd.Flags().String("status", "", "only jobs with this status: done or failed")
	historyCmd.Flags().Duration("since", 0, "only jobs newer than this (e.g. 24h)")
	historyCmd.Flags().Bool("json", false, "output jobs as JSON")
	historyCmd.Flags().String("export", "", "write summary and jobs as yaml or json")

	rootCmd.AddCommand(historyCmd)
}
