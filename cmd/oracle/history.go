package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/oracle-route/internal/persistence"
	"github.com/talgya/oracle-route/internal/report"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or show one run's summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := persistence.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			r, err := db.LoadRun(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(out, report.Summary(r))
			return nil
		}

		runs, err := db.RecentRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tWHEN\tMAP\tCOLOURS\tMOVES\tTURNS\tTASKS\tSHRINES\tOK")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d/%d\t%t\n",
				r.ID, humanize.Time(r.CreatedAt), r.Map, r.Colours,
				humanize.Comma(int64(r.TotalMoves)), r.TotalTurns, r.TasksCompleted,
				r.ShrinesBuilt, r.ShrineQuota, r.Success)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to list")
}
