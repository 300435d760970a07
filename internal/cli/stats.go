package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show schedule statistics",
		Run:   runStats,
	}

	cmd.Flags().String("today", "", "Reference date, YYYY-MM-DD (default today)")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	today := dateFlag(cmd, "today")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), today)
	if err != nil {
		exitErr("stats", err)
	}

	if textOutput() {
		printStatsText(cmd, stats)
		return
	}
	printJSON(cmd, stats)
}

func printStatsText(cmd *cobra.Command, st *store.Stats) {
	w := cmd.OutOrStdout()
	modified := "never"
	if t, err := time.Parse(time.RFC3339, st.LastModified); err == nil {
		modified = humanize.Time(t)
	}
	fmt.Fprintf(w, "store:     %s (%s, modified %s)\n", st.Path, humanize.Bytes(uint64(st.SizeBytes)), modified)
	fmt.Fprintf(w, "items:     %s (%d new, %d reviewed)\n", humanize.Comma(int64(st.TotalItems)), st.NewItems, st.ReviewedItems)
	fmt.Fprintf(w, "due:       %d (%d overdue)\n", st.DueToday, st.Overdue)
	fmt.Fprintf(w, "reviews:   %s\n", humanize.Comma(int64(st.TotalReviews)))
	fmt.Fprintf(w, "retention: %.1f%%\n", st.MeanRetention*100)
	fmt.Fprintf(w, "backups:   %d\n", st.Backups)
	for _, d := range st.Domains {
		name := d.Domain
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(w, "  %-20s %5d items, %d due\n", name, d.Count, d.Due)
	}
}
