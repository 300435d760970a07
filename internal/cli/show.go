package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
)

// shownRecord adds today's predicted retention to a stored record.
type shownRecord struct {
	*model.Record
	PredictedRetention float64 `json:"predicted_retention"`
	OverdueDays        int     `json:"overdue_days"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item's schedule record",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	cmd.Flags().String("today", "", "Evaluate as of this date, YYYY-MM-DD (default today)")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	today := dateFlag(cmd, "today")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("show", err)
	}

	printJSON(cmd, shownRecord{
		Record:             rec,
		PredictedRetention: predictOn(s.Scheduler().Model, rec.MemoryState, today),
		OverdueDays:        rec.OverdueDays(today),
	})
}
