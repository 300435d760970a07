package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "preview <item-id>",
		Short: "Show the outcome of each rating without saving",
		Args:  cobra.ExactArgs(1),
		Run:   runPreview,
	}

	cmd.Flags().String("date", "", "Hypothetical review date, YYYY-MM-DD (default today)")

	RootCmd.AddCommand(cmd)
}

func runPreview(cmd *cobra.Command, args []string) {
	at := dateFlag(cmd, "date")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("preview", err)
	}

	outcomes, err := s.Scheduler().Preview(rec.MemoryState, at)
	if err != nil {
		exitErr("preview", err)
	}

	byName := make(map[string]model.MemoryState, len(outcomes))
	for r, st := range outcomes {
		byName[r.String()] = st
	}
	printJSON(cmd, map[string]any{
		"item_id":  rec.ItemID,
		"date":     at.String(),
		"outcomes": byName,
	})
}
