package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
	"github.com/rcliao/recall/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled items",
		Run:   runList,
	}

	cmd.Flags().StringP("domain", "d", "", "Filter by domain")
	cmd.Flags().Bool("due", false, "Only items due on --today")
	cmd.Flags().String("today", "", "Reference date, YYYY-MM-DD (default today)")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 = all)")
	cmd.Flags().Bool("ids-only", false, "Only output item ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	domain, _ := cmd.Flags().GetString("domain")
	dueOnly, _ := cmd.Flags().GetBool("due")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")
	today := dateFlag(cmd, "today")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.ExportAll(cmd.Context(), domain)
	if err != nil {
		exitErr("list", err)
	}
	if dueOnly {
		recs = session.Due(recs, today, "")
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	if idsOnly {
		for _, r := range recs {
			fmt.Fprintln(cmd.OutOrStdout(), r.ItemID)
		}
		return
	}
	if recs == nil {
		recs = []model.Record{}
	}
	printJSON(cmd, recs)
}
