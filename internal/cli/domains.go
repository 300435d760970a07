package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List domain tags with item and due counts",
		Run:   runDomains,
	}

	cmd.Flags().String("today", "", "Reference date, YYYY-MM-DD (default today)")

	RootCmd.AddCommand(cmd)
}

func runDomains(cmd *cobra.Command, args []string) {
	today := dateFlag(cmd, "today")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), today)
	if err != nil {
		exitErr("list domains", err)
	}

	printJSON(cmd, stats.Domains)
}
