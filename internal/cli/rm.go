package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <item-id...>",
		Short: "Remove items from the schedule",
		Long:  "Remove items, e.g. ones whose source was deleted. Unknown ids are ignored.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	removed, err := s.Remove(cmd.Context(), args...)
	if err != nil {
		exitErr("rm", err)
	}
	if removed == nil {
		removed = []string{}
	}

	printJSON(cmd, map[string]any{"ok": true, "removed": removed})
}
