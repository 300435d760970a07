package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "restore <backup-name>",
		Short: "Replace the schedule with a backup",
		Long: "Replace the live schedule with the named backup (see `recall backups`).\n" +
			"The current file is itself backed up first.",
		Args: cobra.ExactArgs(1),
		Run:  runRestore,
	}

	RootCmd.AddCommand(cmd)
}

func runRestore(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sched, err := s.Restore(cmd.Context(), args[0])
	if err != nil {
		exitErr("restore", err)
	}

	log.Info().Str("backup", args[0]).Int("items", len(sched.Items)).Msg("restored")

	printJSON(cmd, map[string]any{
		"ok":          true,
		"restored":    args[0],
		"total_items": len(sched.Items),
	})
}
