package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List schedule backups, newest first",
		Run:   runBackups,
	}

	RootCmd.AddCommand(cmd)
}

func runBackups(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	list, err := s.Backups()
	if err != nil {
		exitErr("list backups", err)
	}

	if textOutput() {
		w := cmd.OutOrStdout()
		for _, b := range list {
			fmt.Fprintf(w, "%s  %8s  %s\n", b.Name, humanize.Bytes(uint64(b.Size)), humanize.Time(b.Created))
		}
		return
	}
	if list == nil {
		list = []store.Backup{}
	}
	printJSON(cmd, list)
}
