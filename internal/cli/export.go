package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export schedule records as JSON",
		Long:  "Export records as a JSON array ordered by item id. Filter by domain with -d.",
		Run:   runExport,
	}

	cmd.Flags().StringP("domain", "d", "", "Filter by domain")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	domain, _ := cmd.Flags().GetString("domain")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.ExportAll(cmd.Context(), domain)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd, recs)
}
