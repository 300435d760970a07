package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import schedule records from JSON",
		Long:  "Import records (stdin or file). Expects the format produced by export.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	cmd.Flags().Bool("overwrite", false, "Replace records whose ids already exist")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		exitErr("read input", err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		exitErr("parse json", fmt.Errorf("%w: %v", model.ErrInvalidState, err))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), records, overwrite)
	if err != nil {
		exitErr("import", err)
	}

	printJSON(cmd, map[string]any{
		"ok":       true,
		"imported": imported,
		"skipped":  len(records) - imported,
	})
}
