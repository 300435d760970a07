package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/config"
	"github.com/rcliao/recall/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config and create an empty schedule",
		Run:   runInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")

	RootCmd.AddCommand(cmd)
}

func runInit(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")
	path := getConfigPath()

	wrote := false
	if _, err := os.Stat(path); os.IsNotExist(err) || force {
		def := config.Default()
		if storePath != "" {
			def.Store.Path = storePath
		}
		if err := config.Write(path, def); err != nil {
			exitErr("write config", err)
		}
		wrote = true
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	// An empty update materializes the file without touching existing items.
	var total int
	err = s.Update(cmd.Context(), func(sched *model.Schedule) error {
		total = len(sched.Items)
		return nil
	})
	if err != nil {
		exitErr("init store", err)
	}

	printJSON(cmd, map[string]any{
		"ok":             true,
		"config":         path,
		"config_written": wrote,
		"store":          s.Path(),
		"total_items":    total,
	})
}
