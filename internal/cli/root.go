// Package cli implements the recall CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/config"
	"github.com/rcliao/recall/internal/fsrs"
	"github.com/rcliao/recall/internal/graph"
	"github.com/rcliao/recall/internal/model"
	"github.com/rcliao/recall/internal/store"
)

// Exit codes by error kind.
const (
	ExitIO           = 1
	ExitPrecondition = 2
	ExitContention   = 3
)

var (
	storePath  string
	configPath string
	formatFlag string
	verbose    bool

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Spaced-repetition scheduling for study items",
	Long: "Schedules study items on a forgetting curve. Grades go in, due dates and\n" +
		"clustered review sessions come out. State lives in one JSON file.",
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Schedule file (default: store.path from config, ~/.recall/schedule.json)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $RECALL_CONFIG or ~/.recall/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(getConfigPath())
	if err != nil {
		return &setupError{err: err}
	}
	if storePath != "" {
		c.Store.Path = storePath
	}
	cfg = c
	setupLogging(cfg.Logging)
	log.Debug().Str("config", getConfigPath()).Str("store", cfg.Store.Path).Msg("configured")
	return nil
}

func setupLogging(lc config.LoggingConfig) {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if lc.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("RECALL_CONFIG"); env != "" {
		return env
	}
	return config.DefaultPath()
}

func openStore() (*store.FileStore, error) {
	params, err := cfg.Parameters()
	if err != nil {
		return nil, err
	}
	sched, err := fsrs.NewScheduler(params)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Store.Path, cfg.StoreOptions(sched))
}

func loadGraph(cmd *cobra.Command) (*graph.Graph, error) {
	path := cfg.Session.Graph
	if cmd.Flags().Changed("graph") {
		path, _ = cmd.Flags().GetString("graph")
	}
	return graph.Load(cmd.Context(), path)
}

// dateFlag reads a YYYY-MM-DD flag, defaulting to the local calendar day.
func dateFlag(cmd *cobra.Command, name string) model.Date {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return model.Today()
	}
	d, err := model.ParseDate(s)
	if err != nil {
		exitErr("--"+name, fmt.Errorf("%w: %v", model.ErrInvalidState, err))
	}
	return d
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func textOutput() bool {
	return formatFlag == "text"
}

// setupError marks a failure before any command ran, so ExitCode can tell it
// apart from cobra's usage errors.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// ExitCode maps an error returned by RootCmd.Execute to the process exit
// status. Errors that are not setup failures come from argument and flag
// parsing.
func ExitCode(err error) int {
	var se *setupError
	if errors.As(err, &se) {
		return exitCode(se.err)
	}
	return ExitPrecondition
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, config.ErrInvalid) {
		return ExitPrecondition
	}
	switch store.Classify(err) {
	case store.KindPrecondition:
		return ExitPrecondition
	case store.KindContention:
		return ExitContention
	default:
		return ExitIO
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(exitCode(err))
}
