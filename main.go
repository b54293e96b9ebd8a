package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LIAMBB/knights-travails/components"
	"github.com/LIAMBB/knights-travails/internal/config"
	"github.com/LIAMBB/knights-travails/internal/logging"
	"github.com/LIAMBB/knights-travails/store"
)

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	finder *components.PathFinder
	store  *store.Store // nil unless the store is enabled
}

type rootFlags struct {
	configPath string
	logLevel   string
	dbPath     string
}

// newRootCmd wires every subcommand to a. The caller owns a and must call
// a.close once the command has run; cobra skips post-run hooks when RunE fails.
func newRootCmd(a *app) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "knights",
		Short: "Shortest knight paths on an 8x8 chessboard",
		Long: `Finds the fewest knight moves between two squares with a breadth-first search.

Squares are written as x,y with both values in 0..7, e.g. "0,0" or "[3, 3]".

Examples:
  knights path 0,0 7,7
  knights path "[3, 3]" "[7, 6]" --json
  knights table 0,0
  knights demo`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite path store; enables the store")

	root.AddCommand(
		newPathCmd(a),
		newDemoCmd(a),
		newTableCmd(a),
		newHistoryCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.dbPath != "" {
		cfg.Store.Enabled = true
		cfg.Store.Path = flags.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := cfg.LoggingConfig()
	lc.Output = cmd.ErrOrStderr()
	a.cfg = cfg
	a.logger = logging.New(lc)
	a.finder = components.NewPathFinder(a.logger)

	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path, cfg.Store.MaxSizeGB, a.logger)
		if err != nil {
			return err
		}
		a.store = s
	}
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Until the config is loaded, failures go through the default logger.
	a := &app{logger: logging.Default()}
	err := newRootCmd(a).ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil {
		a.logger.Error("closing path store", "error", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
