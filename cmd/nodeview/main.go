// Command nodeview renders a materialized node graph as an interactive
// terminal diagram: instances in depth-ordered columns, connections as
// bent lines between their sockets.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/JoshuaCF/kronark-node-viewer/config"
	"github.com/JoshuaCF/kronark-node-viewer/graph"
	"github.com/JoshuaCF/kronark-node-viewer/terminal"
)

var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	root := &cobra.Command{
		Use:   "nodeview <graph.json>",
		Short: "interactive viewer for node graphs",
		Long: `Nodeview lays a node graph out into columns by distance from its
output boundary and draws it on a scrollable cell grid. Arrow keys or
hjkl scroll, q quits.`,
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVarP(&flagConfig, "config", "c", "", "TOML settings file")
	root.Flags().StringVar(&flagLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&flagLogFile, "log-file", "", "append logs to this file; without it logs are discarded")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nodeview:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, cleanup, err := newLogger()
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := config.Default()
	if flagConfig != "" {
		if cfg, err = config.Load(flagConfig); err != nil {
			return err
		}
	}

	g, err := graph.DecodeFile(args[0])
	if err != nil {
		return err
	}
	logger.Debug("graph decoded", "file", args[0], "instances", len(g.Instances))

	return terminal.EnterNodeView(g, terminal.Options{Config: cfg, Logger: logger})
}

// newLogger builds the session logger. The screen owns stderr while the
// viewer runs, so logs only go somewhere when a file is given.
func newLogger() (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	var w io.Writer = io.Discard
	cleanup := func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		cleanup = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return logger, cleanup, nil
}
