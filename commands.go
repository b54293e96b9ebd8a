package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/LIAMBB/knights-travails/components"
)

var errStoreDisabled = errors.New("the path store is disabled; pass --db or set store.enabled in the config")

// demoQueries are the three example queries the command-line tool has always shipped with.
var demoQueries = [][2]components.Coordinates{
	{{X: 0, Y: 0}, {X: 1, Y: 2}},
	{{X: 3, Y: 3}, {X: 7, Y: 6}},
	{{X: 0, Y: 0}, {X: 7, Y: 7}},
}

func newPathCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		dumpMetric bool
	)

	cmd := &cobra.Command{
		Use:   "path START FINISH",
		Short: "Print the shortest knight path between two squares",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := components.ParseCoordinates(args[0])
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			finish, err := components.ParseCoordinates(args[1])
			if err != nil {
				return fmt.Errorf("finish: %w", err)
			}

			path, err := a.resolvePath(cmd.Context(), start, finish)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				err = writePathJSON(out, start, finish, path)
			} else {
				err = writePath(out, path)
			}
			if err != nil {
				return err
			}

			if dumpMetric || a.cfg.Metrics.Enabled {
				return writeMetrics(cmd)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the path as JSON")
	cmd.Flags().BoolVar(&dumpMetric, "metrics", false, "dump search metrics to stderr afterwards")
	return cmd
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the example queries (0,0)->(1,2), (3,3)->(7,6) and (0,0)->(7,7)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, q := range demoQueries {
				path, err := a.resolvePath(cmd.Context(), q[0], q[1])
				if err != nil {
					return err
				}
				if err := writePath(cmd.OutOrStdout(), path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newTableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "table START",
		Short: "Print the knight distance from START to every square",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := components.ParseCoordinates(args[0])
			if err != nil {
				return err
			}
			distances, err := a.finder.Distances(start)
			if err != nil {
				return err
			}
			return writeDistanceTable(cmd.OutOrStdout(), distances)
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored searches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return errStoreDisabled
			}
			records, err := a.store.ListSearches(cmd.Context(), limit)
			if err != nil {
				return err
			}
			size, err := a.store.Size(cmd.Context())
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), records, size)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of searches to list")
	return cmd
}

// resolvePath answers from the store when it has the pair, otherwise searches
// and stores the result.
func (a *app) resolvePath(ctx context.Context, start, finish components.Coordinates) (components.Path, error) {
	if a.store != nil {
		path, ok, err := a.store.LookupPath(ctx, start, finish)
		if err != nil {
			return nil, err
		}
		if ok {
			a.logger.Debug("answered from store", "start", start.Name(), "finish", finish.Name())
			return path, nil
		}
	}

	path, err := a.finder.ShortestPath(start, finish)
	if err != nil {
		return nil, err
	}

	if a.store != nil {
		if _, err := a.store.SaveSearch(ctx, start, finish, path); err != nil {
			return nil, err
		}
	}
	return path, nil
}

func writeMetrics(cmd *cobra.Command) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(cmd.ErrOrStderr(), mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
