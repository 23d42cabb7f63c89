// cmd/wayfinder/main.go
//
// Entry point for the wayfinder CLI: context-aware task routing across a
// registry of agent profiles, with performance feedback recorded per agent.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/wayfinder/internal/config"
	"github.com/kingrea/wayfinder/internal/logbook"
	"github.com/kingrea/wayfinder/internal/metrics"
	"github.com/kingrea/wayfinder/internal/registry"
	"github.com/kingrea/wayfinder/internal/selector"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wayfinder",
	Short: "Route development tasks to the best-suited agent profile",
	Long: `Wayfinder scores a registry of agent profiles against a free-text task
description and the ambient project context (detected stack, repository
status, editor), then recommends the best match. Recorded outcomes feed
back into the scoring so recommendations improve over time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(initCmd, routeCmd, recordCmd, agentsCmd, statsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wayfinder: %v\n", err)
		os.Exit(1)
	}
}

// appEnv bundles everything a command needs. The metrics store degrades to
// an in-memory fallback when the database cannot be opened; the warning is
// carried so commands can surface it without failing.
type appEnv struct {
	cfg      *config.Config
	registry *registry.Registry
	store    metrics.Store
	book     *logbook.Logbook
	selector *selector.Selector
	warnings []string
}

func newAppEnv() (*appEnv, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine working directory: %w", err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Load(cfg.RegistryPath())
	if err != nil {
		return nil, err
	}

	book, err := logbook.New(cfg.LogbookPath())
	if err != nil {
		// The logbook is best-effort; commands work without it.
		book = nil
	}

	env := &appEnv{cfg: cfg, registry: reg, book: book}

	var store metrics.Store
	store, err = metrics.OpenSQLite(cfg.MetricsDBPath(), cfg.Settings.Metrics.RecentCapacity)
	if err != nil {
		warning := fmt.Sprintf("metrics store unavailable, falling back to baselines: %v", err)
		env.warnings = append(env.warnings, warning)
		if book != nil {
			book.Warn("%s", warning)
		}
		store = metrics.NewMemoryStore(cfg.Settings.Metrics.RecentCapacity)
	}
	env.store = store

	sel, err := selector.New(reg, store,
		selector.WithWeights(selector.WeightsFromSettings(cfg.Settings.Scoring)))
	if err != nil {
		return nil, err
	}
	env.selector = sel
	return env, nil
}

func (e *appEnv) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

func (e *appEnv) logInfo(format string, args ...any) {
	if e.book != nil {
		e.book.Info(format, args...)
	}
}
