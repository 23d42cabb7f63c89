package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/wayfinder/internal/config"
	"github.com/kingrea/wayfinder/internal/registry"
)

// initCmd scaffolds the .wayfinder directory
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .wayfinder directory with default settings and registry",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	if err := config.InitWayfinderDir(cwd); err != nil {
		return fmt.Errorf("init .wayfinder: %w", err)
	}

	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return err
	}
	if err := seedRegistry(cfg.RegistryPath()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", cfg.WayfinderProjectDir)
	return nil
}

// seedRegistry writes the default roster unless the project already has one.
func seedRegistry(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("init: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(registry.DefaultRegistryYAML), 0o644); err != nil {
		return fmt.Errorf("init: write default registry: %w", err)
	}
	return nil
}
