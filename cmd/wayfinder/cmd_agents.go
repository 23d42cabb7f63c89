package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// agentsCmd lists the registry roster
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the agent registry",
	Args:  cobra.NoArgs,
	RunE:  runAgents,
}

func runAgents(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.close()

	out := cmd.OutOrStdout()
	for _, profile := range env.registry.All() {
		fmt.Fprintf(out, "%-10s %s\n", profile.ID, profile.Name)
		if profile.Description != "" {
			fmt.Fprintf(out, "           %s\n", profile.Description)
		}
		fmt.Fprintf(out, "           baseline %.0f%% success, cost %.1f",
			profile.BaselineSuccessRate*100, profile.BaselineCost)
		if len(profile.Patterns) > 0 {
			fmt.Fprintf(out, ", patterns: %s", strings.Join(profile.Patterns, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}
