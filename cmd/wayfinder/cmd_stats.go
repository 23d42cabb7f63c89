package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kingrea/wayfinder/internal/metrics"
	"github.com/kingrea/wayfinder/internal/registry"
)

// statsCmd shows recorded performance per agent
var statsCmd = &cobra.Command{
	Use:   "stats [agent-id]",
	Short: "Show recorded performance statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		profile, ok := env.registry.Get(args[0])
		if !ok {
			return fmt.Errorf("stats: unknown agent id %q", args[0])
		}
		record, found, err := env.store.Load(profile.ID)
		if err != nil {
			return err
		}
		printStats(out, profile, record, found)
		return nil
	}

	records, err := env.store.All()
	if err != nil {
		return err
	}
	for _, profile := range env.registry.All() {
		record, found := records[profile.ID]
		printStats(out, profile, record, found)
	}
	return nil
}

func printStats(out io.Writer, profile registry.AgentProfile, record metrics.Record, found bool) {
	if !found || record.TotalInvocations == 0 {
		fmt.Fprintf(out, "%-10s no recorded outcomes (baseline %.0f%% success, cost %.1f)\n",
			profile.ID, profile.BaselineSuccessRate*100, profile.BaselineCost)
		return
	}
	fmt.Fprintf(out, "%-10s %d invocations, %.1f%% success, avg cost %.2f, %d recent\n",
		profile.ID, record.TotalInvocations, record.SuccessRate()*100,
		record.AvgCost, len(record.Recent))
}
