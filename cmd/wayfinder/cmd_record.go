package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	recordTask    string
	recordOutcome string
	recordCost    float64
)

// recordCmd folds a completed task's outcome into an agent's performance record
var recordCmd = &cobra.Command{
	Use:   "record <agent-id>",
	Short: "Record a task outcome for an agent",
	Long: `Record the outcome of a completed task against an agent's performance
history. This closes the feedback loop: success rates, average cost, and
the recent-outcome window all feed future recommendations.

Example:
  wayfinder record backend --task "Fix compile errors" --outcome success --cost 1.2`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordTask, "task", "", "the task description that was routed")
	recordCmd.Flags().StringVar(&recordOutcome, "outcome", "", "success or failure")
	recordCmd.Flags().Float64Var(&recordCost, "cost", 1.0, "resource cost of the task (positive)")
	_ = recordCmd.MarkFlagRequired("outcome")
}

func runRecord(cmd *cobra.Command, args []string) error {
	var success bool
	switch recordOutcome {
	case "success":
		success = true
	case "failure":
		success = false
	default:
		return fmt.Errorf("record: --outcome must be success or failure, got %q", recordOutcome)
	}
	if recordCost <= 0 {
		return fmt.Errorf("record: --cost must be positive, got %g", recordCost)
	}

	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.close()

	agentID := args[0]
	record, err := env.selector.RecordOutcome(agentID, recordTask, success, recordCost)
	if err != nil {
		// Persistence failures are warnings, not errors: the next cold load
		// falls back to last-known-good or seeded values.
		if env.book != nil {
			env.book.Warn("record outcome for %s: %v", agentID, err)
		}
		return err
	}

	env.logInfo("recorded %s outcome=%s cost=%.2f (n=%d, rate=%.2f)",
		agentID, recordOutcome, recordCost, record.TotalInvocations, record.SuccessRate())
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d invocations, %.1f%% success, avg cost %.2f\n",
		agentID, record.TotalInvocations, record.SuccessRate()*100, record.AvgCost)
	return nil
}
