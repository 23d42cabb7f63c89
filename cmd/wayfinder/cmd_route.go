package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/wayfinder/internal/render"
	"github.com/kingrea/wayfinder/internal/selector"
	"github.com/kingrea/wayfinder/internal/tui"
)

var (
	routeContext      string
	routeAgent        string
	routeFormat       string
	routeAlternatives bool
	routeInteractive  bool
)

// routeCmd scores the registry against a task and prints a recommendation
var routeCmd = &cobra.Command{
	Use:   "route <task description>",
	Short: "Recommend the best agent for a task",
	Long: `Score every agent profile against the task description and ambient
project context, then print the top recommendation with reasoning.

Examples:
  wayfinder route "Fix compilation errors in backend service"
  wayfinder route --context ./web "Adjust button layout" --alternatives
  wayfinder route --agent qa "Anything" --format id`,
	Args: cobra.ArbitraryArgs,
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeContext, "context", "", "path hint for context analysis (defaults to the current directory)")
	routeCmd.Flags().StringVar(&routeAgent, "agent", "", "force a specific agent id, bypassing scoring")
	routeCmd.Flags().StringVar(&routeFormat, "format", "", "output format: human, json, or id")
	routeCmd.Flags().BoolVar(&routeAlternatives, "alternatives", false, "include ranked alternatives in the output")
	routeCmd.Flags().BoolVar(&routeInteractive, "interactive", false, "pick from the ranked candidates in a TUI")
}

func runRoute(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.close()

	format := render.Format(env.cfg.Settings.Output.DefaultFormat)
	if routeFormat != "" {
		format, err = render.ParseFormat(routeFormat)
		if err != nil {
			return err
		}
	}

	task := strings.TrimSpace(strings.Join(args, " "))
	sel, err := env.selector.Select(selector.Request{
		Task:       task,
		PathHint:   routeContext,
		ForceAgent: routeAgent,
	})
	if err != nil {
		return err
	}
	sel.Warnings = append(env.warnings, sel.Warnings...)

	env.logInfo("route %q -> %s (%.1f%%) [%s]", task, sel.Agent.ID, sel.Confidence, sel.Context.Describe())

	if routeInteractive {
		chosen, err := tui.Run(task, sel)
		if err != nil {
			return err
		}
		if chosen == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), chosen)
		return nil
	}

	out, err := render.Selection(sel, format, routeAlternatives)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
