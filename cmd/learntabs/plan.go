package main

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/learntabs/internal/tabs"
)

func planCMD(cfgPath *string) *cobra.Command {
	var (
		style        string
		maxTabs      int
		retrieveOnly bool
	)
	plan := &cobra.Command{
		Use:   "plan <goal>",
		Short: "Print a tab plan for a learning goal as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tabs.Instruction{Goal: strings.Join(args, " "), Style: tabs.ParseStyle(style)}
			if in.Query() == "" {
				return errors.New("goal is required")
			}
			if cmd.Flags().Changed("max-tabs") {
				in.MaxTabs = &maxTabs
			}

			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if retrieveOnly {
				found := a.retriever.Retrieve(cmd.Context(), in)
				if found == nil {
					found = []tabs.GeneratedTab{}
				}
				return enc.Encode(found)
			}
			return enc.Encode(a.planner.Plan(cmd.Context(), in))
		},
	}
	plan.Flags().StringVarP(&style, "style", "s", string(tabs.StyleMix), "quick, research, videos or mix")
	plan.Flags().IntVarP(&maxTabs, "max-tabs", "n", 0, "maximum number of tabs (clamped to 3..30)")
	plan.Flags().BoolVar(&retrieveOnly, "retrieve-only", false, "print ranked search results without planning")
	return plan
}
