package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"smart-home-agent/internal/cli"
)

func newRootCmd() (*cobra.Command, error) {
	settings := cli.NewSettings()

	root := &cobra.Command{
		Use:           "smart-home-llm <order>",
		Short:         "Control smart home devices with natural language",
		Example:       `  smart-home-llm "turn on the kitchen lights and dim the office lamp to 30%"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings.Resolve()
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(cfg.Log, cmd.ErrOrStderr())
			out := cmd.OutOrStdout()

			// The planner key is checked before the hub is contacted.
			planner, err := cli.NewPlanner(cfg, logger)
			if err != nil {
				return err
			}

			order := args[0]
			fmt.Fprintln(out, "🏠 Smart Home LLM Agent")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "📋 Order: %s\n\n", order)
			logger.Info("planning order", "order", order, "provider", cfg.LLM.Provider)

			agent, err := cli.Connect(cmd.Context(), cfg, cli.CredentialProviders(cfg, logger, false), out, logger)
			if err != nil {
				return err
			}

			results, err := agent.Order(cmd.Context(), planner, order)
			if err != nil {
				return err
			}
			if len(results) > 0 {
				fmt.Fprintln(out, "\n🎉 All actions completed successfully!")
			}
			return nil
		},
	}

	flags := slices.Concat(cli.HubFlags("homebridge-"), cli.LLMFlags, cli.CommonFlags)
	if err := settings.Register(root.Flags(), flags...); err != nil {
		return nil, err
	}

	return root, nil
}
