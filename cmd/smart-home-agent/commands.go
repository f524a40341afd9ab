package main

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"smart-home-agent/config"
	"smart-home-agent/internal/application"
	"smart-home-agent/internal/cli"
	"smart-home-agent/internal/domain"
)

type app struct {
	settings *cli.Settings
	cfg      *config.Config
	logger   *slog.Logger
}

func newRootCmd() (*cobra.Command, error) {
	a := &app{settings: cli.NewSettings()}

	root := &cobra.Command{
		Use:           "smart-home-agent",
		Short:         "Control your smart home devices via Homebridge API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	if err := a.settings.Register(root.PersistentFlags(), slices.Concat(cli.HubFlags(""), cli.CommonFlags)...); err != nil {
		return nil, err
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all available devices",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				agent, err := a.connect(cmd)
				if err != nil {
					return err
				}
				agent.List(cmd.OutOrStdout())
				return nil
			},
		},
		a.actionCmd("on <device>", "Turn device on (partial name match supported)", cobra.ExactArgs(1),
			func(args []string) (domain.Action, error) {
				return domain.TurnOn{Device: args[0]}, nil
			}),
		a.actionCmd("off <device>", "Turn device off (partial name match supported)", cobra.ExactArgs(1),
			func(args []string) (domain.Action, error) {
				return domain.TurnOff{Device: args[0]}, nil
			}),
		a.actionCmd("brightness <device> <level>", "Set device brightness (0-100)", cobra.ExactArgs(2),
			func(args []string) (domain.Action, error) {
				level, err := strconv.Atoi(args[1])
				if err != nil {
					return nil, fmt.Errorf("invalid brightness level %q: %w", args[1], err)
				}
				return domain.SetBrightness{Device: args[0], Level: level}, nil
			}),
		&cobra.Command{
			Use:   "kitchen <state>",
			Short: "Control kitchen lights (state: on, off, ein, aus)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				agent, err := a.connect(cmd)
				if err != nil {
					return err
				}
				_, err = agent.Kitchen(cmd.Context(), args[0], a.cfg.Kitchen.Devices)
				return err
			},
		},
	)

	return root, nil
}

// actionCmd builds a subcommand that executes the single action parsed
// from its arguments. Arguments are parsed before the hub is contacted.
func (a *app) actionCmd(use, short string, args cobra.PositionalArgs, parse func([]string) (domain.Action, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := parse(args)
			if err != nil {
				return err
			}
			agent, err := a.connect(cmd)
			if err != nil {
				return err
			}
			_, err = agent.ExecuteAll(cmd.Context(), []domain.Action{action})
			return err
		},
	}
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := a.settings.Resolve()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg.Log, logOut)
	return nil
}

func (a *app) connect(cmd *cobra.Command) (*application.Agent, error) {
	providers := cli.CredentialProviders(a.cfg, a.logger, true)
	return cli.Connect(cmd.Context(), a.cfg, providers, cmd.OutOrStdout(), a.logger)
}
