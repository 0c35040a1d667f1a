package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/overlay/internal/application/dto"
)

var extensionsFormat string

// extensionsCmd groups the extension source commands.
var extensionsCmd = &cobra.Command{
	Use:     "extensions",
	Aliases: []string{"ext"},
	Short:   "List, enable and disable extension sources",
}

var extensionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List extension sources with their state and contribution counts",
	Args:  cobra.NoArgs,
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
		formatter, err := ctx.formatter(cmd)
		if err != nil {
			return err
		}
		statuses, err := ctx.Container.ExtensionsService().List(ctx.Context)
		if err != nil {
			return err
		}
		return formatter.FormatStatuses(statuses)
	}),
}

var extensionsEnableCmd = &cobra.Command{
	Use:   "enable <source>...",
	Short: "Enable extension sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withContainer(setEnabled(true)),
}

var extensionsDisableCmd = &cobra.Command{
	Use:   "disable <source>...",
	Short: "Disable extension sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withContainer(setEnabled(false)),
}

var extensionsStatusCmd = &cobra.Command{
	Use:   "status <source>",
	Short: "Print whether an extension source is enabled",
	Args:  cobra.ExactArgs(1),
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		enabled, err := ctx.Container.ExtensionsService().IsEnabled(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], stateWord(enabled))
		return err
	}),
}

var extensionsToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Choose enabled extension sources interactively",
	Args:  cobra.NoArgs,
	RunE: withContainer(func(ctx *CommandContext, _ *cobra.Command, _ []string) error {
		return ctx.Container.ExtensionsService().Toggle(ctx.Context, ctx.Container.Prompter())
	}),
}

func init() {
	rootCmd.AddCommand(extensionsCmd)
	extensionsCmd.AddCommand(
		extensionsListCmd,
		extensionsEnableCmd,
		extensionsDisableCmd,
		extensionsStatusCmd,
		extensionsToggleCmd,
	)

	extensionsListCmd.Flags().StringVar(&extensionsFormat, "format", "", "Output format: table, json, yaml")
}

func setEnabled(enabled bool) CommandHandler {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		if err := ctx.Container.ExtensionsService().SetEnabled(ctx.Context, dto.SetEnabledRequest{
			Sources: args,
			Enabled: enabled,
		}); err != nil {
			return err
		}
		for _, src := range args {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", src, stateWord(enabled)); err != nil {
				return err
			}
		}
		return nil
	}
}

func stateWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
