package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/reglet-dev/overlay/internal/application/ports"
	"github.com/reglet-dev/overlay/internal/infrastructure/config"
	"github.com/reglet-dev/overlay/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization:
// runtime config from viper, logger, settings load.
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		c, err := container.New(cmd.Context(), container.Options{
			Config: runtimeConfigFromViper(),
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		return handler(&CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}, cmd, args)
	}
}

// runtimeConfigFromViper collects flags, config file and environment.
func runtimeConfigFromViper() config.RuntimeConfig {
	cfg := config.RuntimeConfig{
		SettingsPath:  viper.GetString("settings"),
		FragmentDirs:  splitDirList(viper.GetStringSlice("fragments_dirs")),
		Format:        viper.GetString("format"),
		CacheTTL:      viper.GetDuration("cache_ttl"),
		WatchDebounce: viper.GetDuration("watch_debounce"),
		DryRun:        viper.GetBool("dry_run"),
		Color:         !viper.GetBool("no_color") && os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd())),
	}
	cfg.ApplyDefaults()
	return cfg
}

// splitDirList splits entries on commas and the OS path list separator, so
// OVERLAY_FRAGMENTS_DIRS accepts "a,b" as well as "a:b". Empty parts are
// dropped.
func splitDirList(entries []string) []string {
	var out []string
	for _, e := range entries {
		parts := strings.FieldsFunc(e, func(r rune) bool {
			return r == ',' || r == filepath.ListSeparator
		})
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// formatter resolves the --format flag (or configured default) to a formatter
// writing to the command's output.
func (c *CommandContext) formatter(cmd *cobra.Command) (ports.OutputFormatter, error) {
	format := c.Container.Config().Format
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		format = f.Value.String()
	}

	return c.Container.FormatterFactory().Create(format, cmd.OutOrStdout(), ports.FormatterOptions{
		Indent: true,
		Color:  c.Container.Config().Color,
	})
}
