package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/overlay/internal/application/dto"
)

// watchCmd re-resolves whenever the settings or a fragment changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-resolve on every change to the settings or fragment files",
	Long: `Watch the settings document and fragment directories. After each burst of
changes the settings are reloaded and resolved again, and a summary line is
printed. A document that fails to load is reported and the previous state is
kept. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: withContainer(runWatch),
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("debounce", 0, "Wait this long for changes to settle (default 300ms)")
	watchCmd.Flags().Bool("enabled-only", false, "Count only contributions from enabled sources")
}

func runWatch(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
	if f := cmd.Flags().Lookup("debounce"); f != nil && f.Changed {
		d, _ := cmd.Flags().GetDuration("debounce")
		ctx.Container.Config().WatchDebounce = d
	}
	enabledOnly, _ := cmd.Flags().GetBool("enabled-only")
	req := dto.ResolveRequest{EnabledOnly: enabledOnly}

	svc := ctx.Container.ExtensionsService()
	out := cmd.OutOrStdout()

	w, err := ctx.Container.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	resp, err := svc.Resolve(ctx.Context, req)
	printPass(out, resp, err)
	ctx.Logger.Info("watching for changes", "settings", ctx.Container.Config().SettingsPath)

	err = svc.Follow(ctx.Context, changes, req, func(resp *dto.ResolveResponse, err error) {
		printPass(out, resp, err)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

//nolint:errcheck // Best-effort terminal output
func printPass(w io.Writer, resp *dto.ResolveResponse, err error) {
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	c := resp.View.Counts()
	fmt.Fprintf(w, "revision %s: %d fragments, %d modified profiles, %d new profiles, %d color schemes\n",
		resp.Revision, c.Fragments, c.ModifiedProfiles, c.NewProfiles, c.ColorSchemes)
}
