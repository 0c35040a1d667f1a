package main

import (
	"github.com/spf13/cobra"

	"github.com/reglet-dev/overlay/internal/application/dto"
)

var resolveOpts struct {
	format         string
	sources        []string
	excludeSources []string
	kinds          []string
	filterExpr     string
	enabledOnly    bool
}

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show the contributions of every fragment that still apply",
	Long: `Resolve every fragment against the settings document and print the
contributions whose target profile or color scheme exists. Entries pointing
at something that was removed are left out.

Filtering:
  --source Git,Ubuntu              Only these extension sources
  --exclude-source Git             Drop these extension sources
  --kind modified,new,scheme       Only these contribution kinds
  --filter 'name startsWith "Pow"' Advanced filter expression
  --enabled-only                   Drop contributions from disabled sources`,
	Args: cobra.NoArgs,
	RunE: withContainer(runResolve),
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveOpts.format, "format", "", "Output format: table, json, yaml")
	resolveCmd.Flags().StringSliceVar(&resolveOpts.sources, "source", nil, "Only contributions from these sources (comma-separated)")
	resolveCmd.Flags().StringSliceVar(&resolveOpts.excludeSources, "exclude-source", nil, "Exclude contributions from these sources (comma-separated)")
	resolveCmd.Flags().StringSliceVar(&resolveOpts.kinds, "kind", nil, "Only these kinds: modified, new, scheme (comma-separated)")
	resolveCmd.Flags().StringVar(&resolveOpts.filterExpr, "filter", "", "Filter expression over source, kind, target, name, path")
	resolveCmd.Flags().BoolVar(&resolveOpts.enabledOnly, "enabled-only", false, "Drop contributions from disabled sources")
}

func buildResolveRequest() dto.ResolveRequest {
	return dto.ResolveRequest{
		Filters: dto.FilterOptions{
			FilterExpression: resolveOpts.filterExpr,
			IncludeSources:   resolveOpts.sources,
			ExcludeSources:   resolveOpts.excludeSources,
			Kinds:            resolveOpts.kinds,
		},
		EnabledOnly: resolveOpts.enabledOnly,
	}
}

func runResolve(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
	formatter, err := ctx.formatter(cmd)
	if err != nil {
		return err
	}

	resp, err := ctx.Container.ExtensionsService().Resolve(ctx.Context, buildResolveRequest())
	if err != nil {
		return err
	}

	ctx.Logger.Debug("resolution complete", "revision", resp.Revision, "cached", resp.Cached)
	return formatter.FormatView(resp.View)
}
