// Package container provides dependency injection for the application.
package container

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/overlay/internal/application/ports"
	"github.com/reglet-dev/overlay/internal/application/services"
	domainservices "github.com/reglet-dev/overlay/internal/domain/services"
	"github.com/reglet-dev/overlay/internal/infrastructure/config"
	"github.com/reglet-dev/overlay/internal/infrastructure/output"
	"github.com/reglet-dev/overlay/internal/infrastructure/persistence/memory"
	"github.com/reglet-dev/overlay/internal/infrastructure/prompt"
	"github.com/reglet-dev/overlay/internal/infrastructure/settings"
	"github.com/reglet-dev/overlay/internal/infrastructure/watch"
)

// Container holds all application dependencies.
type Container struct {
	cfg               *config.RuntimeConfig
	model             ports.SettingsModel
	extensionsService *services.ExtensionsService
	formatterFactory  ports.OutputFormatterFactory
	prompter          ports.TogglePrompter
	logger            *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	Config config.RuntimeConfig
}

// New creates a new dependency injection container and loads the settings.
func New(ctx context.Context, opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cfg := opts.Config
	cfg.ApplyDefaults()

	// Settings model (infrastructure adapter for the settings port)
	store := settings.NewFileStore(cfg.SettingsPath)
	loader := settings.NewLoader(store, cfg.FragmentDirs, opts.Logger)
	model, err := settings.Open(ctx, loader, opts.Logger)
	if err != nil {
		return nil, err
	}

	// Dry runs toggle against an in-memory copy of the disabled list
	var session ports.SettingsModel = model
	if cfg.DryRun {
		session = memory.NewSettingsOverlay(model)
		opts.Logger.Debug("dry run: enablement changes are not saved")
	}

	// Domain service
	resolver := domainservices.NewOverlayResolver()

	// Application services
	tracker := services.NewEnablementTracker(session, opts.Logger)
	extensionsService := services.NewExtensionsService(session, tracker, resolver, cfg.CacheTTL, opts.Logger)

	return &Container{
		cfg:               &cfg,
		model:             session,
		extensionsService: extensionsService,
		formatterFactory:  output.NewFormatterFactory(),
		prompter:          prompt.NewTogglePrompter(),
		logger:            opts.Logger,
	}, nil
}

// Config returns the resolved runtime configuration.
func (c *Container) Config() *config.RuntimeConfig {
	return c.cfg
}

// ExtensionsService returns the extensions use case.
func (c *Container) ExtensionsService() *services.ExtensionsService {
	return c.extensionsService
}

// FormatterFactory returns the output formatter factory.
func (c *Container) FormatterFactory() ports.OutputFormatterFactory {
	return c.formatterFactory
}

// Prompter returns the interactive toggle prompter.
func (c *Container) Prompter() ports.TogglePrompter {
	return c.prompter
}

// SettingsModel returns the settings model the services operate on.
func (c *Container) SettingsModel() ports.SettingsModel {
	return c.model
}

// NewWatcher creates a watcher over the configured settings locations.
func (c *Container) NewWatcher() (*watch.Watcher, error) {
	return watch.New(watch.Config{
		SettingsPath: c.cfg.SettingsPath,
		FragmentDirs: c.cfg.FragmentDirs,
		DebounceDur:  c.cfg.WatchDebounce,
		Logger:       c.logger,
	})
}
