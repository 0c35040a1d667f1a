package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/reglet-dev/overlay/internal/application/dto"
	apperrors "github.com/reglet-dev/overlay/internal/application/errors"
	"github.com/reglet-dev/overlay/internal/application/ports"
	"github.com/reglet-dev/overlay/internal/domain/services"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// ExtensionsService coordinates one settings session: resolving the
// fragment catalog against the registry, listing extension sources and
// toggling them on and off.
type ExtensionsService struct {
	model    ports.SettingsModel
	tracker  *EnablementTracker
	resolver *services.OverlayResolver
	logger   *slog.Logger

	// views caches the unfiltered view per settings revision.
	views        *gocache.Cache
	mu           sync.Mutex
	lastRevision string
}

// NewExtensionsService creates the service. cacheTTL bounds how long a
// resolved view is reused; zero keeps it until the revision changes.
func NewExtensionsService(
	model ports.SettingsModel,
	tracker *EnablementTracker,
	resolver *services.OverlayResolver,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *ExtensionsService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracker == nil {
		tracker = NewEnablementTracker(model, logger)
	}
	if resolver == nil {
		resolver = services.NewOverlayResolver()
	}

	expiration := gocache.NoExpiration
	if cacheTTL > 0 {
		expiration = cacheTTL
	}

	return &ExtensionsService{
		model:    model,
		tracker:  tracker,
		resolver: resolver,
		logger:   logger,
		views:    gocache.New(expiration, cleanupInterval(cacheTTL)),
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0 // no janitor
	}
	return 2 * ttl
}

// Resolve runs a resolution pass over the current settings and applies the
// request's filters to the result.
func (s *ExtensionsService) Resolve(ctx context.Context, req dto.ResolveRequest) (*dto.ResolveResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, err
	}

	view, revision, cached := s.currentView()

	if filter != nil {
		view = view.Select(filter)
	}

	return &dto.ResolveResponse{
		View:     view,
		Revision: revision,
		Cached:   cached,
	}, nil
}

// currentView returns the unfiltered view for the model's revision,
// resolving only when the revision has not been seen.
func (s *ExtensionsService) currentView() (*services.ResolvedView, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revision := s.model.Revision()
	if revision != s.lastRevision && s.lastRevision != "" {
		s.views.Delete(s.lastRevision)
	}
	s.lastRevision = revision

	if revision != "" {
		if v, ok := s.views.Get(revision); ok {
			return v.(*services.ResolvedView), revision, true
		}
	}

	catalog := s.model.Fragments()
	view := s.resolver.Resolve(s.model, catalog)

	counts := view.Counts()
	s.logger.Debug("resolved fragments",
		"revision", revision,
		"fragments", counts.Fragments,
		"modified_profiles", counts.ModifiedProfiles,
		"new_profiles", counts.NewProfiles,
		"color_schemes", counts.ColorSchemes,
		"dropped", droppedEntries(view),
	)

	if revision != "" {
		s.views.SetDefault(revision, view)
	}
	return view, revision, false
}

func (s *ExtensionsService) buildFilter(req dto.ResolveRequest) (*services.ContributionFilter, error) {
	if req.Filters.IsEmpty() && !req.EnabledOnly {
		return nil, nil
	}

	filter := services.NewContributionFilter()

	if len(req.Filters.IncludeSources) > 0 {
		filter.WithIncludedSources(req.Filters.IncludeSources)
	}

	exclude := append([]string(nil), req.Filters.ExcludeSources...)
	if req.EnabledOnly {
		if disabled, ok := s.model.DisabledSources(); ok {
			exclude = append(exclude, disabled.Strings()...)
		}
	}
	if len(exclude) > 0 {
		filter.WithExcludedSources(exclude)
	}

	if len(req.Filters.Kinds) > 0 {
		kinds, err := parseKinds(req.Filters.Kinds)
		if err != nil {
			return nil, err
		}
		filter.WithKinds(kinds)
	}

	if req.Filters.FilterExpression != "" {
		program, err := services.CompileFilterExpression(req.Filters.FilterExpression)
		if err != nil {
			return nil, apperrors.NewValidationError("filter", "invalid filter expression", err.Error())
		}
		filter.WithFilterExpression(program)
	}

	return filter, nil
}

func parseKinds(raw []string) ([]services.ContributionKind, error) {
	valid := make(map[string]bool)
	for _, k := range services.AllContributionKinds() {
		valid[string(k)] = true
	}

	var invalid []string
	kinds := make([]services.ContributionKind, 0, len(raw))
	for _, k := range raw {
		if !valid[k] {
			invalid = append(invalid, k)
			continue
		}
		kinds = append(kinds, services.ContributionKind(k))
	}
	if len(invalid) > 0 {
		return nil, apperrors.NewValidationError("kind", "unknown contribution kind (want modified, new or scheme)", invalid...)
	}
	return kinds, nil
}

// Reload re-reads the settings model. The next Resolve reuses the cached
// view only if the content is unchanged.
func (s *ExtensionsService) Reload(ctx context.Context) error {
	if err := s.model.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload settings: %w", err)
	}
	s.logger.Debug("settings reloaded", "revision", s.model.Revision())
	return nil
}

// Follow runs a reload and resolution pass for every signal on changes
// until ctx is done or changes is closed. Each outcome, including reload
// failures, is passed to handle; a failure does not stop following.
func (s *ExtensionsService) Follow(
	ctx context.Context,
	changes <-chan struct{},
	req dto.ResolveRequest,
	handle func(*dto.ResolveResponse, error),
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn("reload failed, keeping previous settings", "error", err)
				handle(nil, err)
				continue
			}
			handle(s.Resolve(ctx, req))
		}
	}
}

// List returns one status row per known source: every source that has a
// fragment, followed by sources that only appear in the disabled list.
func (s *ExtensionsService) List(ctx context.Context) ([]dto.ExtensionStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, _, _ := s.currentView()

	rows := make(map[values.SourceID]*dto.ExtensionStatus)
	var order []values.SourceID
	row := func(src values.SourceID) *dto.ExtensionStatus {
		if r, ok := rows[src]; ok {
			return r
		}
		r := &dto.ExtensionStatus{Source: src.String()}
		rows[src] = r
		order = append(order, src)
		return r
	}

	for i, frag := range view.Fragments {
		ext := view.Extensions[i]
		r := row(frag.Source)
		r.Fragments++
		r.ModifiedProfiles += len(ext.ModifiedProfiles)
		r.NewProfiles += len(ext.NewProfiles)
		r.ColorSchemes += len(ext.ColorSchemes)
		r.Unresolved += frag.EntryCount() - ext.Len()
		if frag.Path != "" {
			r.Paths = append(r.Paths, frag.Path)
		}
	}

	if disabled, ok := s.model.DisabledSources(); ok {
		for _, src := range disabled.IDs() {
			row(src)
		}
	}

	states := s.tracker.States(order)
	out := make([]dto.ExtensionStatus, 0, len(order))
	for i, src := range order {
		r := rows[src]
		r.Enabled = states[i].Enabled
		out = append(out, *r)
	}
	return out, nil
}

// IsEnabled reports whether the named source is enabled.
func (s *ExtensionsService) IsEnabled(source string) (bool, error) {
	id, err := values.NewSourceID(source)
	if err != nil {
		return false, apperrors.NewValidationError("source", err.Error())
	}
	return s.tracker.IsEnabled(id), nil
}

// SetEnabled applies the requested state to each source in order. It stops
// at the first failure; earlier sources keep their new state.
func (s *ExtensionsService) SetEnabled(ctx context.Context, req dto.SetEnabledRequest) error {
	if len(req.Sources) == 0 {
		return apperrors.NewValidationError("source", "at least one source is required")
	}

	ids := make([]values.SourceID, 0, len(req.Sources))
	for _, raw := range req.Sources {
		id, err := values.NewSourceID(raw)
		if err != nil {
			return apperrors.NewValidationError("source", err.Error(), raw)
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		if err := s.tracker.SetEnabled(ctx, id, req.Enabled); err != nil {
			return err
		}
	}
	return nil
}

// Toggle asks prompter for the desired state of every known source and
// applies the differences.
func (s *ExtensionsService) Toggle(ctx context.Context, prompter ports.TogglePrompter) error {
	if !prompter.IsInteractive() {
		return apperrors.NewValidationError("terminal", "interactive toggle requires a terminal; use enable or disable instead")
	}

	statuses, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		s.logger.Info("no extension sources found")
		return nil
	}

	current := make([]dto.ExtensionState, 0, len(statuses))
	for _, st := range statuses {
		current = append(current, dto.ExtensionState{Source: st.Source, Enabled: st.Enabled})
	}

	desired, err := prompter.PromptForStates(ctx, current)
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	for _, want := range desired {
		if err := s.SetEnabled(ctx, dto.SetEnabledRequest{
			Sources: []string{want.Source},
			Enabled: want.Enabled,
		}); err != nil {
			return err
		}
	}
	return nil
}

// droppedEntries counts fragment entries that did not reconcile.
func droppedEntries(view *services.ResolvedView) int {
	dropped := 0
	for i := range view.Fragments {
		dropped += view.Fragments[i].EntryCount() - view.Extensions[i].Len()
	}
	return dropped
}
