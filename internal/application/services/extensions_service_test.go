package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/overlay/internal/application/dto"
	apperrors "github.com/reglet-dev/overlay/internal/application/errors"
	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

var (
	profileP1 = values.MustNewProfileID("{61c54bbd-c2c6-5271-96e7-009a87ff44bf}")
	profileP2 = values.MustNewProfileID("{0caa0dad-35be-5f56-a8ff-afceeeaa6101}")
	profileP9 = values.MustNewProfileID("{b453ae62-4e3d-5e58-b989-0a998ec441b8}")
)

func testRegistry() *entities.Registry {
	return entities.NewRegistry(
		[]entities.Profile{
			{ID: profileP1, Name: "PowerShell"},
			{ID: profileP2, Name: "Command Prompt"},
		},
		[]entities.ColorScheme{{Name: values.MustNewSchemeName("Campbell")}},
	)
}

func testCatalog() *entities.FragmentCatalog {
	return entities.NewFragmentCatalog(
		entities.Fragment{
			Source: values.MustNewSourceID("Git"),
			Path:   "/fragments/git/git.json",
			ModifiedProfiles: []entities.ProfileEntry{
				{Target: profileP1, Payload: entities.Payload{"font": "Cascadia"}},
				{Target: profileP9},
			},
			ColorSchemes: []entities.SchemeEntry{
				{Target: values.MustNewSchemeName("Campbell")},
			},
		},
		entities.Fragment{
			Source: values.MustNewSourceID("Ubuntu"),
			NewProfiles: []entities.ProfileEntry{
				{Target: profileP2},
			},
		},
	)
}

func newTestModel(store *memoryStore) *fakeModel {
	return &fakeModel{
		memoryStore: store,
		registry:    testRegistry(),
		catalog:     testCatalog(),
		revision:    "rev-1",
	}
}

func TestExtensionsService_Resolve(t *testing.T) {
	t.Parallel()
	svc := NewExtensionsService(newTestModel(newAbsentStore()), nil, nil, 0, nil)

	resp, err := svc.Resolve(context.Background(), dto.ResolveRequest{})
	require.NoError(t, err)

	assert.Equal(t, "rev-1", resp.Revision)
	assert.False(t, resp.Cached)
	counts := resp.View.Counts()
	assert.Equal(t, 2, counts.Fragments)
	assert.Equal(t, 1, counts.ModifiedProfiles, "dangling P9 dropped")
	assert.Equal(t, 1, counts.NewProfiles)
	assert.Equal(t, 1, counts.ColorSchemes)
}

func TestExtensionsService_ResolveCachesByRevision(t *testing.T) {
	t.Parallel()
	model := newTestModel(newAbsentStore())
	svc := NewExtensionsService(model, nil, nil, 0, nil)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, dto.ResolveRequest{})
	require.NoError(t, err)

	// Reload with identical content keeps the revision.
	require.NoError(t, svc.Reload(ctx))
	second, err := svc.Resolve(ctx, dto.ResolveRequest{})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Same(t, first.View, second.View)

	// Content change: P1 removed from the registry.
	model.next = func() (*entities.Registry, *entities.FragmentCatalog, string) {
		reg := entities.NewRegistry(
			[]entities.Profile{{ID: profileP2, Name: "Command Prompt"}},
			testRegistry().ColorSchemes(),
		)
		return reg, testCatalog(), "rev-2"
	}
	require.NoError(t, svc.Reload(ctx))

	third, err := svc.Resolve(ctx, dto.ResolveRequest{})
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, "rev-2", third.Revision)
	assert.Empty(t, third.View.ModifiedProfiles())

	_, found := svc.views.Get("rev-1")
	assert.False(t, found, "stale revision evicted")
}

func TestExtensionsService_ResolveFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      dto.ResolveRequest
		disabled []string
		want     []string // sources of surviving contributions, flattened
	}{
		{
			name: "include source",
			req:  dto.ResolveRequest{Filters: dto.FilterOptions{IncludeSources: []string{"Ubuntu"}}},
			want: []string{"Ubuntu"},
		},
		{
			name: "exclude source",
			req:  dto.ResolveRequest{Filters: dto.FilterOptions{ExcludeSources: []string{"Ubuntu"}}},
			want: []string{"Git", "Git"},
		},
		{
			name: "kind",
			req:  dto.ResolveRequest{Filters: dto.FilterOptions{Kinds: []string{"scheme"}}},
			want: []string{"Git"},
		},
		{
			name: "expression",
			req:  dto.ResolveRequest{Filters: dto.FilterOptions{FilterExpression: `kind == "new"`}},
			want: []string{"Ubuntu"},
		},
		{
			name:     "enabled only",
			req:      dto.ResolveRequest{EnabledOnly: true},
			disabled: []string{"Git"},
			want:     []string{"Ubuntu"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newAbsentStore()
			if tt.disabled != nil {
				store = newStore(tt.disabled...)
			}
			svc := NewExtensionsService(newTestModel(store), nil, nil, 0, nil)

			resp, err := svc.Resolve(context.Background(), tt.req)
			require.NoError(t, err)

			var got []string
			for _, c := range resp.View.ModifiedProfiles() {
				got = append(got, c.Source.String())
			}
			for _, c := range resp.View.NewProfiles() {
				got = append(got, c.Source.String())
			}
			for _, c := range resp.View.ColorSchemes() {
				got = append(got, c.Source.String())
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestExtensionsService_ResolveRejectsBadFilters(t *testing.T) {
	t.Parallel()
	svc := NewExtensionsService(newTestModel(newAbsentStore()), nil, nil, 0, nil)

	_, err := svc.Resolve(context.Background(), dto.ResolveRequest{
		Filters: dto.FilterOptions{Kinds: []string{"themes"}},
	})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "kind", verr.Field)

	_, err = svc.Resolve(context.Background(), dto.ResolveRequest{
		Filters: dto.FilterOptions{FilterExpression: "source +"},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "filter", verr.Field)
}

func TestExtensionsService_List(t *testing.T) {
	t.Parallel()
	svc := NewExtensionsService(newTestModel(newStore("Ubuntu", "Removed")), nil, nil, 0, nil)

	statuses, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	git := statuses[0]
	assert.Equal(t, "Git", git.Source)
	assert.True(t, git.Enabled)
	assert.Equal(t, 1, git.Fragments)
	assert.Equal(t, 1, git.ModifiedProfiles)
	assert.Equal(t, 1, git.ColorSchemes)
	assert.Equal(t, 1, git.Unresolved)
	assert.Equal(t, []string{"/fragments/git/git.json"}, git.Paths)

	ubuntu := statuses[1]
	assert.Equal(t, "Ubuntu", ubuntu.Source)
	assert.False(t, ubuntu.Enabled)
	assert.Equal(t, 1, ubuntu.NewProfiles)
	assert.Zero(t, ubuntu.Unresolved)

	removed := statuses[2]
	assert.Equal(t, "Removed", removed.Source)
	assert.False(t, removed.Enabled)
	assert.Zero(t, removed.Fragments)
}

func TestExtensionsService_SetEnabled(t *testing.T) {
	t.Parallel()
	store := newAbsentStore()
	svc := NewExtensionsService(newTestModel(store), nil, nil, 0, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetEnabled(ctx, dto.SetEnabledRequest{Sources: []string{"Git", "Ubuntu"}, Enabled: false}))
	set, _ := store.DisabledSources()
	assert.Equal(t, []string{"Git", "Ubuntu"}, set.Strings())

	enabled, err := svc.IsEnabled("Git")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, svc.SetEnabled(ctx, dto.SetEnabledRequest{Sources: []string{"Git"}, Enabled: true}))
	set, _ = store.DisabledSources()
	assert.Equal(t, []string{"Ubuntu"}, set.Strings())
}

func TestExtensionsService_SetEnabledValidation(t *testing.T) {
	t.Parallel()
	store := newAbsentStore()
	svc := NewExtensionsService(newTestModel(store), nil, nil, 0, nil)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, svc.SetEnabled(context.Background(), dto.SetEnabledRequest{}), &verr)
	require.ErrorAs(t, svc.SetEnabled(context.Background(), dto.SetEnabledRequest{Sources: []string{"Git", "  "}}), &verr)

	_, defined := store.DisabledSources()
	assert.False(t, defined, "nothing applied when any source is invalid")

	_, err := svc.IsEnabled("")
	require.ErrorAs(t, err, &verr)
}

func TestExtensionsService_SetEnabledWriteBackFailure(t *testing.T) {
	t.Parallel()
	store := newAbsentStore()
	store.failNext = true
	svc := NewExtensionsService(newTestModel(store), nil, nil, 0, nil)

	err := svc.SetEnabled(context.Background(), dto.SetEnabledRequest{Sources: []string{"Git"}})

	var wb *apperrors.WriteBackError
	require.ErrorAs(t, err, &wb)
	enabled, _ := svc.IsEnabled("Git")
	assert.True(t, enabled)
}

func TestExtensionsService_ReloadError(t *testing.T) {
	t.Parallel()
	model := newTestModel(newAbsentStore())
	model.reloadErr = errors.New("disk gone")
	svc := NewExtensionsService(model, nil, nil, 0, nil)

	err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.reloadErr)
}

type scriptedPrompter struct {
	interactive bool
	seen        []dto.ExtensionState
	answer      func([]dto.ExtensionState) []dto.ExtensionState
}

func (p *scriptedPrompter) IsInteractive() bool { return p.interactive }

func (p *scriptedPrompter) PromptForStates(_ context.Context, current []dto.ExtensionState) ([]dto.ExtensionState, error) {
	p.seen = current
	return p.answer(current), nil
}

func TestExtensionsService_Toggle(t *testing.T) {
	t.Parallel()
	store := newStore("Ubuntu")
	svc := NewExtensionsService(newTestModel(store), nil, nil, 0, nil)

	prompter := &scriptedPrompter{
		interactive: true,
		answer: func(current []dto.ExtensionState) []dto.ExtensionState {
			out := make([]dto.ExtensionState, len(current))
			for i, s := range current {
				out[i] = dto.ExtensionState{Source: s.Source, Enabled: !s.Enabled}
			}
			return out
		},
	}

	require.NoError(t, svc.Toggle(context.Background(), prompter))

	assert.Equal(t, []dto.ExtensionState{
		{Source: "Git", Enabled: true},
		{Source: "Ubuntu", Enabled: false},
	}, prompter.seen)

	set, defined := store.DisabledSources()
	require.True(t, defined)
	assert.Equal(t, []string{"Git"}, set.Strings())
}

func TestExtensionsService_ToggleRequiresTerminal(t *testing.T) {
	t.Parallel()
	svc := NewExtensionsService(newTestModel(newAbsentStore()), nil, nil, 0, nil)

	err := svc.Toggle(context.Background(), &scriptedPrompter{})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestExtensionsService_Follow(t *testing.T) {
	t.Parallel()
	model := newTestModel(newAbsentStore())
	svc := NewExtensionsService(model, nil, nil, 0, nil)

	changes := make(chan struct{}, 3)
	var revisions []string
	var failures int

	model.next = func() (*entities.Registry, *entities.FragmentCatalog, string) {
		return testRegistry(), testCatalog(), "rev-2"
	}
	changes <- struct{}{}
	changes <- struct{}{}
	close(changes)

	err := svc.Follow(context.Background(), changes, dto.ResolveRequest{}, func(resp *dto.ResolveResponse, err error) {
		if err != nil {
			failures++
			return
		}
		revisions = append(revisions, resp.Revision)
	})

	require.NoError(t, err)
	assert.Zero(t, failures)
	assert.Equal(t, []string{"rev-2", "rev-2"}, revisions)
	assert.Equal(t, 2, model.reloads)
}

func TestExtensionsService_FollowKeepsGoingAfterReloadError(t *testing.T) {
	t.Parallel()
	model := newTestModel(newAbsentStore())
	model.reloadErr = errors.New("parse error")
	svc := NewExtensionsService(model, nil, nil, 0, nil)

	changes := make(chan struct{}, 2)
	changes <- struct{}{}
	changes <- struct{}{}
	close(changes)

	var failures int
	err := svc.Follow(context.Background(), changes, dto.ResolveRequest{}, func(_ *dto.ResolveResponse, err error) {
		if err != nil {
			failures++
		}
	})

	require.NoError(t, err)
	assert.Equal(t, 2, failures)
}

func TestExtensionsService_FollowStopsOnCancel(t *testing.T) {
	t.Parallel()
	svc := NewExtensionsService(newTestModel(newAbsentStore()), nil, nil, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Follow(ctx, make(chan struct{}), dto.ResolveRequest{}, func(*dto.ResolveResponse, error) {})
	assert.ErrorIs(t, err, context.Canceled)
}
