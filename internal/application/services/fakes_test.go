package services

import (
	"context"
	"errors"
	"sync"

	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

var errStoreRejected = errors.New("store rejected write")

// memoryStore is an in-memory DisabledSourceStore with failure injection.
type memoryStore struct {
	mu       sync.Mutex
	set      values.SourceSet
	defined  bool
	failNext bool
	writes   int
}

func newAbsentStore() *memoryStore {
	return &memoryStore{}
}

func newStore(ids ...string) *memoryStore {
	set, err := values.ParseSourceSet(ids)
	if err != nil {
		panic(err)
	}
	return &memoryStore{set: set, defined: true}
}

func (s *memoryStore) DisabledSources() (values.SourceSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set, s.defined
}

func (s *memoryStore) SetDisabledSources(_ context.Context, set values.SourceSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errStoreRejected
	}
	s.set = set
	s.defined = true
	s.writes++
	return nil
}

// fakeModel is a SettingsModel backed by a registry and catalog that tests
// can swap to simulate reloads.
type fakeModel struct {
	*memoryStore
	registry  *entities.Registry
	catalog   *entities.FragmentCatalog
	revision  string
	next      func() (*entities.Registry, *entities.FragmentCatalog, string)
	reloadErr error
	reloads   int
}

func (m *fakeModel) FindProfile(id values.ProfileID) (entities.Profile, bool) {
	return m.registry.FindProfile(id)
}

func (m *fakeModel) ColorSchemes() []entities.ColorScheme {
	return m.registry.ColorSchemes()
}

func (m *fakeModel) Fragments() *entities.FragmentCatalog {
	return m.catalog
}

func (m *fakeModel) Revision() string {
	return m.revision
}

func (m *fakeModel) Reload(_ context.Context) error {
	m.reloads++
	if m.reloadErr != nil {
		return m.reloadErr
	}
	if m.next != nil {
		m.registry, m.catalog, m.revision = m.next()
	}
	return nil
}
