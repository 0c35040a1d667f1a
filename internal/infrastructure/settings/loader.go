package settings

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	apperrors "github.com/reglet-dev/overlay/internal/application/errors"
	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// Loader reads the settings file and the fragment directories into a
// Snapshot.
//
// Fragment order:
//   - inline fragments from the settings file, in document order
//   - fragment directory files, directory by directory, lexical path order
type Loader struct {
	store        *FileStore
	fragmentDirs []string
	logger       *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(store *FileStore, fragmentDirs []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		store:        store,
		fragmentDirs: append([]string(nil), fragmentDirs...),
		logger:       logger,
	}
}

// Store returns the file store the loader reads from.
func (l *Loader) Store() *FileStore {
	return l.store
}

// FragmentDirs returns the configured fragment directories.
func (l *Loader) FragmentDirs() []string {
	return append([]string(nil), l.fragmentDirs...)
}

// Snapshot is one consistent reading of the settings.
type Snapshot struct {
	raw             yaml.MapSlice
	registry        *entities.Registry
	catalog         *entities.FragmentCatalog
	disabled        values.SourceSet
	disabledDefined bool

	settingsData    []byte
	fragmentsDigest []byte
	revision        string
}

// Registry returns the entity registry.
func (s *Snapshot) Registry() *entities.Registry { return s.registry }

// Catalog returns the fragment catalog.
func (s *Snapshot) Catalog() *entities.FragmentCatalog { return s.catalog }

// Revision returns the content digest.
func (s *Snapshot) Revision() string { return s.revision }

// Load reads everything. All failures are *apperrors.ConfigurationError.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	data, exists, err := l.store.Read()
	if err != nil {
		return nil, apperrors.NewConfigurationError("settings", "cannot read settings file", err)
	}
	if !exists {
		l.logger.Debug("settings file not found, starting empty", "path", l.store.Path())
	}

	doc, raw, err := parseDocument(data)
	if err != nil {
		return nil, apperrors.NewConfigurationError("settings", fmt.Sprintf("invalid settings file %s", l.store.Path()), err)
	}

	registry, err := doc.toRegistry()
	if err != nil {
		return nil, apperrors.NewConfigurationError("settings", "invalid entity", err)
	}

	disabled, defined, err := doc.disabledSources()
	if err != nil {
		return nil, apperrors.NewConfigurationError("settings", "invalid disabled sources", err)
	}

	fragments := make([]entities.Fragment, 0, len(doc.Fragments))
	for i := range doc.Fragments {
		frag, err := doc.Fragments[i].toFragment("", "")
		if err != nil {
			return nil, apperrors.NewConfigurationError("settings", fmt.Sprintf("invalid fragments[%d]", i), err)
		}
		fragments = append(fragments, frag)
	}

	files, err := discoverFragmentFiles(l.fragmentDirs, l.logger)
	if err != nil {
		return nil, apperrors.NewConfigurationError("fragments", "cannot scan fragment directories", err)
	}
	loaded, err := loadFragmentFiles(ctx, files)
	if err != nil {
		return nil, apperrors.NewConfigurationError("fragments", "cannot load fragment files", err)
	}

	digest := sha256.New()
	for _, lf := range loaded {
		fragments = append(fragments, lf.fragment)
		digest.Write([]byte(lf.fragment.Path))
		digest.Write([]byte{0})
		digest.Write(lf.data)
		digest.Write([]byte{0})
	}
	fragmentsDigest := digest.Sum(nil)

	l.logger.Debug("settings loaded",
		"path", l.store.Path(),
		"profiles", len(registry.Profiles()),
		"schemes", len(registry.ColorSchemes()),
		"fragments", len(fragments),
		"fragment_files", len(files),
	)

	return &Snapshot{
		raw:             raw,
		registry:        registry,
		catalog:         entities.NewFragmentCatalog(fragments...),
		disabled:        disabled,
		disabledDefined: defined,
		settingsData:    data,
		fragmentsDigest: fragmentsDigest,
		revision:        computeRevision(data, fragmentsDigest),
	}, nil
}

// parseDocument validates and decodes the settings file. It also returns
// the top-level mapping in document order for write-back.
func parseDocument(data []byte) (*Document, yaml.MapSlice, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Document{Version: CurrentVersion}, yaml.MapSlice{{Key: "version", Value: CurrentVersion}}, nil
	}

	if err := ValidateDocument(data); err != nil {
		return nil, nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode settings YAML: %w", err)
	}

	if err := CheckVersion(doc.Version); err != nil {
		return nil, nil, err
	}

	var raw yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, nil, fmt.Errorf("failed to decode settings YAML: %w", err)
	}

	return &doc, raw, nil
}

// computeRevision digests the settings file together with the fragment
// files. Identical content always yields the same revision.
func computeRevision(settingsData, fragmentsDigest []byte) string {
	h := sha256.New()
	h.Write(settingsData)
	h.Write([]byte{0})
	h.Write(fragmentsDigest)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
