package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"

	"github.com/reglet-dev/overlay/internal/domain/entities"
)

// fragmentExtensions lists the file types read from fragment directories.
// JSON is valid YAML, so one decoder serves all of them.
var fragmentExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// fragmentFile is a discovered fragment file and the source it defaults to.
type fragmentFile struct {
	path   string
	source string
}

// loadedFragment is a parsed fragment file plus its raw bytes for the
// revision digest.
type loadedFragment struct {
	fragment entities.Fragment
	data     []byte
}

// discoverFragmentFiles walks each directory in order. Files are returned
// in lexical order per directory. A missing directory is skipped.
func discoverFragmentFiles(dirs []string, logger *slog.Logger) ([]fragmentFile, error) {
	var files []fragmentFile
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("fragment directory not found, skipping", "dir", dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat fragment directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("fragment path %s is not a directory", dir)
		}

		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || !fragmentExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			files = append(files, fragmentFile{
				path:   path,
				source: filepath.Base(filepath.Dir(path)),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan fragment directory %s: %w", dir, err)
		}
	}
	return files, nil
}

// loadFragmentFiles reads and parses files concurrently. The result keeps
// the order of files regardless of completion order.
func loadFragmentFiles(ctx context.Context, files []fragmentFile) ([]loadedFragment, error) {
	results := make([]loadedFragment, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			loaded, err := loadFragmentFile(file)
			if err != nil {
				return err
			}
			results[i] = loaded
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadFragmentFile(file fragmentFile) (loadedFragment, error) {
	data, err := os.ReadFile(file.path)
	if err != nil {
		return loadedFragment{}, fmt.Errorf("failed to read fragment %s: %w", file.path, err)
	}

	if err := ValidateFragment(data); err != nil {
		return loadedFragment{}, fmt.Errorf("invalid fragment %s: %w", file.path, err)
	}

	var doc FragmentDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return loadedFragment{}, fmt.Errorf("failed to decode fragment %s: %w", file.path, err)
	}

	frag, err := doc.toFragment(file.path, file.source)
	if err != nil {
		return loadedFragment{}, fmt.Errorf("invalid fragment %s: %w", file.path, err)
	}

	return loadedFragment{fragment: frag, data: data}, nil
}
