package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDirList(t *testing.T) {
	t.Parallel()
	sep := string(filepath.ListSeparator)

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil", nil, nil},
		{"flag values", []string{"a", "b"}, []string{"a", "b"}},
		{"comma separated", []string{"a,b"}, []string{"a", "b"}},
		{"list separator", []string{"a" + sep + "b"}, []string{"a", "b"}},
		{"blanks dropped", []string{" a , ,b,"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitDirList(tt.input))
		})
	}
}

func TestRuntimeConfig_FragmentDirsFromEnv(t *testing.T) {
	t.Setenv("OVERLAY_FRAGMENTS_DIRS", "/opt/frags,/srv/frags")
	initConfig()

	cfg := runtimeConfigFromViper()
	assert.Equal(t, []string{"/opt/frags", "/srv/frags"}, cfg.FragmentDirs)
}
