package sparta_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/ontomerge/sparta"
)

func TestDatasetFilename(t *testing.T) {
	assert.Equal(t, "sparta_data_v1.6.json", sparta.DatasetFilename("1.6"))
	assert.Equal(t, filepath.Join("data", "sparta_data_v2.0.json"), sparta.DatasetPath("data", "2.0"))
}

func TestIsDatasetFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"data/sparta_data_v1.6.json", true},
		{"sparta_data_v2.0.json", true},
		{"/abs/dir/sparta_data_v2.0.json", true},
		{"data/sparta_data_v1.6.json.bak", false},
		{"data/other.json", false},
		{"data/sparta_data_v1.6.ttl", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sparta.IsDatasetFile(tt.path), tt.path)
	}
}

func TestVersionLess(t *testing.T) {
	tests := []struct {
		a, b sparta.Version
		less bool
	}{
		{"1.6", "2.0", true},
		{"2.0", "1.6", false},
		{"1.9", "1.10", true},
		{"2.0", "2.0", false},
		{"1.6.2", "1.6", false},
		{"2.0-beta", "2.1", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.less, tt.a.Less(tt.b), "%s < %s", tt.a, tt.b)
	}
}

func TestDiscoverDatasets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"sparta_data_v2.0.json",
		"sparta_data_v1.6.json",
		"sparta_data_v1.10.json",
		"notes.txt",
		"sparta_data_v1.6.json.bak",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	datasets, err := sparta.DiscoverDatasets(dir)
	require.NoError(t, err)
	require.Len(t, datasets, 3)

	versions := make([]sparta.Version, 0, len(datasets))
	for _, d := range datasets {
		versions = append(versions, d.Version)
	}
	assert.Equal(t, []sparta.Version{"1.6", "1.10", "2.0"}, versions, "numeric order, oldest first")

	latest, err := sparta.LatestDataset(dir)
	require.NoError(t, err)
	assert.Equal(t, sparta.Version("2.0"), latest.Version)
	assert.Equal(t, filepath.Join(dir, "sparta_data_v2.0.json"), latest.Path)
}

func TestLatestDatasetEmptyDir(t *testing.T) {
	dir := t.TempDir()
	_, err := sparta.LatestDataset(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dir)
}

func TestDefaultsForVersion(t *testing.T) {
	tests := []struct {
		version sparta.Version
		scheme  sparta.Scheme
		strict  bool
	}{
		{"1.6", sparta.SchemePrefixed, false},
		{"1.10", sparta.SchemePrefixed, false},
		{"2.0", sparta.SchemeBare, true},
		{"2.4", sparta.SchemeBare, true},
		{"3.0", sparta.SchemeBare, true},
		{"snapshot", sparta.SchemeBare, true},
	}
	for _, tt := range tests {
		scheme, strict := sparta.DefaultsForVersion(tt.version)
		assert.Equal(t, tt.scheme, scheme, tt.version)
		assert.Equal(t, tt.strict, strict, tt.version)
	}
}
