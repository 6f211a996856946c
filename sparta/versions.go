package sparta

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Dataset filename convention: sparta_data_v<VERSION>.json inside the
// data directory.
const (
	datasetPrefix = "sparta_data_v"
	datasetSuffix = ".json"
)

// Version is a dataset version token such as "1.6" or "2.0".
type Version string

// String returns the version token.
func (v Version) String() string {
	return string(v)
}

// components returns the leading integers of the first two dotted parts.
// Tokens like "2.0-beta" still order as 2.0.
func (v Version) components() (major, minor int, ok bool) {
	parts := strings.SplitN(string(v), ".", 3)
	major, ok = leadingInt(parts[0])
	if !ok {
		return 0, 0, false
	}
	if len(parts) > 1 {
		minor, _ = leadingInt(parts[1])
	}
	return major, minor, true
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Less orders versions numerically by major then minor, falling back to
// the raw token for tokens without a leading number.
func (v Version) Less(other Version) bool {
	vMajor, vMinor, vOK := v.components()
	oMajor, oMinor, oOK := other.components()
	if !vOK || !oOK {
		return v < other
	}
	if vMajor != oMajor {
		return vMajor < oMajor
	}
	if vMinor != oMinor {
		return vMinor < oMinor
	}
	return v < other
}

// DatasetFilename returns the conventional dataset filename for a
// version.
func DatasetFilename(version Version) string {
	return datasetPrefix + version.String() + datasetSuffix
}

// DatasetPath returns the conventional dataset path for a version under
// the data directory.
func DatasetPath(dataDir string, version Version) string {
	return filepath.Join(dataDir, DatasetFilename(version))
}

// IsDatasetFile reports whether a path names a dataset file.
func IsDatasetFile(path string) bool {
	ok, err := doublestar.Match(datasetPrefix+"*"+datasetSuffix, filepath.Base(path))
	return err == nil && ok
}

// DatasetInfo describes one dataset file found in the data directory.
type DatasetInfo struct {
	Version Version
	Path    string
	Size    int64
}

// DiscoverDatasets lists the dataset files in the data directory, oldest
// version first.
func DiscoverDatasets(dataDir string) ([]DatasetInfo, error) {
	pattern := filepath.Join(dataDir, datasetPrefix+"*"+datasetSuffix)
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	out := make([]DatasetInfo, 0, len(matches))
	for _, path := range matches {
		base := filepath.Base(path)
		version := Version(strings.TrimSuffix(strings.TrimPrefix(base, datasetPrefix), datasetSuffix))
		info := DatasetInfo{Version: version, Path: path}
		if st, err := os.Stat(path); err == nil {
			info.Size = st.Size()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version.Less(out[j].Version)
	})
	return out, nil
}

// LatestDataset returns the newest dataset in the data directory.
func LatestDataset(dataDir string) (DatasetInfo, error) {
	datasets, err := DiscoverDatasets(dataDir)
	if err != nil {
		return DatasetInfo{}, err
	}
	if len(datasets) == 0 {
		return DatasetInfo{}, fmt.Errorf("no dataset files in %s", dataDir)
	}
	return datasets[len(datasets)-1], nil
}

// DefaultsForVersion returns the URI scheme and identifier filter a
// dataset revision expects: v1.x datasets were published for the
// prefixed scheme with no back-references, v2.0 and later use bare URIs
// and carry D3FEND back-references that the strict filter must reject.
// Unparseable tokens get the latest revision's behavior.
func DefaultsForVersion(version Version) (Scheme, bool) {
	major, _, ok := version.components()
	if ok && major < 2 {
		return SchemePrefixed, false
	}
	return SchemeBare, true
}
