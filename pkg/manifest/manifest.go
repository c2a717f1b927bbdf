package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

var ErrInvalidVersion = errors.New("invalid snapshot version")

// Snapshot is one recorded graph snapshot.
type Snapshot struct {
	Name    string    `yaml:"name" json:"name"`
	Version string    `yaml:"version" json:"version"`
	File    string    `yaml:"file" json:"file"`
	RunID   string    `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Created time.Time `yaml:"created,omitempty" json:"created,omitempty"`
}

// Manifest tracks recorded graph snapshots, ordered by semantic version.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// CanonicalVersion accepts "1.2.3" or "v1.2.3" and answers the "v"-prefixed
// canonical semver form.
func CanonicalVersion(version string) (string, error) {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return semver.Canonical(v), nil
}

// AddSnapshot records a snapshot and keeps the list sorted by version. The
// two highest versions become current and previous; re-recording an existing
// name and version replaces the entry.
func (m *Manifest) AddSnapshot(s Snapshot) error {
	v, err := CanonicalVersion(s.Version)
	if err != nil {
		return err
	}
	s.Version = v

	replaced := false
	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		m.Snapshots = append(m.Snapshots, s)
	}

	sort.SliceStable(m.Snapshots, func(i, j int) bool {
		return semver.Compare(m.Snapshots[i].Version, m.Snapshots[j].Version) < 0
	})

	versions := m.Versions()
	m.CurrentVersion, m.PreviousVersion = "", ""
	if n := len(versions); n > 0 {
		m.CurrentVersion = versions[n-1]
		if n > 1 {
			m.PreviousVersion = versions[n-2]
		}
	}
	return nil
}

// Versions lists distinct recorded versions in ascending order.
func (m *Manifest) Versions() []string {
	var out []string
	for _, s := range m.Snapshots {
		if len(out) == 0 || out[len(out)-1] != s.Version {
			out = append(out, s.Version)
		}
	}
	return out
}

// SnapshotFile returns the path associated with the provided version, if present.
func (m *Manifest) SnapshotFile(version string) string {
	if v, err := CanonicalVersion(version); err == nil {
		version = v
	}
	for i := len(m.Snapshots) - 1; i >= 0; i-- {
		if m.Snapshots[i].Version == version {
			return m.Snapshots[i].File
		}
	}
	return ""
}
