package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/typecompose/pkg/action/compose"
	"github.com/cmmoran/typecompose/pkg/composer"
	"github.com/cmmoran/typecompose/pkg/index"
	"github.com/cmmoran/typecompose/pkg/manifest"
)

// Generate composes the inputs, writes a snapshot of the resulting graph next
// to the manifest and records it there.
func Generate(opts *composer.Options, manifestPath, snapshotName, snapshotVersion string, inputs ...string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}
	version, err := manifest.CanonicalVersion(snapshotVersion)
	if err != nil {
		return "", err
	}

	outFile := filepath.Clean(filepath.Join(filepath.Dir(manifestPath), fmt.Sprintf("%s-%s.yaml", snapshotName, version)))
	types, err := compose.Generate(opts, outFile, inputs...)
	if err != nil {
		return "", err
	}

	if err := m.AddSnapshot(manifest.Snapshot{
		Name:    snapshotName,
		Version: version,
		File:    outFile,
		RunID:   types.RunID(),
		Created: time.Now().UTC(),
	}); err != nil {
		return "", err
	}

	if err := m.Save(manifestPath); err != nil {
		return "", err
	}

	return outFile, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the current and previous snapshots recorded in
// the manifest and returns a structural diff, previous to current.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", fmt.Errorf("no current/previous snapshots recorded")
	}

	currentPath := m.SnapshotFile(m.CurrentVersion)
	previousPath := m.SnapshotFile(m.PreviousVersion)

	if currentPath == "" || previousPath == "" {
		return "", fmt.Errorf("snapshot files not found in manifest")
	}

	current, err := load(currentPath)
	if err != nil {
		return "", fmt.Errorf("read current snapshot: %w", err)
	}

	previous, err := load(previousPath)
	if err != nil {
		return "", fmt.Errorf("read previous snapshot: %w", err)
	}

	return cmp.Diff(previous, current, cmpopts.EquateEmpty()), nil
}

func load(path string) (*index.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s index.Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
