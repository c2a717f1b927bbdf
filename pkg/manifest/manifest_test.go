package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSnapshot(t *testing.T) {
	type args struct {
		versions []string
	}
	tests := []struct {
		name         string
		args         args
		wantCurrent  string
		wantPrevious string
		wantVersions []string
		wantErr      bool
	}{
		{
			name:         "single",
			args:         args{versions: []string{"1.0.0"}},
			wantCurrent:  "v1.0.0",
			wantVersions: []string{"v1.0.0"},
		},
		{
			name:         "out of order",
			args:         args{versions: []string{"v1.2.0", "1.10.0", "1.3.0"}},
			wantCurrent:  "v1.10.0",
			wantPrevious: "v1.3.0",
			wantVersions: []string{"v1.2.0", "v1.3.0", "v1.10.0"},
		},
		{
			name:         "re-record",
			args:         args{versions: []string{"1.0.0", "1.1.0", "1.1.0"}},
			wantCurrent:  "v1.1.0",
			wantPrevious: "v1.0.0",
			wantVersions: []string{"v1.0.0", "v1.1.0"},
		},
		{
			name:    "invalid",
			args:    args{versions: []string{"latest"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{}
			var err error
			for _, v := range tt.args.versions {
				if err = m.AddSnapshot(Snapshot{Name: "graph", Version: v, File: "graph-" + v + ".yaml"}); err != nil {
					break
				}
			}
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidVersion)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCurrent, m.CurrentVersion)
			require.Equal(t, tt.wantPrevious, m.PreviousVersion)
			require.Equal(t, tt.wantVersions, m.Versions())
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.yaml")

	empty, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, empty.Snapshots)

	m := &Manifest{}
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "graph", Version: "0.1.0", File: "a.yaml", RunID: "r1"}))
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "graph", Version: "0.2.0", File: "b.yaml", RunID: "r2"}))
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m, loaded)
	require.Equal(t, "b.yaml", loaded.SnapshotFile("0.2.0"))
	require.Equal(t, "a.yaml", loaded.SnapshotFile(loaded.PreviousVersion))
}
