package workspace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunManifest_WriteRead(t *testing.T) {
	logs := NewLogs(filepath.Join(t.TempDir(), "logs"))
	started := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	path, err := logs.WriteManifest(RunManifest{
		RunID:      "6a1f",
		Command:    "build release",
		Threads:    5,
		StartedAt:  started,
		Elapsed:    90 * time.Second,
		Sequential: 4 * time.Minute,
		Outcome:    "success",
	})
	require.NoError(t, err)

	runDir, err := logs.RunDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(runDir, ManifestFile), path)

	m, err := ReadManifest(runDir)
	require.NoError(t, err)
	assert.Equal(t, "6a1f", m.RunID)
	assert.Equal(t, 90*time.Second, m.Elapsed)
	assert.Equal(t, 4*time.Minute, m.Sequential)
	assert.True(t, started.Equal(m.StartedAt))
	assert.Empty(t, m.Error)
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	assert.Error(t, err)
}
