package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-reliability/internal/adapter/jsonfile"
	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCompute_Stdout(t *testing.T) {
	out, err := execute(t, "compute",
		"--input", filepath.Join("testdata", "reports.csv"),
		"--output", "",
		"--declare=false",
		"--workers", "1",
	)
	require.NoError(t, err)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 3, snap.ReportCount)
	require.Len(t, snap.Profiles, 2)
	assert.Equal(t, "1", snap.Profiles[0].Neighborhood)
	assert.Equal(t, "19", snap.Profiles[1].Neighborhood)
	assert.Len(t, snap.Profiles[0].Values, domain.NumAxes)
}

func TestCompute_OutputFileWithDeclared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	out, err := execute(t, "compute",
		"--input", filepath.Join("testdata", "reports.csv"),
		"--output", path,
		"--declare=true",
		"--timeliness-ceiling", "12h",
	)
	require.NoError(t, err)
	assert.Empty(t, out)

	snap, err := jsonfile.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, snap.Profiles, 19)
	assert.True(t, snap.Profiles[1].Placeholder)
	assert.False(t, snap.Profiles[18].Placeholder)
}

func TestCompute_MissingInput(t *testing.T) {
	_, err := execute(t, "compute",
		"--input", filepath.Join(t.TempDir(), "absent.csv"),
		"--output", "",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compute snapshot")
}

func TestEngineOptions(t *testing.T) {
	opts, err := engineOptions(10, "6h", 2)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, opts.FrequencyCeiling, 1e-9)
	assert.Equal(t, 6*time.Hour, opts.TimelinessCeiling)
	assert.Equal(t, 2, opts.Workers)

	_, err = engineOptions(0, "6h", 2)
	require.Error(t, err)
	_, err = engineOptions(5, "soon", 2)
	require.Error(t, err)
	_, err = engineOptions(5, "6h", 0)
	require.Error(t, err)
}
