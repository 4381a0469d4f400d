package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/oracle-route/internal/tasks"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCustomCycles(t *testing.T) {
	got, err := customCycles(`[["t_01","t_02"],["t_09"]]`, "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"t_01", "t_02"}, {"t_09"}}, got)

	got, err = customCycles("", "")
	require.NoError(t, err)
	assert.Nil(t, got)

	path := filepath.Join(t.TempDir(), "cycles.json")
	require.NoError(t, os.WriteFile(path, []byte(`[["t_03"]]`), 0o644))
	got, err = customCycles("", path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"t_03"}}, got)

	_, err = customCycles(`{"not": "a list"}`, "")
	assert.ErrorIs(t, err, tasks.ErrConfig)

	_, err = customCycles("", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read cycles")
}

func TestGenerateValidatePlan(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "oracle.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("storage:\n  db_path: "+filepath.Join(dir, "runs.db")+"\nlog:\n  level: error\n"), 0o644))
	mapPath := filepath.Join(dir, "maps", "example.json")

	out, err := execute(t, "generate", "--config", conf, "--seed", "7", "--out", mapPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 7")
	assert.FileExists(t, mapPath)

	out, err = execute(t, "validate", "--config", conf, mapPath)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = execute(t, "plan", "--config", conf, "--map", mapPath, "--seed", "7", "--validate-only")
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks selected: 15")
	assert.Contains(t, out, "Map and task selection are valid.")

	out, err = execute(t, "history", "--config", conf)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}
