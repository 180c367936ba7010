package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, color bool, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(args, &out, &errOut, color)
	return out.String(), err
}

func TestSinaiDemoDefaults(t *testing.T) {
	out, err := runCLI(t, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 52)
	assert.True(t, strings.HasPrefix(lines[0], "step"))
	assert.Equal(t, "50 collisions, termination: step_limit", lines[51])
	assert.NotContains(t, out, "\x1b[")
}

func TestColorMarksObstacleRows(t *testing.T) {
	out, err := runCLI(t, true, "--steps", "200")
	require.NoError(t, err)
	assert.Contains(t, out, colorOuter)
	assert.Contains(t, out, colorObstacle)

	out, err = runCLI(t, true, "--steps", "5", "--no-color")
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[")
}

func TestSquareOverrides(t *testing.T) {
	out, err := runCLI(t, false, "--demo", "square", "--steps", "2", "--s", "0.25", "--theta", "1.5707963267948966")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "0.250000")
	assert.Contains(t, lines[1], "1.000000")
}

func TestListDemos(t *testing.T) {
	out, err := runCLI(t, false, "--list")
	require.NoError(t, err)
	for _, name := range []string{"circle", "sinai", "square", "stadium"} {
		assert.Contains(t, out, name)
	}
}

func TestBadOptions(t *testing.T) {
	_, err := runCLI(t, false, "--demo", "hexagon")
	assert.ErrorContains(t, err, "unknown demo")

	_, err = runCLI(t, false, "--steps", "0")
	assert.Error(t, err)

	for _, eps := range []string{"-1", "0", "NaN", "+Inf"} {
		_, err = runCLI(t, false, "--epsilon", eps)
		assert.ErrorContains(t, err, "--epsilon", eps)
	}

	_, err = runCLI(t, false, "--bogus")
	assert.Error(t, err)
}

func TestTableFileAndPNG(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, "square.yaml")
	require.NoError(t, os.WriteFile(tablePath, []byte(`
outer:
  name: outer
  segments:
    - {kind: line, start: {x: 0, y: 0}, end: {x: 2, y: 0}}
    - {kind: line, start: {x: 2, y: 0}, end: {x: 2, y: 1}}
    - {kind: line, start: {x: 2, y: 1}, end: {x: 0, y: 1}}
    - {kind: line, start: {x: 0, y: 1}, end: {x: 0, y: 0}}
`), 0o644))
	pngPath := filepath.Join(dir, "out.png")

	out, err := runCLI(t, false, "--table", tablePath, "--demo", "square",
		"--s", "1", "--theta", "1.5707963267948966", "--steps", "3", "--png", pngPath)
	require.NoError(t, err)
	assert.Contains(t, out, "3 collisions, termination: step_limit")
	assert.Contains(t, out, "wrote "+pngPath)

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	require.NoError(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "billiard.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("demo: circle\nsteps: 7\n"), 0o644))

	out, err := runCLI(t, false, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "7 collisions")

	out, err = runCLI(t, false, "--config", cfgPath, "--steps", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "3 collisions")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("BILLIARD_STEPS", "4")
	t.Setenv("BILLIARD_DEMO", "stadium")
	out, err := runCLI(t, false)
	require.NoError(t, err)
	assert.Contains(t, out, "4 collisions")
}
