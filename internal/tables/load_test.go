package tables

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playpool/billiard/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sinaiYAML = `
outer:
  name: outer
  segments:
    - {kind: line, start: {x: 0, y: 0}, end: {x: 1, y: 0}}
    - {kind: line, start: {x: 1, y: 0}, end: {x: 1, y: 1}}
    - {kind: line, start: {x: 1, y: 1}, end: {x: 0, y: 1}}
    - {kind: line, start: {x: 0, y: 1}, end: {x: 0, y: 0}}
obstacles:
  - name: post
    segments:
      - kind: circular_arc
        center: {x: 0.5, y: 0.5}
        radius: 0.2
        start_angle: 6.283185307179586
        end_angle: 0
        ccw: false
`

func TestDecodeYAML(t *testing.T) {
	spec, err := DecodeYAML(strings.NewReader(sinaiYAML))
	require.NoError(t, err)

	require.Len(t, spec.Outer.Segments, 4)
	require.Len(t, spec.Obstacles, 1)
	arc := spec.Obstacles[0].Segments[0]
	assert.Equal(t, geometry.KindCircularArc, arc.Kind)
	assert.False(t, arc.CCW)
	assert.Equal(t, 0.2, arc.Radius)

	table, err := spec.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, table.ComponentCount())
}

func TestDecodeYAMLRejectsUnknownKind(t *testing.T) {
	_, err := DecodeYAML(strings.NewReader("outer:\n  name: o\n  segments:\n    - {kind: spline}\n"))
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, Stadium()))

	back, err := DecodeYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, Stadium(), back)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "sinai.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sinaiYAML), 0o644))
	spec, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "post", spec.Obstacles[0].Name)

	jsonPath := filepath.Join(dir, "square.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"outer":{"name":"outer","segments":[
		{"kind":"line","start":{"x":0,"y":0},"end":{"x":1,"y":0}},
		{"kind":"line","start":{"x":1,"y":0},"end":{"x":0,"y":0}}]},"obstacles":[]}`), 0o644))
	spec, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, spec.Outer.Segments, 2)

	_, err = LoadFile(filepath.Join(dir, "table.toml"))
	assert.Error(t, err)

	tomlPath := filepath.Join(dir, "table.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("x"), 0o644))
	_, err = LoadFile(tomlPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
