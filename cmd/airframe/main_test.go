package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const wingDesign = `
(def rib (component "rib" (from-mass (cuboid 0.1 1 0.02) 0.4) :id 1 :cost 40 :vendor "Acme"))
(def spar (component "spar" (from-mass (cylinder 0.05 2) 6) :id 2 :cost 250))
(assembly "wing"
  (place rib :at (vec3 0 0 0))
  (place rib :at (vec3 1 0 0))
  spar
  :id 10)
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunYAMLReport(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "wing.lisp", wingDesign)
	cfg := filepath.Join(dir, "missing.yaml")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfg, "-o", "yaml", design}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var out []designOutput
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &out))
	require.Len(t, out, 1)
	require.Len(t, out[0].Roots, 1)

	wing := out[0].Roots[0]
	assert.Equal(t, "wing", wing.Name)
	assert.Equal(t, "bom", wing.Format)
	assert.Equal(t, 330.0, wing.TotalCost)
	assert.InDelta(t, 6.8, wing.Mass, 1e-9)
	require.Len(t, wing.Rows, 2)
	assert.Equal(t, "rib", wing.Rows[0].Name)
	assert.Equal(t, 2, wing.Rows[0].Units)
	assert.Empty(t, wing.Artifacts)
	assert.Nil(t, wing.Rows[0].O, "bom rows carry no frame")
}

func TestRunTableReport(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "wing.lisp", wingDesign)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(),
		[]string{"-config", filepath.Join(dir, "none.yaml"), "-report", "simple", design},
		&stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.Contains(t, stdout.String(), "wing (simple)")
	assert.Contains(t, stdout.String(), "rib, rib, spar")
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "wing.lisp", wingDesign)
	cfg := writeFile(t, dir, "airframe.yaml", "export:\n  mesh_cells: 16\n")
	outDir := filepath.Join(dir, "stl")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfg, "-export", outDir, "-o", "yaml", design}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var out []designOutput
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &out))
	want := []string{
		filepath.Join(outDir, "wing", "wing_0_rib.stl"),
		filepath.Join(outDir, "wing", "wing_1_rib.stl"),
		filepath.Join(outDir, "wing", "wing_2_spar.stl"),
	}
	assert.Equal(t, strings.Join(want, ","), out[0].Roots[0].Artifacts)
	for _, a := range want {
		assert.FileExists(t, a)
	}
}

func TestRunExportFromConfig(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "wing.lisp", wingDesign)
	outDir := filepath.Join(dir, "cfgout")
	cfg := writeFile(t, dir, "airframe.yaml",
		"export:\n  enabled: true\n  dir: "+outDir+"\n  separator: \";\"\n  mesh_cells: 16\n")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfg, design}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	want := []string{
		filepath.Join(outDir, "wing", "wing_0_rib.stl"),
		filepath.Join(outDir, "wing", "wing_1_rib.stl"),
		filepath.Join(outDir, "wing", "wing_2_spar.stl"),
	}
	for _, a := range want {
		assert.FileExists(t, a)
	}
	assert.Contains(t, stdout.String(), "wrote "+strings.Join(want, ";"))
}

func TestRunWithoutExportWritesNothing(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "wing.lisp", wingDesign)
	outDir := filepath.Join(dir, "cfgout")
	cfg := writeFile(t, dir, "airframe.yaml", "export:\n  dir: "+outDir+"\n")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-config", cfg, design}, &stdout, &stderr))
	assert.NoDirExists(t, outDir)
	assert.NotContains(t, stdout.String(), "wrote")
}

func TestRunExportSameNameDesigns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	first := writeFile(t, dir, filepath.Join("a", "wing.lisp"), wingDesign)
	second := writeFile(t, dir, filepath.Join("b", "wing.lisp"), wingDesign)
	cfg := writeFile(t, dir, "airframe.yaml", "export:\n  mesh_cells: 16\n")
	outDir := filepath.Join(dir, "stl")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfg, "-export", outDir, "-o", "yaml", first, second}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.FileExists(t, filepath.Join(outDir, "wing_1", "wing_0_rib.stl"))
	assert.FileExists(t, filepath.Join(outDir, "wing_2", "wing_0_rib.stl"))
	assert.NoDirExists(t, filepath.Join(outDir, "wing"))
}

func TestDesignDirs(t *testing.T) {
	assert.Equal(t,
		[]string{"wing_1", "tail", "wing_3", "fuselage"},
		designDirs([]string{"a/wing.lisp", "tail.lisp", "b/wing.lisp", "x/fuselage"}))
}

func TestRunLogsLintWarnings(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "free.lisp", `(component "bolt" (from-mass (sphere 0.01) 0.01))`)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", filepath.Join(dir, "none.yaml"), design}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "part has zero cost")
	assert.Contains(t, stderr.String(), "part has no identifier")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.lisp", `(cuboid 1 -1 1)`)
	cfg := filepath.Join(dir, "none.yaml")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", []string{"-config", cfg}, "no design files"},
		{"bad output", []string{"-config", cfg, "-o", "xml", bad}, "unknown output format"},
		{"bad report", []string{"-config", cfg, "-report", "pivot", bad}, "invalid report format"},
		{"missing design", []string{"-config", cfg, filepath.Join(dir, "nope.lisp")}, "reading design"},
		{"evaluation error", []string{"-config", cfg, bad}, "invalid dimension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
