package main

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/chazu/boxstl/pkg/engine"
	"github.com/chazu/boxstl/pkg/kernel"
	"github.com/chazu/boxstl/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stlSummary is what the driver tests check in a written file.
type stlSummary struct {
	name     string
	facets   int
	min, max [3]float64
}

func readSTL(t *testing.T, path string) stlSummary {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	s := stlSummary{
		min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			s.name = strings.TrimPrefix(sc.Text(), "solid ")
		case "facet":
			s.facets++
		case "vertex":
			require.Len(t, fields, 4)
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				require.NoError(t, err)
				s.min[i] = math.Min(s.min[i], v)
				s.max[i] = math.Max(s.max[i], v)
			}
		}
	}
	require.NoError(t, sc.Err())
	return s
}

func TestRunBoxDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), cfg.Output)

	var logs bytes.Buffer
	app := NewApp(slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, app.RunBox(cfg))

	s := readSTL(t, cfg.Output)
	assert.Equal(t, "AngleBracket", s.name)
	assert.Equal(t, 12, s.facets)
	assert.Equal(t, [3]float64{10, 0, 10}, s.min)
	assert.Equal(t, [3]float64{60, 10, 60}, s.max)

	assert.Contains(t, logs.String(), "exported "+cfg.Output)
	assert.Contains(t, logs.String(), "facets=12")
}

func debugLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRunBoxLogsBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "b.stl")

	var logs bytes.Buffer
	require.NoError(t, NewApp(debugLogger(&logs)).RunBox(cfg))

	out := logs.String()
	assert.Contains(t, out, "vertices=36")
	assert.Contains(t, out, `min="(10, 0, 10)"`)
	assert.Contains(t, out, `max="(60, 10, 60)"`)
	assert.Contains(t, out, `size="(50, 10, 50)"`)
}

func TestRunScriptLogsGraph(t *testing.T) {
	source := `
(box "a" 1 1 1)
(box "b" 2 2 2)
(export (translate (part "b") (vec3 5 0 0)) "b.stl")
`
	var logs bytes.Buffer
	require.NoError(t, NewApp(debugLogger(&logs)).RunScript(source, t.TempDir()))

	out := logs.String()
	assert.Contains(t, out, "nodes=3")
	assert.Contains(t, out, "boxes=2")
	assert.Contains(t, out, "exports=1")
	assert.Contains(t, out, `min="(5, 0, 0)"`)
}

func TestExportEmptyPartWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.stl")

	var logs bytes.Buffer
	require.NoError(t, NewApp(debugLogger(&logs)).export(kernel.NewPart("e"), path))

	assert.Contains(t, logs.String(), "part has no facets")
	assert.NotContains(t, logs.String(), "part bounds")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "solid e\nendsolid e\n", string(data))
}

func TestRunScriptUnnamedBox(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewApp(quietLogger()).RunScript(`(export (box "" 1 2 3) "e.stl")`, dir))

	data, err := os.ReadFile(filepath.Join(dir, "e.stl"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "solid \n"))
	assert.True(t, strings.HasSuffix(string(data), "endsolid \n"))
}

func TestRunBoxRoundTrip(t *testing.T) {
	cfg := Config{
		Name:      "T",
		Width:     2,
		Height:    3,
		Depth:     4,
		Offset:    [3]float64{1, 1, 1},
		Output:    filepath.Join(t.TempDir(), "t.stl"),
		Precision: -1,
	}
	require.NoError(t, NewApp(quietLogger()).RunBox(cfg))

	s := readSTL(t, cfg.Output)
	assert.Equal(t, "T", s.name)
	assert.Equal(t, [3]float64{1, 1, 1}, s.min)
	assert.Equal(t, [3]float64{3, 4, 5}, s.max)
}

func TestRunBoxUnwritable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "missing", "out.stl")

	var logs bytes.Buffer
	err := NewApp(slog.New(slog.NewTextHandler(&logs, nil))).RunBox(cfg)
	require.ErrorIs(t, err, stl.ErrIO)
	assert.Equal(t, exitIO, exitCode(err))
	assert.Contains(t, logs.String(), "export failed")
	assert.NotContains(t, logs.String(), "exported ")
}

func TestRunBoxPrecision(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Offset = [3]float64{0.5, 0, 0}
	cfg.Output = filepath.Join(t.TempDir(), "p.stl")

	require.NoError(t, NewApp(quietLogger(), stl.WithPrecision(2)).RunBox(cfg))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "vertex 0.50 0.00 0.00\n")
}

func TestRunScriptExample(t *testing.T) {
	source, err := os.ReadFile("examples/bracket.lisp")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, NewApp(quietLogger()).RunScript(string(source), dir))

	s := readSTL(t, filepath.Join(dir, "output_part.stl"))
	assert.Equal(t, "AngleBracket", s.name)
	assert.Equal(t, 12, s.facets)
	assert.Equal(t, [3]float64{10, 0, 10}, s.min)
	assert.Equal(t, [3]float64{60, 10, 60}, s.max)
}

func TestRunScriptMatchesRunBox(t *testing.T) {
	source, err := os.ReadFile("examples/bracket.lisp")
	require.NoError(t, err)

	scriptDir := t.TempDir()
	require.NoError(t, NewApp(quietLogger()).RunScript(string(source), scriptDir))

	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "box.stl")
	require.NoError(t, NewApp(quietLogger()).RunBox(cfg))

	fromScript, err := os.ReadFile(filepath.Join(scriptDir, "output_part.stl"))
	require.NoError(t, err)
	fromBox, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, string(fromBox), string(fromScript))
}

func TestRunScriptSeveralParts(t *testing.T) {
	source := `
(box "a" 1 1 1)
(box "b" 2 2 2)
(export (part "a") "a.stl")
(export (translate (part "b") (vec3 5 0 0)) "b.stl")
`
	dir := t.TempDir()
	require.NoError(t, NewApp(quietLogger()).RunScript(source, dir))

	a := readSTL(t, filepath.Join(dir, "a.stl"))
	b := readSTL(t, filepath.Join(dir, "b.stl"))
	assert.Equal(t, [3]float64{1, 1, 1}, a.max)
	assert.Equal(t, [3]float64{5, 0, 0}, b.min)
	assert.Equal(t, [3]float64{7, 2, 2}, b.max)
}

func TestRunScriptAbsolutePath(t *testing.T) {
	out := filepath.Join(t.TempDir(), "abs.stl")
	source := `(export (box "a" 1 2 3) "` + filepath.ToSlash(out) + `")`

	require.NoError(t, NewApp(quietLogger()).RunScript(source, t.TempDir()))
	assert.FileExists(t, out)
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"syntax", `(box "a" 1 2 3`},
		{"unknown part", `(export (part "nope") "x.stl")`},
		{"missing dimension", `(box "a" 1 2)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewApp(quietLogger()).RunScript(tt.source, t.TempDir())
			require.Error(t, err)
			var se *ScriptError
			require.ErrorAs(t, err, &se)
			assert.NotEmpty(t, se.Errors)
			assert.Equal(t, exitUsage, exitCode(err))
		})
	}
}

func TestRunScriptExportFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	err := NewApp(quietLogger()).RunScript(`(export (box "a" 1 1 1) "a.stl")`, dir)
	require.ErrorIs(t, err, stl.ErrIO)
	assert.Equal(t, exitIO, exitCode(err))
}

func TestScriptErrorMessage(t *testing.T) {
	one := &ScriptError{Errors: []engine.EvalError{{Line: 3, Message: "boom"}}}
	assert.Contains(t, one.Error(), "boom")

	two := &ScriptError{Errors: []engine.EvalError{{Line: 1, Message: "a"}, {Line: 2, Message: "b"}}}
	assert.Contains(t, two.Error(), "and 1 more")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitIO, exitCode(&stl.ExportError{Op: "create", Err: os.ErrPermission}))
	assert.Equal(t, exitUsage, exitCode(&ScriptError{Errors: []engine.EvalError{{Message: "x"}}}))
}
