package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/chazu/boxstl/pkg/engine"
	"github.com/chazu/boxstl/pkg/kernel"
	"github.com/chazu/boxstl/pkg/stl"
	"github.com/chazu/boxstl/pkg/tessellate"
)

// Exit codes.
const (
	exitOK    = 0
	exitIO    = 1
	exitUsage = 2
)

// ScriptError carries the evaluation errors of a part script.
type ScriptError struct {
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	if len(e.Errors) == 1 {
		return "script: " + e.Errors[0].Error()
	}
	return fmt.Sprintf("script: %v (and %d more)", e.Errors[0], len(e.Errors)-1)
}

// App builds parts and exports them. It is the only place that turns
// failures into log output.
type App struct {
	engine *engine.Engine
	log    *slog.Logger
	opts   []stl.Option
}

// NewApp creates an App that logs to logger and passes opts to the exporter.
func NewApp(logger *slog.Logger, opts ...stl.Option) *App {
	return &App{
		engine: engine.NewEngine(),
		log:    logger,
		opts:   opts,
	}
}

// RunBox builds the box described by cfg, translates it and exports it.
func (a *App) RunBox(cfg Config) error {
	p := kernel.CreateBox(cfg.Name, cfg.Width, cfg.Height, cfg.Depth)
	p.Translate(cfg.OffsetPoint())
	a.log.Debug("built part", "name", p.Name, "triangles", p.TriangleCount(),
		"vertices", p.VertexCount(), "offset", cfg.OffsetPoint())

	return a.export(p, cfg.Output)
}

// RunScript evaluates a part script and exports every target it names.
// Relative export paths are resolved against dir.
func (a *App) RunScript(source, dir string) error {
	g, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error("script evaluation failed", "err", err)
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			a.log.Error("script error", "line", e.Line, "msg", e.Message)
		}
		return &ScriptError{Errors: evalErrs}
	}

	a.log.Debug("evaluated script", "nodes", g.NodeCount(), "boxes", len(g.Boxes()), "exports", len(g.Exports))

	targets, err := tessellate.Tessellate(g)
	if err != nil {
		a.log.Error("tessellation failed", "err", err)
		return err
	}
	if len(targets) == 0 {
		a.log.Warn("script exported nothing")
	}

	for _, t := range targets {
		path := t.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if err := a.export(t.Part, path); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) export(p *kernel.Part, path string) error {
	if p.IsEmpty() {
		a.log.Warn("part has no facets", "part", p.Name, "path", path)
	} else if b, ok := p.Bounds(); ok {
		a.log.Debug("part bounds", "part", p.Name, "min", b.Min, "max", b.Max, "size", b.Size())
	}

	st, err := stl.Export(path, p, a.opts...)
	if err != nil {
		a.log.Error("export failed", "path", path, "err", err)
		return err
	}
	a.log.Info("exported "+path, "part", p.Name, "facets", st.Facets, "bytes", st.Bytes)
	return nil
}

// exitCode maps an error returned by the commands to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, stl.ErrIO):
		return exitIO
	default:
		return exitUsage
	}
}
