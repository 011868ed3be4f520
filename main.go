// Command boxstl builds box meshes and writes them as ASCII STL files.
//
//	boxstl box [--config file.toml] [--name N] [--width W] [--height H] [--depth D] [--offset x,y,z] [-o file]
//	boxstl run script.lisp
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/boxstl/pkg/stl"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose   bool
	quiet     bool
	precision int

	// ran is set once a subcommand starts; from then on failures are
	// reported through the logger.
	ran bool
}

// run executes the command line and returns the process exit code.
// All diagnostics go to stderr.
func run(args []string, stderr io.Writer) int {
	gf := &globalFlags{}
	root := newRootCmd(gf, stderr)
	root.SetArgs(args)
	root.SetOut(stderr)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if !gf.ran {
			fmt.Fprintf(stderr, "boxstl: %v\n", err)
			return exitUsage
		}
		return exitCode(err)
	}
	return exitOK
}

func newRootCmd(gf *globalFlags, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "boxstl",
		Short:         "Build box meshes and export them as ASCII STL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.BoolVarP(&gf.verbose, "verbose", "v", false, "log debug output")
	pf.BoolVarP(&gf.quiet, "quiet", "q", false, "log errors only")
	pf.IntVar(&gf.precision, "precision", -1, "decimals per coordinate (negative: shortest exact form)")

	root.AddCommand(newBoxCmd(gf, stderr), newRunCmd(gf, stderr))
	return root
}

func newBoxCmd(gf *globalFlags, stderr io.Writer) *cobra.Command {
	var (
		fl         = DefaultConfig()
		offset     string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "box",
		Short: "Build one box, translate it and export it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gf.ran = true
			logger := newLogger(stderr, gf.verbose, gf.quiet)

			// defaults < config file < flags
			cfg := DefaultConfig()
			if configPath != "" {
				if err := LoadConfig(configPath, &cfg); err != nil {
					logger.Error("cannot load config", "err", err)
					return err
				}
			}
			fs := cmd.Flags()
			if fs.Changed("name") {
				cfg.Name = fl.Name
			}
			if fs.Changed("width") {
				cfg.Width = fl.Width
			}
			if fs.Changed("height") {
				cfg.Height = fl.Height
			}
			if fs.Changed("depth") {
				cfg.Depth = fl.Depth
			}
			if fs.Changed("output") {
				cfg.Output = fl.Output
			}
			if fs.Changed("offset") {
				off, err := parseOffset(offset)
				if err != nil {
					logger.Error("bad flag", "err", err)
					return err
				}
				cfg.Offset = off
			}
			if fs.Changed("precision") {
				cfg.Precision = gf.precision
			}

			app := NewApp(logger, stl.WithPrecision(cfg.Precision))
			return app.RunBox(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "TOML file with box parameters")
	f.StringVar(&fl.Name, "name", fl.Name, "part name written after solid/endsolid")
	f.Float64Var(&fl.Width, "width", fl.Width, "extent along X")
	f.Float64Var(&fl.Height, "height", fl.Height, "extent along Y")
	f.Float64Var(&fl.Depth, "depth", fl.Depth, "extent along Z")
	f.StringVar(&offset, "offset", "10,0,10", "translation as x,y,z")
	f.StringVarP(&fl.Output, "output", "o", fl.Output, "output STL file")
	return cmd
}

func newRunCmd(gf *globalFlags, stderr io.Writer) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Evaluate a part script and export every part it names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gf.ran = true
			logger := newLogger(stderr, gf.verbose, gf.quiet)

			source, err := os.ReadFile(args[0])
			if err != nil {
				logger.Error("cannot read script", "err", err)
				return err
			}

			app := NewApp(logger, stl.WithPrecision(gf.precision))
			return app.RunScript(string(source), outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for relative export paths")
	return cmd
}

// levelFromFlags picks the log level: verbose wins over quiet, and the
// default shows the per-file success lines.
func levelFromFlags(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFromFlags(verbose, quiet),
	}))
}
