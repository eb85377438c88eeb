// Command airframe evaluates aircraft design files, prints their cost
// reports and exports placed part geometry.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/airframe/pkg/component"
	"github.com/chazu/airframe/pkg/config"
	"github.com/chazu/airframe/pkg/engine"
	"github.com/chazu/airframe/pkg/export"
	"github.com/chazu/airframe/pkg/kernel"
	"github.com/chazu/airframe/pkg/kernel/sdfx"
)

const ConfigPath = "airframe.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

type flags struct {
	config string
	report string
	export string
	output string
	files  []string
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("airframe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: airframe [flags] design.lisp...")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.config, "config", "", "config file (default $AIRFRAME_CONFIG or "+ConfigPath+")")
	fs.StringVar(&f.report, "report", "", "report format: simple, recursive or bom")
	fs.StringVar(&f.export, "export", "", "write one STL per placed part into this directory")
	fs.StringVar(&f.output, "o", "table", "output format: table or yaml")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	f.files = fs.Args()
	if len(f.files) == 0 {
		fs.Usage()
		return f, fmt.Errorf("no design files given")
	}
	if f.output != "table" && f.output != "yaml" {
		return f, fmt.Errorf("unknown output format %q", f.output)
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_ = godotenv.Load()

	fl, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfgPath := ConfigPath
	if p := os.Getenv("AIRFRAME_CONFIG"); p != "" {
		cfgPath = p
	}
	if fl.config != "" {
		cfgPath = fl.config
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if fl.report != "" {
		cfg.Report.Format = fl.report
	}
	if fl.export != "" {
		cfg.Export.Enabled = true
		cfg.Export.Dir = fl.export
	}
	format, err := component.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	log.Debug("config loaded", "path", cfgPath, "report", format, "export", cfg.Export.Enabled)

	var exporter kernel.Exporter
	if cfg.Export.Enabled {
		exporter, err = sdfx.New(cfg.Export.Dir,
			sdfx.WithMeshCells(cfg.Export.MeshCells),
			sdfx.WithCacheSize(cfg.Export.CacheSize),
			sdfx.WithLogger(log),
		)
		if err != nil {
			return fmt.Errorf("creating exporter: %w", err)
		}
	}

	dirs := designDirs(fl.files)
	results := make([]designOutput, len(fl.files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range fl.files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := processDesign(path, dirs[i], cfg, format, exporter, log)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if fl.output == "yaml" {
		return writeYAML(stdout, results)
	}
	return writeTable(stdout, results)
}

// processDesign evaluates one file and reports every root it defines.
// Artifacts go to cfg.Export.Dir/dirName.
func processDesign(path, dirName string, cfg config.Config, format component.Format, exporter kernel.Exporter, log *slog.Logger) (designOutput, error) {
	out := designOutput{File: path}

	src, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("reading design: %w", err)
	}

	// One engine per file: a newer Evaluate on a shared engine supersedes
	// the one in flight.
	eng := engine.NewEngine(engine.WithTimeout(cfg.Engine.Timeout))
	d, evalErrs, err := eng.Evaluate(string(src))
	if err != nil {
		return out, err
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return out, fmt.Errorf("evaluation failed: %s", strings.Join(msgs, "; "))
	}
	if len(d.Roots) == 0 {
		log.Warn("design defines no components", "file", path)
	}

	for _, root := range d.Roots {
		lint := component.Lint(root)
		for _, w := range lint.Warnings {
			log.Warn("lint", "file", path, "finding", w.Error())
		}
		if !lint.OK() {
			return out, fmt.Errorf("%s: %w", root.Name(), lint.Errors[0])
		}

		r := component.BuildReport(root, format, component.WithFrames(cfg.Report.Frames))
		ro := rootOutput{
			Name:      root.Name(),
			Format:    string(format),
			Mass:      root.Mass(),
			MassUnits: root.MassUnits(),
			CG:        root.CG(),
			TotalCost: r.TotalCost(),
			Rows:      r.Rows(),
		}

		if exporter != nil {
			dir := filepath.Join(cfg.Export.Dir, dirName)
			joined, err := export.Export(root, exporter,
				export.WithSeparator(cfg.Export.Separator),
				export.WithKernelOptions(kernel.Options{Dir: dir}),
			)
			if err != nil {
				return out, err
			}
			ro.Artifacts = joined
			log.Info("exported design", "file", path, "root", root.Name(), "dir", dir)
		}

		out.Roots = append(out.Roots, ro)
	}
	return out, nil
}

func designName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// designDirs names one export directory per file. Files sharing a base
// name get their 1-based position appended so their artifacts stay apart.
func designDirs(files []string) []string {
	seen := make(map[string]int, len(files))
	for _, f := range files {
		seen[designName(f)]++
	}
	dirs := make([]string, len(files))
	for i, f := range files {
		name := designName(f)
		if seen[name] > 1 {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}
		dirs[i] = name
	}
	return dirs
}
