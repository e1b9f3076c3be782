// brushtool is a CLI utility for building, splitting and exporting brush
// solids.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-brush/internal/assets"
	"github.com/Faultbox/midgard-brush/internal/config"
	"github.com/Faultbox/midgard-brush/internal/logger"
	"github.com/Faultbox/midgard-brush/internal/metrics"
	"github.com/Faultbox/midgard-brush/pkg/brush"
)

// app is the state shared by every command.
type app struct {
	cfg    *config.Config
	reg    *prometheus.Registry
	lib    *assets.Library
	kernel *brush.Kernel
}

func main() {
	// Global flags come before the command
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command, rest := args[0], args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	a, err := newApp(cfg)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}

	switch command {
	case "info":
		err = a.cmdInfo(rest)
	case "build":
		err = a.cmdBuild(rest)
	case "split":
		err = a.cmdSplit(rest)
	case "arch":
		err = a.cmdArch(rest)
	case "export":
		err = a.cmdExport(rest)
	case "dump":
		err = a.cmdDump(rest)
	case "materials", "mat":
		err = a.cmdMaterials(rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if cfg.Metrics.Report {
		a.report()
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

func newApp(cfg *config.Config) (*app, error) {
	reg := prometheus.NewRegistry()

	t := cfg.Texture
	lib := assets.NewLibrary(brush.TextureRef{Path: t.DefaultMaterial, Width: t.DefaultWidth, Height: t.DefaultHeight})
	for _, dir := range t.MaterialDirs {
		if _, err := lib.LoadDir(dir); err != nil {
			return nil, err
		}
	}

	mat := brush.NewFaceMaterial(lib.Fallback(), t.DefaultScale)
	mat.LightmapScale = t.LightmapScale

	kc := cfg.Kernel
	tol := brush.Tolerance{
		Classify:      kc.ClassifyEpsilon,
		Clip:          kc.ClipEpsilon,
		RoundDecimals: kc.RoundDecimals,
		PolygonRadius: kc.PolygonRadius,
	}

	return &app{
		cfg:    cfg,
		reg:    reg,
		lib:    lib,
		kernel: brush.NewKernel(tol, mat, metrics.New(reg)),
	}, nil
}

// report prints every kernel counter to stderr.
func (a *app) report() {
	families, err := a.reg.Gather()
	if err != nil {
		logger.Warn("gathering metrics failed", zap.Error(err))
		return
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })

	fmt.Fprintln(os.Stderr, "\nKernel counters:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			fmt.Fprintf(os.Stderr, "  %-45s %g\n", name, m.GetCounter().GetValue())
		}
	}
}

func printUsage() {
	fmt.Println(`brushtool - brush solid utility

Usage:
  brushtool [global options] <command> [options]

Global options:
  -config <file>      Config file (default ./brushtool.yaml)
  -debug              Enable debug logging
  -log <file>         Write logs to file
  -classify-eps <e>   Face classification epsilon
  -clip-eps <e>       Polygon clipping epsilon
  -round <n>          Decimals kept on constructed vertices
  -metrics            Print kernel counters after the command

Commands:
  info <doc.yaml>                          Show solids, faces and closure
  build [-mode solid|wire|2d] <doc.yaml>   Build and show render batches
  split -plane a,b,c,d [-solid name] [-o file] <doc.yaml>
                                           Split solids and show the halves
  arch [options]                           Generate an arch
  export -o <file.stl|file.json> <doc.yaml>
                                           Export solids
  dump <doc.yaml>                          Print solids as JSON
  materials [dir...]                       List known materials

Examples:
  brushtool info room.yaml
  brushtool -metrics split -plane 0,0,1,-64 room.yaml
  brushtool arch -size 512,512,64 -sides 12 -arc 180 -o arch.stl
  brushtool export -o room.stl room.yaml`)
}
