package main

import (
	"errors"
	"flag"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/midgard-brush/internal/brushdoc"
	"github.com/Faultbox/midgard-brush/internal/export"
	"github.com/Faultbox/midgard-brush/pkg/batch"
	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/brushgen"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

var errUsage = errors.New("bad arguments")

// load parses and builds the document named by the first argument.
func (a *app) load(fs *flag.FlagSet, usage string) (*brushdoc.Scene, error) {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: brushtool "+usage)
		return nil, errUsage
	}
	doc, err := brushdoc.Load(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	return brushdoc.Build(doc, a.kernel, a.lib)
}

func (a *app) cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	scene, err := a.load(fs, "info <doc.yaml>")
	if err != nil {
		return err
	}

	fmt.Printf("Document: %s\n", fs.Arg(0))
	fmt.Printf("Shapes:   %d\n", len(scene.Names()))
	fmt.Printf("Solids:   %d\n", scene.Solids.Len())
	fmt.Println()

	for _, name := range scene.Names() {
		for i, s := range scene.Named(name) {
			closed := "closed"
			if err := s.CheckClosed(a.cfg.Kernel.RoundDecimals); err != nil {
				closed = err.Error()
			}
			b := s.Bounds()
			fmt.Printf("  %-12s #%d  faces=%-3d min=%v max=%v  %s\n",
				name, i, s.FaceCount(), fmtVec(b.Min), fmtVec(b.Max), closed)
		}
	}
	return nil
}

func (a *app) cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	mode := fs.String("mode", "solid", "Visibility mode: solid, wire or 2d")
	fs.Parse(args)

	vis, err := parseMode(*mode)
	if err != nil {
		return err
	}
	scene, err := a.load(fs, "build [-mode solid|wire|2d] <doc.yaml>")
	if err != nil {
		return err
	}

	formats := batch.NewFormatRegistry()
	if err := batch.RegisterDefaults(formats); err != nil {
		return err
	}
	builder, err := batch.NewBuilder(formats)
	if err != nil {
		return err
	}

	batches := builder.Build(vis, scene.Solids.Snapshots()...)
	fmt.Printf("Solids:  %d\n", scene.Solids.Len())
	fmt.Printf("Batches: %d\n", len(batches))
	for _, b := range batches {
		fmt.Printf("  %-16s %-9s %-20s faces=%-4d vertices=%-5d indices=%d\n",
			b.Key.Format, b.Key.Primitive, b.Key.State, b.Faces, len(b.Vertices), len(b.Indices))
	}
	return nil
}

func (a *app) cmdSplit(args []string) error {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	planeArg := fs.String("plane", "", "Cutting plane as a,b,c,d")
	only := fs.String("solid", "", "Only split the named shape")
	out := fs.String("o", "", "Write the result to an STL or JSON file")
	fs.Parse(args)

	plane, err := parsePlane(*planeArg)
	if err != nil {
		return err
	}
	scene, err := a.load(fs, "split -plane a,b,c,d [-solid name] [-o file] <doc.yaml>")
	if err != nil {
		return err
	}

	names := scene.Names()
	if *only != "" {
		names = []string{*only}
	}
	fmt.Printf("Plane: %v\n", plane)
	for _, name := range names {
		solids := scene.Named(name)
		if solids == nil {
			return fmt.Errorf("unknown shape %q", name)
		}
		for i, s := range solids {
			front, back, ok := a.kernel.Split(s, plane)
			if !ok {
				side := "front"
				if back != nil {
					side = "back"
				}
				fmt.Printf("  %-12s #%d  whole, %s\n", name, i, side)
				continue
			}
			scene.Solids.Replace(s, front, back)
			fmt.Printf("  %-12s #%d  front faces=%d  back faces=%d\n", name, i, front.FaceCount(), back.FaceCount())
		}
	}

	if *out != "" {
		return a.write(*out, scene.Solids.All())
	}
	return nil
}

func (a *app) cmdArch(args []string) error {
	fs := flag.NewFlagSet("arch", flag.ExitOnError)
	size := fs.String("size", "512,512,64", "Bounding box size as x,y,z")
	wall := fs.Float64("wall", 16, "Wall width")
	sides := fs.Int("sides", 8, "Number of segments")
	arc := fs.Float64("arc", 360, "Arc in degrees")
	start := fs.Float64("start", 0, "Start angle in degrees")
	add := fs.Float64("add", 0, "Height added per segment")
	curved := fs.Bool("curved", false, "Slope segments into a ramp")
	tilt := fs.Float64("tilt", 0, "Ramp tilt in degrees")
	interp := fs.Bool("interp", false, "Fade the tilt toward the ends")
	out := fs.String("o", "", "Write the arch to an STL or JSON file")
	fs.Parse(args)

	v, err := parseFloats(*size, 3)
	if err != nil {
		return fmt.Errorf("-size: %w", err)
	}
	half := mgl64.Vec3{v[0], v[1], v[2]}.Mul(0.5)
	arch := brushgen.DefaultArch(math.NewBounds(half.Mul(-1), half))
	arch.Wall = *wall
	arch.Sides = *sides
	arch.Arc = *arc
	arch.Start = *start
	arch.AddHeight = *add
	arch.CurvedRamp = *curved
	arch.Tilt = *tilt
	arch.TiltInterp = *interp

	solids := brush.NewCollection()
	n, err := arch.Generate(a.kernel, solids)
	if err != nil {
		return err
	}

	fmt.Printf("Arch: %d solids\n", n)
	for i, s := range solids.All() {
		closed := "closed"
		if err := s.CheckClosed(a.cfg.Kernel.RoundDecimals); err != nil {
			closed = err.Error()
		}
		fmt.Printf("  #%-3d faces=%d  %s\n", i, s.FaceCount(), closed)
	}

	if *out != "" {
		return a.write(*out, solids.All())
	}
	return nil
}

func (a *app) cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "Output file (.stl or .json)")
	fs.Parse(args)

	if *out == "" {
		fmt.Fprintln(os.Stderr, "Usage: brushtool export -o <file.stl|file.json> <doc.yaml>")
		return errUsage
	}
	scene, err := a.load(fs, "export -o <file.stl|file.json> <doc.yaml>")
	if err != nil {
		return err
	}
	return a.write(*out, scene.Solids.All())
}

func (a *app) cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	fs.Parse(args)

	scene, err := a.load(fs, "dump <doc.yaml>")
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, scene.Solids.All(), a.cfg.Kernel.RoundDecimals, a.cfg.Export.IndentJSON)
}

func (a *app) cmdMaterials(args []string) error {
	fs := flag.NewFlagSet("materials", flag.ExitOnError)
	fs.Parse(args)

	for _, dir := range fs.Args() {
		if _, err := a.lib.LoadDir(dir); err != nil {
			return err
		}
	}

	names := a.lib.Names()
	fmt.Printf("Materials: %d (fallback %s)\n", len(names), a.lib.Fallback().Name())
	for _, n := range names {
		m, _ := a.lib.Get(n)
		fmt.Printf("  %-40s %dx%d\n", n, m.Width, m.Height)
	}
	return nil
}

// write exports solids by file extension.
func (a *app) write(path string, solids []*brush.Solid) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		n, err := export.WriteSTL(path, solids)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d triangles to %s\n", n, path)
		return nil
	case ".json":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteJSON(f, solids, a.cfg.Kernel.RoundDecimals, a.cfg.Export.IndentJSON); err != nil {
			return err
		}
		fmt.Printf("Wrote %d solids to %s\n", len(solids), path)
		return nil
	}
	return fmt.Errorf("unsupported output format: %s", path)
}

func parseMode(s string) (brush.Visibility, error) {
	switch s {
	case "solid":
		return brush.VisibleSolid3D, nil
	case "wire":
		return brush.VisibleWireframe3D, nil
	case "2d":
		return brush.VisibleWireframe2D, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func parsePlane(s string) (math.Plane, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return math.Plane{}, fmt.Errorf("-plane: %w", err)
	}
	for _, x := range v {
		if gomath.IsNaN(x) || gomath.IsInf(x, 0) {
			return math.Plane{}, fmt.Errorf("-plane: %q is not finite", s)
		}
	}
	p := math.Plane{A: v[0], B: v[1], C: v[2], D: v[3]}
	if p.Normal().Len() == 0 {
		return math.Plane{}, fmt.Errorf("-plane: %v has no normal", p)
	}
	return p, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated values, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z())
}
