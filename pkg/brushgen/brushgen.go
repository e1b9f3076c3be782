// Package brushgen synthesizes brush solids from shape parameters. Shapes
// whose convexity is known up front are emitted as explicit vertex loops;
// the rest are emitted as plane sets for intersection.
package brushgen

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

// ErrInvalidParams is wrapped by every parameter validation error.
var ErrInvalidParams = errors.New("brushgen: invalid parameters")

// Sink receives generated solids. *brush.Collection satisfies it.
type Sink interface {
	Add(s *brush.Solid) bool
}

// Generator emits one or more solids into a sink.
type Generator interface {
	Generate(k *brush.Kernel, sink Sink) (int, error)
}

// emit builds a solid from loops and hands it to the sink.
func emit(k *brush.Kernel, sink Sink, loops [][]mgl64.Vec3) *brush.Solid {
	s := k.CreateFromLoops(orientOutward(loops))
	sink.Add(s)
	return s
}

// prism extrudes a convex base loop along up and returns the bottom, top and
// side loops.
func prism(base []mgl64.Vec3, up mgl64.Vec3) [][]mgl64.Vec3 {
	n := len(base)
	top := make([]mgl64.Vec3, n)
	for i, v := range base {
		top[i] = v.Add(up)
	}

	loops := make([][]mgl64.Vec3, 0, n+2)
	loops = append(loops, append([]mgl64.Vec3(nil), base...), top)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		loops = append(loops, []mgl64.Vec3{base[i], base[j], top[j], top[i]})
	}
	return loops
}

// orientOutward reverses any loop whose derived plane faces the centroid of
// all loop vertices.
func orientOutward(loops [][]mgl64.Vec3) [][]mgl64.Vec3 {
	var sum mgl64.Vec3
	count := 0
	for _, l := range loops {
		for _, v := range l {
			sum = sum.Add(v)
			count++
		}
	}
	if count == 0 {
		return loops
	}
	center := sum.Mul(1 / float64(count))

	for _, l := range loops {
		if len(l) < 3 {
			continue
		}
		if math.FromVertices(l[0], l[1], l[2]).Distance(center) > 0 {
			for a, b := 0, len(l)-1; a < b; a, b = a+1, b-1 {
				l[a], l[b] = l[b], l[a]
			}
		}
	}
	return loops
}
