// Package metrics exposes counters for the brush kernel. Counters are
// registered against a registry handed in by the caller rather than the
// global default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeLabel = "outcome"

	// Split outcomes.
	OutcomeSplit = "split"
	OutcomeFront = "front"
	OutcomeBack  = "back"
)

// Kernel holds the kernel counters. A nil *Kernel is valid and records
// nothing.
type Kernel struct {
	solidsBuilt  prometheus.Counter
	facesBuilt   prometheus.Counter
	facesDropped prometheus.Counter
	planesMerged prometheus.Counter
	splits       *prometheus.CounterVec
}

// New registers the kernel counters with reg.
func New(reg prometheus.Registerer) *Kernel {
	f := promauto.With(reg)
	return &Kernel{
		solidsBuilt: f.NewCounter(prometheus.CounterOpts{
			Name: "brush_solids_built_total",
			Help: "The number of solids built from intersecting planes.",
		}),
		facesBuilt: f.NewCounter(prometheus.CounterOpts{
			Name: "brush_faces_built_total",
			Help: "The number of faces kept while building solids.",
		}),
		facesDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "brush_faces_dropped_total",
			Help: "The number of candidate planes that produced no face.",
		}),
		planesMerged: f.NewCounter(prometheus.CounterOpts{
			Name: "brush_planes_merged_total",
			Help: "The number of coincident planes merged before construction.",
		}),
		splits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brush_splits_total",
			Help: "The number of split requests by outcome.",
		}, []string{outcomeLabel}),
	}
}

// SolidBuilt records one constructed solid with its kept and dropped faces.
func (k *Kernel) SolidBuilt(kept, dropped int) {
	if k == nil {
		return
	}
	k.solidsBuilt.Inc()
	k.facesBuilt.Add(float64(kept))
	k.facesDropped.Add(float64(dropped))
}

// PlanesMerged records coincident planes removed from a plane set.
func (k *Kernel) PlanesMerged(n int) {
	if k == nil || n == 0 {
		return
	}
	k.planesMerged.Add(float64(n))
}

// Split records the outcome of a split request.
func (k *Kernel) Split(outcome string) {
	if k == nil {
		return
	}
	k.splits.WithLabelValues(outcome).Inc()
}
