package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestKernelCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	k := New(reg)

	k.SolidBuilt(6, 0)
	k.SolidBuilt(5, 2)
	k.PlanesMerged(1)
	k.PlanesMerged(0)
	k.Split(OutcomeSplit)
	k.Split(OutcomeSplit)
	k.Split(OutcomeBack)

	require.Equal(t, 2.0, testutil.ToFloat64(k.solidsBuilt))
	require.Equal(t, 11.0, testutil.ToFloat64(k.facesBuilt))
	require.Equal(t, 2.0, testutil.ToFloat64(k.facesDropped))
	require.Equal(t, 1.0, testutil.ToFloat64(k.planesMerged))
	require.Equal(t, 2.0, testutil.ToFloat64(k.splits.WithLabelValues(OutcomeSplit)))
	require.Equal(t, 1.0, testutil.ToFloat64(k.splits.WithLabelValues(OutcomeBack)))
	require.Equal(t, 0.0, testutil.ToFloat64(k.splits.WithLabelValues(OutcomeFront)))
}

func TestNilKernelIsNoop(t *testing.T) {
	var k *Kernel
	require.NotPanics(t, func() {
		k.SolidBuilt(1, 1)
		k.PlanesMerged(3)
		k.Split(OutcomeFront)
	})
}

func TestSeparateRegistries(t *testing.T) {
	// Registering twice on one registry panics; separate registries do not.
	require.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
