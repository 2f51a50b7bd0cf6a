package metrics

import (
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Action("move", OutcomeSuccess)
	m.Action("move", OutcomeSuccess)
	m.Action("move", OutcomeRejected)
	m.Joined(false)
	m.Joined(false)
	m.Joined(true)
	m.Left()
	m.Delivered(3)
	m.Dropped()

	testutil.AssertEqual(t, "move success", promtest.ToFloat64(m.actions.WithLabelValues("move", OutcomeSuccess)), 2.0)
	testutil.AssertEqual(t, "move rejected", promtest.ToFloat64(m.actions.WithLabelValues("move", OutcomeRejected)), 1.0)
	testutil.AssertEqual(t, "joins", promtest.ToFloat64(m.connections.WithLabelValues("join")), 2.0)
	testutil.AssertEqual(t, "evictions", promtest.ToFloat64(m.connections.WithLabelValues("evict")), 1.0)
	testutil.AssertEqual(t, "online", promtest.ToFloat64(m.online), 1.0)
	testutil.AssertEqual(t, "deliveries", promtest.ToFloat64(m.deliveries), 3.0)
	testutil.AssertEqual(t, "dropped", promtest.ToFloat64(m.dropped), 1.0)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.Action("move", OutcomeSuccess)
	m.Joined(false)
	m.Left()
	m.Delivered(1)
	m.Dropped()
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	New(reg)
}
