package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/dshills/eventbus"
)

func TestCollector_Describe(t *testing.T) {
	c := NewCollector(eventbus.NewBus())

	ch := make(chan *prometheus.Desc, 10)
	c.Describe(ch)
	close(ch)

	var descs []*prometheus.Desc
	for d := range ch {
		descs = append(descs, d)
	}
	if len(descs) != 5 {
		t.Errorf("Describe produced %d descriptors, want 5", len(descs))
	}
}

func TestCollector_Collect(t *testing.T) {
	bus := eventbus.NewBus()

	bus.SubscribeFunc("doc.saved", func(ctx context.Context, e *eventbus.Event) error {
		return nil
	})
	bus.SubscribeFunc("doc.opened", func(ctx context.Context, e *eventbus.Event) error {
		return errors.New("boom")
	})

	bus.Emit(context.Background(), eventbus.NewEvent("doc.saved", "test", nil))
	bus.Emit(context.Background(), eventbus.NewEvent("doc.opened", "test", nil))

	c := NewCollector(bus)

	ch := make(chan prometheus.Metric, 10)
	c.Collect(ch)
	close(ch)

	values := map[string]float64{}
	for m := range ch {
		var pb dto.Metric
		if err := m.Write(&pb); err != nil {
			t.Fatalf("failed to serialize metric: %v", err)
		}
		name := descName(m.Desc())
		switch {
		case pb.Counter != nil:
			values[name] = pb.Counter.GetValue()
		case pb.Gauge != nil:
			values[name] = pb.Gauge.GetValue()
		}
	}

	want := map[string]float64{
		"eventbus_events_emitted_total": 1, // the failed emission does not count
		"eventbus_active_subscriptions": 2,
		"eventbus_middleware_installed": 0,
		"eventbus_event_types":          1,
		"eventbus_errors_total":         1,
	}
	for name, value := range want {
		if got, ok := values[name]; !ok || got != value {
			t.Errorf("%s = %v (present=%v), want %v", name, got, ok, value)
		}
	}
}

func TestCollector_RegistersCleanly(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(eventbus.NewBus())); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) != 5 {
		t.Errorf("Gather returned %d metric families, want 5", len(families))
	}
}

// descName extracts the fully-qualified metric name from a Desc string.
// The Desc type exposes no accessor, but its String form embeds
// fqName: "...".
func descName(d *prometheus.Desc) string {
	s := d.String()
	const marker = `fqName: "`
	i := strings.Index(s, marker)
	if i < 0 {
		return s
	}
	s = s[i+len(marker):]
	if j := strings.Index(s, `"`); j >= 0 {
		return s[:j]
	}
	return s
}
