package dispatcher_test

import (
	"testing"
	"time"

	"github.com/dshills/muxkeys/internal/dispatcher"
)

func TestMetricsRecordFire(t *testing.T) {
	m := dispatcher.NewMetrics()

	m.RecordFire("send-key", 2*time.Millisecond, false)
	m.RecordFire("send-key", 4*time.Millisecond, false)
	m.RecordFire("confirm", time.Millisecond, true)

	stats := m.BindingStats("send-key")
	if stats == nil {
		t.Fatal("expected stats for send-key")
	}
	if stats.FireCount != 2 {
		t.Errorf("FireCount = %d, want 2", stats.FireCount)
	}
	if stats.MinDuration != 2*time.Millisecond || stats.MaxDuration != 4*time.Millisecond {
		t.Errorf("min/max = %v/%v, want 2ms/4ms", stats.MinDuration, stats.MaxDuration)
	}
	if got := stats.AverageDuration(); got != 3*time.Millisecond {
		t.Errorf("AverageDuration() = %v, want 3ms", got)
	}

	snap := m.Snapshot()
	if snap.Fired != 3 || snap.Errors != 1 || snap.BindingCount != 2 {
		t.Errorf("snapshot = %+v, want 3 fired, 1 error, 2 bindings", snap)
	}
	if m.BindingStats("missing") != nil {
		t.Error("expected nil stats for unknown binding")
	}
}

func TestMetricsRecordKey(t *testing.T) {
	m := dispatcher.NewMetrics()

	for _, s := range []dispatcher.Status{
		dispatcher.Fired, dispatcher.Pending, dispatcher.NoMatch,
		dispatcher.NoMatch, dispatcher.Discarded,
	} {
		m.RecordKey(s)
	}
	m.RecordTimeout()

	snap := m.Snapshot()
	if snap.Keys != 5 || snap.Pending != 1 || snap.NoMatch != 2 || snap.Discarded != 1 || snap.Timeouts != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestMetricsTopBindings(t *testing.T) {
	m := dispatcher.NewMetrics()
	for i := 0; i < 3; i++ {
		m.RecordFire("c", time.Microsecond, false)
	}
	m.RecordFire("a", time.Microsecond, false)
	m.RecordFire("b", time.Microsecond, false)

	top := m.TopBindings(2)
	if len(top) != 2 {
		t.Fatalf("TopBindings(2) returned %d", len(top))
	}
	if top[0].Name != "c" || top[1].Name != "a" {
		t.Errorf("TopBindings(2) = %s, %s; want c, a", top[0].Name, top[1].Name)
	}
	if got := len(m.TopBindings(10)); got != 3 {
		t.Errorf("TopBindings(10) returned %d, want 3", got)
	}
}

func TestMetricsReset(t *testing.T) {
	m := dispatcher.NewMetrics()
	m.RecordKey(dispatcher.Fired)
	m.RecordFire("x", time.Millisecond, false)
	m.RecordPanic("x")

	m.Reset()

	snap := m.Snapshot()
	if snap.Keys != 0 || snap.Fired != 0 || snap.Panics != 0 || snap.BindingCount != 0 {
		t.Errorf("snapshot after Reset = %+v", snap)
	}
}
