package viz

import (
	"testing"
	"time"
)

func cardRecord(data map[string]any) Record {
	return Record{VizType: "card", Data: data}
}

func TestRenderCard_Trends(t *testing.T) {
	tests := []struct {
		delta any
		want  Trend
	}{
		{5.2, TrendUp},
		{-3.1, TrendDown},
		{0, TrendNeutral},
		{nil, TrendNeutral},
	}
	for _, tt := range tests {
		data := map[string]any{"value": 100}
		if tt.delta != nil {
			data["delta"] = tt.delta
		}
		m := Render(cardRecord(data))
		if m.Card == nil {
			t.Fatalf("delta %v: no card model", tt.delta)
		}
		if m.Card.Trend != tt.want {
			t.Errorf("delta %v: trend = %v; want %v", tt.delta, m.Card.Trend, tt.want)
		}
	}
}

func TestRenderCard_FormatsValue(t *testing.T) {
	m := Render(cardRecord(map[string]any{"value": 2300000, "unit": "USD", "delta": 12.5}))
	if m.Card.Value != "2.3M" {
		t.Errorf("card value = %q; want 2.3M", m.Card.Value)
	}
	if m.Card.Unit != "USD" {
		t.Errorf("unit = %q", m.Card.Unit)
	}
	if !m.Card.HasDelta || m.Card.Delta != 12.5 {
		t.Errorf("delta = %v has=%v", m.Card.Delta, m.Card.HasDelta)
	}
	if !m.Card.Numeric || m.Card.RawValue != 2300000 {
		t.Errorf("raw value = %v numeric=%v", m.Card.RawValue, m.Card.Numeric)
	}
}

func TestRenderCard_StringValueSkipsAnimation(t *testing.T) {
	m := Render(cardRecord(map[string]any{"value": "Phase III"}))
	if m.Card.Numeric {
		t.Error("string card values must not animate")
	}
	if m.Card.Value != "Phase III" {
		t.Errorf("value = %q", m.Card.Value)
	}
}

func TestRenderCard_MissingValue(t *testing.T) {
	if m := Render(cardRecord(nil)); m.Placeholder == nil {
		t.Error("card without data should render a placeholder")
	}
	if m := Render(cardRecord(map[string]any{"delta": 1})); m.Placeholder == nil {
		t.Error("card without a value should render a placeholder")
	}
}

func TestCounterValues(t *testing.T) {
	vals := CounterValues(100, 4)
	want := []float64{25, 50, 75, 100}
	if len(vals) != len(want) {
		t.Fatalf("got %d steps; want %d", len(vals), len(want))
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("step %d = %v; want %v", i, vals[i], want[i])
		}
	}
	if vals[len(vals)-1] != 100 {
		t.Error("final step must land exactly on the target")
	}
	if CounterValues(100, 0) != nil {
		t.Error("zero steps should yield nil")
	}
}

func TestCounter_StopIsIdempotent(t *testing.T) {
	c := StartCounter(50, func(float64) {})
	c.Stop()
	c.Stop() // second stop must not panic or block
}

func TestCounter_StopCancelsTicks(t *testing.T) {
	ticks := make(chan float64, CounterSteps)
	c := StartCounter(10, func(v float64) { ticks <- v })
	c.Stop()

	// After Stop the goroutine exits; at most one in-flight tick can land.
	time.Sleep(3 * CounterDuration / CounterSteps)
	if n := len(ticks); n > 1 {
		t.Errorf("got %d ticks after stop; want at most 1", n)
	}
}

func TestDeltaLabel(t *testing.T) {
	if got := DeltaLabel(12.5); got != "+12.5%" {
		t.Errorf("DeltaLabel(12.5) = %q", got)
	}
	if got := DeltaLabel(-3.2); got != "-3.2%" {
		t.Errorf("DeltaLabel(-3.2) = %q", got)
	}
}
