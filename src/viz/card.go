package viz

import (
	"strings"
	"sync"
	"time"
)

// Trend classifies a metric card's delta.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// CardModel is the render model for a single scalar metric. RawValue and
// Numeric feed the animated counter; non-numeric values display verbatim
// and skip the animation.
type CardModel struct {
	Value    string
	RawValue float64
	Numeric  bool
	Unit     string
	Delta    float64
	HasDelta bool
	Trend    Trend
}

// renderCard projects a {value, delta, unit} record. Delta sign picks the
// trend styling; a missing or zero delta is neutral.
func renderCard(rec Record) RenderModel {
	data := asMap(rec.Data)
	if data == nil {
		return placeholderModel(rec, string(TypeCard), "No data available for card")
	}

	value, hasValue := data["value"]
	if !hasValue || value == nil {
		return placeholderModel(rec, string(TypeCard), "No data available for card")
	}

	card := &CardModel{
		Value: FormatValue(value, ValueNumber),
		Unit:  getString(data, "unit"),
		Trend: TrendNeutral,
	}
	if f, ok := toFloat64(value); ok {
		card.RawValue = f
		card.Numeric = true
	}
	if delta, ok := toFloat64(data["delta"]); ok && data["delta"] != nil {
		card.Delta = delta
		card.HasDelta = true
		switch {
		case delta > 0:
			card.Trend = TrendUp
		case delta < 0:
			card.Trend = TrendDown
		}
	}

	return RenderModel{
		Kind:        string(TypeCard),
		Title:       rec.Title,
		Description: rec.Description,
		Card:        card,
	}
}

// Counter animation shape: a fixed number of discrete steps over a fixed
// duration. Cosmetic interpolation only; nothing downstream depends on
// its timing.
const (
	CounterSteps    = 30
	CounterDuration = 900 * time.Millisecond
)

// CounterValues returns the discrete display values the animated counter
// walks through, from the first step up to and including target. Pure so
// the interpolation is testable without timers.
func CounterValues(target float64, steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	out := make([]float64, steps)
	for i := 1; i <= steps; i++ {
		out[i-1] = target * float64(i) / float64(steps)
	}
	return out
}

// Counter drives the card's animated count-up on a repeating timer. It is
// the one place in the engine needing explicit resource cleanup: Stop must
// be called when the value changes or the display goes away, and a new
// Counter started for the new value. Stop is idempotent and safe to call
// concurrently with the tick callback.
type Counter struct {
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// StartCounter begins ticking toward target, invoking fn with each
// intermediate value and finally with target itself. fn runs on the
// counter's own goroutine.
func StartCounter(target float64, fn func(float64)) *Counter {
	c := &Counter{done: make(chan struct{})}
	values := CounterValues(target, CounterSteps)

	go func() {
		ticker := time.NewTicker(CounterDuration / CounterSteps)
		defer ticker.Stop()
		for _, v := range values {
			select {
			case <-c.done:
				return
			case <-ticker.C:
				fn(v)
			}
		}
	}()

	return c
}

// Stop tears the counter down, releasing its timer. Safe to call more
// than once.
func (c *Counter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	close(c.done)
}

// DeltaLabel formats a card delta for display, with an explicit sign.
func DeltaLabel(delta float64) string {
	s := FormatValue(delta, ValuePercent)
	if delta > 0 && !strings.HasPrefix(s, "+") {
		return "+" + s
	}
	return s
}
