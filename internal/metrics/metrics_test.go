package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type capture struct {
	counters   map[string]float64
	labels     map[string]Labels
	histograms map[string][]float64
	flushed    int
}

func newCapture() *capture {
	return &capture{
		counters:   map[string]float64{},
		labels:     map[string]Labels{},
		histograms: map[string][]float64{},
	}
}

func (c *capture) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *capture) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms[name] = append(c.histograms[name], value)
}

func (c *capture) Flush() error {
	c.flushed++
	return nil
}

func withBackend(t *testing.T, b Backend) {
	t.Helper()
	prev := backend
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
}

func TestRecordStep(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	RecordStep("nightly", "extract", nil, 250*time.Millisecond)
	assert.EqualValues(t, 1, c.counters["report_etl_step_total"])
	assert.Equal(t, "success", c.labels["report_etl_step_total"]["status"])
	assert.Equal(t, []float64{0.25}, c.histograms["report_etl_step_duration_seconds"])

	RecordStep("nightly", "load", errors.New("disk full"), time.Second)
	assert.EqualValues(t, 2, c.counters["report_etl_step_total"])
	assert.Equal(t, "failure", c.labels["report_etl_step_total"]["status"])
}

func TestRecordRows(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	RecordRows("nightly", "Programs", "extracted", 42)
	RecordRows("nightly", "Programs", "extracted", 8)
	assert.EqualValues(t, 50, c.counters["report_etl_rows_total"])

	// negative deltas are dropped, not propagated
	RecordRows("nightly", "Programs", "extracted", -5)
	assert.EqualValues(t, 50, c.counters["report_etl_rows_total"])
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	SetBackend(nil)
	assert.NoError(t, Flush())
	assert.Equal(t, 1, c.flushed)
}
