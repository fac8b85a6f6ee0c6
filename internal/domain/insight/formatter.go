package insight

import (
	"math/rand"
	"sync"
)

// Series is one labeled sequence of values produced for a metric
type Series struct {
	Labels []string
	Values []float64
}

// timeBuckets is the shared label sequence for time-series charts
var timeBuckets = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// palette cycles dataset display colors in selection order
var palette = []DatasetStyle{
	{BackgroundColor: "rgba(59,130,246,0.5)", BorderColor: "rgb(59,130,246)"},
	{BackgroundColor: "rgba(16,185,129,0.5)", BorderColor: "rgb(16,185,129)"},
	{BackgroundColor: "rgba(245,158,11,0.5)", BorderColor: "rgb(245,158,11)"},
	{BackgroundColor: "rgba(239,68,68,0.5)", BorderColor: "rgb(239,68,68)"},
	{BackgroundColor: "rgba(139,92,246,0.5)", BorderColor: "rgb(139,92,246)"},
}

// generator produces a label/value series for one metric kind
type generator struct {
	labels []string
	min    float64
	max    float64
}

var generators = map[MetricKind]generator{
	MetricKindBudget: {
		labels: []string{"Planning", "Development", "Marketing", "Operations", "Contingency"},
		min:    5000, max: 50000,
	},
	MetricKindTimePhased: {
		labels: timeBuckets,
		min:    0, max: 100,
	},
	MetricKindRisk: {
		labels: []string{"Low", "Medium", "High", "Critical"},
		min:    0, max: 25,
	},
	MetricKindDefault: {
		labels: []string{"Q1", "Q2", "Q3", "Q4"},
		min:    10, max: 90,
	},
}

// Formatter maps metrics to labeled series and combines them into a
// chart payload. It owns its randomness source explicitly so callers
// control determinism; there is no package-level state.
type Formatter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFormatter creates a formatter seeded for non-deterministic output
func NewFormatter(seed int64) *Formatter {
	return &Formatter{rng: rand.New(rand.NewSource(seed))}
}

// Series produces the label/value series for a single metric. The
// second return is false when the metric has no registered generator;
// such metrics are dropped by Combine, not treated as errors.
func (f *Formatter) Series(metric Metric) (Series, bool) {
	gen, ok := generators[metric.Kind]
	if !ok {
		return Series{}, false
	}
	return Series{
		Labels: append([]string(nil), gen.labels...),
		Values: f.values(gen, len(gen.labels)),
	}, true
}

// Combine turns an ordered metric selection into a single ChartData
// for the given visualization:
//   - time-series kinds share one fixed time-bucket axis, one dataset
//     per metric with values bounded to [0, 100]
//   - categorical kinds take the first metric's labels; remaining
//     metrics reuse them with their own values
//   - single-series kinds (pie) render only the first metric
func (f *Formatter) Combine(metrics []Metric, kind ChartKind) ChartData {
	if kind.IsTimeSeries() {
		return f.combineTimeSeries(metrics)
	}
	return f.combineCategorical(metrics, kind)
}

func (f *Formatter) combineTimeSeries(metrics []Metric) ChartData {
	data := ChartData{
		Labels:   append([]string(nil), timeBuckets...),
		Datasets: make([]Dataset, 0, len(metrics)),
	}
	for _, m := range metrics {
		gen, ok := generators[m.Kind]
		if !ok {
			continue
		}
		values := f.values(gen, len(timeBuckets))
		for i, v := range values {
			values[i] = clamp(v, 0, 100)
		}
		data.Datasets = append(data.Datasets, f.dataset(m.Name, values, len(data.Datasets), true))
	}
	return data
}

func (f *Formatter) combineCategorical(metrics []Metric, kind ChartKind) ChartData {
	data := ChartData{Datasets: make([]Dataset, 0, len(metrics))}
	for _, m := range metrics {
		gen, ok := generators[m.Kind]
		if !ok {
			continue
		}
		if len(data.Labels) == 0 {
			// First renderable metric fixes the label sequence.
			data.Labels = append([]string(nil), gen.labels...)
		}
		data.Datasets = append(data.Datasets,
			f.dataset(m.Name, f.values(gen, len(data.Labels)), len(data.Datasets), false))
		if kind.IsSingleSeries() {
			break
		}
	}
	return data
}

func (f *Formatter) dataset(label string, values []float64, index int, fill bool) Dataset {
	style := palette[index%len(palette)]
	style.Fill = fill
	return Dataset{Label: label, Data: values, Style: &style}
}

func (f *Formatter) values(gen generator, n int) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make([]float64, n)
	for i := range values {
		values[i] = round2(gen.min + f.rng.Float64()*(gen.max-gen.min))
	}
	return values
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
