package insight

// ChartKind identifies the visualization a report is rendered with.
// The kind is attached to the report configuration at creation time;
// it is never derived from display titles at dispatch time.
type ChartKind string

const (
	ChartKindBar  ChartKind = "Bar Chart"
	ChartKindLine ChartKind = "Line Chart"
	ChartKindPie  ChartKind = "Pie Chart"
)

// Valid reports whether the chart kind is a known visualization
func (k ChartKind) Valid() bool {
	switch k {
	case ChartKindBar, ChartKindLine, ChartKindPie:
		return true
	}
	return false
}

// IsTimeSeries reports whether the kind uses a shared time-bucket axis
func (k ChartKind) IsTimeSeries() bool {
	return k == ChartKindLine
}

// IsSingleSeries reports whether the kind renders only one dataset
func (k ChartKind) IsSingleSeries() bool {
	return k == ChartKindPie
}

// DateRange is the reporting period selected for a report
type DateRange string

const (
	DateRangeLast30Days  DateRange = "Last 30 Days"
	DateRangeLastQuarter DateRange = "Last Quarter"
	DateRangeLast6Months DateRange = "Last 6 Months"
	DateRangeLastYear    DateRange = "Last Year"
)

// Valid reports whether the date range is a known period
func (d DateRange) Valid() bool {
	switch d {
	case DateRangeLast30Days, DateRangeLastQuarter, DateRangeLast6Months, DateRangeLastYear:
		return true
	}
	return false
}

// DatasetStyle carries optional display styling for a dataset
type DatasetStyle struct {
	BackgroundColor string `json:"background_color,omitempty"`
	BorderColor     string `json:"border_color,omitempty"`
	Fill            bool   `json:"fill,omitempty"`
}

// Dataset is one labeled series of a chart, positionally aligned with
// the chart's label sequence.
type Dataset struct {
	Label string        `json:"label"`
	Data  []float64     `json:"data"`
	Style *DatasetStyle `json:"style,omitempty"`
}

// ChartData is the chart-ready payload produced by the report pipeline
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// IsEmpty reports whether the chart carries no renderable data
func (c *ChartData) IsEmpty() bool {
	return c == nil || len(c.Labels) == 0 || len(c.Datasets) == 0
}

// Validate checks the structural invariant: every dataset must carry
// exactly one value per label.
func (c *ChartData) Validate() error {
	for _, ds := range c.Datasets {
		if len(ds.Data) != len(c.Labels) {
			return ErrDatasetLengthMismatch
		}
	}
	return nil
}
