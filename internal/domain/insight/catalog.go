package insight

import "strings"

// DataSource is a logical category of underlying records that
// determines which metrics are selectable for a report.
type DataSource string

const (
	DataSourcePrograms   DataSource = "Programs"
	DataSourceGoals      DataSource = "Goals"
	DataSourceFinancials DataSource = "Financials"
	DataSourceRisks      DataSource = "Risks"
)

// MetricKind routes a metric to its series generator. Kinds are
// assigned when the catalog is defined; MetricKindFromName exists only
// to backfill metrics created before kinds were explicit.
type MetricKind string

const (
	MetricKindBudget     MetricKind = "budget"
	MetricKindTimePhased MetricKind = "time_phased"
	MetricKindRisk       MetricKind = "risk"
	MetricKindDefault    MetricKind = "default"
)

// Metric is a named quantity displayable on a report
type Metric struct {
	Name   string     `json:"name"`
	Kind   MetricKind `json:"kind"`
	Source DataSource `json:"source"`
}

// MetricKindFromName backfills a metric kind from its display name.
// This substring heuristic is a one-time migration aid, not a
// steady-state dispatch mechanism.
func MetricKindFromName(name string) MetricKind {
	switch {
	case strings.Contains(name, "Budget"):
		return MetricKindBudget
	case strings.Contains(name, "Progress"), strings.Contains(name, "Performance"):
		return MetricKindTimePhased
	case strings.Contains(name, "Risk"):
		return MetricKindRisk
	default:
		return MetricKindDefault
	}
}

// catalog is the authoritative data-source → metric mapping. Order
// within a source and across sources defines the catalog order the
// resolver preserves.
var catalog = []Metric{
	{Name: "Program: Completion (%)", Kind: MetricKindTimePhased, Source: DataSourcePrograms},
	{Name: "Program: Milestones Hit", Kind: MetricKindDefault, Source: DataSourcePrograms},
	{Name: "Program: Schedule Variance", Kind: MetricKindDefault, Source: DataSourcePrograms},
	{Name: "Goal: Performance Index", Kind: MetricKindTimePhased, Source: DataSourceGoals},
	{Name: "Goal: Attainment (%)", Kind: MetricKindTimePhased, Source: DataSourceGoals},
	{Name: "Financial: ROI (%)", Kind: MetricKindTimePhased, Source: DataSourceFinancials},
	{Name: "Financial: Budget Spend", Kind: MetricKindBudget, Source: DataSourceFinancials},
	{Name: "Financial: Cost Variance", Kind: MetricKindBudget, Source: DataSourceFinancials},
	{Name: "Risk: Level", Kind: MetricKindRisk, Source: DataSourceRisks},
	{Name: "Risk: Open Count", Kind: MetricKindRisk, Source: DataSourceRisks},
	{Name: "Risk: Mitigation Progress", Kind: MetricKindTimePhased, Source: DataSourceRisks},
}

// MetricCatalog returns the full metric catalog in catalog order
func MetricCatalog() []Metric {
	out := make([]Metric, len(catalog))
	copy(out, catalog)
	return out
}

// MetricCatalogNames returns the full catalog as metric names in
// catalog order.
func MetricCatalogNames() []string {
	names := make([]string, len(catalog))
	for i, m := range catalog {
		names[i] = m.Name
	}
	return names
}

// LookupMetric finds a catalog metric by name
func LookupMetric(name string) (Metric, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// DataSources returns all known data sources in catalog order
func DataSources() []DataSource {
	return []DataSource{DataSourcePrograms, DataSourceGoals, DataSourceFinancials, DataSourceRisks}
}
