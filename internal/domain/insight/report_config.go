package insight

// ReportConfig is a user-chosen report configuration. Metrics and
// DataSources are ordered and unique; every metric must belong to the
// metric set implied by DataSources. Violations are repaired by
// Reconcile, never rejected.
type ReportConfig struct {
	Metrics       []string     `json:"metrics"`
	DateRange     DateRange    `json:"date_range"`
	Visualization ChartKind    `json:"visualization"`
	DataSources   []DataSource `json:"data_sources"`
}

// HasMetrics reports whether at least one metric is selected. The
// pipeline must not be invoked for a config without metrics.
func (c ReportConfig) HasMetrics() bool {
	return len(c.Metrics) > 0
}

// ResolveMetrics returns the subset of metricCatalog exposed by at
// least one of the given data sources, preserving the catalog's
// original order. An empty source list resolves to no metrics.
func ResolveMetrics(dataSources []DataSource, metricCatalog []string) []string {
	if len(dataSources) == 0 {
		return []string{}
	}
	allowed := make(map[DataSource]bool, len(dataSources))
	for _, ds := range dataSources {
		allowed[ds] = true
	}

	resolved := make([]string, 0, len(metricCatalog))
	for _, name := range metricCatalog {
		m, ok := LookupMetric(name)
		if !ok {
			continue
		}
		if allowed[m.Source] {
			resolved = append(resolved, name)
		}
	}
	return resolved
}

// Reconcile returns a copy of config whose metric selection retains
// only entries present in resolvedMetrics, preserving the selection's
// relative order. Data sources are never touched: sources constrain
// metrics, not vice versa.
func Reconcile(config ReportConfig, resolvedMetrics []string) ReportConfig {
	resolved := make(map[string]bool, len(resolvedMetrics))
	for _, name := range resolvedMetrics {
		resolved[name] = true
	}

	kept := make([]string, 0, len(config.Metrics))
	for _, name := range config.Metrics {
		if resolved[name] {
			kept = append(kept, name)
		}
	}

	out := config
	out.Metrics = kept
	return out
}
