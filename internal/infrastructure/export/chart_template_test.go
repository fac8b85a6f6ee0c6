package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programmatrix/backend/internal/domain/insight"
)

func TestBuildChartHTML(t *testing.T) {
	data := &insight.ChartData{
		Labels: []string{"Jan", "Feb"},
		Datasets: []insight.Dataset{
			{
				Label: "Financial: Budget Spend",
				Data:  []float64{100, 200},
				Style: &insight.DatasetStyle{
					BackgroundColor: "rgba(59,130,246,0.5)",
					BorderColor:     "rgb(59,130,246)",
				},
			},
		},
	}

	html, err := buildChartHTML("Spend Overview", insight.ChartKindBar, data)
	require.NoError(t, err)

	assert.Contains(t, html, `"bar"`)
	assert.Contains(t, html, "Financial: Budget Spend")
	assert.Contains(t, html, `"labels":["Jan","Feb"]`)
	assert.Contains(t, html, "rgba(59,130,246,0.5)")
	assert.Contains(t, html, `data-rendered`)
}

func TestBuildChartHTML_KindMapping(t *testing.T) {
	tests := []struct {
		kind insight.ChartKind
		want string
	}{
		{insight.ChartKindBar, `"bar"`},
		{insight.ChartKindLine, `"line"`},
		{insight.ChartKindPie, `"pie"`},
	}

	data := &insight.ChartData{
		Labels:   []string{"Q1"},
		Datasets: []insight.Dataset{{Label: "Program: Milestones Hit", Data: []float64{3}}},
	}

	for _, tt := range tests {
		html, err := buildChartHTML("t", tt.kind, data)
		require.NoError(t, err)
		assert.Contains(t, html, tt.want)
	}
}

func TestBuildChartHTML_UnknownKind(t *testing.T) {
	_, err := buildChartHTML("t", insight.ChartKind("Radar Chart"), &insight.ChartData{})
	assert.Error(t, err)
}

func TestBuildChartHTML_EscapesTitle(t *testing.T) {
	data := &insight.ChartData{
		Labels:   []string{"Q1"},
		Datasets: []insight.Dataset{{Label: "m", Data: []float64{1}}},
	}

	html, err := buildChartHTML(`</script><script>alert(1)</script>`, insight.ChartKindBar, data)
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<script>alert(1)</script>"))
}
