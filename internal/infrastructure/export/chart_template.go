package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/programmatrix/backend/internal/domain/insight"
)

// chartJSSource is the pinned Chart.js build loaded by the rendering
// page. The headless browser needs outbound access to fetch it.
const chartJSSource = "https://cdn.jsdelivr.net/npm/chart.js@4.4.3/dist/chart.umd.min.js"

var chartPage = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<script src="{{.ScriptURL}}"></script>
<style>
  body { margin: 0; background: #ffffff; font-family: Helvetica, Arial, sans-serif; }
  #chart { width: 960px; height: 540px; }
</style>
</head>
<body>
<canvas id="chart" width="960" height="540"></canvas>
<script>
  const chart = new Chart(document.getElementById("chart"), {
    type: {{.Type}},
    data: {{.Payload}},
    options: {
      animation: {
        onComplete: () => {
          document.getElementById("chart").setAttribute("data-rendered", "true");
        }
      },
      plugins: {
        title: { display: true, text: {{.Title}} }
      }
    }
  });
</script>
</body>
</html>`))

// chartJSDataset mirrors Chart.js dataset fields
type chartJSDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
}

type chartJSData struct {
	Labels   []string         `json:"labels"`
	Datasets []chartJSDataset `json:"datasets"`
}

// chartJSType maps a visualization kind to its Chart.js type name
func chartJSType(kind insight.ChartKind) (string, error) {
	switch kind {
	case insight.ChartKindBar:
		return "bar", nil
	case insight.ChartKindLine:
		return "line", nil
	case insight.ChartKindPie:
		return "pie", nil
	default:
		return "", fmt.Errorf("unknown chart kind %q", kind)
	}
}

// buildChartHTML produces a self-contained page drawing the chart data
func buildChartHTML(title string, kind insight.ChartKind, data *insight.ChartData) (string, error) {
	chartType, err := chartJSType(kind)
	if err != nil {
		return "", err
	}

	payload := chartJSData{
		Labels:   data.Labels,
		Datasets: make([]chartJSDataset, 0, len(data.Datasets)),
	}
	for _, ds := range data.Datasets {
		out := chartJSDataset{Label: ds.Label, Data: ds.Data}
		if ds.Style != nil {
			out.BackgroundColor = ds.Style.BackgroundColor
			out.BorderColor = ds.Style.BorderColor
			out.Fill = ds.Style.Fill
		}
		payload.Datasets = append(payload.Datasets, out)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chart payload: %w", err)
	}

	var buf bytes.Buffer
	err = chartPage.Execute(&buf, struct {
		Title     string
		ScriptURL string
		Type      string
		Payload   template.JS
	}{
		Title:     title,
		ScriptURL: chartJSSource,
		Type:      chartType,
		Payload:   template.JS(encoded),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render chart document: %w", err)
	}

	return buf.String(), nil
}
