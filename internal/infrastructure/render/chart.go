// Package render draws chart specs to PNG files.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	chartlib "github.com/wcharczuk/go-chart/v2"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// PNGRenderer writes charts into a timestamped file under the output
// directory.
type PNGRenderer struct {
	outputDir string
	clock     ports.Clock
}

// NewPNGRenderer builds a renderer; outputDir defaults to ~/.finq/charts.
func NewPNGRenderer(outputDir string) *PNGRenderer {
	if outputDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			outputDir = filepath.Join(home, ".finq", "charts")
		} else {
			outputDir = "charts"
		}
	}
	return &PNGRenderer{outputDir: outputDir, clock: time.Now}
}

// Render implements ports.ChartRenderer.
func (r *PNGRenderer) Render(spec domain.ChartSpec, result domain.QueryResult) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", err
	}

	labels, values, err := seriesData(spec, result)
	if err != nil {
		return "", err
	}

	path := filepath.Join(r.outputDir, "chart_"+r.clock().Format("20060102_150405")+".png")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	switch spec.Type {
	case domain.ChartPie:
		err = renderPie(spec, labels, values, file)
	case domain.ChartBar:
		err = renderBar(spec, labels, values, file)
	default:
		err = renderLine(spec, labels, values, file)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// seriesData flattens the result into one labeled series. The comparison
// shape (synthetic period/value axes) pivots its single row into two points.
func seriesData(spec domain.ChartSpec, result domain.QueryResult) ([]string, []float64, error) {
	if spec.XAxis == "period" && spec.YAxis == "value" && result.RowCount > 0 {
		row := result.Rows[0]
		current, okCurrent := toFloat(row["current_value"])
		previous, okPrevious := toFloat(row["previous_value"])
		if !okCurrent {
			return nil, nil, fmt.Errorf("comparison row has no current value")
		}
		if !okPrevious {
			return []string{"Current"}, []float64{current}, nil
		}
		return []string{"Previous", "Current"}, []float64{previous, current}, nil
	}

	var labels []string
	var values []float64
	for _, row := range result.Rows {
		v, ok := toFloat(row[spec.YAxis])
		if !ok {
			continue
		}
		labels = append(labels, fmt.Sprintf("%v", row[spec.XAxis]))
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("no plottable values in column %s", spec.YAxis)
	}
	return labels, values, nil
}

func renderLine(spec domain.ChartSpec, labels []string, values []float64, file *os.File) error {
	xs := make([]float64, len(values))
	ticks := make([]chartlib.Tick, len(values))
	for i := range values {
		xs[i] = float64(i)
		ticks[i] = chartlib.Tick{Value: float64(i), Label: labels[i]}
	}

	graph := chartlib.Chart{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
		XAxis: chartlib.XAxis{
			Name:  spec.XTitle,
			Ticks: ticks,
		},
		YAxis: chartlib.YAxis{Name: spec.YTitle},
		Series: []chartlib.Series{
			chartlib.ContinuousSeries{XValues: xs, YValues: values},
		},
	}
	return graph.Render(chartlib.PNG, file)
}

func renderBar(spec domain.ChartSpec, labels []string, values []float64, file *os.File) error {
	bars := make([]chartlib.Value, len(values))
	for i := range values {
		bars[i] = chartlib.Value{Label: labels[i], Value: values[i]}
	}

	graph := chartlib.BarChart{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
		Bars:   bars,
	}
	return graph.Render(chartlib.PNG, file)
}

func renderPie(spec domain.ChartSpec, labels []string, values []float64, file *os.File) error {
	slices := make([]chartlib.Value, len(values))
	for i := range values {
		slices[i] = chartlib.Value{Label: labels[i], Value: values[i]}
	}

	graph := chartlib.PieChart{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
		Values: slices,
	}
	return graph.Render(chartlib.PNG, file)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

var _ ports.ChartRenderer = (*PNGRenderer)(nil)
