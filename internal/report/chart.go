package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"news_hub/internal/domain"
)

var barColor = drawing.ColorFromHex("800080")

// Chart renders the category histogram as a PNG bar chart.
func Chart(title string, counts []domain.CategoryCount) ([]byte, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("render chart: no categories")
	}

	top := 1.0
	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		value := float64(c.Count)
		if value > top {
			top = value
		}
		bars = append(bars, chart.Value{
			Label: c.Category.String(),
			Value: value,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      1000,
		Height:     500,
		BarWidth:   80,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
