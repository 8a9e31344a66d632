package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/edusight/reportgen/internal/model"
)

// Presentation defaults shared by the three report charts.
const (
	chartFontSize   = 14.0
	mcqVsOpenBarGap = 0.7
	averageBarGap   = 0.8

	chartWidth  = 800
	chartHeight = 600
)

// Bar is a single labeled bar in a chart spec.
type Bar struct {
	Label string
	Value float64
	Text  string // formatted value shown with the bar
}

// ChartSpec is a pure description of one bar chart: data, encoding, style.
// Rendering is a separate step.
type ChartSpec struct {
	Title      string
	XAxisTitle string
	YAxisTitle string
	FontSize   float64
	BarGap     float64 // fraction of each bar slot left empty
	Bars       []Bar
}

// BuildChartSpecs builds the three report charts from the raw records and
// their derived metrics: per-exam scores, MCQ vs open-ended accuracy, and
// the overall average.
func BuildChartSpecs(records []model.ExamRecord, metrics model.DerivedMetrics) [3]ChartSpec {
	perExam := ChartSpec{
		Title:      "Score Percentage",
		XAxisTitle: "Exam Title",
		YAxisTitle: "Score Percentage",
		FontSize:   chartFontSize,
	}
	for _, r := range records {
		perExam.Bars = append(perExam.Bars, Bar{
			Label: r.Title,
			Value: r.ScorePct,
			Text:  percentText(r.ScorePct),
		})
	}

	byType := ChartSpec{
		Title:      "Average Performance in MCQ vs. Open-Ended Questions",
		XAxisTitle: "Question Type",
		YAxisTitle: "Average Percentage Correct",
		FontSize:   chartFontSize,
		BarGap:     mcqVsOpenBarGap,
		Bars: []Bar{
			{Label: "MCQ", Value: metrics.OverallMcqAccuracyPct, Text: percentText(metrics.OverallMcqAccuracyPct)},
			{Label: "Open-Ended", Value: metrics.OverallOpenEndedAccuracyPct, Text: percentText(metrics.OverallOpenEndedAccuracyPct)},
		},
	}

	average := ChartSpec{
		Title:      "Average Performance (Average Score Percentage)",
		YAxisTitle: "Average Score Percentage",
		FontSize:   chartFontSize,
		BarGap:     averageBarGap,
		Bars: []Bar{
			{Label: "Average Performance", Value: metrics.MeanScorePct, Text: percentText(metrics.MeanScorePct)},
		},
	}

	return [3]ChartSpec{perExam, byType, average}
}

// percentText formats a percentage value the way it appears on the bars.
func percentText(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// RenderChart rasterizes a chart spec to a PNG image.
func RenderChart(spec ChartSpec) ([]byte, error) {
	values := make([]chart.Value, 0, len(spec.Bars))
	for _, b := range spec.Bars {
		label := b.Text
		if b.Label != "" {
			label = b.Label + ": " + b.Text
		}
		values = append(values, chart.Value{Label: label, Value: b.Value})
	}
	if len(values) == 0 {
		// go-chart refuses to render an empty bar set; an empty history
		// still gets a chart, just a visually empty one.
		values = append(values, chart.Value{Label: "", Value: 0})
	}

	yMax := 100.0
	for _, b := range spec.Bars {
		if b.Value > yMax {
			yMax = b.Value
		}
	}

	graph := chart.BarChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontSize: spec.FontSize},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth(spec),
		XAxis:      chart.Style{FontSize: spec.FontSize},
		YAxis: chart.YAxis{
			Name:  spec.YAxisTitle,
			Style: chart.Style{FontSize: spec.FontSize},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart %q: %w", spec.Title, err)
	}
	return buf.Bytes(), nil
}

// barWidth maps the spec's bar-gap ratio onto go-chart's fixed pixel
// bar width.
func barWidth(spec ChartSpec) int {
	n := len(spec.Bars)
	if n == 0 {
		n = 1
	}
	slot := chartWidth / n
	w := int(float64(slot) * (1 - spec.BarGap))
	if w < 20 {
		w = 20
	}
	return w
}
