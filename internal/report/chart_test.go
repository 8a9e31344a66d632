package report

import (
	"bytes"
	"testing"

	"github.com/edusight/reportgen/internal/model"
)

func TestBuildChartSpecs(t *testing.T) {
	records := []model.ExamRecord{
		{Title: "Midterm", ScorePct: 80},
		{Title: "Final", ScorePct: 92.5},
	}
	metrics := model.DerivedMetrics{
		OverallMcqAccuracyPct:       75,
		OverallOpenEndedAccuracyPct: 50,
		MeanScorePct:                86.25,
	}

	specs := BuildChartSpecs(records, metrics)

	perExam := specs[0]
	if len(perExam.Bars) != 2 {
		t.Fatalf("per-exam chart has %d bars, want 2", len(perExam.Bars))
	}
	if perExam.Bars[0].Label != "Midterm" || perExam.Bars[0].Text != "80.00%" {
		t.Errorf("first bar = %+v", perExam.Bars[0])
	}
	if perExam.Bars[1].Text != "92.50%" {
		t.Errorf("second bar text = %q, want 92.50%%", perExam.Bars[1].Text)
	}
	if perExam.XAxisTitle != "Exam Title" || perExam.YAxisTitle != "Score Percentage" {
		t.Errorf("axis titles = %q / %q", perExam.XAxisTitle, perExam.YAxisTitle)
	}
	if perExam.FontSize != 14 {
		t.Errorf("FontSize = %v, want 14", perExam.FontSize)
	}

	byType := specs[1]
	if len(byType.Bars) != 2 {
		t.Fatalf("accuracy chart has %d bars, want 2", len(byType.Bars))
	}
	if byType.Bars[0].Label != "MCQ" || byType.Bars[1].Label != "Open-Ended" {
		t.Errorf("accuracy bar labels = %q, %q", byType.Bars[0].Label, byType.Bars[1].Label)
	}
	if byType.Bars[0].Value != 75 || byType.Bars[1].Value != 50 {
		t.Errorf("accuracy bar values = %v, %v", byType.Bars[0].Value, byType.Bars[1].Value)
	}
	if byType.BarGap != 0.7 {
		t.Errorf("BarGap = %v, want 0.7", byType.BarGap)
	}

	average := specs[2]
	if len(average.Bars) != 1 {
		t.Fatalf("average chart has %d bars, want 1", len(average.Bars))
	}
	if average.Bars[0].Label != "Average Performance" {
		t.Errorf("average bar label = %q", average.Bars[0].Label)
	}
	if average.Bars[0].Text != "86.25%" {
		t.Errorf("average bar text = %q", average.Bars[0].Text)
	}
	if average.BarGap != 0.8 {
		t.Errorf("BarGap = %v, want 0.8", average.BarGap)
	}
}

func TestBuildChartSpecsEmptyHistory(t *testing.T) {
	specs := BuildChartSpecs(nil, model.DerivedMetrics{})
	if len(specs[0].Bars) != 0 {
		t.Errorf("per-exam chart should have no bars, got %d", len(specs[0].Bars))
	}
	// The other two charts are derived from metrics and always present.
	if len(specs[1].Bars) != 2 || len(specs[2].Bars) != 1 {
		t.Errorf("bar counts = %d, %d; want 2, 1", len(specs[1].Bars), len(specs[2].Bars))
	}
	if specs[1].Bars[0].Text != "0.00%" {
		t.Errorf("empty-history accuracy text = %q, want 0.00%%", specs[1].Bars[0].Text)
	}
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderChart(t *testing.T) {
	tests := []struct {
		name string
		spec ChartSpec
	}{
		{"normal", ChartSpec{
			Title:    "Score Percentage",
			FontSize: 14,
			Bars: []Bar{
				{Label: "Midterm", Value: 80, Text: "80.00%"},
				{Label: "Final", Value: 95, Text: "95.00%"},
			},
		}},
		{"single bar with gap", ChartSpec{
			Title:    "Average Performance",
			FontSize: 14,
			BarGap:   0.8,
			Bars:     []Bar{{Label: "Average Performance", Value: 73.3, Text: "73.30%"}},
		}},
		{"no bars", ChartSpec{Title: "Score Percentage", FontSize: 14}},
		{"value above 100", ChartSpec{
			Title:    "Score Percentage",
			FontSize: 14,
			Bars:     []Bar{{Label: "Bonus", Value: 120, Text: "120.00%"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := RenderChart(tt.spec)
			if err != nil {
				t.Fatalf("RenderChart: %v", err)
			}
			if !bytes.HasPrefix(img, pngSignature) {
				t.Error("rendered chart is not a PNG")
			}
		})
	}
}
