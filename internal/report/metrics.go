package report

import "github.com/edusight/reportgen/internal/model"

// DeriveMetrics computes the summary metrics for a student's exam history.
// It is total: any record sequence, including the empty one, produces
// finite outputs. Input records are never mutated.
func DeriveMetrics(records []model.ExamRecord) model.DerivedMetrics {
	var answeredMCQ, wrongMCQ, answeredOpen, wrongOpen int
	var scoreSum float64

	for _, r := range records {
		answeredMCQ += fillMissing(r.AnsweredMCQ)
		wrongMCQ += fillMissing(r.WrongMCQ)
		answeredOpen += fillMissing(r.AnsweredOpen)
		wrongOpen += fillMissing(r.WrongOpen)
		scoreSum += r.ScorePct
	}

	m := model.DerivedMetrics{
		OverallMcqAccuracyPct:       accuracyPct(answeredMCQ, wrongMCQ),
		OverallOpenEndedAccuracyPct: accuracyPct(answeredOpen, wrongOpen),
	}
	if len(records) > 0 {
		m.MeanScorePct = scoreSum / float64(len(records))
	}
	return m
}

// fillMissing treats an absent count the same as zero. A question type that
// was never attempted aggregates identically to one with zero correct
// answers.
func fillMissing(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// accuracyPct returns 100 × (answered − wrong) / answered, or 0 when
// nothing was answered.
func accuracyPct(answered, wrong int) float64 {
	if answered <= 0 {
		return 0
	}
	return float64(answered-wrong) / float64(answered) * 100
}
