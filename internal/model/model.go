package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Timestamp is a time.Time with lenient JSON decoding. Exam payloads arrive
// with a mix of timestamp formats, and a missing or unparseable value is not
// an error: it decodes to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null or a non-string value: normalize to the zero time.
		t.Time = time.Time{}
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// ExamRecord is one row of a student's exam history. The count fields are
// pointers because an absent column is a valid state, distinct from zero at
// the payload level (aggregation treats both the same).
type ExamRecord struct {
	Title        string    `json:"title"`
	StartTime    Timestamp `json:"start_time"`
	EndTime      Timestamp `json:"end_time"`
	TakenAt      Timestamp `json:"taken_at"`
	ScorePct     float64   `json:"score_percentage"`
	AnsweredMCQ  *int      `json:"answered_mcq_count,omitempty"`
	WrongMCQ     *int      `json:"wrong_mcq_count,omitempty"`
	AnsweredOpen *int      `json:"answered_open_ended_count,omitempty"`
	WrongOpen    *int      `json:"wrong_open_ended_count,omitempty"`
}

// StudentProfile identifies the student a report is generated for.
// ID doubles as the report artifact's identity.
type StudentProfile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	School      string `json:"school"`
	ID          string `json:"id"`
}

// ReportRequest is one report generation request: a profile plus the exam
// history in input order.
type ReportRequest struct {
	StudentProfile
	Exams []ExamRecord `json:"exams"`
}

// DerivedMetrics holds the summary numbers computed from an exam history.
// All fields are finite for any input, including an empty history.
type DerivedMetrics struct {
	OverallMcqAccuracyPct       float64
	OverallOpenEndedAccuracyPct float64
	MeanScorePct                float64
}

// ReportArtifact is a generated report persisted for later retrieval.
// Token makes concurrent generations for the same student collision-free.
type ReportArtifact struct {
	ID          int64
	StudentID   string
	Token       string
	Filename    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// ServerConfig holds runtime server parameters set via CLI flags.
// An empty AllowedOrigins list means no cross-origin access at all;
// the policy must be deliberately widened per deployment.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}
