package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edusight/reportgen/internal/model"
)

// ParseRequest decodes a report request payload. Decoding happens in two
// phases so the error kinds stay distinct: problems with the payload shape
// (bad JSON, missing top-level keys) are validation errors, while malformed
// values inside the records array are derivation errors.
func ParseRequest(data []byte) (*model.ReportRequest, error) {
	var envelope struct {
		Name        *string         `json:"name"`
		Email       *string         `json:"email"`
		PhoneNumber *string         `json:"phone_number"`
		School      *string         `json:"school"`
		ID          *string         `json:"id"`
		Exams       json.RawMessage `json:"exams"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var missing []string
	for _, f := range []struct {
		key string
		ok  bool
	}{
		{"name", envelope.Name != nil},
		{"email", envelope.Email != nil},
		{"phone_number", envelope.PhoneNumber != nil},
		{"school", envelope.School != nil},
		{"id", envelope.ID != nil},
		{"exams", envelope.Exams != nil},
	} {
		if !f.ok {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing keys: %s", ErrValidation, strings.Join(missing, ", "))
	}

	var records []model.ExamRecord
	if err := json.Unmarshal(envelope.Exams, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDerivation, err)
	}

	return &model.ReportRequest{
		StudentProfile: model.StudentProfile{
			Name:        *envelope.Name,
			Email:       *envelope.Email,
			PhoneNumber: *envelope.PhoneNumber,
			School:      *envelope.School,
			ID:          *envelope.ID,
		},
		Exams: records,
	}, nil
}
