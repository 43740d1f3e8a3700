package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// rawQuestion accepts every question shape found in the corpus.
type rawQuestion struct {
	ID               int               `json:"id"`
	Text             string            `json:"text"`
	Module           string            `json:"module"`
	CourseName       stringList        `json:"courseName"`
	Options          []models.Option   `json:"options"`
	CorrectOptionIDs []int             `json:"correctOptionIds"`
	CorrectOptionID  *int              `json:"correctOptionId"`
	Explanation      string            `json:"explanation"`
	Date             string            `json:"Date"`
	Reference        *models.Reference `json:"reference"`
}

// stringList decodes either a string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
		} else {
			*l = stringList{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

func parseJSONFile(path, module string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseJSON(data, module)
}

// parseJSON accepts a bare array of questions or an object with a questions field.
func parseJSON(data []byte, module string) ([]models.Question, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty question file")
	}

	var raw []rawQuestion
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("invalid question array: %w", err)
		}
	case '{':
		var wrapper struct {
			Questions []rawQuestion `json:"questions"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("invalid question object: %w", err)
		}
		raw = wrapper.Questions
	default:
		return nil, fmt.Errorf("question file must contain an array or an object")
	}

	questions := make([]models.Question, 0, len(raw))
	for _, r := range raw {
		questions = append(questions, r.normalize(module))
	}
	return questions, nil
}

func (r rawQuestion) normalize(module string) models.Question {
	q := models.Question{
		ID:               r.ID,
		Text:             r.Text,
		Module:           r.Module,
		Courses:          []string(r.CourseName),
		Options:          r.Options,
		CorrectOptionIDs: r.CorrectOptionIDs,
		Explanation:      r.Explanation,
		Reference:        r.Reference,
	}
	if q.Module == "" {
		q.Module = module
	}
	if len(q.CorrectOptionIDs) == 0 && r.CorrectOptionID != nil {
		q.CorrectOptionIDs = []int{*r.CorrectOptionID}
	}
	if r.Date != "" {
		if q.Reference == nil {
			q.Reference = &models.Reference{}
		}
		if q.Reference.Date == "" {
			q.Reference.Date = r.Date
		}
	}
	return q
}
