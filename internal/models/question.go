package models

import "slices"

// Option is one selectable answer of a question. IDs are unique within their question.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Reference carries optional source metadata of a question (exam session date, link).
type Reference struct {
	Date   string `json:"date,omitempty"`
	Source string `json:"source,omitempty"`
	Link   string `json:"link,omitempty"`
}

// Question is the canonical catalog representation of a multiple-choice question.
type Question struct {
	ID               int        `json:"id" validate:"required"`
	Text             string     `json:"text" validate:"required"`
	Module           string     `json:"module" validate:"required"`
	Courses          []string   `json:"courses,omitempty"`
	Options          []Option   `json:"options" validate:"required,min=2,dive"`
	CorrectOptionIDs []int      `json:"correct_option_ids" validate:"required,min=1"`
	Explanation      string     `json:"explanation"`
	Reference        *Reference `json:"reference,omitempty"`
}

// IsSingleAnswer reports whether exactly one option is correct. Selecting an option on such a
// question replaces the previous selection instead of toggling it.
func (q *Question) IsSingleAnswer() bool {
	return len(q.CorrectOptionIDs) == 1
}

// HasOption reports whether optionID belongs to the question.
func (q *Question) HasOption(optionID int) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// HasCourse reports whether the question carries the given course label.
func (q *Question) HasCourse(course string) bool {
	return slices.Contains(q.Courses, course)
}

// IsCorrect reports whether selected is set-equal to the correct option set.
// Order and duplicates in selected are ignored; there is no partial credit.
func (q *Question) IsCorrect(selected []int) bool {
	return EqualIntSets(selected, q.CorrectOptionIDs)
}

// EqualIntSets compares a and b as sets.
func EqualIntSets(a, b []int) bool {
	as := make(map[int]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[int]struct{}, len(b))
	for _, v := range b {
		bs[v] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}
