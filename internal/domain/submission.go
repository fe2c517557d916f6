package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// SubmissionStatus is the lifecycle state of an attempt.
type SubmissionStatus string

const (
	StatusInProgress SubmissionStatus = "in_progress"
	StatusSubmitted  SubmissionStatus = "submitted"
	StatusGraded     SubmissionStatus = "graded"
)

// CanTransitionTo reports whether moving from s to next is allowed.
// graded -> graded covers a teacher re-grading a finalized attempt.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	switch s {
	case StatusInProgress:
		return next == StatusSubmitted || next == StatusGraded
	case StatusSubmitted:
		return next == StatusGraded
	case StatusGraded:
		return next == StatusGraded
	}
	return false
}

// IsFinal reports whether the attempt no longer accepts student writes.
func (s SubmissionStatus) IsFinal() bool {
	return s == StatusSubmitted || s == StatusGraded
}

// Scope is the context an attempt belongs to. At most one of the ids is set.
type Scope struct {
	assignmentID string
	contestID    string
}

func AssignmentScope(assignmentID string) Scope { return Scope{assignmentID: assignmentID} }
func ContestScope(contestID string) Scope       { return Scope{contestID: contestID} }
func StandaloneScope() Scope                    { return Scope{} }

// NewScope builds a scope from optional ids; giving both is an error.
func NewScope(assignmentID, contestID string) (Scope, error) {
	if assignmentID != "" && contestID != "" {
		return Scope{}, NewInvalidInputError("assignment_id and contest_id are mutually exclusive")
	}
	return Scope{assignmentID: assignmentID, contestID: contestID}, nil
}

func (s Scope) AssignmentID() string { return s.assignmentID }
func (s Scope) ContestID() string    { return s.contestID }
func (s Scope) IsAssignment() bool   { return s.assignmentID != "" }
func (s Scope) IsContest() bool      { return s.contestID != "" }

// Key is the stable identifier used for uniqueness and attempt counting.
func (s Scope) Key(examID string) string {
	switch {
	case s.assignmentID != "":
		return "assignment:" + s.assignmentID
	case s.contestID != "":
		return "contest:" + s.contestID
	default:
		return "exam:" + examID
	}
}

// Submission is one attempt of a student at an exam.
type Submission struct {
	ID              string
	ExamID          string
	StudentID       string
	Scope           Scope
	Status          SubmissionStatus
	MaxScore        float64
	TotalScore      *float64
	AttemptNumber   int
	StartedAt       time.Time
	SubmittedAt     *time.Time
	DurationSeconds *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ScoreOrZero returns the total score, or 0 if it has not been graded.
func (s *Submission) ScoreOrZero() float64 {
	if s.TotalScore == nil {
		return 0
	}
	return *s.TotalScore
}

// Answer is the response to one question within a submission.
type Answer struct {
	ID               string
	SubmissionID     string
	QuestionID       string
	AnswerText       string
	SelectedOptions  Selection
	Score            float64
	MaxScore         float64
	Feedback         string
	IsAutoGraded     bool
	IsManuallyGraded bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Selection is what a student picked. Multiple choice answers use Options;
// structured true/false answers use Statements (sub-statement id -> "true"/"false").
type Selection struct {
	Options    []string
	Statements map[string]string
}

// IsEmpty reports whether nothing was selected.
func (s Selection) IsEmpty() bool {
	return len(s.Options) == 0 && len(s.Statements) == 0
}

// First returns the first selected value. For statement maps the value of the
// lexically smallest statement id is used.
func (s Selection) First() (string, bool) {
	if len(s.Options) > 0 {
		return s.Options[0], true
	}
	if len(s.Statements) > 0 {
		ids := SortedStatementIDs(s.Statements)
		return s.Statements[ids[0]], true
	}
	return "", false
}

// MarshalJSON writes an array, an object, or null.
func (s Selection) MarshalJSON() ([]byte, error) {
	if s.Statements != nil {
		return json.Marshal(s.Statements)
	}
	if s.Options != nil {
		return json.Marshal(s.Options)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts an array of scalars or an object of scalars.
func (s *Selection) UnmarshalJSON(data []byte) error {
	*s = Selection{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var raw []interface{}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		s.Options = make([]string, 0, len(raw))
		for _, v := range raw {
			s.Options = append(s.Options, scalarString(v))
		}
		return nil
	case '{':
		var raw map[string]interface{}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		s.Statements = make(map[string]string, len(raw))
		for k, v := range raw {
			s.Statements[k] = scalarString(v)
		}
		return nil
	default:
		return fmt.Errorf("selected options must be an array or an object")
	}
}
