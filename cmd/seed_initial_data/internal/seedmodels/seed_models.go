package seedmodels

import "encoding/json"

// SeedQuestion is one question of a seeded exam. CorrectAnswer is stored as
// given after it decodes for Type.
type SeedQuestion struct {
	Type          string          `json:"type"`
	Content       string          `json:"content"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correct_answer,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
	MaxScore      float64         `json:"max_score"`
	Section       string          `json:"section,omitempty"`
}

// SeedAssignment assigns the exam to a class. Window offsets are relative to
// the time the seeder runs.
type SeedAssignment struct {
	ClassID             string   `json:"class_id"`
	StartsInMinutes     int      `json:"starts_in_minutes"`
	OpenForMinutes      int      `json:"open_for_minutes"`
	MaxAttempts         int      `json:"max_attempts"`
	AllowLateSubmission bool     `json:"allow_late_submission"`
	Students            []string `json:"students"`
	Teachers            []string `json:"teachers"`
}

// SeedExam defines an exam in the JSON seed file.
type SeedExam struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Subject         string          `json:"subject"`
	DurationMinutes int             `json:"duration_minutes"`
	Mode            string          `json:"mode"`
	CreatedBy       string          `json:"created_by"`
	Questions       []SeedQuestion  `json:"questions"`
	Assignment      *SeedAssignment `json:"assignment,omitempty"`
}
