package models

import (
	"database/sql"
	"time"
)

// Submission is a row of EXAM_SUBMISSIONS.
type Submission struct {
	ID              string          `db:"ID"`
	ExamID          string          `db:"EXAM_ID"`
	StudentID       string          `db:"STUDENT_ID"`
	AssignmentID    sql.NullString  `db:"ASSIGNMENT_ID"`
	ContestID       sql.NullString  `db:"CONTEST_ID"`
	ScopeKey        string          `db:"SCOPE_KEY"`
	Status          string          `db:"STATUS"`
	MaxScore        float64         `db:"MAX_SCORE"`
	TotalScore      sql.NullFloat64 `db:"TOTAL_SCORE"`
	AttemptNumber   int             `db:"ATTEMPT_NUMBER"`
	StartedAt       time.Time       `db:"STARTED_AT"`
	SubmittedAt     sql.NullTime    `db:"SUBMITTED_AT"`
	DurationSeconds sql.NullInt64   `db:"DURATION_SECONDS"`
	CreatedAt       time.Time       `db:"CREATED_AT"`
	UpdatedAt       time.Time       `db:"UPDATED_AT"`
}

// Answer is a row of EXAM_ANSWERS. SelectedOptions holds raw JSON.
type Answer struct {
	ID               string         `db:"ID"`
	SubmissionID     string         `db:"SUBMISSION_ID"`
	QuestionID       string         `db:"QUESTION_ID"`
	AnswerText       sql.NullString `db:"ANSWER_TEXT"`
	SelectedOptions  sql.NullString `db:"SELECTED_OPTIONS"`
	Score            float64        `db:"SCORE"`
	MaxScore         float64        `db:"MAX_SCORE"`
	Feedback         sql.NullString `db:"FEEDBACK"`
	IsAutoGraded     int            `db:"IS_AUTO_GRADED"`
	IsManuallyGraded int            `db:"IS_MANUALLY_GRADED"`
	CreatedAt        time.Time      `db:"CREATED_AT"`
	UpdatedAt        time.Time      `db:"UPDATED_AT"`
}
