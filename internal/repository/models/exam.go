package models

import (
	"database/sql"
	"time"
)

type Exam struct {
	ID               string         `db:"ID"`
	Title            string         `db:"TITLE"`
	Description      sql.NullString `db:"DESCRIPTION"`
	Subject          sql.NullString `db:"SUBJECT"`
	DurationMinutes  int            `db:"DURATION_MINUTES"`
	Mode             string         `db:"EXAM_MODE"`
	ShuffleQuestions int            `db:"SHUFFLE_QUESTIONS"`
	TotalQuestions   int            `db:"TOTAL_QUESTIONS"`
	TotalPoints      float64        `db:"TOTAL_POINTS"`
	IsPublished      int            `db:"IS_PUBLISHED"`
	CreatedBy        string         `db:"CREATED_BY"`
	CreatedAt        time.Time      `db:"CREATED_AT"`
	UpdatedAt        time.Time      `db:"UPDATED_AT"`
}

// ExamQuestion is an EXAM_QUESTIONS row joined with its QUESTIONS row.
type ExamQuestion struct {
	ID            string         `db:"ID"`
	ExamID        string         `db:"EXAM_ID"`
	QuestionID    string         `db:"QUESTION_ID"`
	QuestionOrder int            `db:"QUESTION_ORDER"`
	MaxScore      float64        `db:"MAX_SCORE"`
	SectionLabel  sql.NullString `db:"SECTION_LABEL"`
	QuestionType  string         `db:"QUESTION_TYPE"`
	Content       string         `db:"CONTENT"`
	Options       StringSlice    `db:"OPTIONS_JSON"`
	CorrectAnswer sql.NullString `db:"CORRECT_ANSWER"`
	Explanation   sql.NullString `db:"EXPLANATION"`
	Points        float64        `db:"POINTS"`
}

type ExamAssignment struct {
	ID                  string    `db:"ID"`
	ExamID              string    `db:"EXAM_ID"`
	ClassID             string    `db:"CLASS_ID"`
	StartTime           time.Time `db:"START_TIME"`
	EndTime             time.Time `db:"END_TIME"`
	MaxAttempts         int       `db:"MAX_ATTEMPTS"`
	AllowLateSubmission int       `db:"ALLOW_LATE_SUBMISSION"`
	ShuffleQuestions    int       `db:"SHUFFLE_QUESTIONS"`
	CreatedAt           time.Time `db:"CREATED_AT"`
}

type ContestParticipation struct {
	ID             string      `db:"ID"`
	ContestID      string      `db:"CONTEST_ID"`
	StudentID      string      `db:"STUDENT_ID"`
	CompletedExams StringSlice `db:"COMPLETED_EXAMS"`
	TotalScore     float64     `db:"TOTAL_SCORE"`
	UpdatedAt      time.Time   `db:"UPDATED_AT"`
}
