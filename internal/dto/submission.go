package dto

import (
	"encoding/json"
	"time"

	"examhub/internal/domain"
)

// DataResponse wraps every successful payload.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// OK wraps data in a successful DataResponse.
func OK(data interface{}) DataResponse {
	return DataResponse{Success: true, Data: data}
}

// CreateSubmissionRequest starts or resumes an attempt.
// @Description At most one of assignment_id and contest_id may be set
type CreateSubmissionRequest struct {
	ExamID       string `json:"exam_id" validate:"required,max=64"`
	AssignmentID string `json:"assignment_id,omitempty" validate:"omitempty,max=64,excluded_with=ContestID"`
	ContestID    string `json:"contest_id,omitempty" validate:"omitempty,max=64"`
}

// AnswerInput is a single answer written by the student.
// @Description selected_options is either a list of option values or a map of statement id to "true"/"false"
type AnswerInput struct {
	QuestionID      string           `json:"question_id" validate:"required,max=64"`
	AnswerText      string           `json:"answer_text,omitempty" validate:"max=20000"`
	SelectedOptions domain.Selection `json:"selected_options" swaggertype:"object"`
}

// AutoSaveRequest carries a batch of answers saved in order.
type AutoSaveRequest struct {
	Answers []AnswerInput `json:"answers" validate:"max=500,dive"`
}

// SubmitExamRequest finalizes an attempt, optionally saving last answers first.
type SubmitExamRequest struct {
	Answers          []AnswerInput `json:"answers,omitempty" validate:"omitempty,max=500,dive"`
	TimeSpentSeconds int           `json:"time_spent" validate:"gte=0"`
}

// GradeInput is a teacher's score for one answer.
type GradeInput struct {
	AnswerID string  `json:"answer_id" validate:"required,max=64"`
	Score    float64 `json:"score" validate:"gte=0"`
	Feedback string  `json:"feedback,omitempty" validate:"max=2000"`
}

// ManualGradeRequest carries teacher scores for a submission.
type ManualGradeRequest struct {
	Grades []GradeInput `json:"grades" validate:"max=500,dive"`
}

// SubmissionResponse represents an attempt in the API response
// @Description Submission information
type SubmissionResponse struct {
	ID              string     `json:"id"`
	ExamID          string     `json:"exam_id"`
	StudentID       string     `json:"student_id"`
	AssignmentID    string     `json:"assignment_id,omitempty"`
	ContestID       string     `json:"contest_id,omitempty"`
	Status          string     `json:"status"`
	MaxScore        float64    `json:"max_score"`
	TotalScore      *float64   `json:"total_score"`
	AttemptNumber   int        `json:"attempt_number"`
	StartedAt       time.Time  `json:"started_at"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateSubmissionResponse reports whether an existing attempt was resumed.
type CreateSubmissionResponse struct {
	SubmissionResponse
	Resumed bool `json:"resumed"`
}

// AnswerResponse represents a saved answer.
type AnswerResponse struct {
	ID               string           `json:"id"`
	SubmissionID     string           `json:"submission_id"`
	QuestionID       string           `json:"question_id"`
	AnswerText       string           `json:"answer_text"`
	SelectedOptions  domain.Selection `json:"selected_options" swaggertype:"object"`
	Score            float64          `json:"score"`
	MaxScore         float64          `json:"max_score"`
	Feedback         string           `json:"feedback,omitempty"`
	IsAutoGraded     bool             `json:"is_auto_graded"`
	IsManuallyGraded bool             `json:"is_manually_graded"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// AutoSaveResponse summarizes a saved batch.
type AutoSaveResponse struct {
	SubmissionID string    `json:"submission_id"`
	SavedCount   int       `json:"saved_count"`
	LastSavedAt  time.Time `json:"last_saved_at"`
}

// SubmissionAnswersResponse lists the answers of one attempt.
type SubmissionAnswersResponse struct {
	SubmissionID string           `json:"submission_id"`
	Status       string           `json:"status"`
	Answers      []AnswerResponse `json:"answers"`
}

// SubmitExamResponse is the grading result of a submit.
// @Description contest_sync is one of ok, skipped, failed and only present for contest attempts
type SubmitExamResponse struct {
	SubmissionID         string    `json:"submission_id"`
	Status               string    `json:"status"`
	TotalScore           float64   `json:"total_score"`
	MaxScore             float64   `json:"max_score"`
	SubmittedAt          time.Time `json:"submitted_at"`
	GradedAnswers        int       `json:"graded_answers"`
	PendingManualGrading int       `json:"pending_manual_grading"`
	ContestSync          string    `json:"contest_sync,omitempty"`
}

// ManualGradeResponse is the outcome of a teacher grading pass.
type ManualGradeResponse struct {
	SubmissionID  string  `json:"submission_id"`
	GradedCount   int     `json:"graded_count"`
	NewTotalScore float64 `json:"new_total_score"`
	MaxScore      float64 `json:"max_score"`
	Status        string  `json:"status"`
}

// ReviewQuestionResponse is an exam question shown in review mode, correct answer included.
type ReviewQuestionResponse struct {
	ID            string          `json:"id"`
	QuestionID    string          `json:"question_id"`
	Order         int             `json:"order"`
	Section       string          `json:"section,omitempty"`
	MaxScore      float64         `json:"max_score"`
	Type          string          `json:"type"`
	Content       string          `json:"content"`
	Options       []string        `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer,omitempty" swaggertype:"object"`
	Explanation   string          `json:"explanation,omitempty"`
	Points        float64         `json:"points"`
}

// ExamReviewResponse is the exam part of a submission detail.
type ExamReviewResponse struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description,omitempty"`
	Subject         string                   `json:"subject,omitempty"`
	DurationMinutes int                      `json:"duration_minutes"`
	Mode            string                   `json:"mode"`
	TotalQuestions  int                      `json:"total_questions"`
	TotalPoints     float64                  `json:"total_points"`
	Questions       []ReviewQuestionResponse `json:"questions"`
}

// SubmissionDetailResponse is a submission with its answers and the reviewed exam.
type SubmissionDetailResponse struct {
	Submission SubmissionResponse `json:"submission"`
	Answers    []AnswerResponse   `json:"answers"`
	Exam       ExamReviewResponse `json:"exam"`
}

// ActiveSubmissionResponse is an in-progress attempt of the caller.
// @Description time_remaining is in seconds and null when the exam has no duration
type ActiveSubmissionResponse struct {
	SubmissionID  string    `json:"submission_id"`
	ExamID        string    `json:"exam_id"`
	ExamTitle     string    `json:"exam_title"`
	StartedAt     time.Time `json:"started_at"`
	TimeRemaining *int      `json:"time_remaining"`
	AssignmentID  string    `json:"assignment_id,omitempty"`
	ContestID     string    `json:"contest_id,omitempty"`
}

// HealthResponse reports dependency status.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	CheckedAt time.Time         `json:"checked_at"`
}

// NewSubmissionResponse maps a domain submission.
func NewSubmissionResponse(s *domain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:              s.ID,
		ExamID:          s.ExamID,
		StudentID:       s.StudentID,
		AssignmentID:    s.Scope.AssignmentID(),
		ContestID:       s.Scope.ContestID(),
		Status:          string(s.Status),
		MaxScore:        s.MaxScore,
		TotalScore:      s.TotalScore,
		AttemptNumber:   s.AttemptNumber,
		StartedAt:       s.StartedAt,
		SubmittedAt:     s.SubmittedAt,
		DurationSeconds: s.DurationSeconds,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// NewAnswerResponse maps a domain answer.
func NewAnswerResponse(a *domain.Answer) AnswerResponse {
	return AnswerResponse{
		ID:               a.ID,
		SubmissionID:     a.SubmissionID,
		QuestionID:       a.QuestionID,
		AnswerText:       a.AnswerText,
		SelectedOptions:  a.SelectedOptions,
		Score:            a.Score,
		MaxScore:         a.MaxScore,
		Feedback:         a.Feedback,
		IsAutoGraded:     a.IsAutoGraded,
		IsManuallyGraded: a.IsManuallyGraded,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
