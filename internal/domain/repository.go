package domain

import (
	"context"
	"time"
)

// SubmissionRepository persists attempts. Lookups return (nil, nil) when
// nothing matches.
type SubmissionRepository interface {
	// Create fails with a CONFLICT DomainError when another in-progress attempt
	// already holds the (exam, student, scope) slot or the attempt number.
	Create(ctx context.Context, submission *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	// FindInProgress returns the most recently started in-progress attempt.
	FindInProgress(ctx context.Context, examID, studentID, scopeKey string) (*Submission, error)
	// CountAttempts counts every attempt in scope regardless of status.
	CountAttempts(ctx context.Context, studentID, scopeKey string) (int, error)
	// ListByStudentAndExam orders by attempt number, newest first. An empty
	// assignmentID means every scope.
	ListByStudentAndExam(ctx context.Context, studentID, examID, assignmentID string) ([]*Submission, error)
	ListInProgressByStudent(ctx context.Context, studentID string) ([]*Submission, error)
	// UpdateStatus applies the transition only while the row still has the
	// expected status. It reports whether a row was updated.
	UpdateStatus(ctx context.Context, id string, expected SubmissionStatus, update SubmissionUpdate) (bool, error)
	Touch(ctx context.Context, id string, at time.Time) error
}

// SubmissionUpdate carries the fields written on a status transition.
// Nil pointers leave the column unchanged.
type SubmissionUpdate struct {
	Status          SubmissionStatus
	TotalScore      float64
	SubmittedAt     *time.Time
	DurationSeconds *int
	UpdatedAt       time.Time
}

// AnswerRepository persists answers, one row per (submission, question).
type AnswerRepository interface {
	// Upsert writes answer text, selection and max score, leaving grading
	// fields untouched on an existing row, and returns the stored row.
	Upsert(ctx context.Context, answer *Answer) (*Answer, error)
	GetByID(ctx context.Context, id string) (*Answer, error)
	GetBySubmissionAndQuestion(ctx context.Context, submissionID, questionID string) (*Answer, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]*Answer, error)
	UpdateGrade(ctx context.Context, id string, grade AnswerGrade) error
}

// AnswerGrade is the grading part of an answer.
type AnswerGrade struct {
	Score            float64
	Feedback         string
	IsAutoGraded     bool
	IsManuallyGraded bool
	UpdatedAt        time.Time
}

// ExamRepository reads exam definitions owned by the authoring side.
type ExamRepository interface {
	GetExamByID(ctx context.Context, id string) (*Exam, error)
	// ListExamQuestions returns the exam's questions in order, each with its
	// Question populated.
	ListExamQuestions(ctx context.Context, examID string) ([]*ExamQuestion, error)
}

type AssignmentRepository interface {
	GetAssignmentByID(ctx context.Context, id string) (*ExamAssignment, error)
}

// ClassDirectory answers class membership questions.
type ClassDirectory interface {
	IsMember(ctx context.Context, classID, studentID string) (bool, error)
	IsTeacher(ctx context.Context, classID, teacherID string) (bool, error)
}

type ContestParticipationRepository interface {
	FindByContestAndStudent(ctx context.Context, contestID, studentID string) (*ContestParticipation, error)
	// AddExamScore records examID as completed, once, and adds score to the total.
	AddExamScore(ctx context.Context, participationID, examID string, score float64) error
}

// TransactionManager runs fn in a transaction carried by the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
