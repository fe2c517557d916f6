package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"examhub/internal/domain"
	"examhub/internal/repository/models"
	"examhub/internal/util"

	"github.com/jmoiron/sqlx"
)

const submissionColumns = `id, exam_id, student_id, assignment_id, contest_id, scope_key, status,
	max_score, total_score, attempt_number, started_at, submitted_at, duration_seconds,
	created_at, updated_at`

type sqlxSubmissionRepository struct {
	db *sqlx.DB
}

// NewSQLXSubmissionRepository creates a domain.SubmissionRepository backed by EXAM_SUBMISSIONS.
func NewSQLXSubmissionRepository(db *sqlx.DB) domain.SubmissionRepository {
	return &sqlxSubmissionRepository{db: db}
}

func (r *sqlxSubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	m := toModelSubmission(submission)
	query := `INSERT INTO exam_submissions (` + submissionColumns + `)
	VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13, :14, :15)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.ExamID, m.StudentID, m.AssignmentID, m.ContestID, m.ScopeKey, m.Status,
		m.MaxScore, m.TotalScore, m.AttemptNumber, m.StartedAt, m.SubmittedAt, m.DurationSeconds,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("an attempt for this exam is already in progress", err).
				WithContext("scope", m.ScopeKey)
		}
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *sqlxSubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	var m models.Submission
	query := `SELECT ` + submissionColumns + ` FROM exam_submissions WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission %s: %w", id, err)
	}
	return toDomainSubmission(&m), nil
}

func (r *sqlxSubmissionRepository) FindInProgress(ctx context.Context, examID, studentID, scopeKey string) (*domain.Submission, error) {
	var m models.Submission
	query := `SELECT ` + submissionColumns + ` FROM exam_submissions
	WHERE exam_id = :1 AND student_id = :2 AND scope_key = :3 AND status = :4
	ORDER BY started_at DESC
	FETCH FIRST 1 ROWS ONLY`
	err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, examID, studentID, scopeKey, string(domain.StatusInProgress))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find in-progress submission: %w", err)
	}
	return toDomainSubmission(&m), nil
}

func (r *sqlxSubmissionRepository) CountAttempts(ctx context.Context, studentID, scopeKey string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM exam_submissions WHERE student_id = :1 AND scope_key = :2`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &count, query, studentID, scopeKey); err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return count, nil
}

func (r *sqlxSubmissionRepository) ListByStudentAndExam(ctx context.Context, studentID, examID, assignmentID string) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM exam_submissions WHERE student_id = :1 AND exam_id = :2`
	args := []interface{}{studentID, examID}
	if assignmentID != "" {
		query += ` AND assignment_id = :3`
		args = append(args, assignmentID)
	}
	query += ` ORDER BY attempt_number DESC, started_at DESC`

	var rows []models.Submission
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return toDomainSubmissions(rows), nil
}

func (r *sqlxSubmissionRepository) ListInProgressByStudent(ctx context.Context, studentID string) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM exam_submissions
	WHERE student_id = :1 AND status = :2
	ORDER BY started_at DESC`

	var rows []models.Submission
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, studentID, string(domain.StatusInProgress)); err != nil {
		return nil, fmt.Errorf("failed to list active submissions: %w", err)
	}
	return toDomainSubmissions(rows), nil
}

// UpdateStatus only touches submitted_at and duration_seconds when they are
// given, so a re-grade keeps the original submit time.
func (r *sqlxSubmissionRepository) UpdateStatus(ctx context.Context, id string, expected domain.SubmissionStatus, update domain.SubmissionUpdate) (bool, error) {
	if !expected.CanTransitionTo(update.Status) {
		return false, domain.NewInvalidStateError(fmt.Sprintf("Cannot move submission from %s to %s", expected, update.Status))
	}

	sets := []string{"status = :1", "total_score = :2"}
	args := []interface{}{string(update.Status), update.TotalScore}
	next := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = :%d", column, len(args)))
	}
	if update.SubmittedAt != nil {
		next("submitted_at", *update.SubmittedAt)
	}
	if update.DurationSeconds != nil {
		next("duration_seconds", *update.DurationSeconds)
	}
	next("updated_at", update.UpdatedAt)

	args = append(args, id, string(expected))
	query := fmt.Sprintf(`UPDATE exam_submissions SET %s WHERE id = :%d AND status = :%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update submission %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for submission %s: %w", id, err)
	}
	return n > 0, nil
}

func (r *sqlxSubmissionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, `UPDATE exam_submissions SET updated_at = :1 WHERE id = :2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to touch submission %s: %w", id, err)
	}
	return nil
}

func toModelSubmission(s *domain.Submission) *models.Submission {
	return &models.Submission{
		ID:              s.ID,
		ExamID:          s.ExamID,
		StudentID:       s.StudentID,
		AssignmentID:    util.StringToNullString(s.Scope.AssignmentID()),
		ContestID:       util.StringToNullString(s.Scope.ContestID()),
		ScopeKey:        s.Scope.Key(s.ExamID),
		Status:          string(s.Status),
		MaxScore:        s.MaxScore,
		TotalScore:      util.FloatPtrToNullFloat(s.TotalScore),
		AttemptNumber:   s.AttemptNumber,
		StartedAt:       s.StartedAt,
		SubmittedAt:     util.TimePtrToNullTime(s.SubmittedAt),
		DurationSeconds: util.IntPtrToNullInt(s.DurationSeconds),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toDomainSubmission(m *models.Submission) *domain.Submission {
	if m == nil {
		return nil
	}
	var scope domain.Scope
	switch {
	case m.AssignmentID.Valid:
		scope = domain.AssignmentScope(m.AssignmentID.String)
	case m.ContestID.Valid:
		scope = domain.ContestScope(m.ContestID.String)
	default:
		scope = domain.StandaloneScope()
	}
	return &domain.Submission{
		ID:              m.ID,
		ExamID:          m.ExamID,
		StudentID:       m.StudentID,
		Scope:           scope,
		Status:          domain.SubmissionStatus(m.Status),
		MaxScore:        m.MaxScore,
		TotalScore:      util.NullFloatToPtr(m.TotalScore),
		AttemptNumber:   m.AttemptNumber,
		StartedAt:       m.StartedAt,
		SubmittedAt:     util.NullTimeToPtr(m.SubmittedAt),
		DurationSeconds: util.NullIntToPtr(m.DurationSeconds),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toDomainSubmissions(rows []models.Submission) []*domain.Submission {
	out := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainSubmission(&rows[i]))
	}
	return out
}
