package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"examhub/internal/domain"
	"examhub/internal/repository/models"
	"examhub/internal/util"

	"github.com/jmoiron/sqlx"
)

const answerColumns = `id, submission_id, question_id, answer_text, selected_options, score, max_score,
	feedback, is_auto_graded, is_manually_graded, created_at, updated_at`

// The matched branch leaves score, feedback and grading flags alone.
const upsertAnswerQuery = `MERGE INTO exam_answers t
USING (SELECT :1 AS submission_id, :2 AS question_id FROM dual) s
ON (t.submission_id = s.submission_id AND t.question_id = s.question_id)
WHEN MATCHED THEN UPDATE SET
	t.answer_text = :3,
	t.selected_options = :4,
	t.max_score = :5,
	t.updated_at = :6
WHEN NOT MATCHED THEN INSERT (
	id, submission_id, question_id, answer_text, selected_options, score, max_score,
	feedback, is_auto_graded, is_manually_graded, created_at, updated_at
) VALUES (
	:7, :8, :9, :10, :11, 0, :12, NULL, 0, 0, :13, :14
)`

type sqlxAnswerRepository struct {
	db *sqlx.DB
}

// NewSQLXAnswerRepository creates a domain.AnswerRepository backed by EXAM_ANSWERS.
func NewSQLXAnswerRepository(db *sqlx.DB) domain.AnswerRepository {
	return &sqlxAnswerRepository{db: db}
}

func (r *sqlxAnswerRepository) Upsert(ctx context.Context, answer *domain.Answer) (*domain.Answer, error) {
	selected, err := encodeSelection(answer.SelectedOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selected options: %w", err)
	}

	now := answer.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}
	id := answer.ID
	if id == "" {
		id = util.NewULID()
	}
	text := util.StringToNullString(answer.AnswerText)

	exec := GetExecutor(ctx, r.db)
	args := []interface{}{
		answer.SubmissionID, answer.QuestionID,
		text, selected, answer.MaxScore, now,
		id, answer.SubmissionID, answer.QuestionID, text, selected, answer.MaxScore, now, now,
	}
	_, err = exec.ExecContext(ctx, upsertAnswerQuery, args...)
	if err != nil && isUniqueViolation(err) {
		// A concurrent save inserted the row first; the retry takes the matched branch.
		_, err = exec.ExecContext(ctx, upsertAnswerQuery, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert answer for question %s: %w", answer.QuestionID, err)
	}

	saved, err := r.GetBySubmissionAndQuestion(ctx, answer.SubmissionID, answer.QuestionID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("answer for question %s missing after upsert", answer.QuestionID)
	}
	return saved, nil
}

func (r *sqlxAnswerRepository) GetByID(ctx context.Context, id string) (*domain.Answer, error) {
	var m models.Answer
	query := `SELECT ` + answerColumns + ` FROM exam_answers WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get answer %s: %w", id, err)
	}
	return toDomainAnswer(&m)
}

func (r *sqlxAnswerRepository) GetBySubmissionAndQuestion(ctx context.Context, submissionID, questionID string) (*domain.Answer, error) {
	var m models.Answer
	query := `SELECT ` + answerColumns + ` FROM exam_answers WHERE submission_id = :1 AND question_id = :2`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, submissionID, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get answer for question %s: %w", questionID, err)
	}
	return toDomainAnswer(&m)
}

func (r *sqlxAnswerRepository) ListBySubmission(ctx context.Context, submissionID string) ([]*domain.Answer, error) {
	var rows []models.Answer
	query := `SELECT ` + answerColumns + ` FROM exam_answers WHERE submission_id = :1 ORDER BY created_at ASC, id ASC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, submissionID); err != nil {
		return nil, fmt.Errorf("failed to list answers for submission %s: %w", submissionID, err)
	}

	answers := make([]*domain.Answer, 0, len(rows))
	for i := range rows {
		a, err := toDomainAnswer(&rows[i])
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (r *sqlxAnswerRepository) UpdateGrade(ctx context.Context, id string, grade domain.AnswerGrade) error {
	query := `UPDATE exam_answers
	SET score = :1, feedback = :2, is_auto_graded = :3, is_manually_graded = :4, updated_at = :5
	WHERE id = :6`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		grade.Score,
		util.StringToNullString(grade.Feedback),
		util.BoolToNumber(grade.IsAutoGraded),
		util.BoolToNumber(grade.IsManuallyGraded),
		grade.UpdatedAt,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update grade for answer %s: %w", id, err)
	}
	return nil
}

func encodeSelection(sel domain.Selection) (sql.NullString, error) {
	if sel.IsEmpty() {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(sel)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func toDomainAnswer(m *models.Answer) (*domain.Answer, error) {
	a := &domain.Answer{
		ID:               m.ID,
		SubmissionID:     m.SubmissionID,
		QuestionID:       m.QuestionID,
		AnswerText:       m.AnswerText.String,
		Score:            m.Score,
		MaxScore:         m.MaxScore,
		Feedback:         m.Feedback.String,
		IsAutoGraded:     m.IsAutoGraded != 0,
		IsManuallyGraded: m.IsManuallyGraded != 0,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.SelectedOptions.Valid && m.SelectedOptions.String != "" {
		if err := json.Unmarshal([]byte(m.SelectedOptions.String), &a.SelectedOptions); err != nil {
			return nil, fmt.Errorf("failed to decode selected options of answer %s: %w", m.ID, err)
		}
	}
	return a, nil
}
