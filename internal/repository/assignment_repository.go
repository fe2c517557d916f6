package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"examhub/internal/domain"
	"examhub/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

type sqlxAssignmentRepository struct {
	db *sqlx.DB
}

func NewSQLXAssignmentRepository(db *sqlx.DB) domain.AssignmentRepository {
	return &sqlxAssignmentRepository{db: db}
}

func (r *sqlxAssignmentRepository) GetAssignmentByID(ctx context.Context, id string) (*domain.ExamAssignment, error) {
	var m models.ExamAssignment
	query := `SELECT id, exam_id, class_id, start_time, end_time, max_attempts, allow_late_submission,
		shuffle_questions, created_at
	FROM exam_assignments WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment %s: %w", id, err)
	}
	return &domain.ExamAssignment{
		ID:                  m.ID,
		ExamID:              m.ExamID,
		ClassID:             m.ClassID,
		StartTime:           m.StartTime,
		EndTime:             m.EndTime,
		MaxAttempts:         m.MaxAttempts,
		AllowLateSubmission: m.AllowLateSubmission != 0,
		ShuffleQuestions:    m.ShuffleQuestions != 0,
		CreatedAt:           m.CreatedAt,
	}, nil
}
