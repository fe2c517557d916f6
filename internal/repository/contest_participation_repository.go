package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"examhub/internal/domain"
	"examhub/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const participationColumns = `id, contest_id, student_id, completed_exams, total_score, updated_at`

type sqlxContestParticipationRepository struct {
	db *sqlx.DB
}

func NewSQLXContestParticipationRepository(db *sqlx.DB) domain.ContestParticipationRepository {
	return &sqlxContestParticipationRepository{db: db}
}

func (r *sqlxContestParticipationRepository) FindByContestAndStudent(ctx context.Context, contestID, studentID string) (*domain.ContestParticipation, error) {
	var m models.ContestParticipation
	query := `SELECT ` + participationColumns + ` FROM contest_participations WHERE contest_id = :1 AND student_id = :2`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, contestID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find participation in contest %s: %w", contestID, err)
	}
	return toDomainParticipation(&m), nil
}

// AddExamScore locks the row, so callers should run it inside a transaction.
func (r *sqlxContestParticipationRepository) AddExamScore(ctx context.Context, participationID, examID string, score float64) error {
	exec := GetExecutor(ctx, r.db)

	var m models.ContestParticipation
	query := `SELECT ` + participationColumns + ` FROM contest_participations WHERE id = :1 FOR UPDATE`
	if err := exec.GetContext(ctx, &m, query, participationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("Contest participation not found").WithContext("participation_id", participationID)
		}
		return fmt.Errorf("failed to lock participation %s: %w", participationID, err)
	}

	p := toDomainParticipation(&m)
	completed := models.StringSlice(p.CompletedExams)
	if !p.HasCompleted(examID) {
		completed = append(completed, examID)
	}

	_, err := exec.ExecContext(ctx,
		`UPDATE contest_participations SET completed_exams = :1, total_score = total_score + :2, updated_at = :3 WHERE id = :4`,
		completed, score, time.Now(), participationID,
	)
	if err != nil {
		return fmt.Errorf("failed to add exam score to participation %s: %w", participationID, err)
	}
	return nil
}

func toDomainParticipation(m *models.ContestParticipation) *domain.ContestParticipation {
	return &domain.ContestParticipation{
		ID:             m.ID,
		ContestID:      m.ContestID,
		StudentID:      m.StudentID,
		CompletedExams: []string(m.CompletedExams),
		TotalScore:     m.TotalScore,
		UpdatedAt:      m.UpdatedAt,
	}
}
