package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"examhub/internal/domain"
	"examhub/internal/logger"
	"examhub/internal/repository/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type sqlxExamRepository struct {
	db *sqlx.DB
}

// NewSQLXExamRepository creates a read-only domain.ExamRepository.
func NewSQLXExamRepository(db *sqlx.DB) domain.ExamRepository {
	return &sqlxExamRepository{db: db}
}

func (r *sqlxExamRepository) GetExamByID(ctx context.Context, id string) (*domain.Exam, error) {
	var m models.Exam
	query := `SELECT id, title, description, subject, duration_minutes, exam_mode, shuffle_questions,
		total_questions, total_points, is_published, created_by, created_at, updated_at
	FROM exams WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam %s: %w", id, err)
	}
	return toDomainExam(&m), nil
}

func (r *sqlxExamRepository) ListExamQuestions(ctx context.Context, examID string) ([]*domain.ExamQuestion, error) {
	var rows []models.ExamQuestion
	query := `SELECT eq.id, eq.exam_id, eq.question_id, eq.question_order, eq.max_score, eq.section_label,
		q.question_type, q.content, q.options_json, q.correct_answer, q.explanation, q.points
	FROM exam_questions eq
	JOIN questions q ON q.id = eq.question_id
	WHERE eq.exam_id = :1
	ORDER BY eq.question_order ASC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, examID); err != nil {
		return nil, fmt.Errorf("failed to list questions of exam %s: %w", examID, err)
	}

	out := make([]*domain.ExamQuestion, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainExamQuestion(&rows[i]))
	}
	return out, nil
}

func toDomainExam(m *models.Exam) *domain.Exam {
	return &domain.Exam{
		ID:               m.ID,
		Title:            m.Title,
		Description:      m.Description.String,
		Subject:          m.Subject.String,
		DurationMinutes:  m.DurationMinutes,
		Mode:             domain.ExamMode(m.Mode),
		ShuffleQuestions: m.ShuffleQuestions != 0,
		TotalQuestions:   m.TotalQuestions,
		TotalPoints:      m.TotalPoints,
		IsPublished:      m.IsPublished != 0,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// toDomainExamQuestion leaves Key nil when the stored answer cannot be
// decoded; the grader then routes the answer to manual grading.
func toDomainExamQuestion(m *models.ExamQuestion) *domain.ExamQuestion {
	qType := domain.QuestionType(m.QuestionType)
	key, err := domain.DecodeAnswerKey(qType, []byte(m.CorrectAnswer.String))
	if err != nil {
		logger.Get().Warn("Undecodable correct answer",
			zap.String("question_id", m.QuestionID),
			zap.String("question_type", m.QuestionType),
			zap.Error(err),
		)
		key = nil
	}

	return &domain.ExamQuestion{
		ID:         m.ID,
		ExamID:     m.ExamID,
		QuestionID: m.QuestionID,
		Order:      m.QuestionOrder,
		MaxScore:   m.MaxScore,
		Section:    m.SectionLabel.String,
		Question: &domain.Question{
			ID:          m.QuestionID,
			Type:        qType,
			Content:     m.Content,
			Options:     []string(m.Options),
			Key:         key,
			Explanation: m.Explanation.String,
			Points:      m.Points,
		},
	}
}
