package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"examhub/internal/cache"
	"examhub/internal/domain"
	"examhub/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultExamQuestionsTTL = 10 * time.Minute

// ExamCatalog reads exams and their question sets for the submission flow.
type ExamCatalog interface {
	// GetExam fails with NOT_FOUND when the exam does not exist.
	GetExam(ctx context.Context, examID string) (*domain.Exam, error)
	// GetExamQuestions returns the ordered question set with answer keys.
	GetExamQuestions(ctx context.Context, examID string) ([]*domain.ExamQuestion, error)
}

// cachedExamQuestion is the Redis form of a domain.ExamQuestion. The answer
// key is kept in its stored JSON shape; HasKey distinguishes a missing key
// from an encoded null.
type cachedExamQuestion struct {
	ID          string          `json:"id"`
	ExamID      string          `json:"exam_id"`
	QuestionID  string          `json:"question_id"`
	Order       int             `json:"order"`
	MaxScore    float64         `json:"max_score"`
	Section     string          `json:"section,omitempty"`
	Type        string          `json:"type"`
	Content     string          `json:"content"`
	Options     []string        `json:"options,omitempty"`
	HasKey      bool            `json:"has_key"`
	Key         json.RawMessage `json:"key,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
	Points      float64         `json:"points"`
}

type examCatalog struct {
	exams domain.ExamRepository
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewExamCatalog creates a read-through catalog. A nil cache reads the store
// every time.
func NewExamCatalog(exams domain.ExamRepository, c domain.Cache, ttl time.Duration) ExamCatalog {
	if ttl <= 0 {
		ttl = DefaultExamQuestionsTTL
	}
	return &examCatalog{exams: exams, cache: c, ttl: ttl}
}

func (s *examCatalog) GetExam(ctx context.Context, examID string) (*domain.Exam, error) {
	exam, err := s.exams.GetExamByID(ctx, examID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load exam", err)
	}
	if exam == nil {
		return nil, domain.NewExamNotFoundError(examID)
	}
	return exam, nil
}

func (s *examCatalog) GetExamQuestions(ctx context.Context, examID string) ([]*domain.ExamQuestion, error) {
	key := cache.ExamQuestionsKey(examID)

	if questions, ok := s.readCache(ctx, key, examID); ok {
		return questions, nil
	}

	// Submissions at the end of an exam window all miss at once. The load
	// serves every waiter, so it must outlive the caller that started it.
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		questions, err := s.exams.ListExamQuestions(loadCtx, examID)
		if err != nil {
			return nil, err
		}
		s.writeCache(loadCtx, key, examID, questions)
		return questions, nil
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to load exam questions", err)
	}
	if shared {
		logger.Get().Debug("ExamCatalog: shared question load", zap.String("exam_id", examID))
	}
	return v.([]*domain.ExamQuestion), nil
}

func (s *examCatalog) readCache(ctx context.Context, key, examID string) ([]*domain.ExamQuestion, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("ExamCatalog: cache read failed, falling back to store",
				zap.Error(err), zap.String("exam_id", examID))
		}
		return nil, false
	}

	var entries []cachedExamQuestion
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Get().Warn("ExamCatalog: discarding unreadable cache entry",
			zap.Error(err), zap.String("exam_id", examID))
		return nil, false
	}

	questions := make([]*domain.ExamQuestion, 0, len(entries))
	for _, e := range entries {
		q, err := e.toDomain()
		if err != nil {
			logger.Get().Warn("ExamCatalog: discarding unreadable cache entry",
				zap.Error(err), zap.String("exam_id", examID))
			return nil, false
		}
		questions = append(questions, q)
	}
	logger.Get().Debug("ExamCatalog: cache hit", zap.String("exam_id", examID), zap.Int("questions", len(questions)))
	return questions, true
}

func (s *examCatalog) writeCache(ctx context.Context, key, examID string, questions []*domain.ExamQuestion) {
	if s.cache == nil {
		return
	}
	entries := make([]cachedExamQuestion, 0, len(questions))
	for _, eq := range questions {
		e, err := newCachedExamQuestion(eq)
		if err != nil {
			logger.Get().Warn("ExamCatalog: question set not cached", zap.Error(err), zap.String("exam_id", examID))
			return
		}
		entries = append(entries, e)
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		logger.Get().Warn("ExamCatalog: question set not cached", zap.Error(err), zap.String("exam_id", examID))
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		logger.Get().Warn("ExamCatalog: cache write failed", zap.Error(err), zap.String("exam_id", examID))
	}
}

func newCachedExamQuestion(eq *domain.ExamQuestion) (cachedExamQuestion, error) {
	e := cachedExamQuestion{
		ID:         eq.ID,
		ExamID:     eq.ExamID,
		QuestionID: eq.QuestionID,
		Order:      eq.Order,
		MaxScore:   eq.MaxScore,
		Section:    eq.Section,
	}
	q := eq.Question
	if q == nil {
		return e, nil
	}
	e.Type = string(q.Type)
	e.Content = q.Content
	e.Options = q.Options
	e.Explanation = q.Explanation
	e.Points = q.Points
	if q.Key != nil {
		raw, err := domain.EncodeAnswerKey(q.Key)
		if err != nil {
			return e, err
		}
		e.HasKey = true
		e.Key = raw
	}
	return e, nil
}

func (e cachedExamQuestion) toDomain() (*domain.ExamQuestion, error) {
	eq := &domain.ExamQuestion{
		ID:         e.ID,
		ExamID:     e.ExamID,
		QuestionID: e.QuestionID,
		Order:      e.Order,
		MaxScore:   e.MaxScore,
		Section:    e.Section,
	}
	if e.Type == "" {
		return eq, nil
	}
	q := &domain.Question{
		ID:          e.QuestionID,
		Type:        domain.QuestionType(e.Type),
		Content:     e.Content,
		Options:     e.Options,
		Explanation: e.Explanation,
		Points:      e.Points,
	}
	if e.HasKey {
		key, err := domain.DecodeAnswerKey(q.Type, e.Key)
		if err != nil {
			return nil, err
		}
		q.Key = key
	}
	eq.Question = q
	return eq, nil
}
