package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"examhub/internal/domain"
	"examhub/internal/util"

	"github.com/stretchr/testify/mock"
)

// --- fakeSubmissionRepository ---
// Enforces the same uniqueness rules as the Oracle indexes.
type fakeSubmissionRepository struct {
	mu   sync.Mutex
	rows map[string]*domain.Submission

	touched map[string]time.Time
}

func newFakeSubmissionRepository() *fakeSubmissionRepository {
	return &fakeSubmissionRepository{
		rows:    make(map[string]*domain.Submission),
		touched: make(map[string]time.Time),
	}
}

func (f *fakeSubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := s.Scope.Key(s.ExamID)
	for _, row := range f.rows {
		if row.StudentID != s.StudentID || row.Scope.Key(row.ExamID) != key {
			continue
		}
		if row.Status == domain.StatusInProgress && s.Status == domain.StatusInProgress && row.ExamID == s.ExamID {
			return domain.NewConflictError("an attempt for this exam is already in progress", nil)
		}
		if row.AttemptNumber == s.AttemptNumber {
			return domain.NewConflictError("an attempt for this exam is already in progress", nil)
		}
	}
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeSubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeSubmissionRepository) FindInProgress(ctx context.Context, examID, studentID, scopeKey string) (*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found *domain.Submission
	for _, row := range f.rows {
		if row.ExamID == examID && row.StudentID == studentID && row.Scope.Key(row.ExamID) == scopeKey &&
			row.Status == domain.StatusInProgress {
			if found == nil || row.StartedAt.After(found.StartedAt) {
				found = row
			}
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (f *fakeSubmissionRepository) CountAttempts(ctx context.Context, studentID, scopeKey string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, row := range f.rows {
		if row.StudentID == studentID && row.Scope.Key(row.ExamID) == scopeKey {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubmissionRepository) ListByStudentAndExam(ctx context.Context, studentID, examID, assignmentID string) ([]*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Submission
	for _, row := range f.rows {
		if row.StudentID != studentID || row.ExamID != examID {
			continue
		}
		if assignmentID != "" && row.Scope.AssignmentID() != assignmentID {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptNumber > out[j].AttemptNumber })
	return out, nil
}

func (f *fakeSubmissionRepository) ListInProgressByStudent(ctx context.Context, studentID string) ([]*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Submission
	for _, row := range f.rows {
		if row.StudentID == studentID && row.Status == domain.StatusInProgress {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (f *fakeSubmissionRepository) UpdateStatus(ctx context.Context, id string, expected domain.SubmissionStatus, u domain.SubmissionUpdate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !expected.CanTransitionTo(u.Status) {
		return false, domain.NewInvalidStateError("illegal status transition")
	}
	row, ok := f.rows[id]
	if !ok || row.Status != expected {
		return false, nil
	}
	total := u.TotalScore
	row.Status = u.Status
	row.TotalScore = &total
	if u.SubmittedAt != nil {
		at := *u.SubmittedAt
		row.SubmittedAt = &at
	}
	if u.DurationSeconds != nil {
		d := *u.DurationSeconds
		row.DurationSeconds = &d
	}
	row.UpdatedAt = u.UpdatedAt
	return true, nil
}

func (f *fakeSubmissionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok {
		row.UpdatedAt = at
		f.touched[id] = at
	}
	return nil
}

func (f *fakeSubmissionRepository) countInProgress(studentID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, row := range f.rows {
		if row.StudentID == studentID && row.Status == domain.StatusInProgress {
			n++
		}
	}
	return n
}

// --- fakeAnswerRepository ---
type fakeAnswerRepository struct {
	mu    sync.Mutex
	rows  map[string]*domain.Answer
	order []string
	seq   int
}

func newFakeAnswerRepository() *fakeAnswerRepository {
	return &fakeAnswerRepository{rows: make(map[string]*domain.Answer)}
}

func (f *fakeAnswerRepository) find(submissionID, questionID string) *domain.Answer {
	for _, id := range f.order {
		a := f.rows[id]
		if a.SubmissionID == submissionID && a.QuestionID == questionID {
			return a
		}
	}
	return nil
}

func (f *fakeAnswerRepository) Upsert(ctx context.Context, a *domain.Answer) (*domain.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row := f.find(a.SubmissionID, a.QuestionID); row != nil {
		row.AnswerText = a.AnswerText
		row.SelectedOptions = a.SelectedOptions
		row.MaxScore = a.MaxScore
		row.UpdatedAt = a.UpdatedAt
		cp := *row
		return &cp, nil
	}
	f.seq++
	row := *a
	row.ID = util.NewULID()
	row.CreatedAt = a.UpdatedAt.Add(time.Duration(f.seq))
	f.rows[row.ID] = &row
	f.order = append(f.order, row.ID)
	cp := row
	return &cp, nil
}

func (f *fakeAnswerRepository) GetByID(ctx context.Context, id string) (*domain.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeAnswerRepository) GetBySubmissionAndQuestion(ctx context.Context, submissionID, questionID string) (*domain.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := f.find(submissionID, questionID)
	if row == nil {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeAnswerRepository) ListBySubmission(ctx context.Context, submissionID string) ([]*domain.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Answer
	for _, id := range f.order {
		if a := f.rows[id]; a.SubmissionID == submissionID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAnswerRepository) UpdateGrade(ctx context.Context, id string, g domain.AnswerGrade) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok {
		row.Score = g.Score
		row.Feedback = g.Feedback
		row.IsAutoGraded = g.IsAutoGraded
		row.IsManuallyGraded = g.IsManuallyGraded
		row.UpdatedAt = g.UpdatedAt
	}
	return nil
}

// --- fakeExamRepository ---
type fakeExamRepository struct {
	exams     map[string]*domain.Exam
	questions map[string][]*domain.ExamQuestion
}

func (f *fakeExamRepository) GetExamByID(ctx context.Context, id string) (*domain.Exam, error) {
	return f.exams[id], nil
}

func (f *fakeExamRepository) ListExamQuestions(ctx context.Context, examID string) ([]*domain.ExamQuestion, error) {
	return f.questions[examID], nil
}

// --- fakeAssignmentRepository ---
type fakeAssignmentRepository struct {
	assignments map[string]*domain.ExamAssignment
}

func (f *fakeAssignmentRepository) GetAssignmentByID(ctx context.Context, id string) (*domain.ExamAssignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// --- fakeClassDirectory ---
type fakeClassDirectory struct {
	members  map[string][]string
	teachers map[string][]string
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (f *fakeClassDirectory) IsMember(ctx context.Context, classID, studentID string) (bool, error) {
	return contains(f.members[classID], studentID), nil
}

func (f *fakeClassDirectory) IsTeacher(ctx context.Context, classID, teacherID string) (bool, error) {
	return contains(f.teachers[classID], teacherID), nil
}

// --- fakeTransactionManager ---
type fakeTransactionManager struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(ctx)
}

// --- MockContestNotifier ---
type MockContestNotifier struct {
	mock.Mock
}

func (m *MockContestNotifier) NotifyExamScore(ctx context.Context, contestID, studentID, examID string, score float64) domain.NotifyOutcome {
	args := m.Called(ctx, contestID, studentID, examID, score)
	return args.Get(0).(domain.NotifyOutcome)
}

// --- MockContestParticipationRepository ---
type MockContestParticipationRepository struct {
	mock.Mock
}

func (m *MockContestParticipationRepository) FindByContestAndStudent(ctx context.Context, contestID, studentID string) (*domain.ContestParticipation, error) {
	args := m.Called(ctx, contestID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContestParticipation), args.Error(1)
}

func (m *MockContestParticipationRepository) AddExamScore(ctx context.Context, participationID, examID string, score float64) error {
	args := m.Called(ctx, participationID, examID, score)
	return args.Error(0)
}

// --- MockExamRepository ---
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) GetExamByID(ctx context.Context, id string) (*domain.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exam), args.Error(1)
}

func (m *MockExamRepository) ListExamQuestions(ctx context.Context, examID string) ([]*domain.ExamQuestion, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExamQuestion), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
