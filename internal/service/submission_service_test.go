package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"examhub/internal/config"
	"examhub/internal/domain"
	"examhub/internal/dto"
	"examhub/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		fmt.Printf("Failed to initialize logger for tests: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = logger.Sync()
	os.Exit(code)
}

const (
	examID      = "exam-1"
	ownerID     = "teacher-1"
	classTeach  = "teacher-2"
	studentID   = "student-1"
	otherID     = "student-2"
	assignID    = "asg-1"
	classID     = "class-1"
	contestID   = "contest-1"
	questionMC  = "q-mc"
	questionTF  = "q-tf"
	questionSA  = "q-sa"
	questionEss = "q-essay"
)

type testEnv struct {
	submissions *fakeSubmissionRepository
	answers     *fakeAnswerRepository
	exams       *fakeExamRepository
	assignments *fakeAssignmentRepository
	classes     *fakeClassDirectory
	tx          *fakeTransactionManager
	notifier    *MockContestNotifier

	mu  sync.Mutex
	now time.Time
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
}

func (e *testEnv) service(openReview bool) SubmissionService {
	return NewSubmissionService(SubmissionServiceDeps{
		Submissions: e.submissions,
		Answers:     e.answers,
		Assignments: e.assignments,
		Classes:     e.classes,
		Catalog:     NewExamCatalog(e.exams, nil, 0),
		Grader:      domain.NewAutoGrader(),
		Notifier:    e.notifier,
		TxManager:   e.tx,
		Clock:       e.clock,
		OpenReview:  openReview,
	})
}

func newTestEnv() *testEnv {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return &testEnv{
		now:         now,
		submissions: newFakeSubmissionRepository(),
		answers:     newFakeAnswerRepository(),
		exams: &fakeExamRepository{
			exams: map[string]*domain.Exam{
				examID: {ID: examID, Title: "Algebra midterm", DurationMinutes: 60, Mode: domain.ExamMode("practice"), CreatedBy: ownerID},
			},
			questions: map[string][]*domain.ExamQuestion{
				examID: {
					{ID: "eq1", ExamID: examID, QuestionID: questionMC, Order: 1, MaxScore: 2, Question: &domain.Question{
						ID: questionMC, Type: domain.QuestionTypeMultipleChoice, Options: []string{"A", "B", "C"},
						Key: domain.MultipleChoiceKey{Correct: "B"}, Explanation: "B is right",
					}},
					{ID: "eq2", ExamID: examID, QuestionID: questionTF, Order: 2, MaxScore: 4, Question: &domain.Question{
						ID: questionTF, Type: domain.QuestionTypeTrueFalse,
						Key: domain.TrueFalseStructuredKey{Correct: map[string]bool{"a": true, "b": false, "c": true, "d": false}},
					}},
					{ID: "eq3", ExamID: examID, QuestionID: questionSA, Order: 3, MaxScore: 1, Question: &domain.Question{
						ID: questionSA, Type: domain.QuestionTypeShortAnswer, Key: domain.ShortAnswerKey{Correct: "42"},
					}},
					{ID: "eq4", ExamID: examID, QuestionID: questionEss, Order: 4, MaxScore: 5, Question: &domain.Question{
						ID: questionEss, Type: domain.QuestionTypeEssay, Key: domain.EssayKey{},
					}},
				},
			},
		},
		assignments: &fakeAssignmentRepository{assignments: map[string]*domain.ExamAssignment{
			assignID: {
				ID: assignID, ExamID: examID, ClassID: classID,
				StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), MaxAttempts: 2,
			},
		}},
		classes: &fakeClassDirectory{
			members:  map[string][]string{classID: {studentID}},
			teachers: map[string][]string{classID: {classTeach}},
		},
		tx:       &fakeTransactionManager{},
		notifier: new(MockContestNotifier),
	}
}

func mcAnswer(option string) dto.AnswerInput {
	return dto.AnswerInput{QuestionID: questionMC, SelectedOptions: domain.Selection{Options: []string{option}}}
}

func fullCreditAnswers() []dto.AnswerInput {
	return []dto.AnswerInput{
		mcAnswer("B"),
		{QuestionID: questionTF, SelectedOptions: domain.Selection{Statements: map[string]string{"a": "true", "b": "true", "c": "true", "d": "false"}}},
		{QuestionID: questionSA, AnswerText: " 42 "},
		{QuestionID: questionEss, AnswerText: "a proof"},
	}
}

func start(t *testing.T, svc SubmissionService, req dto.CreateSubmissionRequest) *dto.CreateSubmissionResponse {
	t.Helper()
	resp, err := svc.CreateSubmission(context.Background(), studentID, &req)
	require.NoError(t, err)
	return resp
}

func TestCreateSubmission_Standalone(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)

	resp := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})
	assert.False(t, resp.Resumed)
	assert.Equal(t, string(domain.StatusInProgress), resp.Status)
	assert.Equal(t, 1, resp.AttemptNumber)
	assert.Equal(t, 12.0, resp.MaxScore)
	assert.Nil(t, resp.TotalScore)
	assert.Equal(t, env.now, resp.StartedAt)
}

func TestCreateSubmission_ResumeIsIdempotent(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)

	first := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID})
	env.advance(time.Minute)
	second := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID})

	assert.True(t, second.Resumed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.AttemptNumber, second.AttemptNumber)
	assert.Equal(t, 1, env.submissions.countInProgress(studentID))
}

func TestCreateSubmission_ScopesAreIndependent(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)

	a := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID})
	c := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, ContestID: contestID})
	s := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	assert.NotEqual(t, a.ID, c.ID)
	assert.NotEqual(t, c.ID, s.ID)
	assert.Equal(t, 1, c.AttemptNumber)
	assert.Equal(t, contestID, c.ContestID)
	assert.Equal(t, assignID, a.AssignmentID)
	assert.Equal(t, 3, env.submissions.countInProgress(studentID))
}

func TestCreateSubmission_AccessRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(env *testEnv)
		studentID string
		wantCode  domain.ErrorCode
		wantMsg   string
	}{
		{
			name:      "not started",
			mutate:    func(env *testEnv) { env.assignments.assignments[assignID].StartTime = env.now.Add(time.Minute) },
			studentID: studentID,
			wantCode:  domain.CodeForbidden,
			wantMsg:   ReasonNotStarted,
		},
		{
			name:      "ended",
			mutate:    func(env *testEnv) { env.assignments.assignments[assignID].EndTime = env.now.Add(-time.Second) },
			studentID: studentID,
			wantCode:  domain.CodeForbidden,
			wantMsg:   ReasonEnded,
		},
		{
			name:      "not a member",
			mutate:    func(env *testEnv) {},
			studentID: otherID,
			wantCode:  domain.CodeForbidden,
			wantMsg:   ReasonNotMember,
		},
		{
			name:      "unknown assignment",
			mutate:    func(env *testEnv) { delete(env.assignments.assignments, assignID) },
			studentID: studentID,
			wantCode:  domain.CodeNotFound,
		},
		{
			name:      "assignment for another exam",
			mutate:    func(env *testEnv) { env.assignments.assignments[assignID].ExamID = "exam-9" },
			studentID: studentID,
			wantCode:  domain.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tt.mutate(env)
			svc := env.service(true)

			_, err := svc.CreateSubmission(context.Background(), tt.studentID,
				&dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID})
			require.Error(t, err)
			assert.True(t, domain.IsCode(err, tt.wantCode), "got %v", err)
			if tt.wantMsg != "" {
				var de *domain.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.wantMsg, de.Message)
			}
			assert.Equal(t, 0, env.submissions.countInProgress(tt.studentID))
		})
	}
}

func TestCreateSubmission_LateSubmissionAllowed(t *testing.T) {
	env := newTestEnv()
	env.assignments.assignments[assignID].EndTime = env.now.Add(-time.Hour)
	env.assignments.assignments[assignID].AllowLateSubmission = true

	resp := start(t, env.service(true), dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID})
	assert.Equal(t, 1, resp.AttemptNumber)
}

func TestCreateSubmission_InvalidRequests(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)

	_, err := svc.CreateSubmission(context.Background(), studentID,
		&dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID, ContestID: contestID})
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))

	_, err = svc.CreateSubmission(context.Background(), studentID, &dto.CreateSubmissionRequest{ExamID: "missing"})
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestCreateSubmission_AttemptsIncreaseAndAreLimited(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	req := dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID}

	for attempt := 1; attempt <= 2; attempt++ {
		resp := start(t, svc, req)
		assert.Equal(t, attempt, resp.AttemptNumber)
		_, err := svc.SubmitExam(ctx, resp.ID, studentID, &dto.SubmitExamRequest{})
		require.NoError(t, err)
		env.advance(time.Minute)
	}

	_, err := svc.CreateSubmission(ctx, studentID, &req)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ReasonMaxAttemptsReached, de.Message)

	// Contest attempts are not limited.
	for attempt := 1; attempt <= 3; attempt++ {
		resp := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, ContestID: contestID})
		assert.Equal(t, attempt, resp.AttemptNumber)
		env.notifier.On("NotifyExamScore", mock.Anything, contestID, studentID, examID, mock.AnythingOfType("float64")).
			Return(domain.NotifyOutcome{Status: domain.NotifyOK}).Once()
		_, err := svc.SubmitExam(ctx, resp.ID, studentID, &dto.SubmitExamRequest{})
		require.NoError(t, err)
	}
}

func TestCreateSubmission_ConcurrentStartsLeaveOneAttempt(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)

	const workers = 16
	ids := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.CreateSubmission(context.Background(), studentID,
				&dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID})
			errs[i] = err
			if resp != nil {
				ids[i] = resp.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, env.submissions.countInProgress(studentID))
}

func TestSaveAnswer_RoundTrip(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	in := mcAnswer("A")
	saved, err := svc.SaveAnswer(ctx, sub.ID, studentID, &in)
	require.NoError(t, err)
	assert.Equal(t, 2.0, saved.MaxScore)
	assert.Equal(t, 0.0, saved.Score)

	in = mcAnswer("C")
	again, err := svc.SaveAnswer(ctx, sub.ID, studentID, &in)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)

	got, err := svc.GetSubmissionAnswers(ctx, sub.ID, studentID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, []string{"C"}, got.Answers[0].SelectedOptions.Options)
	assert.Equal(t, string(domain.StatusInProgress), got.Status)
}

func TestSaveAnswer_Errors(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	in := dto.AnswerInput{QuestionID: "not-in-exam", AnswerText: "x"}
	_, err := svc.SaveAnswer(ctx, sub.ID, studentID, &in)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	in = mcAnswer("A")
	_, err = svc.SaveAnswer(ctx, sub.ID, otherID, &in)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))

	_, err = svc.SaveAnswer(ctx, "no-such-submission", studentID, &in)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	_, err = svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{})
	require.NoError(t, err)
	_, err = svc.SaveAnswer(ctx, sub.ID, studentID, &in)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))
}

func TestAutoSaveAnswers(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})
	env.advance(30 * time.Second)

	resp, err := svc.AutoSaveAnswers(ctx, sub.ID, studentID, &dto.AutoSaveRequest{Answers: []dto.AnswerInput{
		mcAnswer("B"),
		{QuestionID: questionSA, AnswerText: "41"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SavedCount)
	assert.Equal(t, env.now, resp.LastSavedAt)
	assert.Equal(t, env.now, env.submissions.touched[sub.ID])
}

func TestAutoSaveAnswers_EmptyBatchRefreshesActivity(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})
	env.advance(time.Minute)

	resp, err := svc.AutoSaveAnswers(context.Background(), sub.ID, studentID, &dto.AutoSaveRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.SavedCount)
	assert.Equal(t, env.now, resp.LastSavedAt)
	assert.Equal(t, env.now, env.submissions.touched[sub.ID])
}

func TestAutoSaveAnswers_AbortsOnFirstFailure(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	_, err := svc.AutoSaveAnswers(ctx, sub.ID, studentID, &dto.AutoSaveRequest{Answers: []dto.AnswerInput{
		mcAnswer("B"),
		{QuestionID: "unknown"},
		{QuestionID: questionSA, AnswerText: "42"},
	}})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	got, err := svc.GetSubmissionAnswers(ctx, sub.ID, studentID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1, "answers before the failure stay saved")
	assert.Equal(t, questionMC, got.Answers[0].QuestionID)
	_, touched := env.submissions.touched[sub.ID]
	assert.False(t, touched)

	_, err = svc.AutoSaveAnswers(ctx, sub.ID, otherID, &dto.AutoSaveRequest{Answers: []dto.AnswerInput{mcAnswer("B")}})
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))
}

func TestSubmitExam_GradesAndRoutesManualAnswers(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})
	env.advance(10 * time.Minute)

	resp, err := svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{
		Answers:          fullCreditAnswers(),
		TimeSpentSeconds: 600,
	})
	require.NoError(t, err)

	// 2 (mc) + 3 (3/4 statements) + 1 (short answer) + 0 (essay)
	assert.Equal(t, 6.0, resp.TotalScore)
	assert.Equal(t, 12.0, resp.MaxScore)
	assert.Equal(t, string(domain.StatusSubmitted), resp.Status)
	assert.Equal(t, 3, resp.GradedAnswers)
	assert.Equal(t, 1, resp.PendingManualGrading)
	assert.Empty(t, resp.ContestSync)
	assert.Equal(t, env.now, resp.SubmittedAt)
	assert.Equal(t, 1, env.tx.calls)

	stored, _ := env.submissions.GetByID(ctx, sub.ID)
	require.NotNil(t, stored.TotalScore)
	assert.Equal(t, 6.0, *stored.TotalScore)
	require.NotNil(t, stored.DurationSeconds)
	assert.Equal(t, 600, *stored.DurationSeconds)
	assert.Equal(t, domain.StatusSubmitted, stored.Status)

	answers, err := svc.GetSubmissionAnswers(ctx, sub.ID, studentID)
	require.NoError(t, err)
	byQuestion := map[string]dto.AnswerResponse{}
	for _, a := range answers.Answers {
		byQuestion[a.QuestionID] = a
	}
	assert.Equal(t, domain.FeedbackCorrect, byQuestion[questionMC].Feedback)
	assert.Equal(t, "Partially correct. 3/4 options correct.", byQuestion[questionTF].Feedback)
	assert.True(t, byQuestion[questionSA].IsAutoGraded)
	assert.False(t, byQuestion[questionEss].IsAutoGraded)
	assert.Equal(t, domain.FeedbackPendingManual, byQuestion[questionEss].Feedback)

	env.notifier.AssertNotCalled(t, "NotifyExamScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitExam_AllAutoGradedIsGraded(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	resp, err := svc.SubmitExam(context.Background(), sub.ID, studentID, &dto.SubmitExamRequest{
		Answers: []dto.AnswerInput{mcAnswer("A")},
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusGraded), resp.Status)
	assert.Equal(t, 0.0, resp.TotalScore)
	assert.Equal(t, 1, resp.GradedAnswers)
}

func TestSubmitExam_IsNotReEnterable(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	_, err := svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{Answers: []dto.AnswerInput{mcAnswer("B")}})
	require.NoError(t, err)

	_, err = svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{Answers: []dto.AnswerInput{mcAnswer("C")}})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))

	_, err = svc.SubmitExam(ctx, sub.ID, otherID, &dto.SubmitExamRequest{})
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))
}

func TestSubmitExam_LosesRaceToConcurrentSubmit(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, domain.IsCode(err, domain.CodeInvalidState), "got %v", err)
	}
	assert.Equal(t, 1, succeeded)
}

func TestSubmitExam_RoundsAggregateOnly(t *testing.T) {
	env := newTestEnv()
	threeWay := domain.TrueFalseStructuredKey{Correct: map[string]bool{"a": true, "b": true, "c": true}}
	env.exams.exams["exam-r"] = &domain.Exam{ID: "exam-r", Title: "Rounding"}
	env.exams.questions["exam-r"] = []*domain.ExamQuestion{
		{ID: "r1", ExamID: "exam-r", QuestionID: "t1", Order: 1, MaxScore: 1, Question: &domain.Question{ID: "t1", Type: domain.QuestionTypeTrueFalse, Key: threeWay}},
		{ID: "r2", ExamID: "exam-r", QuestionID: "t2", Order: 2, MaxScore: 1, Question: &domain.Question{ID: "t2", Type: domain.QuestionTypeTrueFalse, Key: threeWay}},
	}
	svc := env.service(true)
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: "exam-r"})

	twoOfThree := domain.Selection{Statements: map[string]string{"a": "true", "b": "true", "c": "false"}}
	resp, err := svc.SubmitExam(context.Background(), sub.ID, studentID, &dto.SubmitExamRequest{Answers: []dto.AnswerInput{
		{QuestionID: "t1", SelectedOptions: twoOfThree},
		{QuestionID: "t2", SelectedOptions: twoOfThree},
	}})
	require.NoError(t, err)
	// 2/3 + 2/3 = 1.333..., rounded once.
	assert.Equal(t, 1.33, resp.TotalScore)

	answers, _ := env.answers.ListBySubmission(context.Background(), sub.ID)
	require.Len(t, answers, 2)
	assert.InDelta(t, 2.0/3.0, answers[0].Score, 1e-9)
}

func TestSubmitExam_SkipsOrphanAnswers(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	_, err := env.answers.Upsert(ctx, &domain.Answer{SubmissionID: sub.ID, QuestionID: "removed-question", AnswerText: "x", MaxScore: 100})
	require.NoError(t, err)

	resp, err := svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{Answers: []dto.AnswerInput{mcAnswer("B")}})
	require.NoError(t, err)
	assert.Equal(t, 2.0, resp.TotalScore)
	assert.Equal(t, string(domain.StatusGraded), resp.Status)
	assert.LessOrEqual(t, resp.TotalScore, resp.MaxScore)
	assert.GreaterOrEqual(t, resp.TotalScore, 0.0)
}

func TestSubmitExam_ContestSync(t *testing.T) {
	tests := []struct {
		name    string
		outcome domain.NotifyOutcome
	}{
		{"ok", domain.NotifyOutcome{Status: domain.NotifyOK}},
		{"skipped", domain.NotifyOutcome{Status: domain.NotifySkipped}},
		{"failed", domain.NotifyOutcome{Status: domain.NotifyFailed, Err: assert.AnError}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			svc := env.service(true)
			ctx := context.Background()
			sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, ContestID: contestID})

			env.notifier.On("NotifyExamScore", mock.Anything, contestID, studentID, examID, 2.0).Return(tt.outcome).Once()

			resp, err := svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{Answers: []dto.AnswerInput{mcAnswer("B")}})
			require.NoError(t, err)
			assert.Equal(t, string(tt.outcome.Status), resp.ContestSync)

			stored, _ := env.submissions.GetByID(ctx, sub.ID)
			assert.Equal(t, domain.StatusGraded, stored.Status)
			env.notifier.AssertExpectations(t)
		})
	}
}

func submittedWithEssay(t *testing.T, svc SubmissionService, req dto.CreateSubmissionRequest) string {
	t.Helper()
	sub := start(t, svc, req)
	_, err := svc.SubmitExam(context.Background(), sub.ID, studentID, &dto.SubmitExamRequest{Answers: fullCreditAnswers()})
	require.NoError(t, err)
	return sub.ID
}

func essayAnswerID(t *testing.T, env *testEnv, submissionID string) string {
	t.Helper()
	a, err := env.answers.GetBySubmissionAndQuestion(context.Background(), submissionID, questionEss)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.ID
}

func TestManualGrade(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	subID := submittedWithEssay(t, svc, dto.CreateSubmissionRequest{ExamID: examID})
	essayID := essayAnswerID(t, env, subID)

	other := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, ContestID: contestID})
	foreign, err := env.answers.Upsert(ctx, &domain.Answer{SubmissionID: other.ID, QuestionID: questionEss, MaxScore: 5})
	require.NoError(t, err)

	resp, err := svc.ManualGrade(ctx, subID, domain.Principal{UserID: ownerID, Role: domain.RoleTeacher}, &dto.ManualGradeRequest{
		Grades: []dto.GradeInput{
			{AnswerID: essayID, Score: 4, Feedback: "good argument"},
			{AnswerID: foreign.ID, Score: 5},
			{AnswerID: "missing", Score: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.GradedCount)
	assert.Equal(t, 10.0, resp.NewTotalScore)
	assert.Equal(t, string(domain.StatusGraded), resp.Status)

	stored, _ := env.submissions.GetByID(ctx, subID)
	assert.Equal(t, domain.StatusGraded, stored.Status)
	assert.Equal(t, 10.0, *stored.TotalScore)

	essay, _ := env.answers.GetByID(ctx, essayID)
	assert.True(t, essay.IsManuallyGraded)
	assert.Equal(t, "good argument", essay.Feedback)

	untouched, _ := env.answers.GetByID(ctx, foreign.ID)
	assert.False(t, untouched.IsManuallyGraded)

	// Re-grading a graded submission replaces the earlier manual score.
	resp, err = svc.ManualGrade(ctx, subID, domain.Principal{UserID: ownerID, Role: domain.RoleTeacher}, &dto.ManualGradeRequest{
		Grades: []dto.GradeInput{{AnswerID: essayID, Score: 2.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8.5, resp.NewTotalScore)
}

func TestManualGrade_EmptyGradesFinalizesWithoutChangingScore(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	subID := submittedWithEssay(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	before, _ := env.submissions.GetByID(ctx, subID)
	require.Equal(t, domain.StatusSubmitted, before.Status)
	total := *before.TotalScore

	resp, err := svc.ManualGrade(ctx, subID, domain.Principal{UserID: ownerID, Role: domain.RoleTeacher}, &dto.ManualGradeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.GradedCount)
	assert.Equal(t, total, resp.NewTotalScore)
	assert.Equal(t, string(domain.StatusGraded), resp.Status)

	stored, _ := env.submissions.GetByID(ctx, subID)
	assert.Equal(t, domain.StatusGraded, stored.Status)
	assert.Equal(t, total, *stored.TotalScore)
}

func TestManualGrade_Rejections(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	subID := submittedWithEssay(t, svc, dto.CreateSubmissionRequest{ExamID: examID})
	essayID := essayAnswerID(t, env, subID)
	grade := &dto.ManualGradeRequest{Grades: []dto.GradeInput{{AnswerID: essayID, Score: 3}}}

	_, err := svc.ManualGrade(ctx, subID, domain.Principal{UserID: studentID, Role: domain.RoleStudent}, grade)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))

	_, err = svc.ManualGrade(ctx, subID, domain.Principal{UserID: "teacher-9", Role: domain.RoleTeacher}, grade)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))

	_, err = svc.ManualGrade(ctx, subID, domain.Principal{UserID: ownerID, Role: domain.RoleTeacher},
		&dto.ManualGradeRequest{Grades: []dto.GradeInput{{AnswerID: essayID, Score: 6}}})
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))

	_, err = svc.ManualGrade(ctx, "missing", domain.Principal{UserID: ownerID, Role: domain.RoleTeacher}, grade)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	active := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, ContestID: contestID})
	_, err = svc.ManualGrade(ctx, active.ID, domain.Principal{UserID: ownerID, Role: domain.RoleTeacher}, grade)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))

	stored, _ := env.submissions.GetByID(ctx, subID)
	assert.Equal(t, domain.StatusSubmitted, stored.Status)
	assert.Equal(t, 6.0, *stored.TotalScore)
}

func TestManualGrade_ClassTeacherMayGradeAssignment(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	subID := submittedWithEssay(t, svc, dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID})
	essayID := essayAnswerID(t, env, subID)

	resp, err := svc.ManualGrade(context.Background(), subID, domain.Principal{UserID: classTeach, Role: domain.RoleTeacher},
		&dto.ManualGradeRequest{Grades: []dto.GradeInput{{AnswerID: essayID, Score: 5}}})
	require.NoError(t, err)
	assert.Equal(t, 11.0, resp.NewTotalScore)
}

func TestGetSubmissionDetail_Access(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	owner, err := svc.GetSubmissionDetail(ctx, sub.ID, domain.Principal{UserID: studentID, Role: domain.RoleStudent})
	require.NoError(t, err)
	require.Len(t, owner.Exam.Questions, 4)
	assert.Nil(t, owner.Exam.Questions[0].CorrectAnswer, "keys stay hidden while in progress")
	assert.Empty(t, owner.Exam.Questions[0].Explanation)

	_, err = svc.GetSubmissionDetail(ctx, sub.ID, domain.Principal{UserID: otherID, Role: domain.RoleStudent})
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))

	teacher, err := svc.GetSubmissionDetail(ctx, sub.ID, domain.Principal{UserID: ownerID, Role: domain.RoleTeacher})
	require.NoError(t, err)
	assert.JSONEq(t, `"B"`, string(teacher.Exam.Questions[0].CorrectAnswer))

	_, err = svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{Answers: []dto.AnswerInput{mcAnswer("B")}})
	require.NoError(t, err)

	reviewer, err := svc.GetSubmissionDetail(ctx, sub.ID, domain.Principal{UserID: otherID, Role: domain.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "Algebra midterm", reviewer.Exam.Title)
	assert.Equal(t, "B is right", reviewer.Exam.Questions[0].Explanation)
	require.Len(t, reviewer.Answers, 1)
	assert.Equal(t, 2.0, reviewer.Answers[0].Score)

	var key map[string]bool
	require.NoError(t, json.Unmarshal(reviewer.Exam.Questions[1].CorrectAnswer, &key))
	assert.True(t, key["a"])

	_, err = svc.GetSubmissionDetail(ctx, "missing", domain.Principal{UserID: studentID})
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestGetSubmissionDetail_ClosedReview(t *testing.T) {
	env := newTestEnv()
	svc := env.service(false)
	ctx := context.Background()
	sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})
	_, err := svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{})
	require.NoError(t, err)

	_, err = svc.GetSubmissionDetail(ctx, sub.ID, domain.Principal{UserID: otherID, Role: domain.RoleStudent})
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))

	_, err = svc.GetSubmissionDetail(ctx, sub.ID, domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin})
	assert.NoError(t, err)
}

func TestGetMySubmissions_NewestAttemptFirst(t *testing.T) {
	env := newTestEnv()
	svc := env.service(true)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sub := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, AssignmentID: assignID})
		_, err := svc.SubmitExam(ctx, sub.ID, studentID, &dto.SubmitExamRequest{})
		require.NoError(t, err)
		env.advance(time.Minute)
	}
	start(t, svc, dto.CreateSubmissionRequest{ExamID: examID})

	all, err := svc.GetMySubmissions(ctx, studentID, examID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	scoped, err := svc.GetMySubmissions(ctx, studentID, examID, assignID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, 2, scoped[0].AttemptNumber)
	assert.Equal(t, 1, scoped[1].AttemptNumber)

	_, err = svc.GetMySubmissions(ctx, studentID, "missing", "")
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestGetMyActiveSubmissions(t *testing.T) {
	env := newTestEnv()
	env.exams.exams["exam-open"] = &domain.Exam{ID: "exam-open", Title: "Untimed practice"}
	svc := env.service(true)
	ctx := context.Background()

	timed := start(t, svc, dto.CreateSubmissionRequest{ExamID: examID, ContestID: contestID})
	env.advance(10 * time.Minute)
	untimed := start(t, svc, dto.CreateSubmissionRequest{ExamID: "exam-open"})
	env.advance(5 * time.Minute)

	active, err := svc.GetMyActiveSubmissions(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, active, 2)

	assert.Equal(t, untimed.ID, active[0].SubmissionID)
	assert.Equal(t, "Untimed practice", active[0].ExamTitle)
	assert.Nil(t, active[0].TimeRemaining)

	assert.Equal(t, timed.ID, active[1].SubmissionID)
	assert.Equal(t, contestID, active[1].ContestID)
	require.NotNil(t, active[1].TimeRemaining)
	assert.Equal(t, 45*60, *active[1].TimeRemaining)

	env.advance(2 * time.Hour)
	active, err = svc.GetMyActiveSubmissions(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 0, *active[1].TimeRemaining)
}

func TestTimeRemaining(t *testing.T) {
	begin := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Nil(t, timeRemaining(0, begin, begin))
	assert.Equal(t, 3600, *timeRemaining(60, begin, begin))
	assert.Equal(t, 0, *timeRemaining(1, begin, begin.Add(time.Hour)))
}
