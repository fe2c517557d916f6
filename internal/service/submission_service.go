package service

import (
	"context"
	"errors"
	"time"

	"examhub/internal/domain"
	"examhub/internal/dto"
	"examhub/internal/logger"
	"examhub/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SubmissionService defines the submission lifecycle operations
type SubmissionService interface {
	CreateSubmission(ctx context.Context, studentID string, req *dto.CreateSubmissionRequest) (*dto.CreateSubmissionResponse, error)
	// StartAssignment creates or resumes an attempt for the exam bound to assignmentID.
	StartAssignment(ctx context.Context, studentID, assignmentID string) (*dto.CreateSubmissionResponse, error)
	GetMySubmissions(ctx context.Context, studentID, examID, assignmentID string) ([]dto.SubmissionResponse, error)
	SaveAnswer(ctx context.Context, submissionID, studentID string, req *dto.AnswerInput) (*dto.AnswerResponse, error)
	AutoSaveAnswers(ctx context.Context, submissionID, studentID string, req *dto.AutoSaveRequest) (*dto.AutoSaveResponse, error)
	GetSubmissionAnswers(ctx context.Context, submissionID, studentID string) (*dto.SubmissionAnswersResponse, error)
	SubmitExam(ctx context.Context, submissionID, studentID string, req *dto.SubmitExamRequest) (*dto.SubmitExamResponse, error)
	ManualGrade(ctx context.Context, submissionID string, teacher domain.Principal, req *dto.ManualGradeRequest) (*dto.ManualGradeResponse, error)
	GetSubmissionDetail(ctx context.Context, submissionID string, viewer domain.Principal) (*dto.SubmissionDetailResponse, error)
	GetMyActiveSubmissions(ctx context.Context, studentID string) ([]dto.ActiveSubmissionResponse, error)
}

// SubmissionServiceDeps lists the collaborators of the submission service.
// Clock defaults to time.Now.
type SubmissionServiceDeps struct {
	Submissions domain.SubmissionRepository
	Answers     domain.AnswerRepository
	Assignments domain.AssignmentRepository
	Classes     domain.ClassDirectory
	Catalog     ExamCatalog
	Policy      AccessPolicy
	Grader      domain.AnswerGrader
	Notifier    ContestNotifier
	TxManager   domain.TransactionManager
	Clock       func() time.Time
	// OpenReview lets any authenticated caller view a finalized submission.
	OpenReview bool
}

type submissionService struct {
	submissions domain.SubmissionRepository
	answers     domain.AnswerRepository
	assignments domain.AssignmentRepository
	classes     domain.ClassDirectory
	catalog     ExamCatalog
	policy      AccessPolicy
	grader      domain.AnswerGrader
	notifier    ContestNotifier
	txManager   domain.TransactionManager
	now         func() time.Time
	openReview  bool
}

// NewSubmissionService creates a new instance of submissionService
func NewSubmissionService(deps SubmissionServiceDeps) SubmissionService {
	s := &submissionService{
		submissions: deps.Submissions,
		answers:     deps.Answers,
		assignments: deps.Assignments,
		classes:     deps.Classes,
		catalog:     deps.Catalog,
		policy:      deps.Policy,
		grader:      deps.Grader,
		notifier:    deps.Notifier,
		txManager:   deps.TxManager,
		now:         deps.Clock,
		openReview:  deps.OpenReview,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.grader == nil {
		s.grader = domain.NewAutoGrader()
	}
	if s.policy == nil {
		s.policy = NewAccessPolicy(deps.Submissions, deps.Classes)
	}
	return s
}

func (s *submissionService) CreateSubmission(ctx context.Context, studentID string, req *dto.CreateSubmissionRequest) (*dto.CreateSubmissionResponse, error) {
	scope, err := domain.NewScope(req.AssignmentID, req.ContestID)
	if err != nil {
		return nil, err
	}

	exam, err := s.catalog.GetExam(ctx, req.ExamID)
	if err != nil {
		return nil, err
	}

	var assignment *domain.ExamAssignment
	if scope.IsAssignment() {
		assignment, err = s.loadAssignment(ctx, scope.AssignmentID())
		if err != nil {
			return nil, err
		}
		if assignment.ExamID != exam.ID {
			return nil, domain.NewInvalidInputError("Assignment is not for this exam").
				WithContext("assignment_id", assignment.ID)
		}
	}

	return s.start(ctx, StartRequest{Exam: exam, Assignment: assignment, Scope: scope, StudentID: studentID})
}

func (s *submissionService) StartAssignment(ctx context.Context, studentID, assignmentID string) (*dto.CreateSubmissionResponse, error) {
	assignment, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	exam, err := s.catalog.GetExam(ctx, assignment.ExamID)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, StartRequest{
		Exam:       exam,
		Assignment: assignment,
		Scope:      domain.AssignmentScope(assignment.ID),
		StudentID:  studentID,
	})
}

func (s *submissionService) start(ctx context.Context, req StartRequest) (*dto.CreateSubmissionResponse, error) {
	log := logger.Get().With(zap.String("exam_id", req.Exam.ID), zap.String("student_id", req.StudentID))
	now := s.now()

	decision, err := s.policy.AuthorizeStart(ctx, req, now)
	if err != nil {
		return nil, err
	}
	switch decision.Verdict {
	case AccessDeny:
		log.Info("Start denied", zap.String("reason", decision.Reason))
		return nil, domain.NewForbiddenError(decision.Reason)
	case AccessResume:
		log.Debug("Resuming active attempt", zap.String("submission_id", decision.Existing.ID))
		return &dto.CreateSubmissionResponse{SubmissionResponse: dto.NewSubmissionResponse(decision.Existing), Resumed: true}, nil
	}

	questions, err := s.catalog.GetExamQuestions(ctx, req.Exam.ID)
	if err != nil {
		return nil, err
	}

	submission := &domain.Submission{
		ID:            util.NewULID(),
		ExamID:        req.Exam.ID,
		StudentID:     req.StudentID,
		Scope:         req.Scope,
		Status:        domain.StatusInProgress,
		MaxScore:      domain.TotalMaxScore(questions),
		AttemptNumber: decision.PriorAttempts + 1,
		StartedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		if !domain.IsCode(err, domain.CodeConflict) {
			return nil, domain.NewInternalError("Failed to create submission", err)
		}
		// Another request won the slot. Resume its attempt if it is still open.
		existing, findErr := s.submissions.FindInProgress(ctx, req.Exam.ID, req.StudentID, req.Scope.Key(req.Exam.ID))
		if findErr != nil {
			return nil, domain.NewInternalError("Failed to look up active attempt", findErr)
		}
		if existing == nil {
			log.Warn("Attempt slot taken concurrently", zap.Error(err))
			return nil, err
		}
		return &dto.CreateSubmissionResponse{SubmissionResponse: dto.NewSubmissionResponse(existing), Resumed: true}, nil
	}

	log.Info("Submission started",
		zap.String("submission_id", submission.ID),
		zap.Int("attempt_number", submission.AttemptNumber),
		zap.Float64("max_score", submission.MaxScore),
	)
	return &dto.CreateSubmissionResponse{SubmissionResponse: dto.NewSubmissionResponse(submission)}, nil
}

func (s *submissionService) GetMySubmissions(ctx context.Context, studentID, examID, assignmentID string) ([]dto.SubmissionResponse, error) {
	if _, err := s.catalog.GetExam(ctx, examID); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByStudentAndExam(ctx, studentID, examID, assignmentID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list submissions", err)
	}

	out := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		out = append(out, dto.NewSubmissionResponse(sub))
	}
	return out, nil
}

func (s *submissionService) SaveAnswer(ctx context.Context, submissionID, studentID string, req *dto.AnswerInput) (*dto.AnswerResponse, error) {
	sub, questions, err := s.loadWritable(ctx, submissionID, studentID)
	if err != nil {
		return nil, err
	}

	answer, err := s.saveAnswer(ctx, sub, questions, req)
	if err != nil {
		return nil, err
	}
	resp := dto.NewAnswerResponse(answer)
	return &resp, nil
}

// AutoSaveAnswers saves answers in order and stops at the first failure.
// Answers saved before the failure stay saved.
func (s *submissionService) AutoSaveAnswers(ctx context.Context, submissionID, studentID string, req *dto.AutoSaveRequest) (*dto.AutoSaveResponse, error) {
	sub, questions, err := s.loadWritable(ctx, submissionID, studentID)
	if err != nil {
		return nil, err
	}

	saved := 0
	for i := range req.Answers {
		if _, err := s.saveAnswer(ctx, sub, questions, &req.Answers[i]); err != nil {
			logger.Get().Warn("Auto-save batch aborted",
				zap.String("submission_id", sub.ID),
				zap.Int("saved_count", saved),
				zap.Error(err),
			)
			return nil, err
		}
		saved++
	}

	now := s.now()
	if err := s.submissions.Touch(ctx, sub.ID, now); err != nil {
		return nil, domain.NewInternalError("Failed to update submission", err)
	}

	return &dto.AutoSaveResponse{SubmissionID: sub.ID, SavedCount: saved, LastSavedAt: now}, nil
}

func (s *submissionService) GetSubmissionAnswers(ctx context.Context, submissionID, studentID string) (*dto.SubmissionAnswersResponse, error) {
	sub, err := s.loadOwned(ctx, submissionID, studentID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListBySubmission(ctx, sub.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load answers", err)
	}

	resp := &dto.SubmissionAnswersResponse{
		SubmissionID: sub.ID,
		Status:       string(sub.Status),
		Answers:      make([]dto.AnswerResponse, 0, len(answers)),
	}
	for _, a := range answers {
		ar := dto.NewAnswerResponse(a)
		if sub.Status == domain.StatusInProgress {
			ar.Score = 0
			ar.Feedback = ""
		}
		resp.Answers = append(resp.Answers, ar)
	}
	return resp, nil
}

// SubmitExam saves the final answers, grades every answer and finalizes the
// attempt in one transaction. The contest record is updated after commit.
func (s *submissionService) SubmitExam(ctx context.Context, submissionID, studentID string, req *dto.SubmitExamRequest) (*dto.SubmitExamResponse, error) {
	sub, questions, err := s.loadWritable(ctx, submissionID, studentID)
	if err != nil {
		return nil, err
	}
	log := logger.Get().With(zap.String("submission_id", sub.ID), zap.String("student_id", studentID))

	now := s.now()
	duration := req.TimeSpentSeconds
	var result gradingResult

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for i := range req.Answers {
			if _, err := s.saveAnswer(txCtx, sub, questions, &req.Answers[i]); err != nil {
				return err
			}
		}

		answers, err := s.answers.ListBySubmission(txCtx, sub.ID)
		if err != nil {
			return err
		}

		result = s.gradeAll(questions, answers)
		for _, g := range result.grades {
			g.grade.UpdatedAt = now
			if err := s.answers.UpdateGrade(txCtx, g.answerID, g.grade); err != nil {
				return err
			}
		}

		total := util.RoundScore(result.total)
		if sub.MaxScore > 0 {
			total = util.ClampScore(total, sub.MaxScore)
		}
		result.total = total

		updated, err := s.submissions.UpdateStatus(txCtx, sub.ID, domain.StatusInProgress, domain.SubmissionUpdate{
			Status:          result.status(),
			TotalScore:      total,
			SubmittedAt:     &now,
			DurationSeconds: &duration,
			UpdatedAt:       now,
		})
		if err != nil {
			return err
		}
		if !updated {
			return domain.NewInvalidStateError("Submission has already been finalized")
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "Failed to submit exam")
	}

	resp := &dto.SubmitExamResponse{
		SubmissionID:         sub.ID,
		Status:               string(result.status()),
		TotalScore:           result.total,
		MaxScore:             sub.MaxScore,
		SubmittedAt:          now,
		GradedAnswers:        result.autoGraded,
		PendingManualGrading: result.pending,
	}

	log.Info("Submission graded",
		zap.String("status", resp.Status),
		zap.Float64("total_score", resp.TotalScore),
		zap.Int("pending_manual_grading", resp.PendingManualGrading),
	)

	if sub.Scope.IsContest() && s.notifier != nil {
		outcome := s.notifier.NotifyExamScore(ctx, sub.Scope.ContestID(), sub.StudentID, sub.ExamID, result.total)
		resp.ContestSync = string(outcome.Status)
	}

	return resp, nil
}

// ManualGrade applies teacher scores. Grades for answers outside the
// submission are skipped; a score above the answer's max score fails the
// whole request.
func (s *submissionService) ManualGrade(ctx context.Context, submissionID string, teacher domain.Principal, req *dto.ManualGradeRequest) (*dto.ManualGradeResponse, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canReview(ctx, sub, teacher)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.NewForbiddenError("You do not have permission to grade this submission")
	}
	if sub.Status == domain.StatusInProgress {
		return nil, domain.NewInvalidStateError("Cannot grade a submission that is still in progress")
	}

	log := logger.Get().With(zap.String("submission_id", sub.ID), zap.String("teacher_id", teacher.UserID))
	now := s.now()
	total := sub.ScoreOrZero()
	graded := 0

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, g := range req.Grades {
			answer, err := s.answers.GetByID(txCtx, g.AnswerID)
			if err != nil {
				return err
			}
			if answer == nil || answer.SubmissionID != sub.ID {
				log.Debug("Skipping grade for foreign answer", zap.String("answer_id", g.AnswerID))
				continue
			}
			if g.Score < 0 || g.Score > answer.MaxScore {
				return domain.NewInvalidInputError("Score is out of range").
					WithContext("answer_id", answer.ID).
					WithContext("max_score", answer.MaxScore)
			}

			total = total - answer.Score + g.Score
			if err := s.answers.UpdateGrade(txCtx, answer.ID, domain.AnswerGrade{
				Score:            g.Score,
				Feedback:         g.Feedback,
				IsAutoGraded:     answer.IsAutoGraded,
				IsManuallyGraded: true,
				UpdatedAt:        now,
			}); err != nil {
				return err
			}
			graded++
		}

		total = util.RoundScore(total)
		updated, err := s.submissions.UpdateStatus(txCtx, sub.ID, sub.Status, domain.SubmissionUpdate{
			Status:     domain.StatusGraded,
			TotalScore: total,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}
		if !updated {
			return domain.NewConflictError("Submission changed while grading, retry", nil)
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "Failed to grade submission")
	}

	log.Info("Submission graded manually", zap.Int("graded_count", graded), zap.Float64("total_score", total))

	return &dto.ManualGradeResponse{
		SubmissionID:  sub.ID,
		GradedCount:   graded,
		NewTotalScore: total,
		MaxScore:      sub.MaxScore,
		Status:        string(domain.StatusGraded),
	}, nil
}

func (s *submissionService) GetSubmissionDetail(ctx context.Context, submissionID string, viewer domain.Principal) (*dto.SubmissionDetailResponse, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	isOwner := sub.StudentID == viewer.UserID
	isReviewer := false
	if !isOwner && viewer.IsTeacher() {
		if isReviewer, err = s.canReview(ctx, sub, viewer); err != nil {
			return nil, err
		}
	}
	if !isOwner && !isReviewer && !(s.openReview && sub.Status.IsFinal()) {
		return nil, domain.NewForbiddenError("You don't have permission to view this submission")
	}

	var (
		exam      *domain.Exam
		questions []*domain.ExamQuestion
		answers   []*domain.Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exam, err = s.catalog.GetExam(gctx, sub.ExamID)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.catalog.GetExamQuestions(gctx, sub.ExamID)
		return err
	})
	g.Go(func() error {
		var err error
		answers, err = s.answers.ListBySubmission(gctx, sub.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, asDomainError(err, "Failed to load submission detail")
	}

	// Correct answers stay hidden from the student until the attempt is finalized.
	revealKeys := sub.Status.IsFinal() || isReviewer

	resp := &dto.SubmissionDetailResponse{
		Submission: dto.NewSubmissionResponse(sub),
		Answers:    make([]dto.AnswerResponse, 0, len(answers)),
		Exam: dto.ExamReviewResponse{
			ID:              exam.ID,
			Title:           exam.Title,
			Description:     exam.Description,
			Subject:         exam.Subject,
			DurationMinutes: exam.DurationMinutes,
			Mode:            string(exam.Mode),
			TotalQuestions:  exam.TotalQuestions,
			TotalPoints:     exam.TotalPoints,
			Questions:       make([]dto.ReviewQuestionResponse, 0, len(questions)),
		},
	}
	for _, a := range answers {
		resp.Answers = append(resp.Answers, dto.NewAnswerResponse(a))
	}
	for _, eq := range questions {
		resp.Exam.Questions = append(resp.Exam.Questions, reviewQuestion(eq, revealKeys))
	}
	return resp, nil
}

func (s *submissionService) GetMyActiveSubmissions(ctx context.Context, studentID string) ([]dto.ActiveSubmissionResponse, error) {
	submissions, err := s.submissions.ListInProgressByStudent(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list active submissions", err)
	}

	now := s.now()
	exams := make(map[string]*domain.Exam)
	out := make([]dto.ActiveSubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		exam, seen := exams[sub.ExamID]
		if !seen {
			exam, err = s.catalog.GetExam(ctx, sub.ExamID)
			if err != nil && !domain.IsCode(err, domain.CodeNotFound) {
				return nil, err
			}
			exams[sub.ExamID] = exam
		}

		item := dto.ActiveSubmissionResponse{
			SubmissionID: sub.ID,
			ExamID:       sub.ExamID,
			ExamTitle:    "Unknown Exam",
			StartedAt:    sub.StartedAt,
			AssignmentID: sub.Scope.AssignmentID(),
			ContestID:    sub.Scope.ContestID(),
		}
		if exam != nil {
			item.ExamTitle = exam.Title
			item.TimeRemaining = timeRemaining(exam.DurationMinutes, sub.StartedAt, now)
		}
		out = append(out, item)
	}
	return out, nil
}

// timeRemaining returns nil for exams without a duration.
func timeRemaining(durationMinutes int, startedAt, now time.Time) *int {
	if durationMinutes <= 0 {
		return nil
	}
	remaining := durationMinutes*60 - int(now.Sub(startedAt).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

func (s *submissionService) saveAnswer(ctx context.Context, sub *domain.Submission, questions []*domain.ExamQuestion, in *dto.AnswerInput) (*domain.Answer, error) {
	eq := domain.FindExamQuestion(questions, in.QuestionID)
	if eq == nil {
		return nil, domain.NewNotFoundError("Question not found in exam").
			WithContext("question_id", in.QuestionID)
	}
	maxScore := eq.MaxScore
	if maxScore <= 0 {
		maxScore = 1
	}

	answer, err := s.answers.Upsert(ctx, &domain.Answer{
		SubmissionID:    sub.ID,
		QuestionID:      in.QuestionID,
		AnswerText:      in.AnswerText,
		SelectedOptions: in.SelectedOptions,
		MaxScore:        maxScore,
		UpdatedAt:       s.now(),
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to save answer", err).WithContext("question_id", in.QuestionID)
	}
	return answer, nil
}

type answerGrade struct {
	answerID string
	grade    domain.AnswerGrade
}

type gradingResult struct {
	grades     []answerGrade
	total      float64
	autoGraded int
	pending    int
}

func (r gradingResult) status() domain.SubmissionStatus {
	if r.pending > 0 {
		return domain.StatusSubmitted
	}
	return domain.StatusGraded
}

// gradeAll scores every answer that still maps to an exam question. The
// total is left unrounded.
func (s *submissionService) gradeAll(questions []*domain.ExamQuestion, answers []*domain.Answer) gradingResult {
	var r gradingResult
	for _, a := range answers {
		eq := domain.FindExamQuestion(questions, a.QuestionID)
		if eq == nil || eq.Question == nil {
			logger.Get().Debug("Skipping orphan answer",
				zap.String("answer_id", a.ID), zap.String("question_id", a.QuestionID))
			continue
		}

		out := s.grader.Grade(eq.Question, domain.ResolveMaxScore(a, eq), a)
		r.total += out.Score
		if out.NeedsManualGrading {
			r.pending++
		} else if out.IsAutoGraded {
			r.autoGraded++
		}
		r.grades = append(r.grades, answerGrade{
			answerID: a.ID,
			grade: domain.AnswerGrade{
				Score:        out.Score,
				Feedback:     out.Feedback,
				IsAutoGraded: out.IsAutoGraded,
			},
		})
	}
	return r
}

// canReview reports whether principal may grade or review sub: an admin, the
// exam owner, or a teacher of the assignment's class.
func (s *submissionService) canReview(ctx context.Context, sub *domain.Submission, principal domain.Principal) (bool, error) {
	if !principal.IsTeacher() {
		return false, nil
	}
	if principal.Role == domain.RoleAdmin {
		return true, nil
	}

	exam, err := s.catalog.GetExam(ctx, sub.ExamID)
	if err != nil && !domain.IsCode(err, domain.CodeNotFound) {
		return false, err
	}
	if exam != nil && exam.CreatedBy == principal.UserID {
		return true, nil
	}

	if !sub.Scope.IsAssignment() {
		return false, nil
	}
	assignment, err := s.assignments.GetAssignmentByID(ctx, sub.Scope.AssignmentID())
	if err != nil {
		return false, domain.NewInternalError("Failed to load assignment", err)
	}
	if assignment == nil {
		return false, nil
	}
	ok, err := s.classes.IsTeacher(ctx, assignment.ClassID, principal.UserID)
	if err != nil {
		return false, domain.NewInternalError("Failed to check class teacher", err)
	}
	return ok, nil
}

func (s *submissionService) loadAssignment(ctx context.Context, assignmentID string) (*domain.ExamAssignment, error) {
	assignment, err := s.assignments.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load assignment", err)
	}
	if assignment == nil {
		return nil, domain.NewNotFoundError("Assignment not found").WithContext("assignment_id", assignmentID)
	}
	return assignment, nil
}

func (s *submissionService) loadSubmission(ctx context.Context, submissionID string) (*domain.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load submission", err)
	}
	if sub == nil {
		return nil, domain.NewSubmissionNotFoundError(submissionID)
	}
	return sub, nil
}

func (s *submissionService) loadOwned(ctx context.Context, submissionID, studentID string) (*domain.Submission, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.StudentID != studentID {
		return nil, domain.NewForbiddenError("Unauthorized")
	}
	return sub, nil
}

// loadWritable loads an owned, in-progress submission and its exam questions.
func (s *submissionService) loadWritable(ctx context.Context, submissionID, studentID string) (*domain.Submission, []*domain.ExamQuestion, error) {
	sub, err := s.loadOwned(ctx, submissionID, studentID)
	if err != nil {
		return nil, nil, err
	}
	if sub.Status != domain.StatusInProgress {
		return nil, nil, domain.NewInvalidStateError("Submission has already been finalized")
	}
	questions, err := s.catalog.GetExamQuestions(ctx, sub.ExamID)
	if err != nil {
		return nil, nil, err
	}
	return sub, questions, nil
}

func reviewQuestion(eq *domain.ExamQuestion, revealKey bool) dto.ReviewQuestionResponse {
	r := dto.ReviewQuestionResponse{
		ID:         eq.ID,
		QuestionID: eq.QuestionID,
		Order:      eq.Order,
		Section:    eq.Section,
		MaxScore:   eq.MaxScore,
		Options:    []string{},
	}
	q := eq.Question
	if q == nil {
		return r
	}
	r.Type = string(q.Type)
	r.Content = q.Content
	r.Points = q.Points
	if q.Options != nil {
		r.Options = q.Options
	}
	if revealKey {
		r.Explanation = q.Explanation
		if q.Key != nil {
			if raw, err := domain.EncodeAnswerKey(q.Key); err == nil {
				r.CorrectAnswer = raw
			}
		}
	}
	return r
}

// asDomainError passes domain errors through and hides anything else behind
// an INTERNAL_ERROR.
func asDomainError(err error, message string) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de
	}
	return domain.NewInternalError(message, err)
}
