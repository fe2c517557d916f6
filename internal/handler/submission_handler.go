package handler

import (
	"examhub/internal/domain"
	"examhub/internal/dto"
	"examhub/internal/logger"
	"examhub/internal/middleware"
	"examhub/internal/service"
	"examhub/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SubmissionHandler handles submission lifecycle HTTP requests
type SubmissionHandler struct {
	service   service.SubmissionService
	validator *validation.Validator
}

// NewSubmissionHandler creates a new SubmissionHandler instance
func NewSubmissionHandler(svc service.SubmissionService, v *validation.Validator) *SubmissionHandler {
	return &SubmissionHandler{service: svc, validator: v}
}

func (h *SubmissionHandler) parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		logger.Get().Debug("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}
	return h.validator.ValidateStruct(out)
}

func submissionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.SubmissionIDKey).(string); ok && id != "" {
		return id
	}
	return c.Params("submissionId")
}

// CreateSubmission godoc
// @Summary Start an exam attempt
// @Description Creates a new attempt, or resumes the open one for the same scope
// @Tags submissions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSubmissionRequest true "Exam and optional scope"
// @Success 201 {object} dto.CreateSubmissionResponse "Attempt created"
// @Success 200 {object} dto.CreateSubmissionResponse "Open attempt resumed"
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /submissions [post]
func (h *SubmissionHandler) CreateSubmission(c *fiber.Ctx) error {
	var req dto.CreateSubmissionRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.PrincipalFrom(c)
	resp, err := h.service.CreateSubmission(c.UserContext(), user.UserID, &req)
	if err != nil {
		return err
	}
	return c.Status(startStatus(resp)).JSON(dto.OK(resp))
}

// StartAssignment godoc
// @Summary Start an assignment attempt
// @Description Creates or resumes an attempt for the exam bound to the assignment
// @Tags submissions
// @Security ApiKeyAuth
// @Produce json
// @Param assignmentId path string true "Assignment ID"
// @Success 201 {object} dto.CreateSubmissionResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /submissions/assignments/{assignmentId}/start [post]
func (h *SubmissionHandler) StartAssignment(c *fiber.Ctx) error {
	assignmentID := c.Params("assignmentId")
	if errs := h.validator.ValidateReferenceID("assignment_id", assignmentID); len(errs) > 0 {
		return errs
	}

	user := middleware.PrincipalFrom(c)
	resp, err := h.service.StartAssignment(c.UserContext(), user.UserID, assignmentID)
	if err != nil {
		return err
	}
	return c.Status(startStatus(resp)).JSON(dto.OK(resp))
}

func startStatus(resp *dto.CreateSubmissionResponse) int {
	if resp.Resumed {
		return fiber.StatusOK
	}
	return fiber.StatusCreated
}

// GetMySubmissions godoc
// @Summary List my attempts for an exam
// @Tags submissions
// @Security ApiKeyAuth
// @Produce json
// @Param examId path string true "Exam ID"
// @Param assignment_id query string false "Restrict to one assignment"
// @Success 200 {array} dto.SubmissionResponse
// @Router /exams/{examId}/my-submissions [get]
func (h *SubmissionHandler) GetMySubmissions(c *fiber.Ctx) error {
	examID := c.Params("examId")
	if errs := h.validator.ValidateReferenceID("exam_id", examID); len(errs) > 0 {
		return errs
	}

	user := middleware.PrincipalFrom(c)
	list, err := h.service.GetMySubmissions(c.UserContext(), user.UserID, examID, c.Query("assignment_id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(list))
}

// GetMyActiveSubmissions godoc
// @Summary List my open attempts
// @Tags submissions
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.ActiveSubmissionResponse
// @Router /submissions/my-active [get]
func (h *SubmissionHandler) GetMyActiveSubmissions(c *fiber.Ctx) error {
	user := middleware.PrincipalFrom(c)
	list, err := h.service.GetMyActiveSubmissions(c.UserContext(), user.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(list))
}

// SaveAnswer godoc
// @Summary Save one answer
// @Tags answers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Param request body dto.AnswerInput true "Answer"
// @Success 200 {object} dto.AnswerResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /submissions/{submissionId}/answers [post]
func (h *SubmissionHandler) SaveAnswer(c *fiber.Ctx) error {
	var req dto.AnswerInput
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.PrincipalFrom(c)
	resp, err := h.service.SaveAnswer(c.UserContext(), submissionID(c), user.UserID, &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(resp))
}

// AutoSaveAnswers godoc
// @Summary Save a batch of answers
// @Tags answers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Param request body dto.AutoSaveRequest true "Answers"
// @Success 200 {object} dto.AutoSaveResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /submissions/{submissionId}/answers [patch]
func (h *SubmissionHandler) AutoSaveAnswers(c *fiber.Ctx) error {
	var req dto.AutoSaveRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.PrincipalFrom(c)
	resp, err := h.service.AutoSaveAnswers(c.UserContext(), submissionID(c), user.UserID, &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(resp))
}

// GetSubmissionAnswers godoc
// @Summary Get my saved answers
// @Tags answers
// @Security ApiKeyAuth
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} dto.SubmissionAnswersResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /submissions/{submissionId}/answers [get]
func (h *SubmissionHandler) GetSubmissionAnswers(c *fiber.Ctx) error {
	user := middleware.PrincipalFrom(c)
	resp, err := h.service.GetSubmissionAnswers(c.UserContext(), submissionID(c), user.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(resp))
}

// SubmitExam godoc
// @Summary Submit an attempt
// @Description Saves the final answers, auto-grades and finalizes the attempt
// @Tags submissions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Param request body dto.SubmitExamRequest false "Final answers"
// @Success 200 {object} dto.SubmitExamResponse
// @Failure 409 {object} middleware.ErrorResponse "Already finalized"
// @Router /submissions/{submissionId}/submit [post]
func (h *SubmissionHandler) SubmitExam(c *fiber.Ctx) error {
	var req dto.SubmitExamRequest
	if len(c.Body()) > 0 {
		if err := h.parseBody(c, &req); err != nil {
			return err
		}
	}

	user := middleware.PrincipalFrom(c)
	resp, err := h.service.SubmitExam(c.UserContext(), submissionID(c), user.UserID, &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(resp))
}

// ManualGrade godoc
// @Summary Grade answers manually
// @Tags grading
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Param request body dto.ManualGradeRequest true "Grades"
// @Success 200 {object} dto.ManualGradeResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /submissions/{submissionId}/grade [patch]
func (h *SubmissionHandler) ManualGrade(c *fiber.Ctx) error {
	var req dto.ManualGradeRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.service.ManualGrade(c.UserContext(), submissionID(c), middleware.PrincipalFrom(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(resp))
}

// GetSubmissionDetail godoc
// @Summary Get a submission with answers and exam review
// @Tags submissions
// @Security ApiKeyAuth
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} dto.SubmissionDetailResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /submissions/{submissionId} [get]
func (h *SubmissionHandler) GetSubmissionDetail(c *fiber.Ctx) error {
	resp, err := h.service.GetSubmissionDetail(c.UserContext(), submissionID(c), middleware.PrincipalFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(resp))
}
