package handler

import (
	"examhub/internal/domain"
	"examhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterSubmissionRoutes mounts the submission API on api. Every route
// requires protected; grading additionally requires a teacher or admin.
func RegisterSubmissionRoutes(api fiber.Router, h *SubmissionHandler, protected fiber.Handler, v *middleware.ValidationMiddleware) {
	api.Get("/exams/:examId/my-submissions", protected, h.GetMySubmissions)

	api.Post("/submissions", protected, h.CreateSubmission)
	api.Post("/submissions/assignments/:assignmentId/start", protected, h.StartAssignment)
	api.Get("/submissions/my-active", protected, h.GetMyActiveSubmissions)

	subID := v.ValidateSubmissionID()
	api.Post("/submissions/:submissionId/answers", protected, subID, h.SaveAnswer)
	api.Patch("/submissions/:submissionId/answers", protected, subID, h.AutoSaveAnswers)
	api.Get("/submissions/:submissionId/answers", protected, subID, h.GetSubmissionAnswers)
	api.Post("/submissions/:submissionId/submit", protected, subID, h.SubmitExam)
	api.Patch("/submissions/:submissionId/grade", protected, subID,
		middleware.RequireRole(domain.RoleTeacher, domain.RoleAdmin), h.ManualGrade)
	api.Get("/submissions/:submissionId", protected, subID, h.GetSubmissionDetail)
}
