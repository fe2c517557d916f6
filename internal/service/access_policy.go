package service

import (
	"context"
	"time"

	"examhub/internal/domain"
)

// Deny reasons surfaced to the student.
const (
	ReasonNotStarted         = "Exam has not started yet"
	ReasonEnded              = "Exam has ended"
	ReasonNotMember          = "You are not a member of this class"
	ReasonMaxAttemptsReached = "Maximum attempts reached"
)

type AccessVerdict int

const (
	AccessAllow AccessVerdict = iota
	AccessResume
	AccessDeny
)

func (v AccessVerdict) String() string {
	switch v {
	case AccessAllow:
		return "allow"
	case AccessResume:
		return "resume"
	case AccessDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// AccessDecision is the result of AuthorizeStart. Existing is set on
// AccessResume; Reason on AccessDeny; PriorAttempts on AccessAllow.
type AccessDecision struct {
	Verdict       AccessVerdict
	Existing      *domain.Submission
	Reason        string
	PriorAttempts int
}

// StartRequest describes an attempt about to be started. Assignment is nil
// for contest and standalone scopes.
type StartRequest struct {
	Exam       *domain.Exam
	Assignment *domain.ExamAssignment
	Scope      domain.Scope
	StudentID  string
}

// AccessPolicy decides whether a student may start an attempt. It never writes.
type AccessPolicy interface {
	AuthorizeStart(ctx context.Context, req StartRequest, now time.Time) (AccessDecision, error)
}

type accessPolicy struct {
	submissions domain.SubmissionRepository
	classes     domain.ClassDirectory
}

func NewAccessPolicy(submissions domain.SubmissionRepository, classes domain.ClassDirectory) AccessPolicy {
	return &accessPolicy{submissions: submissions, classes: classes}
}

// AuthorizeStart applies the window, membership, resume and attempt rules in
// that order; the first rule that decides wins. The window end is exclusive
// of its own instant: submitting exactly at EndTime is still on time.
func (p *accessPolicy) AuthorizeStart(ctx context.Context, req StartRequest, now time.Time) (AccessDecision, error) {
	a := req.Assignment
	if a != nil {
		if now.Before(a.StartTime) {
			return deny(ReasonNotStarted), nil
		}
		if now.After(a.EndTime) && !a.AllowLateSubmission {
			return deny(ReasonEnded), nil
		}
		member, err := p.classes.IsMember(ctx, a.ClassID, req.StudentID)
		if err != nil {
			return AccessDecision{}, domain.NewInternalError("Failed to check class membership", err)
		}
		if !member {
			return deny(ReasonNotMember), nil
		}
	}

	scopeKey := req.Scope.Key(req.Exam.ID)
	existing, err := p.submissions.FindInProgress(ctx, req.Exam.ID, req.StudentID, scopeKey)
	if err != nil {
		return AccessDecision{}, domain.NewInternalError("Failed to look up active attempt", err)
	}
	if existing != nil {
		return AccessDecision{Verdict: AccessResume, Existing: existing}, nil
	}

	attempts, err := p.submissions.CountAttempts(ctx, req.StudentID, scopeKey)
	if err != nil {
		return AccessDecision{}, domain.NewInternalError("Failed to count attempts", err)
	}
	if a != nil && attempts >= a.MaxAttempts {
		return deny(ReasonMaxAttemptsReached), nil
	}

	return AccessDecision{Verdict: AccessAllow, PriorAttempts: attempts}, nil
}

func deny(reason string) AccessDecision {
	return AccessDecision{Verdict: AccessDeny, Reason: reason}
}
