package domain

import "time"

// ContestParticipation is a student's running record in a contest.
type ContestParticipation struct {
	ID             string
	ContestID      string
	StudentID      string
	CompletedExams []string
	TotalScore     float64
	UpdatedAt      time.Time
}

// HasCompleted reports whether examID is already counted.
func (p *ContestParticipation) HasCompleted(examID string) bool {
	for _, id := range p.CompletedExams {
		if id == examID {
			return true
		}
	}
	return false
}

// NotifyStatus is the outcome of pushing a score to the contest side.
type NotifyStatus string

const (
	NotifyOK      NotifyStatus = "ok"
	NotifySkipped NotifyStatus = "skipped"
	NotifyFailed  NotifyStatus = "failed"
)

// NotifyOutcome is returned by contest score notification. Err is set only
// when Status is NotifyFailed.
type NotifyOutcome struct {
	Status NotifyStatus
	Err    error
}

// Role of an authenticated caller.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Principal identifies the caller of an operation.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) IsTeacher() bool {
	return p.Role == RoleTeacher || p.Role == RoleAdmin
}
