package repository

import (
	"context"
	"fmt"

	"examhub/internal/domain"

	"github.com/jmoiron/sqlx"
)

// sqlxClassDirectory reads the CLASS_MEMBERS table maintained by the class service.
type sqlxClassDirectory struct {
	db *sqlx.DB
}

func NewSQLXClassDirectory(db *sqlx.DB) domain.ClassDirectory {
	return &sqlxClassDirectory{db: db}
}

func (r *sqlxClassDirectory) IsMember(ctx context.Context, classID, studentID string) (bool, error) {
	return r.hasRole(ctx, classID, studentID, "student")
}

func (r *sqlxClassDirectory) IsTeacher(ctx context.Context, classID, teacherID string) (bool, error) {
	return r.hasRole(ctx, classID, teacherID, "teacher")
}

func (r *sqlxClassDirectory) hasRole(ctx context.Context, classID, userID, role string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM class_members WHERE class_id = :1 AND user_id = :2 AND member_role = :3`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &count, query, classID, userID, role); err != nil {
		return false, fmt.Errorf("failed to check %s membership in class %s: %w", role, classID, err)
	}
	return count > 0, nil
}
