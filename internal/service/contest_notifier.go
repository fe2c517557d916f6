package service

import (
	"context"
	"fmt"

	"examhub/internal/domain"
	"examhub/internal/logger"

	"go.uber.org/zap"
)

// ContestNotifier pushes a finalized exam score to the contest participation
// record. It never returns an error; failures are reported in the outcome.
type ContestNotifier interface {
	NotifyExamScore(ctx context.Context, contestID, studentID, examID string, score float64) domain.NotifyOutcome
}

type contestNotifier struct {
	participations domain.ContestParticipationRepository
	txManager      domain.TransactionManager
}

func NewContestNotifier(participations domain.ContestParticipationRepository, txManager domain.TransactionManager) ContestNotifier {
	return &contestNotifier{participations: participations, txManager: txManager}
}

func (n *contestNotifier) NotifyExamScore(ctx context.Context, contestID, studentID, examID string, score float64) domain.NotifyOutcome {
	log := logger.Get().With(
		zap.String("contest_id", contestID),
		zap.String("student_id", studentID),
		zap.String("exam_id", examID),
	)

	var skipped bool
	err := n.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		p, err := n.participations.FindByContestAndStudent(txCtx, contestID, studentID)
		if err != nil {
			return err
		}
		if p == nil {
			skipped = true
			return nil
		}
		return n.participations.AddExamScore(txCtx, p.ID, examID, score)
	})

	switch {
	case err != nil:
		log.Error("Failed to update contest participation", zap.Float64("score", score), zap.Error(err))
		return domain.NotifyOutcome{Status: domain.NotifyFailed, Err: fmt.Errorf("contest %s: %w", contestID, err)}
	case skipped:
		log.Info("No contest participation for student, score not recorded")
		return domain.NotifyOutcome{Status: domain.NotifySkipped}
	default:
		log.Info("Contest participation updated", zap.Float64("score", score))
		return domain.NotifyOutcome{Status: domain.NotifyOK}
	}
}
