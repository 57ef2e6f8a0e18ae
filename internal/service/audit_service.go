package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nhel2500/AUPWU/internal/repository"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

// AuditService writes activity log entries. Recording is best-effort:
// a failed audit write never fails the operation being audited.
type AuditService struct {
	activityRepo repository.ActivityRepository
	logger       *logger.Logger
}

func NewAuditService(activityRepo repository.ActivityRepository, log *logger.Logger) *AuditService {
	return &AuditService{
		activityRepo: activityRepo,
		logger:       log,
	}
}

// Record persists one audit entry for the acting member.
func (s *AuditService) Record(ctx context.Context, actorID int64, action, details string) {
	if err := s.activityRepo.Record(ctx, actorID, action, details); err != nil {
		s.logger.Warn("Failed to record activity log",
			zap.Int64("actor_id", actorID),
			zap.String("action", action),
			zap.Error(err))
	}
}
