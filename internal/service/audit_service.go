package service

import (
	"context"
	"fmt"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"
)

// ActivityLimit is how many audit entries the activity feed returns.
const ActivityLimit = 50

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error)
}

// RequestInfo identifies the client behind an audited action.
type RequestInfo struct {
	IP        string
	UserAgent string
}

// AuditService records account events. Write failures are logged and never fail the request.
type AuditService struct {
	repo AuditStore
}

func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Log(ctx context.Context, userID, action, category string, req RequestInfo, details map[string]any) {
	entry := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        req.IP,
		UserAgent: req.UserAgent,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

func (s *AuditService) Recent(ctx context.Context, userID string) ([]*domain.AuditLog, error) {
	logs, err := s.repo.ListByUser(ctx, userID, ActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
