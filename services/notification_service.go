package services

import (
	"context"
	"encoding/json"
	"time"

	"storefront-backend/common/logger"
	"storefront-backend/models"
	"storefront-backend/pkg/aws"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher delivers order-status notifications. Implementations are
// best-effort: a failed send must never fail the operation that triggered it.
type Dispatcher interface {
	Send(ctx context.Context, userID uuid.UUID, title, body, category string)
}

// NotificationService stores a notification document and publishes the
// payload to SNS for downstream senders. Both writes are best-effort.
type NotificationService struct {
	repo     repository.NotificationRepository
	sns      aws.SNSPublisher
	topicArn string
}

func NewNotificationService(repo repository.NotificationRepository, sns aws.SNSPublisher, topicArn string) *NotificationService {
	return &NotificationService{
		repo:     repo,
		sns:      sns,
		topicArn: topicArn,
	}
}

type notificationEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// Send records and publishes the notification. Failures are logged, never
// propagated.
func (s *NotificationService) Send(ctx context.Context, userID uuid.UUID, title, body, category string) {
	if userID == uuid.Nil {
		return
	}

	n := &models.Notification{
		UserID:   userID,
		Title:    title,
		Body:     body,
		Category: category,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Warn(ctx, "Failed to store notification", zap.String("user_id", userID.String()), zap.Error(err))
	}

	if s.sns == nil || s.topicArn == "" {
		return
	}
	payload, err := json.Marshal(notificationEvent{
		UserID:    userID,
		Title:     title,
		Body:      body,
		Category:  category,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := s.sns.Publish(ctx, s.topicArn, payload); err != nil {
		logger.Warn(ctx, "SNS notification publish failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
