package repository

import (
	"context"
	"time"

	"shop-backend/internal/model"

	"gorm.io/gorm"
)

type WebhookEventRepository interface {
	// RecordProcessed writes the audit row inside the caller's approval
	// transaction.
	RecordProcessed(ctx context.Context, tx *gorm.DB, operationID, webhookType string) error
	ListByOperationID(ctx context.Context, operationID string) ([]*model.WebhookEvent, error)
}

type webhookEventRepoImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepoImpl{db: db}
}

func (r *webhookEventRepoImpl) RecordProcessed(ctx context.Context, tx *gorm.DB, operationID, webhookType string) error {
	return tx.WithContext(ctx).Create(&model.WebhookEvent{
		OperationID: operationID,
		WebhookType: webhookType,
		ProcessedAt: time.Now(),
	}).Error
}

func (r *webhookEventRepoImpl) ListByOperationID(ctx context.Context, operationID string) ([]*model.WebhookEvent, error) {
	var events []*model.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("operation_id = ?", operationID).
		Order("processed_at").
		Find(&events).Error

	if err != nil {
		return nil, err
	}

	return events, nil
}
