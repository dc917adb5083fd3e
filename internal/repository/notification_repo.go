package repository

import (
	"context"

	"gorm.io/gorm"

	"gymtrack/backend/internal/model"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	BatchCreate(ctx context.Context, ns []model.Notification) error
	ListByUser(ctx context.Context, tenantID, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, tenantID, userID, id string) error
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) BatchCreate(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

func (r *notificationRepo) ListByUser(ctx context.Context, tenantID, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ns []model.Notification
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&ns).Error
	return ns, total, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, tenantID, userID, id string) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("notification_id = ? AND tenant_id = ? AND user_id = ?", id, tenantID, userID).
		Update("is_read", true).Error
}
