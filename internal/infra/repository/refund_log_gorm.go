package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type RefundLogGormRepository struct {
	db *gorm.DB
}

func NewRefundLogGormRepository(db *gorm.DB) *RefundLogGormRepository {
	return &RefundLogGormRepository{db: db}
}

func (r *RefundLogGormRepository) Create(ctx context.Context, log model.RefundLog) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return 0, err
	}
	return log.ID, nil
}

func (r *RefundLogGormRepository) ListByOrderID(ctx context.Context, orderID string) ([]model.RefundLog, error) {
	var items []model.RefundLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
