package repository

import (
	"context"

	"app/internal/domain/model"
)

// 追記専用。UpdateもDeleteも存在しない。
type RefundLogRepository interface {
	Create(ctx context.Context, log model.RefundLog) (int64, error)
	ListByOrderID(ctx context.Context, orderID string) ([]model.RefundLog, error)
}
