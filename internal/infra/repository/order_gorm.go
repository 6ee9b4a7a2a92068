package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) error {
	return r.db.WithContext(ctx).Create(&order).Error
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	//横断検索（注文ID・入金者・受取人）
	if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Where(
			"id ILIKE ? OR depositor ILIKE ? OR receiver_name ILIKE ? OR receiver_phone ILIKE ? OR receiver_email ILIKE ?",
			like, like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) UpdateStatusIfCurrent(ctx context.Context, orderID string, from, to model.OrderStatus, patch repo.OrderPatch) (bool, error) {
	values := map[string]interface{}{"status": to}
	if patch.ShippedAt != nil {
		values["shipped_at"] = *patch.ShippedAt
	}
	if patch.DeliveredAt != nil {
		values["delivered_at"] = *patch.DeliveredAt
	}
	if patch.CanceledAt != nil {
		values["canceled_at"] = *patch.CanceledAt
	}
	if patch.Carrier != nil {
		values["carrier"] = *patch.Carrier
	}
	if patch.TrackingNo != nil {
		values["tracking_no"] = *patch.TrackingNo
	}

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(values)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderGormRepository) ListExpiredAwaitingDeposit(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", model.OrderStatusAwaitingDeposit, now).
		Order("expires_at asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderGormRepository) AutoDeliverShippedBefore(ctx context.Context, cutoff time.Time, deliveredAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ? AND shipped_at < ?", model.OrderStatusShipped, cutoff).
		Updates(map[string]interface{}{
			"status":       model.OrderStatusDelivered,
			"delivered_at": deliveredAt,
		})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
