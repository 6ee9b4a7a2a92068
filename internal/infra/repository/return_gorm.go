package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ReturnGormRepository struct {
	db *gorm.DB
}

func NewReturnGormRepository(db *gorm.DB) *ReturnGormRepository {
	return &ReturnGormRepository{db: db}
}

func (r *ReturnGormRepository) Create(ctx context.Context, ret model.Return) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&ret).Error; err != nil {
		return 0, err
	}
	return ret.ID, nil
}

func (r *ReturnGormRepository) FindByID(ctx context.Context, returnID int64) (model.Return, error) {
	var ret model.Return
	err := r.db.WithContext(ctx).Where("id = ?", returnID).First(&ret).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Return{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Return{}, err
	}
	return ret, nil
}

func (r *ReturnGormRepository) FindByOrderID(ctx context.Context, orderID string) (model.Return, bool, error) {
	var ret model.Return
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&ret).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Return{}, false, nil
	}
	if err != nil {
		return model.Return{}, false, err
	}
	return ret, true, nil
}

func (r *ReturnGormRepository) List(ctx context.Context, f repo.ReturnListFilter) ([]model.Return, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	q := r.db.WithContext(ctx).Model(&model.Return{})

	//買い手は自分の注文に紐づく返品だけ
	if f.UserID != nil {
		q = q.Where("order_id IN (?)",
			r.db.Model(&model.Order{}).Select("id").Where("user_id = ?", *f.UserID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Return{}, 0, err
	}

	var items []model.Return
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Return{}, 0, err
	}

	return items, total, nil
}

func (r *ReturnGormRepository) UpdateStatus(ctx context.Context, returnID int64, status model.ReturnStatus, reason *string, memo *string) error {
	values := map[string]interface{}{"status": status}
	if reason != nil {
		values["reason"] = *reason
	}
	if memo != nil {
		values["memo"] = *memo
	}

	res := r.db.WithContext(ctx).Model(&model.Return{}).
		Where("id = ?", returnID).
		Updates(values)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
