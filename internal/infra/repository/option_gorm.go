package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OptionGormRepository struct {
	db *gorm.DB
}

func NewOptionGormRepository(db *gorm.DB) *OptionGormRepository {
	return &OptionGormRepository{db: db}
}

func (r *OptionGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductOption, error) {
	var items []model.ProductOption
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OptionGormRepository) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ProductOption{}).
		Where("product_id = ?", productID).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *OptionGormRepository) FindByValue(ctx context.Context, productID int64, group model.OptionGroup, value string) (model.ProductOption, error) {
	var o model.ProductOption
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND group_key = ? AND value = ?", productID, group, value).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductOption{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductOption{}, err
	}
	return o, nil
}
