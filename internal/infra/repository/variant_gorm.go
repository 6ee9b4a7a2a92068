package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type VariantGormRepository struct {
	db *gorm.DB
}

func NewVariantGormRepository(db *gorm.DB) *VariantGormRepository {
	return &VariantGormRepository{db: db}
}

func (r *VariantGormRepository) FindByID(ctx context.Context, id int64) (model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.ProductVariant, error) {
	var items []model.ProductVariant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *VariantGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	var items []model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *VariantGormRepository) FindDefaultByProductID(ctx context.Context, productID int64) (model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND size_option_id IS NULL AND color_option_id IS NULL", productID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) FindBySelection(ctx context.Context, productID int64, sel model.OptionSelection) (model.ProductVariant, error) {
	q := r.db.WithContext(ctx).Where("product_id = ?", productID)

	//グループごとに「一致」か「IS NULL」を積む。組の完全一致になる
	if id, ok := sel[model.OptionGroupSize]; ok {
		q = q.Where("size_option_id = ?", id)
	} else {
		q = q.Where("size_option_id IS NULL")
	}
	if id, ok := sel[model.OptionGroupColor]; ok {
		q = q.Where("color_option_id = ?", id)
	} else {
		q = q.Where("color_option_id IS NULL")
	}

	var v model.ProductVariant
	err := q.First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

// 在庫が足りるときだけ減らす
func (r *VariantGormRepository) DecreaseStockIfEnough(ctx context.Context, variantID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（キャンセル・期限切れ）
func (r *VariantGormRepository) IncreaseStock(ctx context.Context, variantID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
