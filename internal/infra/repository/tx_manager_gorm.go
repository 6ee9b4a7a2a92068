package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	options    repo.OptionRepository
	variants   repo.VariantRepository
	returns    repo.ReturnRepository
	refundLogs repo.RefundLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) Products() repo.ProductRepository     { return r.products }
func (r *txReposGorm) Options() repo.OptionRepository       { return r.options }
func (r *txReposGorm) Variants() repo.VariantRepository     { return r.variants }
func (r *txReposGorm) Returns() repo.ReturnRepository       { return r.returns }
func (r *txReposGorm) RefundLogs() repo.RefundLogRepository { return r.refundLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			products:   NewProductGormRepository(tx),
			options:    NewOptionGormRepository(tx),
			variants:   NewVariantGormRepository(tx),
			returns:    NewReturnGormRepository(tx),
			refundLogs: NewRefundLogGormRepository(tx),
		}
		return fn(r)
	})
}
