package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page  int
	Limit int
	Q     string
}

// 商品の読み取りだけを約束。カタログの書き込みはこのコアの範囲外。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//activeな商品だけをまとめて引く（注文作成のバッチロード用）
	FindActiveByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
}
