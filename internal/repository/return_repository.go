package repository

import (
	"context"

	"app/internal/domain/model"
)

type ReturnListFilter struct {
	Page  int
	Limit int
	//nilなら全件（admin）、指定ありならそのユーザーの注文に紐づく返品だけ
	UserID *int64
}

type ReturnRepository interface {
	Create(ctx context.Context, ret model.Return) (int64, error)
	FindByID(ctx context.Context, returnID int64) (model.Return, error)

	//注文に紐づく返品。無ければfalse（エラーにしない）
	FindByOrderID(ctx context.Context, orderID string) (model.Return, bool, error)

	List(ctx context.Context, f ReturnListFilter) ([]model.Return, int64, error)

	//reason/memoはnilなら変更しない。空文字のポインタでクリア
	UpdateStatus(ctx context.Context, returnID int64, status model.ReturnStatus, reason *string, memo *string) error
}
