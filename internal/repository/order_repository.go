package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	//注文ID・入金者・受取人（名前/電話/メール）を横断検索
	Q string
}

// 遷移時に同時に書き込むフィールド。nilなら触らない。
type OrderPatch struct {
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CanceledAt  *time.Time
	Carrier     *string
	TrackingNo  *string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	Create(ctx context.Context, order model.Order) error
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	//現在statusがfromのときだけtoへ更新する（条件付き1文UPDATE）。
	//falseは他の誰かが先に遷移させた（または注文が無い）ことを意味する
	UpdateStatusIfCurrent(ctx context.Context, orderID string, from, to model.OrderStatus, patch OrderPatch) (bool, error)

	//sweeper用：期限切れの入金待ち注文（古い順、上限付き）
	ListExpiredAwaitingDeposit(ctx context.Context, now time.Time, limit int) ([]model.Order, error)

	//sweeper用：shippedAtがcutoffより古いSHIPPEDを一括でDELIVEREDへ。
	//更新件数を返す
	AutoDeliverShippedBefore(ctx context.Context, cutoff time.Time, deliveredAt time.Time) (int64, error)
}
