package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, clock: clock}
}

type AdminOrderListItemOutput struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	GrandTotal    int64  `json:"grand_total"`
	PaymentMethod string `json:"payment_method"`
	Depositor     string `json:"depositor"`

	ReceiverName  string `json:"receiver_name"`
	ReceiverPhone string `json:"receiver_phone"`
	ReceiverEmail string `json:"receiver_email"`

	Carrier     string     `json:"carrier"`
	TrackingNo  string     `json:"tracking_no"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

type AdminOrderListOutput struct {
	Items []AdminOrderListItemOutput `json:"items"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

// 管理画面の注文一覧（status絞り込み＋横断検索）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid limit")
	}

	var out AdminOrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return errDB()
		}

		items := make([]AdminOrderListItemOutput, 0, len(orders))
		for _, o := range orders {
			items = append(items, AdminOrderListItemOutput{
				ID:            o.ID,
				UserID:        o.UserID,
				Status:        string(o.Status),
				CreatedAt:     o.CreatedAt,
				ExpiresAt:     o.ExpiresAt,
				GrandTotal:    o.GrandTotal,
				PaymentMethod: string(o.PaymentMethod),
				Depositor:     o.Depositor,
				ReceiverName:  o.ReceiverName,
				ReceiverPhone: o.ReceiverPhone,
				ReceiverEmail: o.ReceiverEmail,
				Carrier:       o.Carrier,
				TrackingNo:    o.TrackingNo,
				ShippedAt:     o.ShippedAt,
				DeliveredAt:   o.DeliveredAt,
			})
		}

		out = AdminOrderListOutput{Items: items, Total: total, Page: f.Page, Limit: f.Limit}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

// 管理画面の注文詳細（所有チェック無し）
func (u *AdminOrderUsecase) Detail(ctx context.Context, orderID string) (OrderDetailOutput, error) {
	var out OrderDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound(orderID)
		}
		if err != nil {
			return errDB()
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}
		ret, found, err := r.Returns().FindByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}
		logs, err := r.RefundLogs().ListByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}

		out = toOrderDetail(o, items, ret, found, logs)
		return nil
	})

	if err != nil {
		return OrderDetailOutput{}, err
	}
	return out, nil
}

// AWAITING_DEPOSIT → DEPOSIT_CONFIRMED
func (u *AdminOrderUsecase) DepositConfirm(ctx context.Context, orderID string) error {
	return u.transition(ctx, orderID,
		model.OrderStatusAwaitingDeposit, model.OrderStatusDepositConfirmed,
		func(now time.Time) repo.OrderPatch { return repo.OrderPatch{} },
	)
}

type ShipOrderInput struct {
	Carrier    string `json:"carrier"`
	TrackingNo string `json:"trackingNo"`
}

// DEPOSIT_CONFIRMED → SHIPPED（shippedAt・配送情報を記録）
func (u *AdminOrderUsecase) Ship(ctx context.Context, orderID string, in ShipOrderInput) error {
	carrier := strings.TrimSpace(in.Carrier)
	trackingNo := strings.TrimSpace(in.TrackingNo)

	return u.transition(ctx, orderID,
		model.OrderStatusDepositConfirmed, model.OrderStatusShipped,
		func(now time.Time) repo.OrderPatch {
			return repo.OrderPatch{
				ShippedAt:  &now,
				Carrier:    &carrier,
				TrackingNo: &trackingNo,
			}
		},
	)
}

// SHIPPED → DELIVERED。DELIVEREDなら成功扱いのno-op
func (u *AdminOrderUsecase) Deliver(ctx context.Context, orderID string) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound(orderID)
		}
		if err != nil {
			return errDB()
		}

		if o.Status == model.OrderStatusDelivered {
			return nil
		}
		if o.Status != model.OrderStatusShipped {
			return invalidOrderStatus(o.Status)
		}

		now := u.clock.Now()
		ok, err := r.Orders().UpdateStatusIfCurrent(ctx, orderID,
			model.OrderStatusShipped, model.OrderStatusDelivered,
			repo.OrderPatch{DeliveredAt: &now},
		)
		if err != nil {
			return errDB()
		}
		if !ok {
			return invalidOrderStatus(o.Status)
		}
		return nil
	})
}

type RefundLogInput struct {
	Amount int64  `json:"amount"`
	Memo   string `json:"memo"`
}

// 返金記録を追記する。注文のReturnがAPPROVEDならあわせてREFUNDEDへ。
// 注文status自体はここでは触らない
func (u *AdminOrderUsecase) RecordRefundLog(ctx context.Context, orderID string, in RefundLogInput) error {
	if in.Amount <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidationError, "amount must be positive")
	}
	memo := strings.TrimSpace(in.Memo)
	if memo == "" {
		return NewHTTPError(http.StatusBadRequest, CodeValidationError, "memo is required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); errors.Is(err, repo.ErrNotFound) {
			return orderNotFound(orderID)
		} else if err != nil {
			return errDB()
		}

		if _, err := r.RefundLogs().Create(ctx, model.RefundLog{
			OrderID:   orderID,
			Amount:    in.Amount,
			Memo:      memo,
			CreatedAt: u.clock.Now(),
		}); err != nil {
			return errDB()
		}

		//「支払い記録が入った時点で返金確定」のモデル化
		ret, found, err := r.Returns().FindByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}
		if found && ret.Status == model.ReturnStatusApproved {
			if err := r.Returns().UpdateStatus(ctx, ret.ID, model.ReturnStatusRefunded, nil, nil); err != nil {
				return errDB()
			}
		}
		return nil
	})
}

// 共通の遷移処理：現在statusを確認してから条件付きUPDATEで進める
func (u *AdminOrderUsecase) transition(
	ctx context.Context,
	orderID string,
	from, to model.OrderStatus,
	patch func(now time.Time) repo.OrderPatch,
) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound(orderID)
		}
		if err != nil {
			return errDB()
		}

		if o.Status != from {
			return invalidOrderStatus(o.Status)
		}

		ok, err := r.Orders().UpdateStatusIfCurrent(ctx, orderID, from, to, patch(u.clock.Now()))
		if err != nil {
			return errDB()
		}
		if !ok {
			return invalidOrderStatus(o.Status)
		}
		return nil
	})
}
