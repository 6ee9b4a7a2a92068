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

// 返品の却下時にreasonが無ければこれを入れる
const defaultRejectReason = "return not allowed"

type ReturnUsecase struct {
	tx repo.TransactionManager
}

func NewReturnUsecase(tx repo.TransactionManager) *ReturnUsecase {
	return &ReturnUsecase{tx: tx}
}

type ReturnOutput struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"created_at"`
}

type ReturnListOutput struct {
	Items []ReturnOutput `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// 返品一覧。買い手は自分の注文の分だけ、adminは全件
func (u *ReturnUsecase) List(ctx context.Context, actor Actor, page int, limit int) (ReturnListOutput, error) {
	if actor.UserID <= 0 {
		return ReturnListOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	f := repo.ReturnListFilter{Page: page, Limit: limit}
	if !actor.IsAdmin() {
		uid := actor.UserID
		f.UserID = &uid
	}

	var out ReturnListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rows, total, err := r.Returns().List(ctx, f)
		if err != nil {
			return errDB()
		}

		items := make([]ReturnOutput, 0, len(rows))
		for _, row := range rows {
			items = append(items, toReturnOutput(row))
		}
		out = ReturnListOutput{Items: items, Total: total, Page: page, Limit: limit}
		return nil
	})

	if err != nil {
		return ReturnListOutput{}, err
	}
	return out, nil
}

// 返品詳細。他人の分は存在しない扱いにする
func (u *ReturnUsecase) Detail(ctx context.Context, actor Actor, returnID int64) (ReturnOutput, error) {
	if actor.UserID <= 0 {
		return ReturnOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if returnID <= 0 {
		return ReturnOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid id")
	}

	var out ReturnOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		row, err := r.Returns().FindByID(ctx, returnID)
		if errors.Is(err, repo.ErrNotFound) {
			return returnNotFound(returnID)
		}
		if err != nil {
			return errDB()
		}

		if !actor.IsAdmin() {
			o, err := r.Orders().FindByID(ctx, row.OrderID)
			if err != nil {
				return errDB()
			}
			if o.UserID != actor.UserID {
				return returnNotFound(returnID)
			}
		}

		out = toReturnOutput(row)
		return nil
	})

	if err != nil {
		return ReturnOutput{}, err
	}
	return out, nil
}

type ApproveReturnInput struct {
	Memo string `json:"memo"`
}

// admin承認。memoは任意
func (u *ReturnUsecase) Approve(ctx context.Context, returnID int64, in ApproveReturnInput) error {
	if returnID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid id")
	}

	memo := strings.TrimSpace(in.Memo)

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Returns().FindByID(ctx, returnID); errors.Is(err, repo.ErrNotFound) {
			return returnNotFound(returnID)
		} else if err != nil {
			return errDB()
		}

		if err := r.Returns().UpdateStatus(ctx, returnID, model.ReturnStatusApproved, nil, &memo); err != nil {
			return errDB()
		}
		return nil
	})
}

type RejectReturnInput struct {
	Reason string `json:"reason"`
}

// admin却下。reasonが無ければデフォルトを入れ、memoはクリアする
func (u *ReturnUsecase) Reject(ctx context.Context, returnID int64, in RejectReturnInput) error {
	if returnID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid id")
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = defaultRejectReason
	}
	emptyMemo := ""

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Returns().FindByID(ctx, returnID); errors.Is(err, repo.ErrNotFound) {
			return returnNotFound(returnID)
		} else if err != nil {
			return errDB()
		}

		if err := r.Returns().UpdateStatus(ctx, returnID, model.ReturnStatusRejected, &reason, &emptyMemo); err != nil {
			return errDB()
		}
		return nil
	})
}

func toReturnOutput(r model.Return) ReturnOutput {
	return ReturnOutput{
		ID:        r.ID,
		OrderID:   r.OrderID,
		Status:    string(r.Status),
		Reason:    r.Reason,
		Memo:      r.Memo,
		CreatedAt: r.CreatedAt,
	}
}

func returnNotFound(returnID int64) error {
	return NewHTTPErrorWithDetails(
		http.StatusNotFound, CodeNotFound, "return not found",
		map[string]interface{}{"id": returnID},
	)
}
