package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

const (
	//SHIPPEDのままこの期間を過ぎたら自動でDELIVEREDにする
	autoDeliverAfter = 7 * 24 * time.Hour

	//1回のsweepで拾う期限切れ注文の上限。残りは次のtickが拾う
	expireSweepBatchSize = 50
)

// 定期的に注文を進める常駐処理：
//  1. 期限切れの入金待ちをキャンセルして在庫を戻す
//  2. 出荷から日数が経ったものを自動で配達完了にする
//
// エラーはログに残すだけでプロセスは落とさない。未処理分は次のtickが拾う
type OrderMaintenance struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	clock    Clock
	interval time.Duration
	logger   *log.Logger

	stop chan struct{}
	done chan struct{}
}

func NewOrderMaintenance(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	clock Clock,
	interval time.Duration,
	logger *log.Logger,
) *OrderMaintenance {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if logger == nil {
		logger = log.New("maintenance")
	}
	return &OrderMaintenance{
		tx:       tx,
		orders:   orders,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Startはsweeperのゴルーチンを起動する。二重起動は不可
func (m *OrderMaintenance) Start() {
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				if err := m.Tick(context.Background()); err != nil {
					m.logger.Errorf("sweep failed: %v", err)
				}
			}
		}
	}()
}

// Stopはticker loopを止めて終了を待つ（graceful shutdown用）
func (m *OrderMaintenance) Stop() {
	if m.stop == nil {
		return
	}
	close(m.stop)
	<-m.done
	m.stop = nil
}

// Tickは1周分のsweepを実行する。テストから直接呼べる
func (m *OrderMaintenance) Tick(ctx context.Context) error {
	if err := m.expireAwaitingDeposit(ctx); err != nil {
		return err
	}
	return m.autoDeliverShipped(ctx)
}

// 期限切れの入金待ちをキャンセルする。
// 一覧を引いてから個別txで処理するので、tx内でstatusを読み直して
// 「一覧に載った後で入金確認された注文」をキャンセルしないようにする
func (m *OrderMaintenance) expireAwaitingDeposit(ctx context.Context) error {
	now := m.clock.Now()

	targets, err := m.orders.ListExpiredAwaitingDeposit(ctx, now, expireSweepBatchSize)
	if err != nil {
		return err
	}

	for _, o := range targets {
		orderID := o.ID
		err := m.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			//読み直し。もう入金待ちでなければ何もしない
			cur, err := r.Orders().FindByID(ctx, orderID)
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if cur.Status != model.OrderStatusAwaitingDeposit {
				return nil
			}

			canceledAt := m.clock.Now()
			ok, err := r.Orders().UpdateStatusIfCurrent(ctx, orderID,
				model.OrderStatusAwaitingDeposit, model.OrderStatusCanceled,
				repo.OrderPatch{CanceledAt: &canceledAt},
			)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := r.Variants().IncreaseStock(ctx, it.VariantID, it.Qty); err != nil {
					return err
				}
			}

			m.logger.Infof("expired order canceled: %s", orderID)
			return nil
		})
		if err != nil {
			//この注文は失敗しても他の注文は続ける。次のtickで再挑戦になる
			m.logger.Errorf("expire sweep failed for order %s: %v", orderID, err)
		}
	}

	return nil
}

// 出荷から一定期間過ぎたSHIPPEDをまとめてDELIVEREDへ。
// 条件付きの一括UPDATEなのでtx内の読み直しは要らない
func (m *OrderMaintenance) autoDeliverShipped(ctx context.Context) error {
	now := m.clock.Now()
	cutoff := now.Add(-autoDeliverAfter)

	n, err := m.orders.AutoDeliverShippedBefore(ctx, cutoff, now)
	if err != nil {
		return err
	}
	if n > 0 {
		m.logger.Infof("auto-delivered %d shipped orders", n)
	}
	return nil
}
