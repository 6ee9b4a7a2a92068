package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	options    repo.OptionRepository
	variants   repo.VariantRepository
	returns    repo.ReturnRepository
	refundLogs repo.RefundLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Options() repo.OptionRepository       { return r.options }
func (r *TxReposMock) Variants() repo.VariantRepository     { return r.variants }
func (r *TxReposMock) Returns() repo.ReturnRepository       { return r.returns }
func (r *TxReposMock) RefundLogs() repo.RefundLogRepository { return r.refundLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatusIfCurrent(ctx context.Context, orderID string, from, to model.OrderStatus, patch repo.OrderPatch) (bool, error) {
	args := m.Called(ctx, orderID, from, to, patch)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) ListExpiredAwaitingDeposit(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	args := m.Called(ctx, now, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) AutoDeliverShippedBefore(ctx context.Context, cutoff time.Time, deliveredAt time.Time) (int64, error) {
	args := m.Called(ctx, cutoff, deliveredAt)
	return args.Get(0).(int64), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindActiveByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

type OptionRepoMock struct{ mock.Mock }

func (m *OptionRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductOption, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.ProductOption)
	return items, args.Error(1)
}

func (m *OptionRepoMock) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OptionRepoMock) FindByValue(ctx context.Context, productID int64, group model.OptionGroup, value string) (model.ProductOption, error) {
	args := m.Called(ctx, productID, group, value)
	o, _ := args.Get(0).(model.ProductOption)
	return o, args.Error(1)
}

type VariantRepoMock struct{ mock.Mock }

func (m *VariantRepoMock) FindByID(ctx context.Context, id int64) (model.ProductVariant, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(model.ProductVariant)
	return v, args.Error(1)
}

func (m *VariantRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.ProductVariant, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.ProductVariant)
	return items, args.Error(1)
}

func (m *VariantRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.ProductVariant)
	return items, args.Error(1)
}

func (m *VariantRepoMock) FindDefaultByProductID(ctx context.Context, productID int64) (model.ProductVariant, error) {
	args := m.Called(ctx, productID)
	v, _ := args.Get(0).(model.ProductVariant)
	return v, args.Error(1)
}

func (m *VariantRepoMock) FindBySelection(ctx context.Context, productID int64, sel model.OptionSelection) (model.ProductVariant, error) {
	args := m.Called(ctx, productID, sel)
	v, _ := args.Get(0).(model.ProductVariant)
	return v, args.Error(1)
}

func (m *VariantRepoMock) DecreaseStockIfEnough(ctx context.Context, variantID int64, qty int64) (bool, error) {
	args := m.Called(ctx, variantID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *VariantRepoMock) IncreaseStock(ctx context.Context, variantID int64, qty int64) error {
	args := m.Called(ctx, variantID, qty)
	return args.Error(0)
}

type ReturnRepoMock struct{ mock.Mock }

func (m *ReturnRepoMock) Create(ctx context.Context, ret model.Return) (int64, error) {
	args := m.Called(ctx, ret)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReturnRepoMock) FindByID(ctx context.Context, returnID int64) (model.Return, error) {
	args := m.Called(ctx, returnID)
	r, _ := args.Get(0).(model.Return)
	return r, args.Error(1)
}

func (m *ReturnRepoMock) FindByOrderID(ctx context.Context, orderID string) (model.Return, bool, error) {
	args := m.Called(ctx, orderID)
	r, _ := args.Get(0).(model.Return)
	return r, args.Bool(1), args.Error(2)
}

func (m *ReturnRepoMock) List(ctx context.Context, f repo.ReturnListFilter) ([]model.Return, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Return)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ReturnRepoMock) UpdateStatus(ctx context.Context, returnID int64, status model.ReturnStatus, reason *string, memo *string) error {
	args := m.Called(ctx, returnID, status, reason, memo)
	return args.Error(0)
}

type RefundLogRepoMock struct{ mock.Mock }

func (m *RefundLogRepoMock) Create(ctx context.Context, log model.RefundLog) (int64, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RefundLogRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.RefundLog, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.RefundLog)
	return items, args.Error(1)
}

// =====================
// Clock / IDGenerator fakes
// =====================

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeIDGen struct {
	id string
}

func (g *fakeIDGen) NewID() string { return g.id }

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

// 全repoをmockで埋めたTxReposを組む
func newTxRepos() (*TxReposMock, *OrderRepoMock, *OrderItemRepoMock, *ProductRepoMock, *OptionRepoMock, *VariantRepoMock, *ReturnRepoMock, *RefundLogRepoMock) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	products := new(ProductRepoMock)
	options := new(OptionRepoMock)
	variants := new(VariantRepoMock)
	returns := new(ReturnRepoMock)
	refundLogs := new(RefundLogRepoMock)

	repos := &TxReposMock{
		orders:     orders,
		orderItems: orderItems,
		products:   products,
		options:    options,
		variants:   variants,
		returns:    returns,
		refundLogs: refundLogs,
	}
	return repos, orders, orderItems, products, options, variants, returns, refundLogs
}

func newTxManager(repos *TxReposMock) *TxManagerMock {
	tx := new(TxManagerMock)
	tx.Repos = repos
	tx.On("WithinTx", mock.Anything).Return(nil)
	return tx
}
