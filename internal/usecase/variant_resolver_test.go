package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUsecaseForResolver() (*usecase.OrderUsecase, *OrderRepoMock, *OrderItemRepoMock, *ProductRepoMock, *OptionRepoMock, *VariantRepoMock) {
	repos, orders, orderItems, products, options, variants, _, _ := newTxRepos()
	u := usecase.NewOrderUsecase(newTxManager(repos), &fakeIDGen{id: "ord-r"}, &fakeClock{now: testNow})
	return u, orders, orderItems, products, options, variants
}

func resolverInput(values usecase.OptionValuesInput) usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		Items: []usecase.CreateOrderItemInput{{
			ProductID:    10,
			Qty:          1,
			OptionValues: values,
		}},
		Receiver: validReceiver(),
	}
}

// オプション無し商品はデフォルトvariantに解決される。
// 余計なoptionValuesが送られてきても無視する
func TestResolve_DefaultVariantIgnoresValues(t *testing.T) {
	u, orders, orderItems, products, options, variants := newOrderUsecaseForResolver()

	options.On("CountByProductID", mock.Anything, int64(10)).Return(int64(0), nil)
	variants.On("FindDefaultByProductID", mock.Anything, int64(10)).
		Return(model.ProductVariant{ID: 100, ProductID: 10, Stock: 3}, nil)
	products.On("FindActiveByIDs", mock.Anything, []int64{10}).
		Return([]model.Product{{ID: 10, Name: "Mug", Price: 1500, IsActive: true}}, nil)
	variants.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(1)).Return(true, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	orderItems.On("CreateBulk", mock.Anything, "ord-r", mock.MatchedBy(func(items []model.OrderItem) bool {
		//オプションまとめ文字列は空になる
		return len(items) == 1 && items[0].OptionSummary == ""
	})).Return(nil)

	_, err := u.Create(context.Background(), buyer(1),
		resolverInput(usecase.OptionValuesInput{Size: ptrStr("XL")}))
	assert.NoError(t, err)
	orderItems.AssertExpectations(t)
}

func TestResolve_DefaultVariantMissing(t *testing.T) {
	u, _, _, _, options, variants := newOrderUsecaseForResolver()

	options.On("CountByProductID", mock.Anything, int64(10)).Return(int64(0), nil)
	variants.On("FindDefaultByProductID", mock.Anything, int64(10)).
		Return(model.ProductVariant{}, repo.ErrNotFound)

	_, err := u.Create(context.Background(), buyer(1), resolverInput(usecase.OptionValuesInput{}))
	assertErrContains(t, err, "VARIANT_NOT_FOUND")
}

// オプション有り商品に値が1つも無い
func TestResolve_OptionsRequired(t *testing.T) {
	u, _, _, _, options, _ := newOrderUsecaseForResolver()

	options.On("CountByProductID", mock.Anything, int64(10)).Return(int64(4), nil)

	_, err := u.Create(context.Background(), buyer(1), resolverInput(usecase.OptionValuesInput{}))
	assertErrContains(t, err, "options required")
}

// フィールドはあるが空文字（空白だけ含む）は明示的に弾く
func TestResolve_PresentButEmptyValue(t *testing.T) {
	u, _, _, _, options, _ := newOrderUsecaseForResolver()

	options.On("CountByProductID", mock.Anything, int64(10)).Return(int64(4), nil)

	_, err := u.Create(context.Background(), buyer(1),
		resolverInput(usecase.OptionValuesInput{Size: ptrStr("  ")}))
	assertErrContains(t, err, "empty option value")

	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, "size", he.Details["field"])
}

func TestResolve_UnknownOptionValue(t *testing.T) {
	u, _, _, _, options, _ := newOrderUsecaseForResolver()

	options.On("CountByProductID", mock.Anything, int64(10)).Return(int64(4), nil)
	options.On("FindByValue", mock.Anything, int64(10), model.OptionGroupSize, "XXXL").
		Return(model.ProductOption{}, repo.ErrNotFound)

	_, err := u.Create(context.Background(), buyer(1),
		resolverInput(usecase.OptionValuesInput{Size: ptrStr("XXXL")}))
	assertErrContains(t, err, "unknown option value")

	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, "size", he.Details["field"])
	assert.Equal(t, "XXXL", he.Details["value"])
}

// 値は正しいが組み合わせのvariantが存在しない
func TestResolve_NoMatchingVariant(t *testing.T) {
	u, _, _, _, options, variants := newOrderUsecaseForResolver()

	sizeM := int64(51)
	options.On("CountByProductID", mock.Anything, int64(10)).Return(int64(2), nil)
	options.On("FindByValue", mock.Anything, int64(10), model.OptionGroupSize, "M").
		Return(model.ProductOption{ID: sizeM, ProductID: 10, GroupKey: model.OptionGroupSize, Value: "M"}, nil)
	variants.On("FindBySelection", mock.Anything, int64(10),
		model.OptionSelection{model.OptionGroupSize: sizeM}).
		Return(model.ProductVariant{}, repo.ErrNotFound)

	_, err := u.Create(context.Background(), buyer(1),
		resolverInput(usecase.OptionValuesInput{Size: ptrStr("M")}))
	assertErrContains(t, err, "VARIANT_NOT_FOUND")
}

// 値の前後の空白はトリムして解決する
func TestResolve_TrimsValues(t *testing.T) {
	u, orders, orderItems, products, options, variants := newOrderUsecaseForResolver()

	colorBlack := int64(52)
	options.On("CountByProductID", mock.Anything, int64(10)).Return(int64(2), nil)
	options.On("FindByValue", mock.Anything, int64(10), model.OptionGroupColor, "black").
		Return(model.ProductOption{ID: colorBlack, ProductID: 10, GroupKey: model.OptionGroupColor, Value: "black"}, nil)
	variants.On("FindBySelection", mock.Anything, int64(10),
		model.OptionSelection{model.OptionGroupColor: colorBlack}).
		Return(model.ProductVariant{ID: 100, ProductID: 10, ColorOptionID: &colorBlack, Stock: 3}, nil)
	products.On("FindActiveByIDs", mock.Anything, []int64{10}).
		Return([]model.Product{{ID: 10, Name: "Cap", Price: 2000, IsActive: true}}, nil)
	variants.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(1)).Return(true, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	orderItems.On("CreateBulk", mock.Anything, "ord-r", mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].OptionSummary == "black"
	})).Return(nil)

	_, err := u.Create(context.Background(), buyer(1),
		resolverInput(usecase.OptionValuesInput{Color: ptrStr(" black ")}))
	assert.NoError(t, err)
	orderItems.AssertExpectations(t)
}
