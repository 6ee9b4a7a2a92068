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

// 入金待ちの支払い期限（固定の業務ルール）
const paymentWindow = 12 * time.Hour

type OrderUsecase struct {
	tx    repo.TransactionManager
	idGen IDGenerator
	clock Clock
}

func NewOrderUsecase(tx repo.TransactionManager, idGen IDGenerator, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, idGen: idGen, clock: clock}
}

type CreateOrderItemInput struct {
	ProductID int64 `json:"productId"`
	Qty       int64 `json:"qty"`

	//variantIdを直接指定してもよい。無ければoptionValuesから解決する
	VariantID    *int64            `json:"variantId"`
	OptionValues OptionValuesInput `json:"optionValues"`
}

type AddressInput struct {
	//zip/zipcodeのどちらでも受ける
	Zip      string `json:"zip"`
	Zipcode  string `json:"zipcode"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
}

type ReceiverInput struct {
	Name    string       `json:"name"`
	Phone   string       `json:"phone"`
	Email   string       `json:"email"`
	Address AddressInput `json:"address"`
	Memo    string       `json:"memo"`
}

type PaymentInput struct {
	Method    string `json:"method"`
	Depositor string `json:"depositor"`
}

type CreateOrderInput struct {
	Items    []CreateOrderItemInput `json:"items"`
	Receiver ReceiverInput          `json:"receiver"`
	Payment  PaymentInput           `json:"payment"`
}

type CreateOrderOutput struct {
	ID string `json:"id"`
}

// 注文作成。全部1トランザクション：
// variant解決 → 商品のバッチロード → 在庫の条件付き減算 → スナップショット保存。
// どこかで失敗したら在庫減算ごと巻き戻る（部分的な注文は作らない）。
func (u *OrderUsecase) Create(ctx context.Context, actor Actor, in CreateOrderInput) (CreateOrderOutput, error) {
	if actor.UserID <= 0 {
		return CreateOrderOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "items must not be empty")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid productId")
		}
		if it.Qty <= 0 {
			return CreateOrderOutput{}, NewHTTPErrorWithDetails(
				http.StatusBadRequest, CodeValidationError, "qty must be positive",
				map[string]interface{}{"productId": it.ProductID},
			)
		}
	}

	//受取人の正規化
	name := strings.TrimSpace(in.Receiver.Name)
	phone := strings.TrimSpace(in.Receiver.Phone)
	if name == "" || phone == "" {
		return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "receiver.name and receiver.phone are required")
	}

	zip := strings.TrimSpace(in.Receiver.Address.Zip)
	if zip == "" {
		zip = strings.TrimSpace(in.Receiver.Address.Zipcode)
	}
	if zip == "" {
		return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "receiver.address.zip (or zipcode) is required")
	}
	address1 := strings.TrimSpace(in.Receiver.Address.Address1)
	if address1 == "" {
		return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "receiver.address.address1 is required")
	}

	//支払いは銀行振込のみ
	method := strings.TrimSpace(in.Payment.Method)
	if method == "" {
		method = string(model.PaymentMethodBankTransfer)
	}
	if method != string(model.PaymentMethodBankTransfer) {
		return CreateOrderOutput{}, NewHTTPErrorWithDetails(
			http.StatusBadRequest, CodeValidationError, "unsupported payment method",
			map[string]interface{}{"method": method},
		)
	}

	now := u.clock.Now()
	orderID := u.idGen.NewID()

	var out CreateOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//item別にvariantを確定
		type resolvedItem struct {
			variant model.ProductVariant
			summary string
			qty     int64
		}
		resolved := make([]resolvedItem, 0, len(in.Items))

		for _, it := range in.Items {
			var (
				v       model.ProductVariant
				summary string
				err     error
			)
			if it.VariantID != nil {
				v, err = r.Variants().FindByID(ctx, *it.VariantID)
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPErrorWithDetails(
						http.StatusNotFound, CodeVariantNotFound, "variant not found",
						map[string]interface{}{"variantId": *it.VariantID},
					)
				}
				if err != nil {
					return errDB()
				}
				//variantは必ず指定商品の所属であること
				if v.ProductID != it.ProductID {
					return NewHTTPErrorWithDetails(
						http.StatusBadRequest, CodeInvalidVariant, "variant does not belong to product",
						map[string]interface{}{"productId": it.ProductID, "variantId": *it.VariantID},
					)
				}
				summary, err = summaryForVariant(ctx, r, v)
				if err != nil {
					return err
				}
			} else {
				v, summary, err = resolveVariant(ctx, r, it.ProductID, it.OptionValues)
				if err != nil {
					return err
				}
			}
			resolved = append(resolved, resolvedItem{variant: v, summary: summary, qty: it.Qty})
		}

		//商品をまとめてロード（activeのみ）。欠けていたら全体を中止
		productIDs := make([]int64, 0, len(in.Items))
		seen := map[int64]bool{}
		for _, it := range in.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				productIDs = append(productIDs, it.ProductID)
			}
		}

		products, err := r.Products().FindActiveByIDs(ctx, productIDs)
		if err != nil {
			return errDB()
		}
		pMap := make(map[int64]model.Product, len(products))
		for _, p := range products {
			pMap[p.ID] = p
		}
		if len(pMap) != len(productIDs) {
			return NewHTTPErrorWithDetails(
				http.StatusNotFound, CodeNotFound, "product not found",
				map[string]interface{}{"what": "product"},
			)
		}

		//在庫holdとスナップショット
		orderItems := make([]model.OrderItem, 0, len(resolved))
		var grandTotal int64 = 0

		for _, ri := range resolved {
			p := pMap[ri.variant.ProductID]

			//在庫減算（stock >= qty のときだけ当たる条件付きUPDATE）。
			//0行なら同時注文に在庫を取られている。txごと巻き戻す
			ok, err := r.Variants().DecreaseStockIfEnough(ctx, ri.variant.ID, ri.qty)
			if err != nil {
				return errDB()
			}
			if !ok {
				return NewHTTPErrorWithDetails(
					http.StatusConflict, CodeOutOfStock, "out of stock",
					map[string]interface{}{"variantId": ri.variant.ID},
				)
			}

			//この瞬間の価格・名前を固定する
			unit := p.Price + ri.variant.PriceDelta
			grandTotal += unit * ri.qty

			orderItems = append(orderItems, model.OrderItem{
				ProductID:     p.ID,
				VariantID:     ri.variant.ID,
				Qty:           ri.qty,
				Price:         unit,
				Name:          p.Name,
				ThumbnailURL:  p.ThumbnailURL,
				OptionSummary: ri.summary,
				CreatedAt:     now,
			})
		}

		order := model.Order{
			ID:     orderID,
			UserID: actor.UserID,
			Status: model.OrderStatusAwaitingDeposit,

			ExpiresAt: now.Add(paymentWindow),

			ReceiverName:  name,
			ReceiverPhone: phone,
			ReceiverEmail: strings.TrimSpace(in.Receiver.Email),
			Zip:           zip,
			Address1:      address1,
			Address2:      strings.TrimSpace(in.Receiver.Address.Address2),
			Memo:          strings.TrimSpace(in.Receiver.Memo),

			PaymentMethod: model.PaymentMethod(method),
			Depositor:     strings.TrimSpace(in.Payment.Depositor),

			GrandTotal: grandTotal,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := r.Orders().Create(ctx, order); err != nil {
			return errDB()
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return errDB()
		}

		out = CreateOrderOutput{ID: orderID}
		return nil
	})

	if err != nil {
		return CreateOrderOutput{}, err
	}
	return out, nil
}

type OrderAmountsOutput struct {
	ItemsTotal    int64 `json:"items_total"`
	ShippingFee   int64 `json:"shipping_fee"`
	DiscountTotal int64 `json:"discount_total"`
	GrandTotal    int64 `json:"grand_total"`
}

type OrderPreviewOutput struct {
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type OrderListItemOutput struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
	Amounts   OrderAmountsOutput `json:"amounts"`
	Preview   OrderPreviewOutput `json:"preview"`
}

type OrderListOutput struct {
	Items []OrderListItemOutput `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// 注文一覧。買い手は自分の分だけ、adminは全件
func (u *OrderUsecase) List(ctx context.Context, actor Actor, page int, limit int) (OrderListOutput, error) {
	if actor.UserID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var (
			orders []model.Order
			total  int64
			err    error
		)
		if actor.IsAdmin() {
			orders, total, err = r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{Page: page, Limit: limit})
		} else {
			orders, total, err = r.Orders().ListByUserID(ctx, actor.UserID, page, limit)
		}
		if err != nil {
			return errDB()
		}

		items := make([]OrderListItemOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return errDB()
			}

			preview := OrderPreviewOutput{}
			if len(lines) > 0 {
				preview.Name = lines[0].Name
				preview.ThumbnailURL = lines[0].ThumbnailURL
			}

			items = append(items, OrderListItemOutput{
				ID:        o.ID,
				Status:    string(o.Status),
				CreatedAt: o.CreatedAt,
				ExpiresAt: o.ExpiresAt,
				Amounts:   toAmounts(o.GrandTotal),
				Preview:   preview,
			})
		}

		out = OrderListOutput{Items: items, Total: total, Page: page, Limit: limit}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

type OrderItemOutput struct {
	ProductID     int64  `json:"product_id"`
	VariantID     int64  `json:"variant_id"`
	Name          string `json:"name"`
	OptionSummary string `json:"option_summary"`
	Qty           int64  `json:"qty"`
	Price         int64  `json:"price"`
	ThumbnailURL  string `json:"thumbnail_url"`
}

type OrderReceiverOutput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Zip      string `json:"zip"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	Memo     string `json:"memo"`
}

type OrderShippingOutput struct {
	Carrier    string `json:"carrier"`
	TrackingNo string `json:"tracking_no"`
}

type OrderReturnOutput struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type RefundLogOutput struct {
	ID        int64     `json:"id"`
	Amount    int64     `json:"amount"`
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderDetailOutput struct {
	ID          string     `json:"id"`
	UserID      int64      `json:"user_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CanceledAt  *time.Time `json:"canceled_at"`

	Amounts       OrderAmountsOutput  `json:"amounts"`
	Items         []OrderItemOutput   `json:"items"`
	Receiver      OrderReceiverOutput `json:"receiver"`
	PaymentMethod string              `json:"payment_method"`
	Depositor     string              `json:"depositor"`
	Shipping      OrderShippingOutput `json:"shipping"`

	Return     *OrderReturnOutput `json:"return"`
	RefundLogs []RefundLogOutput  `json:"refund_logs"`
}

// 注文詳細（所有者かadminのみ）
func (u *OrderUsecase) Detail(ctx context.Context, actor Actor, orderID string) (OrderDetailOutput, error) {
	if actor.UserID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if orderID == "" {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid id")
	}

	var out OrderDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound(orderID)
		}
		if err != nil {
			return errDB()
		}
		if err := ensureOwnerOrAdmin(actor, o.UserID); err != nil {
			return err
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

// 買い手による受取確認。SHIPPED→DELIVERED、DELIVEREDなら成功扱いのno-op
func (u *OrderUsecase) ConfirmDelivered(ctx context.Context, actor Actor, orderID string) error {
	if actor.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	now := u.clock.Now()

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound(orderID)
		}
		if err != nil {
			return errDB()
		}
		if err := ensureOwnerOrAdmin(actor, o.UserID); err != nil {
			return err
		}

		if o.Status == model.OrderStatusDelivered {
			return nil
		}
		if o.Status != model.OrderStatusShipped {
			return invalidOrderStatus(o.Status)
		}

		ok, err := r.Orders().UpdateStatusIfCurrent(ctx, orderID,
			model.OrderStatusShipped, model.OrderStatusDelivered,
			repo.OrderPatch{DeliveredAt: &now},
		)
		if err != nil {
			return errDB()
		}
		if !ok {
			//読んだ直後に誰かが遷移させた
			return invalidOrderStatus(o.Status)
		}
		return nil
	})
}

// 入金待ちのうちだけキャンセルできる。在庫を明細ぶん戻す。
// CANCELEDなら成功扱いのno-op
func (u *OrderUsecase) CancelRequest(ctx context.Context, actor Actor, orderID string) error {
	if actor.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	now := u.clock.Now()

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound(orderID)
		}
		if err != nil {
			return errDB()
		}
		if err := ensureOwnerOrAdmin(actor, o.UserID); err != nil {
			return err
		}

		if o.Status == model.OrderStatusCanceled {
			return nil
		}
		if o.Status != model.OrderStatusAwaitingDeposit {
			return invalidOrderStatus(o.Status)
		}

		//先にキャンセルを確定してから在庫を戻す。失敗したらtxごと巻き戻る
		ok, err := r.Orders().UpdateStatusIfCurrent(ctx, orderID,
			model.OrderStatusAwaitingDeposit, model.OrderStatusCanceled,
			repo.OrderPatch{CanceledAt: &now},
		)
		if err != nil {
			return errDB()
		}
		if !ok {
			return invalidOrderStatus(o.Status)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}
		for _, it := range items {
			if err := r.Variants().IncreaseStock(ctx, it.VariantID, it.Qty); err != nil {
				return errDB()
			}
		}
		return nil
	})
}

type ReturnRequestOutput struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// 返品申請。DELIVEREDの注文だけ、かつ注文ごとに1回だけ
func (u *OrderUsecase) ReturnRequest(ctx context.Context, actor Actor, orderID string, reason string) (ReturnRequestOutput, error) {
	if actor.UserID <= 0 {
		return ReturnRequestOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	var out ReturnRequestOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound(orderID)
		}
		if err != nil {
			return errDB()
		}
		if err := ensureOwnerOrAdmin(actor, o.UserID); err != nil {
			return err
		}

		if o.Status != model.OrderStatusDelivered {
			return NewHTTPErrorWithDetails(
				http.StatusBadRequest, CodeReturnNotAllowed, "return not allowed",
				map[string]interface{}{"status": string(o.Status)},
			)
		}

		//注文につき返品1件。REJECTED後の再申請も不可
		existing, found, err := r.Returns().FindByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}
		if found {
			return NewHTTPErrorWithDetails(
				http.StatusConflict, CodeReturnAlreadyExists, "return already exists",
				map[string]interface{}{"returnId": existing.ID},
			)
		}

		id, err := r.Returns().Create(ctx, model.Return{
			OrderID:   orderID,
			Status:    model.ReturnStatusRequested,
			Reason:    strings.TrimSpace(reason),
			CreatedAt: u.clock.Now(),
		})
		if err != nil {
			return errDB()
		}

		out = ReturnRequestOutput{ID: id, Status: string(model.ReturnStatusRequested)}
		return nil
	})

	if err != nil {
		return ReturnRequestOutput{}, err
	}
	return out, nil
}

func toAmounts(grandTotal int64) OrderAmountsOutput {
	//送料・割引はこのコアでは常に0
	return OrderAmountsOutput{
		ItemsTotal:    grandTotal,
		ShippingFee:   0,
		DiscountTotal: 0,
		GrandTotal:    grandTotal,
	}
}

func toOrderDetail(o model.Order, items []model.OrderItem, ret model.Return, hasReturn bool, logs []model.RefundLog) OrderDetailOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:     it.ProductID,
			VariantID:     it.VariantID,
			Name:          it.Name,
			OptionSummary: it.OptionSummary,
			Qty:           it.Qty,
			Price:         it.Price,
			ThumbnailURL:  it.ThumbnailURL,
		})
	}

	outLogs := make([]RefundLogOutput, 0, len(logs))
	for _, l := range logs {
		outLogs = append(outLogs, RefundLogOutput{
			ID:        l.ID,
			Amount:    l.Amount,
			Memo:      l.Memo,
			CreatedAt: l.CreatedAt,
		})
	}

	var retOut *OrderReturnOutput
	if hasReturn {
		retOut = &OrderReturnOutput{ID: ret.ID, Status: string(ret.Status)}
	}

	return OrderDetailOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		ExpiresAt:   o.ExpiresAt,
		ShippedAt:   o.ShippedAt,
		DeliveredAt: o.DeliveredAt,
		CanceledAt:  o.CanceledAt,

		Amounts: toAmounts(o.GrandTotal),
		Items:   outItems,
		Receiver: OrderReceiverOutput{
			Name:     o.ReceiverName,
			Phone:    o.ReceiverPhone,
			Email:    o.ReceiverEmail,
			Zip:      o.Zip,
			Address1: o.Address1,
			Address2: o.Address2,
			Memo:     o.Memo,
		},
		PaymentMethod: string(o.PaymentMethod),
		Depositor:     o.Depositor,
		Shipping: OrderShippingOutput{
			Carrier:    o.Carrier,
			TrackingNo: o.TrackingNo,
		},

		Return:     retOut,
		RefundLogs: outLogs,
	}
}

func orderNotFound(orderID string) error {
	return NewHTTPErrorWithDetails(
		http.StatusNotFound, CodeOrderNotFound, "order not found",
		map[string]interface{}{"id": orderID},
	)
}

func invalidOrderStatus(current model.OrderStatus) error {
	return NewHTTPErrorWithDetails(
		http.StatusBadRequest, CodeInvalidOrderStatus, "invalid order status",
		map[string]interface{}{"status": string(current)},
	)
}
