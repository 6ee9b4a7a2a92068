package model

import "time"

type OrderStatus string

const (
	OrderStatusAwaitingDeposit  OrderStatus = "AWAITING_DEPOSIT"
	OrderStatusDepositConfirmed OrderStatus = "DEPOSIT_CONFIRMED"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCanceled         OrderStatus = "CANCELED"
)

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// 注文。作成後はステータス遷移でのみ更新され、削除されない。
// IDは外部参照用の文字列ID（uuid）。
type Order struct {
	ID     string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID int64       `gorm:"not null;index" json:"user_id"`
	Status OrderStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	//入金待ちの期限。sweeperがこれを見て自動キャンセルする
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CanceledAt  *time.Time `json:"canceled_at"`

	//受取人
	ReceiverName  string `gorm:"type:varchar(255);not null" json:"receiver_name"`
	ReceiverPhone string `gorm:"type:varchar(30);not null" json:"receiver_phone"`
	ReceiverEmail string `gorm:"type:varchar(255)" json:"receiver_email"`
	Zip           string `gorm:"type:varchar(20);not null" json:"zip"`
	Address1      string `gorm:"type:varchar(255);not null" json:"address1"`
	Address2      string `gorm:"type:varchar(255)" json:"address2"`
	Memo          string `gorm:"type:varchar(500)" json:"memo"`

	//支払い（銀行振込のみ。ゲートウェイ連携はしない）
	PaymentMethod PaymentMethod `gorm:"type:varchar(30);not null" json:"payment_method"`
	Depositor     string        `gorm:"type:varchar(100)" json:"depositor"`

	//出荷情報
	Carrier    string `gorm:"type:varchar(100)" json:"carrier"`
	TrackingNo string `gorm:"type:varchar(100)" json:"tracking_no"`

	GrandTotal int64 `gorm:"not null" json:"grand_total"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
