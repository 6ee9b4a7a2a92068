package model

import "time"

type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "REQUESTED"
	ReturnStatusApproved  ReturnStatus = "APPROVED"
	ReturnStatusRejected  ReturnStatus = "REJECTED"
	ReturnStatusRefunded  ReturnStatus = "REFUNDED"
)

// 返品。注文1件につき最大1件（orderId unique）。
// REJECTED後の再申請も不可＝uniqueのまま。
type Return struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   string       `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	Status    ReturnStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Reason    string       `gorm:"type:varchar(500)" json:"reason"`
	Memo      string       `gorm:"type:varchar(500)" json:"memo"`
	CreatedAt time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
