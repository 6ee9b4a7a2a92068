package model

import "time"

// 返金記録。追記専用で、更新も削除もしない。
type RefundLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   string    `gorm:"type:varchar(64);not null;index" json:"order_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Memo      string    `gorm:"type:varchar(500);not null" json:"memo"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
