package model

import "time"

// 注文明細。注文時点のカタログ情報のスナップショットで、以後変更しない。
// Priceはbase price + variant delta を確定した時点の単価。
type OrderItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       string    `gorm:"type:varchar(64);not null;index" json:"order_id"`
	ProductID     int64     `gorm:"not null;index" json:"product_id"`
	VariantID     int64     `gorm:"not null;index" json:"variant_id"`
	Qty           int64     `gorm:"not null" json:"qty"`
	Price         int64     `gorm:"not null" json:"price"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	ThumbnailURL  string    `gorm:"type:varchar(500)" json:"thumbnail_url"`
	OptionSummary string    `gorm:"type:varchar(255)" json:"option_summary"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
