package model

import "time"

// オプショングループのキー（現状はsize/colorの2つ）
type OptionGroup string

const (
	OptionGroupSize  OptionGroup = "size"
	OptionGroupColor OptionGroup = "color"
)

// OptionGroupsは解決処理が見るグループの一覧。
// 追加するときはここに足すだけでresolverはそのまま動く。
var OptionGroups = []OptionGroup{OptionGroupSize, OptionGroupColor}

// 商品オプション（size=M、color=blackなど）。
// (product, group, value) はユニーク。
type ProductOption struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64       `gorm:"not null;index;uniqueIndex:uq_product_group_value" json:"product_id"`
	GroupKey  OptionGroup `gorm:"type:varchar(20);not null;uniqueIndex:uq_product_group_value" json:"group_key"`
	Label     string      `gorm:"type:varchar(100);not null" json:"label"`
	Value     string      `gorm:"type:varchar(100);not null;uniqueIndex:uq_product_group_value" json:"value"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
