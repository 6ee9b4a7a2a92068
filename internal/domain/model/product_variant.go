package model

import "time"

// グループキー → オプションID。グループの値が無い場合はキー自体を入れない。
type OptionSelection map[OptionGroup]int64

// 購入可能な組み合わせ。在庫はここに持つ。
// オプション無し商品は両FKがnullのデフォルトvariantを1つだけ持つ。
// 同一商品内で (sizeOptionID, colorOptionID) の組はユニーク。
type ProductVariant struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID     int64     `gorm:"not null;index;uniqueIndex:uq_variant_combination" json:"product_id"`
	SizeOptionID  *int64    `gorm:"uniqueIndex:uq_variant_combination" json:"size_option_id"`
	ColorOptionID *int64    `gorm:"uniqueIndex:uq_variant_combination" json:"color_option_id"`
	Stock         int64     `gorm:"not null" json:"stock"`
	PriceDelta    int64     `gorm:"not null;default:0" json:"price_delta"`
	SKU           string    `gorm:"type:varchar(100)" json:"sku"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// OptionIDsはFK2本をグループキーのmapに直して返す。
// resolver側をsize/colorの特別扱いから切り離すための変換。
func (v ProductVariant) OptionIDs() OptionSelection {
	sel := OptionSelection{}
	if v.SizeOptionID != nil {
		sel[OptionGroupSize] = *v.SizeOptionID
	}
	if v.ColorOptionID != nil {
		sel[OptionGroupColor] = *v.ColorOptionID
	}
	return sel
}

// Matchesは選択の組と完全一致するかどうか。
func (v ProductVariant) Matches(sel OptionSelection) bool {
	own := v.OptionIDs()
	if len(own) != len(sel) {
		return false
	}
	for g, id := range sel {
		if own[g] != id {
			return false
		}
	}
	return true
}
