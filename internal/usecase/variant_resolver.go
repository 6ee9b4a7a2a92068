package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 選択オプション。フィールドが無い（nil）のと空文字は区別する
type OptionValuesInput struct {
	Size  *string `json:"size"`
	Color *string `json:"color"`
}

func (in OptionValuesInput) raw(g model.OptionGroup) *string {
	switch g {
	case model.OptionGroupSize:
		return in.Size
	case model.OptionGroupColor:
		return in.Color
	default:
		return nil
	}
}

// クライアントは「値」（size=M）で話し、在庫はオプションIDの組で引く。
// そのため 値→オプションID→variant の2段で解決する。
// 戻り値の2つ目は表示用のオプションまとめ（"black / M" など）。
func resolveVariant(ctx context.Context, r repo.TxRepos, productID int64, in OptionValuesInput) (model.ProductVariant, string, error) {
	optionCount, err := r.Options().CountByProductID(ctx, productID)
	if err != nil {
		return model.ProductVariant{}, "", errDB()
	}

	//オプション無し商品はデフォルトvariant1本。値が送られてきても無視する
	if optionCount == 0 {
		v, err := r.Variants().FindDefaultByProductID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			//activeなオプション無し商品は必ずデフォルトvariantを持つはず（データ不整合）
			return model.ProductVariant{}, "", NewHTTPErrorWithDetails(
				http.StatusNotFound, CodeVariantNotFound, "variant not found",
				map[string]interface{}{"productId": productID},
			)
		}
		if err != nil {
			return model.ProductVariant{}, "", errDB()
		}
		return v, "", nil
	}

	//グループごとの値を集める。present-but-emptyは弾く
	values := map[model.OptionGroup]string{}
	for _, g := range model.OptionGroups {
		p := in.raw(g)
		if p == nil {
			continue
		}
		v := strings.TrimSpace(*p)
		if v == "" {
			return model.ProductVariant{}, "", NewHTTPErrorWithDetails(
				http.StatusBadRequest, CodeValidationError, "empty option value",
				map[string]interface{}{"field": string(g)},
			)
		}
		values[g] = v
	}
	if len(values) == 0 {
		return model.ProductVariant{}, "", NewHTTPErrorWithDetails(
			http.StatusBadRequest, CodeValidationError, "options required",
			map[string]interface{}{"productId": productID},
		)
	}

	//値→オプションID
	sel := model.OptionSelection{}
	for g, v := range values {
		opt, err := r.Options().FindByValue(ctx, productID, g, v)
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductVariant{}, "", NewHTTPErrorWithDetails(
				http.StatusBadRequest, CodeValidationError, "unknown option value",
				map[string]interface{}{"field": string(g), "value": v},
			)
		}
		if err != nil {
			return model.ProductVariant{}, "", errDB()
		}
		sel[g] = opt.ID
	}

	//オプションIDの組→variant
	v, err := r.Variants().FindBySelection(ctx, productID, sel)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductVariant{}, "", NewHTTPErrorWithDetails(
			http.StatusNotFound, CodeVariantNotFound, "variant not found",
			map[string]interface{}{"productId": productID, "optionValues": values},
		)
	}
	if err != nil {
		return model.ProductVariant{}, "", errDB()
	}

	return v, optionSummary(values), nil
}

// 表示用。color / size の順で " / " 結合
func optionSummary(values map[model.OptionGroup]string) string {
	parts := make([]string, 0, 2)
	if c, ok := values[model.OptionGroupColor]; ok {
		parts = append(parts, c)
	}
	if s, ok := values[model.OptionGroupSize]; ok {
		parts = append(parts, s)
	}
	return strings.Join(parts, " / ")
}

// variantIdを直接指定された場合のまとめ文字列。オプションを引き直して作る
func summaryForVariant(ctx context.Context, r repo.TxRepos, v model.ProductVariant) (string, error) {
	sel := v.OptionIDs()
	if len(sel) == 0 {
		return "", nil
	}

	opts, err := r.Options().ListByProductID(ctx, v.ProductID)
	if err != nil {
		return "", errDB()
	}

	byID := make(map[int64]model.ProductOption, len(opts))
	for _, o := range opts {
		byID[o.ID] = o
	}

	values := map[model.OptionGroup]string{}
	for g, id := range sel {
		if o, ok := byID[id]; ok {
			values[g] = o.Value
		}
	}
	return optionSummary(values), nil
}
