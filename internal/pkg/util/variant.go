package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyColor     = errors.New("color cannot be empty")
	ErrEmptySizeLabel = errors.New("size label cannot be empty")
)

// NormalizedVariant 正規化後的variant輸入
type NormalizedVariant struct {
	Color     string
	SizeLabel string
	Stock     int64
}

// NormalizeVariantInput variant比對前的正規化
// trim -> 轉大寫 -> 壓縮連續空白，color空值補FREE，stock不得為負
func NormalizeVariantInput(color, sizeLabel string, stock int64) (NormalizedVariant, error) {
	if strings.TrimSpace(color) == "" {
		color = "FREE"
	}

	normalized := NormalizedVariant{
		Color:     collapseSpaces(strings.ToUpper(strings.TrimSpace(color))),
		SizeLabel: collapseSpaces(strings.ToUpper(strings.TrimSpace(sizeLabel))),
		Stock:     stock,
	}
	if normalized.Stock < 0 {
		normalized.Stock = 0
	}

	if normalized.Color == "" {
		return NormalizedVariant{}, ErrEmptyColor
	}
	if normalized.SizeLabel == "" {
		return NormalizedVariant{}, ErrEmptySizeLabel
	}
	return normalized, nil
}

// VariantComboKey 唯一性檢查用組合鍵
func VariantComboKey(color, sizeLabel string) string {
	return fmt.Sprintf("%s|%s", strings.ToUpper(color), strings.ToUpper(sizeLabel))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
