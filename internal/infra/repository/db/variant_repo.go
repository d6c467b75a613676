package db

import (
	"context"
	"errors"

	"github.com/mikrobrand/mikro1/internal/domain/model"
	"gorm.io/gorm"
)

// VariantRepo 庫存帳本
// stock欄位只允許透過這裡的conditional update異動，其他地方禁止直接寫入
type VariantRepo struct {
	db *DbDao
}

func NewVariantRepo(db *DbDao) *VariantRepo {
	return &VariantRepo{db: db}
}

func (s *VariantRepo) GetVariantByID(ctx context.Context, variantID string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := s.db.WithContext(ctx).First(&variant, "variant_id = ?", variantID).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (s *VariantRepo) GetVariantsByIDs(ctx context.Context, variantIDs []string) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := s.db.WithContext(ctx).Where("variant_id IN ?", variantIDs).Find(&variants).Error
	return variants, err
}

// GetDefaultVariantByProductID 舊資料的order item沒有variant id時的fallback
func (s *VariantRepo) GetDefaultVariantByProductID(ctx context.Context, productID string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// DeductVariantStock 原子性條件扣庫存
// 單一UPDATE ... WHERE stock >= quantity，不是先讀後寫
// 影響0列代表庫存不足，回傳false
func (s *VariantRepo) DeductVariantStock(ctx context.Context, variantID string, quantity int) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("variant_id = ? AND stock >= ?", variantID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AddVariantStock 回補庫存(補貨)
func (s *VariantRepo) AddVariantStock(ctx context.Context, variantID string, quantity int) error {
	result := s.db.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("variant_id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *VariantRepo) GetVariantStock(ctx context.Context, variantID string) (int64, error) {
	variant, err := s.GetVariantByID(ctx, variantID)
	if err != nil {
		return 0, err
	}
	return variant.Stock, nil
}
