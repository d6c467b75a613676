package db

import (
	"context"

	"github.com/mikrobrand/mikro1/internal/domain/model"
)

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

func (s *CartRepo) CreateCartItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *CartRepo) GetCartItemsByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// GetCartItemsDetailed 帶variant與product join的完整讀取
// variant已被刪除的項目Variant為nil，由caller判定
func (s *CartRepo) GetCartItemsDetailed(ctx context.Context, userID string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Preload("Variant").
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (s *CartRepo) GetCartItemByUserAndVariant(ctx context.Context, userID, variantID string) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartRepo) UpdateCartItemQuantity(ctx context.Context, cartItemID string, quantity int) error {
	return s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_item_id = ?", cartItemID).
		Update("quantity", quantity).Error
}

func (s *CartRepo) DeleteCartItem(ctx context.Context, cartItemID string) error {
	return s.db.WithContext(ctx).Where("cart_item_id = ?", cartItemID).Delete(&model.CartItem{}).Error
}

func (s *CartRepo) DeleteCartItemsByIDs(ctx context.Context, cartItemIDs []string) (int64, error) {
	if len(cartItemIDs) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Where("cart_item_id IN ?", cartItemIDs).
		Delete(&model.CartItem{})
	return result.RowsAffected, result.Error
}

func (s *CartRepo) DeleteCartItemsByUserID(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

// DeleteStaleCartItems 移除商品已下架或已刪除的購物車項目
// 與建單同一個transaction執行，建單失敗時一併rollback
func (s *CartRepo) DeleteStaleCartItems(ctx context.Context, userID string) (int64, error) {
	staleVariants := s.db.Model(&model.ProductVariant{}).
		Select("product_variants.variant_id").
		Joins("JOIN products ON products.product_id = product_variants.product_id").
		Where("products.is_deleted = ? OR products.is_active = ?", true, false)

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND variant_id IN (?)", userID, staleVariants).
		Delete(&model.CartItem{})
	return result.RowsAffected, result.Error
}
