package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/domain/model"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
)

type ICartService interface {
	AddItem(ctx context.Context, userID, productID, variantID string, quantity int) (*model.CartItem, error)
	GetCart(ctx context.Context, userID string) ([]model.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int) error
	RemoveItem(ctx context.Context, userID, cartItemID string) error
	RemovePurchasedVariants(ctx context.Context, userID string, variantIDs []string)
	ClearCart(ctx context.Context, userID string) error
}

// CartService 伺服器端購物車
// 只存(product, variant, quantity)，不存價格，價格一律建單時向product讀取
type CartService struct {
	store db.UnifiedDB
}

func NewCartService(store db.UnifiedDB) *CartService {
	return &CartService{store: store}
}

// AddItem 同一(user, variant)已存在時合併數量而不是新增一列
func (s *CartService) AddItem(ctx context.Context, userID, productID, variantID string, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, apperr.New(apperr.KindBadRequest, "quantity must be positive")
	}

	var saved *model.CartItem
	err := s.store.ExecTx(ctx, func(tx db.UnifiedDB) error {
		variant, err := tx.GetVariantByID(ctx, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.KindVariantNotFound, "variant %s not found", variantID)
			}
			return apperr.Wrap(apperr.KindInternal, "load variant failed", err)
		}
		if variant.ProductID != productID {
			return apperr.New(apperr.KindBadRequest, "variant does not belong to product")
		}

		product, err := tx.GetProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.KindProductNotFound, "product %s not found", productID)
			}
			return apperr.Wrap(apperr.KindInternal, "load product failed", err)
		}
		if product.IsDeleted || !product.IsActive {
			return apperr.Newf(apperr.KindProductNotFound, "product %s not found", productID)
		}

		existing, err := tx.GetCartItemByUserAndVariant(ctx, userID, variantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Wrap(apperr.KindInternal, "load cart item failed", err)
		}

		total := quantity
		if existing != nil {
			total += existing.Quantity
		}
		// 展示層預檢，權威檢查在付款時
		if int64(total) > variant.Stock {
			return apperr.Newf(apperr.KindOutOfStock, "insufficient stock for variant %s", variantID)
		}

		if existing != nil {
			if err := tx.UpdateCartItemQuantity(ctx, existing.CartItemID, total); err != nil {
				return apperr.Wrap(apperr.KindInternal, "update cart item failed", err)
			}
			existing.Quantity = total
			saved = existing
			return nil
		}

		item := &model.CartItem{
			CartItemID: uuid.NewString(),
			UserID:     userID,
			ProductID:  productID,
			VariantID:  variantID,
			Quantity:   quantity,
		}
		if err := tx.CreateCartItem(ctx, item); err != nil {
			return apperr.Wrap(apperr.KindInternal, "create cart item failed", err)
		}
		saved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetCart 讀取前先lazy清掉已下架/刪除商品的項目
func (s *CartService) GetCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	removed, err := s.store.DeleteStaleCartItems(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "prune stale cart items failed", err)
	}
	if removed > 0 {
		log.Info().Str("user_id", userID).Int64("removed", removed).Msg("pruned stale cart items")
	}

	items, err := s.store.GetCartItemsDetailed(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load cart failed", err)
	}
	return items, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int) error {
	item, err := s.findOwnedItem(ctx, userID, cartItemID)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return s.store.DeleteCartItem(ctx, item.CartItemID)
	}
	return s.store.UpdateCartItemQuantity(ctx, item.CartItemID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID string) error {
	item, err := s.findOwnedItem(ctx, userID, cartItemID)
	if err != nil {
		return err
	}
	return s.store.DeleteCartItem(ctx, item.CartItemID)
}

// RemovePurchasedVariants 付款成功後清掉已購買的項目，best-effort
func (s *CartService) RemovePurchasedVariants(ctx context.Context, userID string, variantIDs []string) {
	var ids []string
	for _, variantID := range variantIDs {
		item, err := s.store.GetCartItemByUserAndVariant(ctx, userID, variantID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn().Err(err).Str("variant_id", variantID).Msg("lookup purchased cart item failed")
			}
			continue
		}
		ids = append(ids, item.CartItemID)
	}
	if len(ids) == 0 {
		return
	}
	if _, err := s.store.DeleteCartItemsByIDs(ctx, ids); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("clear purchased cart items failed")
	}
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.store.DeleteCartItemsByUserID(ctx, userID)
}

func (s *CartService) findOwnedItem(ctx context.Context, userID, cartItemID string) (*model.CartItem, error) {
	items, err := s.store.GetCartItemsByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load cart failed", err)
	}
	for i := range items {
		if items[i].CartItemID == cartItemID {
			return &items[i], nil
		}
	}
	return nil, apperr.Newf(apperr.KindBadRequest, "cart item %s not found", cartItemID)
}

var _ ICartService = (*CartService)(nil)
