package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/domain/model"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
	"github.com/mikrobrand/mikro1/internal/pkg/util"
)

// VariantInput 建立商品時的variant輸入，正規化前的原始值
type VariantInput struct {
	Color     string
	SizeLabel string
	Stock     int64
}

type IProductService interface {
	CreateProduct(ctx context.Context, sellerID, title string, priceKrw int64, variants []VariantInput) (*model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error)
	GetSellerProducts(ctx context.Context, sellerID string) ([]model.Product, error)
	UpdatePrice(ctx context.Context, sellerID, productID string, priceKrw int64) error
}

// ProductService 商品目錄
// variantReader可注入帶redis快取的裝飾器，展示用庫存走cache-aside
type ProductService struct {
	store         db.UnifiedDB
	variantReader db.IVariantRepository
}

func NewProductService(store db.UnifiedDB, variantReader db.IVariantRepository) *ProductService {
	if variantReader == nil {
		variantReader = store
	}
	return &ProductService{
		store:         store,
		variantReader: variantReader,
	}
}

// CreateProduct variant組合鍵(color, sizeLabel)正規化後不得重複
func (s *ProductService) CreateProduct(ctx context.Context, sellerID, title string, priceKrw int64, variants []VariantInput) (*model.Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.New(apperr.KindBadRequest, "title is required")
	}
	if priceKrw <= 0 {
		return nil, apperr.New(apperr.KindBadRequest, "priceKrw must be positive")
	}
	if len(variants) == 0 {
		return nil, apperr.New(apperr.KindBadRequest, "at least one variant is required")
	}

	productID := uuid.NewString()
	seen := make(map[string]struct{}, len(variants))
	modelVariants := make([]model.ProductVariant, 0, len(variants))
	for _, v := range variants {
		normalized, err := util.NormalizeVariantInput(v.Color, v.SizeLabel, v.Stock)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindBadRequest, "invalid variant", err)
		}
		key := util.VariantComboKey(normalized.Color, normalized.SizeLabel)
		if _, dup := seen[key]; dup {
			return nil, apperr.Newf(apperr.KindVariantDuplicated, "duplicated variant %s/%s", normalized.Color, normalized.SizeLabel)
		}
		seen[key] = struct{}{}
		modelVariants = append(modelVariants, model.ProductVariant{
			VariantID: uuid.NewString(),
			ProductID: productID,
			Color:     normalized.Color,
			SizeLabel: normalized.SizeLabel,
			Stock:     normalized.Stock,
		})
	}

	product := &model.Product{
		ProductID: productID,
		SellerID:  sellerID,
		Title:     title,
		PriceKrw:  priceKrw,
		IsActive:  true,
		Variants:  modelVariants,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, apperr.New(apperr.KindVariantDuplicated, "variant combination already exists")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "create product failed", err)
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindProductNotFound, "product %s not found", productID)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load product failed", err)
	}
	if product.IsDeleted {
		return nil, apperr.Newf(apperr.KindProductNotFound, "product %s not found", productID)
	}
	return product, nil
}

// GetProductsByIDs 批次讀取，回傳順序不保證、已刪除/下架的直接略過
// 庫存以快取層的值覆寫，允許短暫stale，權威值永遠在db
func (s *ProductService) GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	products, err := s.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load products failed", err)
	}

	visible := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.IsDeleted || !p.IsActive {
			continue
		}
		for i := range p.Variants {
			stock, err := s.variantReader.GetVariantStock(ctx, p.Variants[i].VariantID)
			if err != nil {
				log.Warn().Err(err).Str("variant_id", p.Variants[i].VariantID).Msg("read cached stock failed")
				continue
			}
			p.Variants[i].Stock = stock
		}
		visible = append(visible, p)
	}
	return visible, nil
}

func (s *ProductService) GetSellerProducts(ctx context.Context, sellerID string) ([]model.Product, error) {
	products, err := s.store.GetProductsBySellerID(ctx, sellerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load seller products failed", err)
	}
	return products, nil
}

// UpdatePrice 改價只影響之後的訂單，已建立訂單的快照價不受影響
func (s *ProductService) UpdatePrice(ctx context.Context, sellerID, productID string, priceKrw int64) error {
	if priceKrw <= 0 {
		return apperr.New(apperr.KindBadRequest, "priceKrw must be positive")
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID != sellerID {
		return apperr.New(apperr.KindForbidden, "not the product owner")
	}
	if err := s.store.UpdateProductPrice(ctx, productID, priceKrw); err != nil {
		return apperr.Wrap(apperr.KindInternal, "update price failed", err)
	}
	return nil
}

var _ IProductService = (*ProductService)(nil)
