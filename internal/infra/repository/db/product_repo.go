package db

import (
	"context"

	"github.com/mikrobrand/mikro1/internal/domain/model"
)

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

// CreateProduct 連同variants一起建立
func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Preload("Variants").First(&product, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Preload("Variants").
		Where("product_id IN ?", productIDs).
		Find(&products).Error
	return products, err
}

func (s *ProductRepo) GetProductsBySellerID(ctx context.Context, sellerID string) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Preload("Variants").
		Where("seller_id = ? AND is_deleted = ?", sellerID, false).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

// UpdateProductPrice 改價不影響既有訂單，order item存的是快照
func (s *ProductRepo) UpdateProductPrice(ctx context.Context, productID string, priceKrw int64) error {
	return s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", productID).
		Update("price_krw", priceKrw).Error
}
