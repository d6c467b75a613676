package redis_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const variantStockTTL = 5 * time.Minute

/*
展示用庫存cache
權威庫存永遠是db的stock欄位，這裡只服務商品頁/購物車頁的讀取
*/
type IVariantStockRepository interface {
	GetVariantStock(ctx context.Context, variantID string) (int64, bool, error)
	SetVariantStock(ctx context.Context, variantID string, stock int64) error
	DeleteVariantStock(ctx context.Context, variantID string) error
}

type VariantStockRepo struct {
	client *redis.Client
}

func NewVariantStockRepo(client *redis.Client) *VariantStockRepo {
	return &VariantStockRepo{client: client}
}

func generateVariantStockKey(variantID string) string {
	return fmt.Sprintf("variant:%s:stock", variantID)
}

// GetVariantStock 第二回傳值表示cache hit
func (r *VariantStockRepo) GetVariantStock(ctx context.Context, variantID string) (int64, bool, error) {
	stock, err := r.client.Get(ctx, generateVariantStockKey(variantID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get variant stock: %w", err)
	}
	return stock, true, nil
}

func (r *VariantStockRepo) SetVariantStock(ctx context.Context, variantID string, stock int64) error {
	err := r.client.Set(ctx, generateVariantStockKey(variantID), stock, variantStockTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set variant stock: %w", err)
	}
	return nil
}

func (r *VariantStockRepo) DeleteVariantStock(ctx context.Context, variantID string) error {
	err := r.client.Del(ctx, generateVariantStockKey(variantID)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete variant stock: %w", err)
	}
	return nil
}

var _ IVariantStockRepository = (*VariantStockRepo)(nil)
