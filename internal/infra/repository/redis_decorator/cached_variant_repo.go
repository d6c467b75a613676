package redis_decorator

import (
	"context"

	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
	"github.com/mikrobrand/mikro1/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog/log"
)

/*
cache-aside裝飾器，只攔截庫存讀取
寫入路徑(conditional decrement)直達db，成功後再invalidate cache
*/
type CacheAsideVariantRepo struct {
	db.IVariantRepository
	redis redis_repo.IVariantStockRepository
}

func NewCacheAsideVariantRepo(dbRepo db.IVariantRepository, redis redis_repo.IVariantStockRepository) db.IVariantRepository {
	return &CacheAsideVariantRepo{IVariantRepository: dbRepo, redis: redis}
}

func (p *CacheAsideVariantRepo) GetVariantStock(ctx context.Context, variantID string) (int64, error) {
	stock, hit, err := p.redis.GetVariantStock(ctx, variantID)
	if err == nil && hit {
		return stock, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("variant_id", variantID).Msg("variant stock cache read failed")
	}

	stock, err = p.IVariantRepository.GetVariantStock(ctx, variantID)
	if err != nil {
		return 0, err
	}

	if err := p.redis.SetVariantStock(ctx, variantID, stock); err != nil {
		log.Warn().Err(err).Str("variant_id", variantID).Msg("variant stock cache fill failed")
	}
	return stock, nil
}

func (p *CacheAsideVariantRepo) DeductVariantStock(ctx context.Context, variantID string, quantity int) (bool, error) {
	ok, err := p.IVariantRepository.DeductVariantStock(ctx, variantID, quantity)
	if err != nil || !ok {
		return ok, err
	}
	if err := p.redis.DeleteVariantStock(ctx, variantID); err != nil {
		log.Warn().Err(err).Str("variant_id", variantID).Msg("variant stock cache invalidate failed")
	}
	return true, nil
}

func (p *CacheAsideVariantRepo) AddVariantStock(ctx context.Context, variantID string, quantity int) error {
	if err := p.IVariantRepository.AddVariantStock(ctx, variantID, quantity); err != nil {
		return err
	}
	if err := p.redis.DeleteVariantStock(ctx, variantID); err != nil {
		log.Warn().Err(err).Str("variant_id", variantID).Msg("variant stock cache invalidate failed")
	}
	return nil
}
