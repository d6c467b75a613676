package db

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/domain/model"
)

func testEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type VariantRepoTestSuite struct {
	suite.Suite
	db          *gorm.DB
	store       *UnifiedDBImpl
	variantRepo *VariantRepo
}

// SetupSuite 在測試套件開始前執行，需要可連線的postgres
func (suite *VariantRepoTestSuite) SetupSuite() {
	conn, err := GetDbConn(
		testEnv("POSTGRES_DB", "mikro1_test"),
		testEnv("POSTGRES_HOST", "localhost"),
		testEnv("POSTGRES_PORT", "5432"),
		testEnv("POSTGRES_USER", "postgres"),
		testEnv("POSTGRES_PASSWORD", "password"),
	)
	if err != nil {
		suite.T().Skipf("postgres not available: %v", err)
		return
	}
	if sqlDB, err := conn.DB(); err != nil || sqlDB.Ping() != nil {
		suite.T().Skip("postgres not reachable")
		return
	}

	store := NewUnifiedDB(conn)
	require.NoError(suite.T(), store.InitMigrate())

	suite.db = conn
	suite.store = store
	suite.variantRepo = store.VariantRepo
}

// SetupTest 在每個測試前清空資料表
func (suite *VariantRepoTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM product_variants")
	suite.db.Exec("DELETE FROM products")
}

func (suite *VariantRepoTestSuite) TearDownSuite() {
	if suite.db == nil {
		return
	}
	sqlDB, err := suite.db.DB()
	require.NoError(suite.T(), err)
	sqlDB.Close()
}

func (suite *VariantRepoTestSuite) seedVariant(stock int64) string {
	productID := uuid.NewString()
	variantID := uuid.NewString()
	err := suite.store.CreateProduct(context.Background(), &model.Product{
		ProductID: productID,
		SellerID:  uuid.NewString(),
		Title:     "stock test",
		PriceKrw:  1000,
		IsActive:  true,
		Variants: []model.ProductVariant{
			{VariantID: variantID, ProductID: productID, Color: "FREE", SizeLabel: "M", Stock: stock},
		},
	})
	require.NoError(suite.T(), err)
	return variantID
}

func (suite *VariantRepoTestSuite) TestDeductVariantStock() {
	ctx := context.Background()
	variantID := suite.seedVariant(5)

	ok, err := suite.variantRepo.DeductVariantStock(ctx, variantID, 3)
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)

	stock, err := suite.variantRepo.GetVariantStock(ctx, variantID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(2), stock)

	// 剩2扣3必須失敗且庫存不動
	ok, err = suite.variantRepo.DeductVariantStock(ctx, variantID, 3)
	require.NoError(suite.T(), err)
	require.False(suite.T(), ok)

	stock, err = suite.variantRepo.GetVariantStock(ctx, variantID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(2), stock)
}

func (suite *VariantRepoTestSuite) TestDeductVariantStockUnknownVariant() {
	ok, err := suite.variantRepo.DeductVariantStock(context.Background(), uuid.NewString(), 1)
	require.NoError(suite.T(), err)
	require.False(suite.T(), ok, "unknown variant affects zero rows")
}

// TestConcurrentDeductNoOversell 併發扣庫存不得超賣
// 初始庫存10，20個goroutine各扣1，恰好10個成功且庫存歸零
func (suite *VariantRepoTestSuite) TestConcurrentDeductNoOversell() {
	ctx := context.Background()
	variantID := suite.seedVariant(10)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := suite.variantRepo.DeductVariantStock(ctx, variantID, 1)
			if err != nil {
				results <- false
				return
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for ok := range results {
		if ok {
			succeeded++
		}
	}
	require.Equal(suite.T(), 10, succeeded, "exactly stock count of deductions may succeed")

	stock, err := suite.variantRepo.GetVariantStock(ctx, variantID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(0), stock)
}

func (suite *VariantRepoTestSuite) TestAddVariantStock() {
	ctx := context.Background()
	variantID := suite.seedVariant(2)

	require.NoError(suite.T(), suite.variantRepo.AddVariantStock(ctx, variantID, 3))
	stock, err := suite.variantRepo.GetVariantStock(ctx, variantID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(5), stock)
}

func TestVariantRepoTestSuite(t *testing.T) {
	suite.Run(t, new(VariantRepoTestSuite))
}
