package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/domain/model"
)

type OrderRepoTestSuite struct {
	suite.Suite
	db        *gorm.DB
	store     *UnifiedDBImpl
	orderRepo *OrderRepo
}

func (suite *OrderRepoTestSuite) SetupSuite() {
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
	suite.orderRepo = store.OrderRepo
}

func (suite *OrderRepoTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM order_items")
	suite.db.Exec("DELETE FROM payments")
	suite.db.Exec("DELETE FROM orders")
}

func (suite *OrderRepoTestSuite) TearDownSuite() {
	if suite.db == nil {
		return
	}
	sqlDB, err := suite.db.DB()
	require.NoError(suite.T(), err)
	sqlDB.Close()
}

func (suite *OrderRepoTestSuite) seedOrder(buyerID, sellerID string, seq int) string {
	orderID := uuid.NewString()
	err := suite.orderRepo.CreateOrder(context.Background(), &model.Order{
		OrderID:           orderID,
		OrderNo:           fmt.Sprintf("ORD-20260901-%06d", seq),
		BuyerID:           buyerID,
		SellerID:          sellerID,
		Status:            model.OrderStatusPending,
		ShipToName:        "tester",
		ShipToPhone:       "010",
		ShipToZip:         "1",
		ShipToAddr1:       "Seoul",
		CheckoutAttemptID: uuid.NewString(),
		ExpiresAt:         time.Now().Add(30 * time.Minute),
	})
	require.NoError(suite.T(), err)
	return orderID
}

// 分頁查詢的total要涵蓋全部資料，而不是當頁筆數
func (suite *OrderRepoTestSuite) TestGetOrdersBySellerIDPaged() {
	ctx := context.Background()
	buyerID := uuid.NewString()
	sellerID := uuid.NewString()
	otherSeller := uuid.NewString()

	for i := 0; i < 5; i++ {
		suite.seedOrder(buyerID, sellerID, i)
	}
	suite.seedOrder(buyerID, otherSeller, 99)

	orders, total, err := suite.orderRepo.GetOrdersBySellerID(ctx, sellerID, 1, 2)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(5), total)
	require.Len(suite.T(), orders, 2)

	orders, total, err = suite.orderRepo.GetOrdersBySellerID(ctx, sellerID, 3, 2)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(5), total)
	require.Len(suite.T(), orders, 1, "last page holds the remainder")
}

func (suite *OrderRepoTestSuite) TestGetOrdersBySellerIDEmpty() {
	orders, total, err := suite.orderRepo.GetOrdersBySellerID(context.Background(), uuid.NewString(), 1, 20)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(0), total)
	require.Empty(suite.T(), orders)
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}
