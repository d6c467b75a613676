package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/domain/model"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	store *fakeStore
	svc   *CheckoutService
}

// SetupTest 每個測試用全新的store
func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.store = newFakeStore()
	suite.svc = NewCheckoutService(suite.store, nil)
}

func (suite *CheckoutServiceTestSuite) seedBuyer() (buyerID, addressID string) {
	ctx := context.Background()
	buyerID = uuid.NewString()
	addressID = uuid.NewString()
	err := suite.store.CreateUser(ctx, &model.User{UserID: buyerID, UserName: "buyer", UserEmail: buyerID + "@test.com", Role: "BUYER", IsActive: true})
	require.NoError(suite.T(), err)
	err = suite.store.CreateAddress(ctx, &model.Address{
		AddressID: addressID,
		UserID:    buyerID,
		Name:      "tester",
		Phone:     "010-0000-0000",
		ZipCode:   "12345",
		Addr1:     "Seoul",
	})
	require.NoError(suite.T(), err)
	return
}

func (suite *CheckoutServiceTestSuite) seedProduct(sellerID string, priceKrw, stock int64) (productID, variantID string) {
	ctx := context.Background()
	productID = uuid.NewString()
	variantID = uuid.NewString()
	err := suite.store.CreateProduct(ctx, &model.Product{
		ProductID: productID,
		SellerID:  sellerID,
		Title:     "test product",
		PriceKrw:  priceKrw,
		IsActive:  true,
		Variants: []model.ProductVariant{
			{VariantID: variantID, ProductID: productID, Color: "FREE", SizeLabel: "M", Stock: stock},
		},
	})
	require.NoError(suite.T(), err)
	return
}

func (suite *CheckoutServiceTestSuite) addCart(buyerID, productID, variantID string, qty int) string {
	cartItemID := uuid.NewString()
	err := suite.store.CreateCartItem(context.Background(), &model.CartItem{
		CartItemID: cartItemID,
		UserID:     buyerID,
		ProductID:  productID,
		VariantID:  variantID,
		Quantity:   qty,
	})
	require.NoError(suite.T(), err)
	return cartItemID
}

func (suite *CheckoutServiceTestSuite) TestSplitsOrdersBySeller() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()

	sellerA := uuid.NewString()
	sellerB := uuid.NewString()
	productA, variantA := suite.seedProduct(sellerA, 10000, 10)
	productB, variantB := suite.seedProduct(sellerB, 60000, 10)

	suite.addCart(buyerID, productA, variantA, 2)
	suite.addCart(buyerID, productB, variantB, 1)

	result, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-1", addressID)
	require.NoError(suite.T(), err)
	require.False(suite.T(), result.Idempotent)
	require.Len(suite.T(), result.Orders, 2, "one order per seller")

	// 分組保留購物車內首次出現的順序
	orderA := result.Orders[0]
	orderB := result.Orders[1]
	require.Equal(suite.T(), sellerA, orderA.SellerID)
	require.Equal(suite.T(), sellerB, orderB.SellerID)

	// 小計互不影響，免運門檻各賣家獨立結算
	require.Equal(suite.T(), int64(20000), orderA.ItemsSubtotalKrw)
	require.Equal(suite.T(), int64(3000), orderA.ShippingFeeKrw, "below threshold pays default fee")
	require.Equal(suite.T(), int64(23000), orderA.TotalPayKrw)

	require.Equal(suite.T(), int64(60000), orderB.ItemsSubtotalKrw)
	require.Equal(suite.T(), int64(0), orderB.ShippingFeeKrw, "over threshold is free shipping")
	require.Equal(suite.T(), int64(60000), orderB.TotalPayKrw)

	require.Equal(suite.T(), model.OrderStatusPending, orderA.Status)
	require.Regexp(suite.T(), `^ORD-\d{8}-[A-Z0-9]{6}$`, orderA.OrderNo)
}

func (suite *CheckoutServiceTestSuite) TestSellerShippingPolicyApplied() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()

	sellerID := uuid.NewString()
	fee := int64(5000)
	threshold := int64(100000)
	err := suite.store.CreateSellerProfile(ctx, &model.SellerProfile{
		UserID:                   sellerID,
		ShopName:                 "custom shop",
		ShippingFeeKrw:           &fee,
		FreeShippingThresholdKrw: &threshold,
	})
	require.NoError(suite.T(), err)

	productID, variantID := suite.seedProduct(sellerID, 60000, 5)
	suite.addCart(buyerID, productID, variantID, 1)

	result, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-1", addressID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(5000), result.Orders[0].ShippingFeeKrw, "60000 < custom threshold 100000")
}

func (suite *CheckoutServiceTestSuite) TestIdempotentRetry() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()
	productID, variantID := suite.seedProduct(uuid.NewString(), 10000, 10)
	suite.addCart(buyerID, productID, variantID, 1)

	first, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-retry", addressID)
	require.NoError(suite.T(), err)
	require.False(suite.T(), first.Idempotent)

	second, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-retry", addressID)
	require.NoError(suite.T(), err)
	require.True(suite.T(), second.Idempotent)
	require.Len(suite.T(), second.Orders, 1)
	require.Equal(suite.T(), first.Orders[0].OrderID, second.Orders[0].OrderID, "retry must return the same order")
	require.Len(suite.T(), suite.store.state.orders, 1, "no additional order rows")
}

func (suite *CheckoutServiceTestSuite) TestEmptyCart() {
	buyerID, addressID := suite.seedBuyer()

	_, err := suite.svc.CreateOrders(context.Background(), buyerID, "attempt-1", addressID)
	require.Error(suite.T(), err)
	require.True(suite.T(), apperr.IsKind(err, apperr.KindCartEmpty))
}

func (suite *CheckoutServiceTestSuite) TestRemovesStaleItemsAndFailsWhenAllRemoved() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()

	sellerID := uuid.NewString()
	productID, variantID := suite.seedProduct(sellerID, 10000, 10)
	cartItemID := suite.addCart(buyerID, productID, variantID, 1)

	// 加入購物車後商品被刪除
	product, err := suite.store.GetProductByID(ctx, productID)
	require.NoError(suite.T(), err)
	product.IsDeleted = true
	require.NoError(suite.T(), suite.store.UpdateProduct(ctx, product))

	_, err = suite.svc.CreateOrders(ctx, buyerID, "attempt-1", addressID)
	require.Error(suite.T(), err)
	require.True(suite.T(), apperr.IsKind(err, apperr.KindCartItemInvalidRemoved))
	_ = cartItemID
}

func (suite *CheckoutServiceTestSuite) TestRemovesStaleItemsButKeepsValid() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()

	sellerID := uuid.NewString()
	goodProduct, goodVariant := suite.seedProduct(sellerID, 10000, 10)
	badProduct, badVariant := suite.seedProduct(sellerID, 20000, 10)

	suite.addCart(buyerID, goodProduct, goodVariant, 1)
	staleID := suite.addCart(buyerID, badProduct, badVariant, 1)

	product, err := suite.store.GetProductByID(ctx, badProduct)
	require.NoError(suite.T(), err)
	product.IsActive = false
	require.NoError(suite.T(), suite.store.UpdateProduct(ctx, product))

	result, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-1", addressID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), result.Orders, 1)
	require.Equal(suite.T(), int64(10000), result.Orders[0].ItemsSubtotalKrw, "stale item must not be billed")
	require.Contains(suite.T(), result.RemovedCartItemIDs, staleID)

	_, ok := suite.store.state.cartItems[staleID]
	require.False(suite.T(), ok, "stale cart item should be deleted")
}

func (suite *CheckoutServiceTestSuite) TestSelfPurchaseRejectedWithRollback() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()

	// 買家自己就是賣家
	productID, variantID := suite.seedProduct(buyerID, 10000, 10)
	suite.addCart(buyerID, productID, variantID, 1)

	_, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-1", addressID)
	require.Error(suite.T(), err)
	require.True(suite.T(), apperr.IsKind(err, apperr.KindSelfPurchase))
	require.Empty(suite.T(), suite.store.state.orders, "no order rows on failure")
}

func (suite *CheckoutServiceTestSuite) TestStockPrecheck() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()
	productID, variantID := suite.seedProduct(uuid.NewString(), 10000, 2)
	suite.addCart(buyerID, productID, variantID, 3)

	_, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-1", addressID)
	require.Error(suite.T(), err)
	require.True(suite.T(), apperr.IsKind(err, apperr.KindOutOfStock))
}

func (suite *CheckoutServiceTestSuite) TestNoStockDeductedAtCreation() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()
	productID, variantID := suite.seedProduct(uuid.NewString(), 10000, 5)
	suite.addCart(buyerID, productID, variantID, 3)

	_, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-1", addressID)
	require.NoError(suite.T(), err)

	stock, err := suite.store.GetVariantStock(ctx, variantID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(5), stock, "stock deduction is deferred to payment")
	_ = productID
}

func (suite *CheckoutServiceTestSuite) TestAddressMustBelongToBuyer() {
	ctx := context.Background()
	buyerID, _ := suite.seedBuyer()
	otherID, otherAddress := suite.seedBuyer()
	require.NotEqual(suite.T(), buyerID, otherID)

	productID, variantID := suite.seedProduct(uuid.NewString(), 10000, 10)
	suite.addCart(buyerID, productID, variantID, 1)

	_, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-1", otherAddress)
	require.Error(suite.T(), err)
	require.True(suite.T(), apperr.IsKind(err, apperr.KindAddressInvalid))
}

func (suite *CheckoutServiceTestSuite) TestCartKeptAfterOrderCreation() {
	ctx := context.Background()
	buyerID, addressID := suite.seedBuyer()
	productID, variantID := suite.seedProduct(uuid.NewString(), 10000, 10)
	cartItemID := suite.addCart(buyerID, productID, variantID, 1)

	_, err := suite.svc.CreateOrders(ctx, buyerID, "attempt-1", addressID)
	require.NoError(suite.T(), err)

	// 建單不清購物車，付款成功後才清
	_, ok := suite.store.state.cartItems[cartItemID]
	require.True(suite.T(), ok)
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}
