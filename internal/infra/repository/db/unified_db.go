package db

import (
	"context"

	"github.com/mikrobrand/mikro1/internal/domain/model"
	"gorm.io/gorm"
)

// UnifiedDB 統一的資料庫介面
// ExecTx回傳綁定transaction的UnifiedDB，所有multi-step mutation都必須經過它
type UnifiedDB interface {
	// 基礎操作
	GetDB() *gorm.DB
	ExecTx(ctx context.Context, fn func(tx UnifiedDB) error) error
	InitMigrate() error

	IUserRepository
	IProductRepository
	IVariantRepository
	ICartRepository
	IAddressRepository
	IOrderRepository
	IPaymentRepository
}

// IUserRepository User/Session/SellerProfile 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreateSellerProfile(ctx context.Context, profile *model.SellerProfile) error
	GetSellerProfile(ctx context.Context, userID string) (*model.SellerProfile, error)
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error)
	GetProductsBySellerID(ctx context.Context, sellerID string) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	UpdateProductPrice(ctx context.Context, productID string, priceKrw int64) error
}

// IVariantRepository 庫存帳本介面
type IVariantRepository interface {
	GetVariantByID(ctx context.Context, variantID string) (*model.ProductVariant, error)
	GetVariantsByIDs(ctx context.Context, variantIDs []string) ([]model.ProductVariant, error)
	GetDefaultVariantByProductID(ctx context.Context, productID string) (*model.ProductVariant, error)
	DeductVariantStock(ctx context.Context, variantID string, quantity int) (bool, error)
	AddVariantStock(ctx context.Context, variantID string, quantity int) error
	GetVariantStock(ctx context.Context, variantID string) (int64, error)
}

// ICartRepository CartItem 相關操作介面
type ICartRepository interface {
	CreateCartItem(ctx context.Context, item *model.CartItem) error
	GetCartItemsByUserID(ctx context.Context, userID string) ([]model.CartItem, error)
	GetCartItemsDetailed(ctx context.Context, userID string) ([]model.CartItem, error)
	GetCartItemByUserAndVariant(ctx context.Context, userID, variantID string) (*model.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, cartItemID string, quantity int) error
	DeleteCartItem(ctx context.Context, cartItemID string) error
	DeleteCartItemsByIDs(ctx context.Context, cartItemIDs []string) (int64, error)
	DeleteCartItemsByUserID(ctx context.Context, userID string) error
	DeleteStaleCartItems(ctx context.Context, userID string) (int64, error)
}

// IAddressRepository Address 相關操作介面
type IAddressRepository interface {
	CreateAddress(ctx context.Context, address *model.Address) error
	GetAddressByID(ctx context.Context, addressID string) (*model.Address, error)
	GetAddressesByUserID(ctx context.Context, userID string) ([]model.Address, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	GetOrdersByAttempt(ctx context.Context, buyerID, checkoutAttemptID string) ([]model.Order, error)
	GetOrdersByBuyerID(ctx context.Context, buyerID string) ([]model.Order, error)
	GetOrdersBySellerID(ctx context.Context, sellerID string, page, pageSize int) ([]model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) error
	UpdateOrderPaid(ctx context.Context, id string, totalAmountKrw, shippingFeeKrw, totalPayKrw int64) error
	GetOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
}

// IPaymentRepository Payment 相關操作介面
type IPaymentRepository interface {
	CreatePayment(ctx context.Context, payment *model.Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	UpdatePayment(ctx context.Context, payment *model.Payment) error
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*UserRepo
	*ProductRepo
	*VariantRepo
	*CartRepo
	*AddressRepo
	*OrderRepo
	*PaymentRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(db *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(db)
	return &UnifiedDBImpl{
		db:          db,
		dbDao:       dbDao,
		UserRepo:    NewUserRepo(dbDao),
		ProductRepo: NewProductRepo(dbDao),
		VariantRepo: NewVariantRepo(dbDao),
		CartRepo:    NewCartRepo(dbDao),
		AddressRepo: NewAddressRepo(dbDao),
		OrderRepo:   NewOrderRepo(dbDao),
		PaymentRepo: NewPaymentRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.db
}

// ExecTx 在單一transaction內執行fn，fn回傳error則整個rollback
// fn拿到的UnifiedDB已綁定該transaction
func (u *UnifiedDBImpl) ExecTx(ctx context.Context, fn func(tx UnifiedDB) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnifiedDB(tx))
	})
}

var (
	_ UnifiedDB          = (*UnifiedDBImpl)(nil)
	_ IUserRepository    = (*UnifiedDBImpl)(nil)
	_ IProductRepository = (*UnifiedDBImpl)(nil)
	_ IVariantRepository = (*UnifiedDBImpl)(nil)
	_ ICartRepository    = (*UnifiedDBImpl)(nil)
	_ IAddressRepository = (*UnifiedDBImpl)(nil)
	_ IOrderRepository   = (*UnifiedDBImpl)(nil)
	_ IPaymentRepository = (*UnifiedDBImpl)(nil)
)
