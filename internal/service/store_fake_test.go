package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/domain/model"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
)

// fakeState 記憶體版的資料庫狀態
type fakeState struct {
	users     map[string]model.User
	profiles  map[string]model.SellerProfile
	sessions  map[string]model.Session
	products  map[string]model.Product
	variants  map[string]model.ProductVariant
	cartItems map[string]model.CartItem
	cartSeq   []string // 購物車插入順序，模擬created_at排序
	addresses map[string]model.Address
	orders    map[string]model.Order
	payments  map[string]model.Payment // key: order_id
}

func newFakeState() *fakeState {
	return &fakeState{
		users:     map[string]model.User{},
		profiles:  map[string]model.SellerProfile{},
		sessions:  map[string]model.Session{},
		products:  map[string]model.Product{},
		variants:  map[string]model.ProductVariant{},
		cartItems: map[string]model.CartItem{},
		addresses: map[string]model.Address{},
		orders:    map[string]model.Order{},
		payments:  map[string]model.Payment{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.products {
		v.Variants = append([]model.ProductVariant(nil), v.Variants...)
		c.products[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.cartItems {
		c.cartItems[k] = v
	}
	c.cartSeq = append([]string(nil), s.cartSeq...)
	for k, v := range s.addresses {
		c.addresses[k] = v
	}
	for k, v := range s.orders {
		v.Items = append([]model.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

/*
fakeStore 實作db.UnifiedDB的記憶體版本
ExecTx在clone上執行fn，成功才整份換回去，模擬transaction的all-or-nothing
*/
type fakeStore struct {
	mu    sync.Mutex
	state *fakeState
	inTx  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: newFakeState()}
}

func (f *fakeStore) GetDB() *gorm.DB { return nil }

func (f *fakeStore) InitMigrate() error { return nil }

func (f *fakeStore) ExecTx(ctx context.Context, fn func(tx db.UnifiedDB) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	txStore := &fakeStore{state: f.state.clone(), inTx: true}
	if err := fn(txStore); err != nil {
		return err
	}
	f.state = txStore.state
	return nil
}

func (f *fakeStore) lock() func() {
	if f.inTx {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

// ---- user ----

func (f *fakeStore) CreateUser(ctx context.Context, user *model.User) error {
	defer f.lock()()
	for _, u := range f.state.users {
		if u.UserEmail == user.UserEmail {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	f.state.users[user.UserID] = *user
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	defer f.lock()()
	u, ok := f.state.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (f *fakeStore) CreateSellerProfile(ctx context.Context, profile *model.SellerProfile) error {
	defer f.lock()()
	f.state.profiles[profile.UserID] = *profile
	return nil
}

func (f *fakeStore) GetSellerProfile(ctx context.Context, userID string) (*model.SellerProfile, error) {
	defer f.lock()()
	p, ok := f.state.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) CreateSession(ctx context.Context, session *model.Session) error {
	defer f.lock()()
	f.state.sessions[session.Token] = *session
	return nil
}

func (f *fakeStore) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	defer f.lock()()
	s, ok := f.state.sessions[token]
	if !ok || s.ExpiresAt <= time.Now().Unix() {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeStore) DeleteSession(ctx context.Context, token string) error {
	defer f.lock()()
	delete(f.state.sessions, token)
	return nil
}

// ---- product ----

func (f *fakeStore) CreateProduct(ctx context.Context, product *model.Product) error {
	defer f.lock()()
	f.state.products[product.ProductID] = *product
	for _, v := range product.Variants {
		f.state.variants[v.VariantID] = v
	}
	return nil
}

func (f *fakeStore) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	defer f.lock()()
	p, ok := f.state.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Variants = f.variantsOfProduct(productID)
	return &p, nil
}

func (f *fakeStore) GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error) {
	defer f.lock()()
	var products []model.Product
	for _, id := range productIDs {
		if p, ok := f.state.products[id]; ok {
			p.Variants = f.variantsOfProduct(id)
			products = append(products, p)
		}
	}
	return products, nil
}

func (f *fakeStore) GetProductsBySellerID(ctx context.Context, sellerID string) ([]model.Product, error) {
	defer f.lock()()
	var products []model.Product
	for _, p := range f.state.products {
		if p.SellerID == sellerID {
			p.Variants = f.variantsOfProduct(p.ProductID)
			products = append(products, p)
		}
	}
	return products, nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	defer f.lock()()
	f.state.products[product.ProductID] = *product
	return nil
}

func (f *fakeStore) UpdateProductPrice(ctx context.Context, productID string, priceKrw int64) error {
	defer f.lock()()
	p, ok := f.state.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PriceKrw = priceKrw
	f.state.products[productID] = p
	return nil
}

func (f *fakeStore) variantsOfProduct(productID string) []model.ProductVariant {
	var out []model.ProductVariant
	for _, v := range f.state.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantID < out[j].VariantID })
	return out
}

// ---- variant ----

func (f *fakeStore) GetVariantByID(ctx context.Context, variantID string) (*model.ProductVariant, error) {
	defer f.lock()()
	v, ok := f.state.variants[variantID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (f *fakeStore) GetVariantsByIDs(ctx context.Context, variantIDs []string) ([]model.ProductVariant, error) {
	defer f.lock()()
	var out []model.ProductVariant
	for _, id := range variantIDs {
		if v, ok := f.state.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) GetDefaultVariantByProductID(ctx context.Context, productID string) (*model.ProductVariant, error) {
	defer f.lock()()
	variants := f.variantsOfProduct(productID)
	if len(variants) == 0 {
		return nil, nil
	}
	return &variants[0], nil
}

func (f *fakeStore) DeductVariantStock(ctx context.Context, variantID string, quantity int) (bool, error) {
	defer f.lock()()
	v, ok := f.state.variants[variantID]
	if !ok || v.Stock < int64(quantity) {
		return false, nil
	}
	v.Stock -= int64(quantity)
	f.state.variants[variantID] = v
	return true, nil
}

func (f *fakeStore) AddVariantStock(ctx context.Context, variantID string, quantity int) error {
	defer f.lock()()
	v, ok := f.state.variants[variantID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Stock += int64(quantity)
	f.state.variants[variantID] = v
	return nil
}

func (f *fakeStore) GetVariantStock(ctx context.Context, variantID string) (int64, error) {
	defer f.lock()()
	v, ok := f.state.variants[variantID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return v.Stock, nil
}

// ---- cart ----

func (f *fakeStore) CreateCartItem(ctx context.Context, item *model.CartItem) error {
	defer f.lock()()
	f.state.cartItems[item.CartItemID] = *item
	f.state.cartSeq = append(f.state.cartSeq, item.CartItemID)
	return nil
}

func (f *fakeStore) GetCartItemsByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	defer f.lock()()
	var items []model.CartItem
	for _, id := range f.state.cartSeq {
		item, ok := f.state.cartItems[id]
		if ok && item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeStore) GetCartItemsDetailed(ctx context.Context, userID string) ([]model.CartItem, error) {
	defer f.lock()()
	var items []model.CartItem
	for _, id := range f.state.cartSeq {
		item, ok := f.state.cartItems[id]
		if !ok || item.UserID != userID {
			continue
		}
		if v, ok := f.state.variants[item.VariantID]; ok {
			variant := v
			item.Variant = &variant
		}
		if p, ok := f.state.products[item.ProductID]; ok {
			product := p
			item.Product = &product
		}
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeStore) GetCartItemByUserAndVariant(ctx context.Context, userID, variantID string) (*model.CartItem, error) {
	defer f.lock()()
	for _, item := range f.state.cartItems {
		if item.UserID == userID && item.VariantID == variantID {
			found := item
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) UpdateCartItemQuantity(ctx context.Context, cartItemID string, quantity int) error {
	defer f.lock()()
	item, ok := f.state.cartItems[cartItemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	f.state.cartItems[cartItemID] = item
	return nil
}

func (f *fakeStore) DeleteCartItem(ctx context.Context, cartItemID string) error {
	defer f.lock()()
	delete(f.state.cartItems, cartItemID)
	return nil
}

func (f *fakeStore) DeleteCartItemsByIDs(ctx context.Context, cartItemIDs []string) (int64, error) {
	defer f.lock()()
	var n int64
	for _, id := range cartItemIDs {
		if _, ok := f.state.cartItems[id]; ok {
			delete(f.state.cartItems, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteCartItemsByUserID(ctx context.Context, userID string) error {
	defer f.lock()()
	for id, item := range f.state.cartItems {
		if item.UserID == userID {
			delete(f.state.cartItems, id)
		}
	}
	return nil
}

func (f *fakeStore) DeleteStaleCartItems(ctx context.Context, userID string) (int64, error) {
	defer f.lock()()
	var n int64
	for id, item := range f.state.cartItems {
		if item.UserID != userID {
			continue
		}
		v, ok := f.state.variants[item.VariantID]
		if !ok {
			continue
		}
		p, ok := f.state.products[v.ProductID]
		if ok && (p.IsDeleted || !p.IsActive) {
			delete(f.state.cartItems, id)
			n++
		}
	}
	return n, nil
}

// ---- address ----

func (f *fakeStore) CreateAddress(ctx context.Context, address *model.Address) error {
	defer f.lock()()
	f.state.addresses[address.AddressID] = *address
	return nil
}

func (f *fakeStore) GetAddressByID(ctx context.Context, addressID string) (*model.Address, error) {
	defer f.lock()()
	a, ok := f.state.addresses[addressID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (f *fakeStore) GetAddressesByUserID(ctx context.Context, userID string) ([]model.Address, error) {
	defer f.lock()()
	var out []model.Address
	for _, a := range f.state.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---- order ----

func (f *fakeStore) CreateOrder(ctx context.Context, order *model.Order) error {
	defer f.lock()()
	for _, o := range f.state.orders {
		if o.BuyerID == order.BuyerID && o.CheckoutAttemptID == order.CheckoutAttemptID && o.SellerID == order.SellerID {
			return errors.New("duplicate key value violates unique constraint \"idx_order_attempt\"")
		}
	}
	order.CreatedAt = time.Now()
	copied := *order
	copied.Items = append([]model.OrderItem(nil), order.Items...)
	f.state.orders[order.OrderID] = copied
	return nil
}

func (f *fakeStore) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	defer f.lock()()
	o, ok := f.state.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o.Items = append([]model.OrderItem(nil), o.Items...)
	if p, ok := f.state.payments[id]; ok {
		payment := p
		o.Payment = &payment
	}
	return &o, nil
}

func (f *fakeStore) GetOrdersByAttempt(ctx context.Context, buyerID, checkoutAttemptID string) ([]model.Order, error) {
	defer f.lock()()
	var out []model.Order
	for _, o := range f.state.orders {
		if o.BuyerID == buyerID && o.CheckoutAttemptID == checkoutAttemptID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

func (f *fakeStore) GetOrdersByBuyerID(ctx context.Context, buyerID string) ([]model.Order, error) {
	defer f.lock()()
	var out []model.Order
	for _, o := range f.state.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrdersBySellerID(ctx context.Context, sellerID string, page, pageSize int) ([]model.Order, int64, error) {
	defer f.lock()()
	var out []model.Order
	for _, o := range f.state.orders {
		if o.SellerID == sellerID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	defer f.lock()()
	o, ok := f.state.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	f.state.orders[id] = o
	return nil
}

func (f *fakeStore) UpdateOrderPaid(ctx context.Context, id string, totalAmountKrw, shippingFeeKrw, totalPayKrw int64) error {
	defer f.lock()()
	o, ok := f.state.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = model.OrderStatusPaid
	o.TotalAmountKrw = totalAmountKrw
	o.ItemsSubtotalKrw = totalAmountKrw
	o.ShippingFeeKrw = shippingFeeKrw
	o.TotalPayKrw = totalPayKrw
	f.state.orders[id] = o
	return nil
}

func (f *fakeStore) GetOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	defer f.lock()()
	o, ok := f.state.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return append([]model.OrderItem(nil), o.Items...), nil
}

// ---- payment ----

func (f *fakeStore) CreatePayment(ctx context.Context, payment *model.Payment) error {
	defer f.lock()()
	f.state.payments[payment.OrderID] = *payment
	return nil
}

func (f *fakeStore) GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	defer f.lock()()
	p, ok := f.state.payments[orderID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) UpdatePayment(ctx context.Context, payment *model.Payment) error {
	defer f.lock()()
	f.state.payments[payment.OrderID] = *payment
	return nil
}

var _ db.UnifiedDB = (*fakeStore)(nil)
