package model

// CartItem 買家購物車項目
// 不存價格，價格一律在建立訂單時向product讀取
type CartItem struct {
	CartItemID string          `gorm:"primaryKey;type:varchar(255)" json:"cart_item_id"`
	UserID     string          `gorm:"not null;type:varchar(255);uniqueIndex:idx_cart_user_variant,priority:1" json:"user_id"`
	ProductID  string          `gorm:"not null;type:varchar(255)" json:"product_id"`
	VariantID  string          `gorm:"not null;type:varchar(255);uniqueIndex:idx_cart_user_variant,priority:2" json:"variant_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Variant    *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BaseModel
}

type Address struct {
	AddressID string `gorm:"primaryKey;type:varchar(255)" json:"address_id"`
	UserID    string `gorm:"not null;type:varchar(255);index" json:"user_id"`
	Name      string `gorm:"not null;type:varchar(50)" json:"name"`
	Phone     string `gorm:"not null;type:varchar(30)" json:"phone"`
	ZipCode   string `gorm:"not null;type:varchar(10)" json:"zip_code"`
	Addr1     string `gorm:"not null;type:varchar(200)" json:"addr1"`
	Addr2     string `gorm:"type:varchar(200)" json:"addr2"`
	BaseModel
}
