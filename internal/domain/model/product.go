package model

type Product struct {
	ProductID string           `gorm:"primaryKey;type:varchar(255)" json:"product_id"`
	SellerID  string           `gorm:"not null;type:varchar(255);index" json:"seller_id"`
	Title     string           `gorm:"not null;type:varchar(200)" json:"title"`
	PriceKrw  int64            `gorm:"not null" json:"price_krw"`
	IsActive  bool             `gorm:"not null;default:true" json:"is_active"`
	IsDeleted bool             `gorm:"not null;default:false" json:"is_deleted"`
	Variants  []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"` // 一對多，級聯刪除
	BaseModel
}

// ProductVariant 庫存追蹤單位
// stock只能透過conditional decrement修改，check constraint擋下任何負數寫入
// (product_id, color, size_label)正規化後不可重複
type ProductVariant struct {
	VariantID string `gorm:"primaryKey;type:varchar(255)" json:"variant_id"`
	ProductID string `gorm:"not null;type:varchar(255);uniqueIndex:idx_variant_combo,priority:1" json:"product_id"`
	Color     string `gorm:"not null;type:varchar(50);uniqueIndex:idx_variant_combo,priority:2" json:"color"`
	SizeLabel string `gorm:"not null;type:varchar(50);uniqueIndex:idx_variant_combo,priority:3" json:"size_label"`
	Stock     int64  `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	BaseModel
}
