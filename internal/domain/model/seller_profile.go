package model

const (
	DefaultShippingFeeKrw           int64 = 3000
	DefaultFreeShippingThresholdKrw int64 = 50000
)

// SellerProfile 賣家運費設定，欄位為nil時套用預設值
type SellerProfile struct {
	UserID                   string `gorm:"primaryKey;type:varchar(255)" json:"user_id"`
	ShopName                 string `gorm:"not null;type:varchar(100)" json:"shop_name"`
	ShippingFeeKrw           *int64 `json:"shipping_fee_krw,omitempty"`
	FreeShippingThresholdKrw *int64 `json:"free_shipping_threshold_krw,omitempty"`
	BaseModel
}

// ShippingPolicy 每個seller group結算一次，取代散落各處的預設值判斷
type ShippingPolicy struct {
	FeeKrw           int64
	FreeThresholdKrw int64
}

func ResolveShippingPolicy(profile *SellerProfile) ShippingPolicy {
	policy := ShippingPolicy{
		FeeKrw:           DefaultShippingFeeKrw,
		FreeThresholdKrw: DefaultFreeShippingThresholdKrw,
	}
	if profile == nil {
		return policy
	}
	if profile.ShippingFeeKrw != nil {
		policy.FeeKrw = *profile.ShippingFeeKrw
	}
	if profile.FreeShippingThresholdKrw != nil {
		policy.FreeThresholdKrw = *profile.FreeShippingThresholdKrw
	}
	return policy
}

// FeeFor 滿額免運，門檻各賣家獨立計算
func (p ShippingPolicy) FeeFor(itemsSubtotalKrw int64) int64 {
	if itemsSubtotalKrw >= p.FreeThresholdKrw {
		return 0
	}
	return p.FeeKrw
}
