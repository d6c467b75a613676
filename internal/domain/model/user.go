package model

type User struct {
	UserID    string  `gorm:"primaryKey;type:varchar(255)" json:"user_id"`
	UserName  string  `gorm:"not null;type:varchar(50)" json:"user_name"`
	UserEmail string  `gorm:"unique;not null;type:varchar(100)" json:"user_email"`
	Role      string  `gorm:"not null;type:varchar(20);default:BUYER" json:"role"`
	IsActive  bool    `gorm:"not null;default:true" json:"is_active"`
	Orders    []Order `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE" json:"-"` // 一對多，級聯刪除
	BaseModel
}

// Session 登入狀態，真正的認證(密碼/OAuth)在外部系統，這裡只管token存取
type Session struct {
	Token     string `gorm:"primaryKey;type:varchar(255)" json:"token"`
	UserID    string `gorm:"not null;type:varchar(255);index" json:"user_id"`
	Role      string `gorm:"not null;type:varchar(20)" json:"role"`
	ExpiresAt int64  `gorm:"not null" json:"expires_at"` // unix seconds
	BaseModel
}
