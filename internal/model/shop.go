package model

// Shop 店铺 (租户)
type Shop struct {
	BaseModel
	OwnerID     int64  `gorm:"uniqueIndex;not null" json:"owner_id"`
	Owner       *User  `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Email       string `gorm:"size:254" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	Description string `gorm:"type:text" json:"description"`

	// --- 地址 ---
	Address string `gorm:"size:255" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:50" json:"state"`
	ZipCode string `gorm:"size:20" json:"zip_code"`
	Country string `gorm:"size:100" json:"country"`

	// --- 域名 (可空唯一) ---
	Domain    *string `gorm:"size:255;uniqueIndex" json:"domain"`
	Subdomain *string `gorm:"size:255;uniqueIndex" json:"subdomain"`

	ShopComplete bool `gorm:"default:false" json:"shop_complete"`
}

func (Shop) TableName() string {
	return "shops"
}
