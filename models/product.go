package models

// Product is a vendor's listing. Prices are stored in the smallest
// currency unit, so 1999 is 19.99 in a two-decimal currency.
type Product struct {
	ID          uint     `gorm:"primaryKey"`
	VendorID    uint     `gorm:"not null"`
	Vendor      Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	CategoryID  uint     `gorm:"not null"`
	Category    Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Name        string   `gorm:"not null"`
	Description string
	PriceCents  int64 `gorm:"not null;check:price_cents >= 0"`
}

func (p *Product) TableName() string {
	return "products"
}
