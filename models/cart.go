package models

// Cart holds a customer's current product selection. Membership is a
// many-to-many edge set replaced wholesale on update.
type Cart struct {
	ID         uint      `gorm:"primaryKey"`
	CustomerID uint      `gorm:"uniqueIndex;not null"`
	Customer   Customer  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Products   []Product `gorm:"many2many:cart_products;constraint:OnDelete:CASCADE"`
}

func (c *Cart) TableName() string {
	return "carts"
}
