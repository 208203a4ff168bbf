package models

// Comment is a customer's note on a product.
type Comment struct {
	ID         uint     `gorm:"primaryKey"`
	Text       string   `gorm:"not null"`
	CustomerID uint     `gorm:"not null"`
	Customer   Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	ProductID  uint     `gorm:"not null"`
	Product    Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (c *Comment) TableName() string {
	return "comments"
}
