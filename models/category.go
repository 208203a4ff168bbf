package models

// Category groups products for browsing and filtering.
// Deleting a category removes its products with it.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (c *Category) TableName() string {
	return "categories"
}
