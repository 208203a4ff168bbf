package models

// Vendor is a seller account. Only the password hash is ever stored.
type Vendor struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	SecondName   string
	Phone        string
	Description  string
	PasswordHash string `gorm:"not null"`
	Products     []Product
}

func (v *Vendor) TableName() string {
	return "vendors"
}

// Customer is a buyer account. A customer owns exactly one cart,
// created together with the account.
type Customer struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	SecondName   string
	Phone        string
	CardNumber   string
	Address      string
	PostCode     string
	PasswordHash string `gorm:"not null"`
}

func (c *Customer) TableName() string {
	return "customers"
}
