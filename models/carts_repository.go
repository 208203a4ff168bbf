package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrCartNotFound is returned when a customer has no cart.
var ErrCartNotFound = errors.New("cart not found")

type CartsRepository struct {
	db *gorm.DB
}

func NewCartsRepository(db *gorm.DB) *CartsRepository {
	return &CartsRepository{db: db}
}

func (r *CartsRepository) GetByCustomer(customerID uint) (*Cart, error) {
	var cart Cart
	if err := r.db.Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// GetCartProducts returns the products currently linked to the
// customer's cart, in listing order.
func (r *CartsRepository) GetCartProducts(customerID uint) ([]Product, error) {
	cart, err := r.GetByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0)
	err = r.db.Model(&Product{}).
		Joins("JOIN cart_products ON cart_products.product_id = products.id").
		Where("cart_products.cart_id = ?", cart.ID).
		Preload("Category").
		Order("products.id asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ReplaceProducts swaps the cart's membership set wholesale. Whatever
// was in the cart before is gone; concurrent replacements race with
// last-write-wins.
func (r *CartsRepository) ReplaceProducts(customerID uint, products []Product) error {
	cart, err := r.GetByCustomer(customerID)
	if err != nil {
		return err
	}
	return r.db.Model(cart).Association("Products").Replace(products)
}
