package models

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrCustomerNotFound is returned when a customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrVendorNotFound is returned when a vendor is not found.
	ErrVendorNotFound = errors.New("vendor not found")
	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

type AccountsRepository struct {
	db *gorm.DB
}

func NewAccountsRepository(db *gorm.DB) *AccountsRepository {
	return &AccountsRepository{db: db}
}

func (r *AccountsRepository) CreateVendor(vendor *Vendor) error {
	if err := r.db.Create(vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// CreateCustomer registers the account and its empty cart in one
// transaction. A customer without a cart must never be observable.
func (r *AccountsRepository) CreateCustomer(customer *Customer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		return tx.Create(&Cart{CustomerID: customer.ID}).Error
	})
}

func (r *AccountsRepository) GetVendorByID(id uint) (*Vendor, error) {
	var vendor Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *AccountsRepository) GetVendorByEmail(email string) (*Vendor, error) {
	var vendor Vendor
	if err := r.db.Where("email = ?", email).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *AccountsRepository) GetCustomerByID(id uint) (*Customer, error) {
	var customer Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *AccountsRepository) GetCustomerByEmail(email string) (*Customer, error) {
	var customer Customer
	if err := r.db.Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *AccountsRepository) ListVendors() ([]Vendor, error) {
	var vendors []Vendor
	if err := r.db.Order("id asc").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *AccountsRepository) ListCustomers() ([]Customer, error) {
	var customers []Customer
	if err := r.db.Order("id asc").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *AccountsRepository) UpdateVendor(vendor *Vendor) error {
	res := r.db.Model(&Vendor{}).Where("id = ?", vendor.ID).Updates(map[string]any{
		"name":        vendor.Name,
		"second_name": vendor.SecondName,
		"phone":       vendor.Phone,
		"description": vendor.Description,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVendorNotFound
	}
	return nil
}

// DeleteVendor removes the vendor and every product they listed,
// including the dependent comment and cart membership rows.
func (r *AccountsRepository) DeleteVendor(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var products []Product
		if err := tx.Select("id").Where("vendor_id = ?", id).Find(&products).Error; err != nil {
			return err
		}
		for _, p := range products {
			if err := tx.Where("product_id = ?", p.ID).Delete(&Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM cart_products WHERE product_id = ?", p.ID).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("vendor_id = ?", id).Delete(&Product{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Vendor{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVendorNotFound
		}
		return nil
	})
}
