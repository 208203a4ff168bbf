package models

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

type ProductFilters struct {
	CategoryID uint
	Name       string
}

// PriceStats are aggregates over the whole filtered set, not one page.
type PriceStats struct {
	MinCents int64
	MaxCents int64
	Avg      decimal.Decimal
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) filtered(filters ProductFilters) *gorm.DB {
	query := r.db.Model(&Product{})
	if filters.CategoryID != 0 {
		query = query.Where("category_id = ?", filters.CategoryID)
	}
	if filters.Name != "" {
		query = query.Where("name = ?", filters.Name)
	}
	return query
}

func (r *ProductsRepository) GetFilteredProducts(offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.filtered(filters).Preload("Category")

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination; id order keeps pages stable within one filter state
	if err := query.Order("id asc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetPriceStats computes min/max/avg over everything the filters match.
// An empty filtered set yields nil rather than zero-valued stats.
func (r *ProductsRepository) GetPriceStats(filters ProductFilters) (*PriceStats, error) {
	var row struct {
		Min sql.NullInt64
		Max sql.NullInt64
		Avg decimal.NullDecimal
	}
	err := r.filtered(filters).
		Select("MIN(price_cents) AS min, MAX(price_cents) AS max, AVG(price_cents) AS avg").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if !row.Min.Valid {
		return nil, nil
	}
	return &PriceStats{
		MinCents: row.Min.Int64,
		MaxCents: row.Max.Int64,
		Avg:      row.Avg.Decimal,
	}, nil
}

func (r *ProductsRepository) GetByID(id uint) (*Product, error) {
	var product Product
	if err := r.db.
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) GetByVendor(vendorID uint) ([]Product, error) {
	var products []Product
	if err := r.db.
		Preload("Category").
		Where("vendor_id = ?", vendorID).
		Order("id asc").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) CreateProduct(product *Product) error {
	return r.db.Create(product).Error
}

func (r *ProductsRepository) UpdateProduct(product *Product) error {
	res := r.db.Model(&Product{}).Where("id = ?", product.ID).Updates(map[string]any{
		"category_id": product.CategoryID,
		"name":        product.Name,
		"description": product.Description,
		"price_cents": product.PriceCents,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes the product and its dependent rows explicitly,
// mirroring the store-level cascade for join tables the FK graph does
// not reach.
func (r *ProductsRepository) DeleteProduct(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM cart_products WHERE product_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}
