package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPurchaseNotFound is returned when a purchase is not found.
var ErrPurchaseNotFound = errors.New("purchase not found")

type PurchasesRepository struct {
	db *gorm.DB
}

func NewPurchasesRepository(db *gorm.DB) *PurchasesRepository {
	return &PurchasesRepository{db: db}
}

// CreatePending writes the pre-authorization marker. The reference is
// what a reconciliation sweep or the processor dashboard keys on.
func (r *PurchasesRepository) CreatePending(customerID, productID uint, amountCents int64) (*Purchase, error) {
	purchase := &Purchase{
		Reference:   uuid.NewString(),
		CustomerID:  customerID,
		ProductID:   productID,
		AmountCents: amountCents,
		Status:      PurchasePending,
	}
	if err := r.db.Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *PurchasesRepository) setStatus(id uint, from, to string) error {
	res := r.db.Model(&Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPurchaseNotFound
	}
	return nil
}

// Promote marks a pending purchase completed. Only pending rows can be
// promoted; completed rows are immutable.
func (r *PurchasesRepository) Promote(id uint) error {
	return r.setStatus(id, PurchasePending, PurchaseCompleted)
}

// MarkFailed records that the processor rejected the attempt.
func (r *PurchasesRepository) MarkFailed(id uint) error {
	return r.setStatus(id, PurchasePending, PurchaseFailed)
}

func (r *PurchasesRepository) GetByCustomer(customerID uint) ([]Purchase, error) {
	var purchases []Purchase
	err := r.db.
		Preload("Product").
		Where("customer_id = ? AND status = ?", customerID, PurchaseCompleted).
		Order("id asc").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// FailStalePending sweeps pending rows older than the cutoff into
// failed state and returns them for logging. A row stuck pending means
// the process died between authorization and promotion, so each one
// needs a human to check the processor side.
func (r *PurchasesRepository) FailStalePending(olderThan time.Time) ([]Purchase, error) {
	var stale []Purchase
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ? AND created_at < ?", PurchasePending, olderThan).
			Find(&stale).Error; err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}
		ids := make([]uint, len(stale))
		for i, p := range stale {
			ids[i] = p.ID
		}
		return tx.Model(&Purchase{}).
			Where("id IN ?", ids).
			Update("status", PurchaseFailed).Error
	})
	if err != nil {
		return nil, err
	}
	return stale, nil
}
