package models

import "time"

// Purchase lifecycle. A row is created pending before the processor is
// called and promoted to completed only after authorization succeeds,
// so a crash between the two leaves a pending marker to reconcile
// instead of a silently lost charge.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// Purchase links a customer to a product they paid for. Completed rows
// are immutable; they are the audit trail of finished checkouts.
type Purchase struct {
	ID          uint     `gorm:"primaryKey"`
	Reference   string   `gorm:"uniqueIndex;not null"`
	CustomerID  uint     `gorm:"not null"`
	Customer    Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	ProductID   uint     `gorm:"not null"`
	Product     Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AmountCents int64    `gorm:"not null"`
	Status      string   `gorm:"not null;default:pending"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Purchase) TableName() string {
	return "purchases"
}
