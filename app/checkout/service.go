package checkout

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/openmarket/market-api/models"
	"github.com/openmarket/market-api/payments"
)

type ProductLookup interface {
	GetByID(id uint) (*models.Product, error)
}

type CustomerLookup interface {
	GetCustomerByID(id uint) (*models.Customer, error)
}

type PurchaseStore interface {
	CreatePending(customerID, productID uint, amountCents int64) (*models.Purchase, error)
	Promote(id uint) error
	MarkFailed(id uint) error
	FailStalePending(olderThan time.Time) ([]models.Purchase, error)
}

type Processor interface {
	CreateIntent(ctx context.Context, in payments.IntentRequest) (*payments.Intent, error)
}

// Service runs the checkout sequence: look the parties up, write a
// pending purchase marker, authorize with the processor, promote the
// marker. The marker goes in before the processor call so that a crash
// in between leaves evidence instead of a charge with no record.
type Service struct {
	products  ProductLookup
	customers CustomerLookup
	purchases PurchaseStore
	processor Processor

	currency string
	timeout  time.Duration
}

func NewService(products ProductLookup, customers CustomerLookup, purchases PurchaseStore, processor Processor, currency string, timeout time.Duration) *Service {
	return &Service{
		products:  products,
		customers: customers,
		purchases: purchases,
		processor: processor,
		currency:  currency,
		timeout:   timeout,
	}
}

// Checkout authorizes a charge and records the purchase. It returns
// the processor's client secret, the continuation token the customer's
// client needs to finalize payment.
func (s *Service) Checkout(ctx context.Context, customerID, productID uint, amountCents int64, paymentMethod string) (string, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return "", err
	}
	customer, err := s.customers.GetCustomerByID(customerID)
	if err != nil {
		return "", err
	}

	pending, err := s.purchases.CreatePending(customer.ID, product.ID, amountCents)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	intent, err := s.processor.CreateIntent(ctx, payments.IntentRequest{
		AmountCents:   amountCents,
		Currency:      s.currency,
		PaymentMethod: paymentMethod,
		Metadata: map[string]string{
			"product_id":          strconv.FormatUint(uint64(product.ID), 10),
			"product_name":        product.Name,
			"product_description": product.Description,
			"purchase_reference":  pending.Reference,
		},
	})
	if err != nil {
		if failErr := s.purchases.MarkFailed(pending.ID); failErr != nil {
			log.Printf("checkout: could not mark purchase %s failed: %v", pending.Reference, failErr)
		}
		return "", err
	}

	if err := s.purchases.Promote(pending.ID); err != nil {
		// The charge went through; losing it silently is the one
		// outcome we must not allow. Retry once, then leave the
		// pending marker for the reconciliation sweep.
		if retryErr := s.purchases.Promote(pending.ID); retryErr != nil {
			log.Printf("checkout: purchase %s authorized but not recorded (intent %s): %v", pending.Reference, intent.ID, retryErr)
		}
	}

	return intent.ClientSecret, nil
}

// Reconcile sweeps pending purchases older than maxAge into failed
// state, logging each so the processor side can be checked by hand.
func (s *Service) Reconcile(maxAge time.Duration) {
	stale, err := s.purchases.FailStalePending(time.Now().Add(-maxAge))
	if err != nil {
		log.Printf("checkout: reconcile sweep failed: %v", err)
		return
	}
	for _, p := range stale {
		log.Printf("checkout: purchase %s stuck pending since %s, marked failed; verify against processor records", p.Reference, p.CreatedAt.Format(time.RFC3339))
	}
}

// RunReconciler runs the sweep on a ticker until the context ends.
func (s *Service) RunReconciler(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reconcile(maxAge)
		}
	}
}
