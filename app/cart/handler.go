package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/openmarket/market-api/models"
)

type CartProvider interface {
	GetCartProducts(customerID uint) ([]models.Product, error)
	ReplaceProducts(customerID uint, products []models.Product) error
}

type CustomerProvider interface {
	GetCustomerByID(id uint) (*models.Customer, error)
}

type Handler struct {
	carts     CartProvider
	customers CustomerProvider
}

func NewHandler(carts CartProvider, customers CustomerProvider) *Handler {
	return &Handler{carts: carts, customers: customers}
}

type Customer struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	SecondName string `json:"second_name"`
}

type Product struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
}

type Response struct {
	Customer Customer  `json:"customer"`
	Cart     []Product `json:"cart"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HandleGet returns the customer's profile plus the products currently
// in their cart. There is no cart-level envelope; membership is the
// whole story.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer id"})
		return
	}

	customer, err := h.customers.GetCustomerByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrCustomerNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get customer"})
		return
	}

	rows, err := h.carts.GetCartProducts(customer.ID)
	if err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get cart"})
		return
	}

	products := make([]Product, len(rows))
	for i, p := range rows {
		products[i] = Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.PriceCents,
			Category:    p.Category.Name,
		}
	}

	writeJSON(w, http.StatusOK, Response{
		Customer: Customer{
			ID:         customer.ID,
			Email:      customer.Email,
			Name:       customer.Name,
			SecondName: customer.SecondName,
		},
		Cart: products,
	})
}

// HandlePut replaces the cart's membership wholesale with the given
// product ids. Prior membership does not survive.
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer id"})
		return
	}

	var input struct {
		ProductIDs []uint `json:"product_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	products := make([]models.Product, len(input.ProductIDs))
	for i, pid := range input.ProductIDs {
		products[i] = models.Product{ID: pid}
	}

	if err := h.carts.ReplaceProducts(uint(id), products); err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update cart"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"product_ids": input.ProductIDs})
}
