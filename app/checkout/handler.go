package checkout

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/openmarket/market-api/auth"
	"github.com/openmarket/market-api/models"
	"github.com/openmarket/market-api/payments"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type checkoutInput struct {
	Amount        *int64 `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HandlePost runs one checkout attempt for the authenticated customer.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	customerID, ok := auth.AccountID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
		return
	}

	productID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	var input checkoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	fields := map[string]string{}
	if input.Amount == nil {
		fields["amount"] = "required"
	} else if *input.Amount <= 0 {
		fields["amount"] = "must be positive"
	}
	if input.PaymentMethod == "" {
		fields["payment_method"] = "required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	clientSecret, err := h.service.Checkout(r.Context(), customerID, uint(productID), *input.Amount, input.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrProductNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		case errors.Is(err, models.ErrCustomerNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
		case errors.Is(err, payments.ErrUnavailable):
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "payment processor unavailable"})
		default:
			var procErr *payments.Error
			if errors.As(err, &procErr) {
				writeJSON(w, http.StatusPaymentRequired, map[string]string{"error": procErr.Message})
				return
			}
			log.Printf("checkout: customer %d product %d: %v", customerID, productID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "checkout failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"client_secret": clientSecret})
}
