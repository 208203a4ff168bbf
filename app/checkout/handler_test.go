package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmarket/market-api/auth"
	"github.com/openmarket/market-api/payments"
)

func newCheckoutRequest(t *testing.T, productID string, customerID uint, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", "/products/"+productID+"/checkout", strings.NewReader(body))
	req.SetPathValue("id", productID)
	if customerID != 0 {
		req = req.WithContext(auth.WithAccountID(req.Context(), customerID))
	}
	return req
}

func TestHandlePost(t *testing.T) {
	validBody := `{"amount": 1000, "payment_method": "pm_card"}`

	t.Run("Unauthenticated", func(t *testing.T) {
		products, customers, purchases, processor := testFixtures()
		handler := NewHandler(newTestService(products, customers, purchases, processor))

		req := newCheckoutRequest(t, "7", 0, validBody)
		rec := httptest.NewRecorder()
		handler.HandlePost(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, processor.calls)
	})

	t.Run("Missing fields reported per field", func(t *testing.T) {
		products, customers, purchases, processor := testFixtures()
		handler := NewHandler(newTestService(products, customers, purchases, processor))

		req := newCheckoutRequest(t, "7", 3, `{}`)
		rec := httptest.NewRecorder()
		handler.HandlePost(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "required", resp.Errors["amount"])
		assert.Equal(t, "required", resp.Errors["payment_method"])
	})

	t.Run("Unknown product", func(t *testing.T) {
		products, customers, purchases, processor := testFixtures()
		handler := NewHandler(newTestService(products, customers, purchases, processor))

		req := newCheckoutRequest(t, "99", 3, validBody)
		rec := httptest.NewRecorder()
		handler.HandlePost(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, purchases.rows)
	})

	t.Run("Processor rejection carries its message", func(t *testing.T) {
		products, customers, purchases, processor := testFixtures()
		processor.intent = nil
		processor.err = &payments.Error{Message: "Your card was declined."}
		handler := NewHandler(newTestService(products, customers, purchases, processor))

		req := newCheckoutRequest(t, "7", 3, validBody)
		rec := httptest.NewRecorder()
		handler.HandlePost(rec, req)

		require.Equal(t, http.StatusPaymentRequired, rec.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Your card was declined.", resp["error"])
	})

	t.Run("Processor unreachable maps to bad gateway", func(t *testing.T) {
		products, customers, purchases, processor := testFixtures()
		processor.intent = nil
		processor.err = fmt.Errorf("%w: dial tcp 10.0.0.5:443: connection refused", payments.ErrUnavailable)
		handler := NewHandler(newTestService(products, customers, purchases, processor))

		req := newCheckoutRequest(t, "7", 3, validBody)
		rec := httptest.NewRecorder()
		handler.HandlePost(rec, req)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "payment processor unavailable", resp["error"])
		assert.NotContains(t, resp["error"], "10.0.0.5", "transport detail stays server-side")
	})

	t.Run("Store failure stays internal", func(t *testing.T) {
		products, customers, purchases, processor := testFixtures()
		purchases.createErr = errors.New("pq: connection to server at 10.0.0.5 refused")
		handler := NewHandler(newTestService(products, customers, purchases, processor))

		req := newCheckoutRequest(t, "7", 3, validBody)
		rec := httptest.NewRecorder()
		handler.HandlePost(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "checkout failed", resp["error"])
		assert.NotContains(t, rec.Body.String(), "10.0.0.5", "db detail never reaches the client")
		assert.Zero(t, processor.calls)
	})

	t.Run("Success returns continuation token", func(t *testing.T) {
		products, customers, purchases, processor := testFixtures()
		handler := NewHandler(newTestService(products, customers, purchases, processor))

		req := newCheckoutRequest(t, "7", 3, validBody)
		rec := httptest.NewRecorder()
		handler.HandlePost(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp["client_secret"])
	})
}
