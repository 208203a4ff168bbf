package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/openmarket/market-api/auth"
	"github.com/openmarket/market-api/models"
)

type Response struct {
	Count    int              `json:"count"`
	Products []Product        `json:"products"`
	Price    *PriceAggregates `json:"price"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Vendor      uint     `json:"vendor"`
	Category    Category `json:"category"`
}

// PriceAggregates cover the full filtered set, not the returned page.
type PriceAggregates struct {
	Min int64   `json:"min"`
	Max int64   `json:"max"`
	Avg float64 `json:"avg"`
}

type Comment struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Customer uint   `json:"customer"`
}

type ProductProvider interface {
	GetFilteredProducts(offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetPriceStats(filters models.ProductFilters) (*models.PriceStats, error)
	GetByID(id uint) (*models.Product, error)
	CreateProduct(product *models.Product) error
	UpdateProduct(product *models.Product) error
	DeleteProduct(id uint) error
}

type CommentProvider interface {
	CreateComment(comment *models.Comment) error
	GetByProduct(productID uint) ([]models.Comment, error)
}

type CatalogHandler struct {
	products ProductProvider
	comments CommentProvider
	pageSize int
}

func NewCatalogHandler(products ProductProvider, comments CommentProvider, pageSize int) *CatalogHandler {
	return &CatalogHandler{
		products: products,
		comments: comments,
		pageSize: pageSize,
	}
}

func toProduct(p models.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.PriceCents,
		Vendor:      p.VendorID,
		Category: Category{
			ID:   p.Category.ID,
			Name: p.Category.Name,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// HandleList serves the filtered, paginated listing. The page_size
// query parameter selects the page number, a quirk kept from the wire
// contract this service replaced; the page length itself is fixed by
// configuration.
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pStr := r.URL.Query().Get("page_size"); pStr != "" {
		if p, err := strconv.Atoi(pStr); err == nil && p >= 1 {
			page = p
		}
	}
	offset := (page - 1) * h.pageSize

	var filters models.ProductFilters
	if cStr := r.URL.Query().Get("category"); cStr != "" {
		if c, err := strconv.ParseUint(cStr, 10, 32); err == nil {
			filters.CategoryID = uint(c)
		}
	}
	filters.Name = r.URL.Query().Get("name")

	res, total, err := h.products.GetFilteredProducts(offset, h.pageSize, filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get products")
		return
	}

	stats, err := h.products.GetPriceStats(filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get price stats")
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	response := Response{
		Count:    int(total),
		Products: products,
	}
	if stats != nil {
		response.Price = &PriceAggregates{
			Min: stats.MinCents,
			Max: stats.MaxCents,
			Avg: stats.Avg.InexactFloat64(),
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleGetProduct serves one product together with its comments.
func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	rows, err := h.comments.GetByProduct(product.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get comments")
		return
	}
	comments := make([]Comment, len(rows))
	for i, c := range rows {
		comments[i] = Comment{ID: c.ID, Text: c.Text, Customer: c.CustomerID}
	}

	response := struct {
		Product  Product   `json:"product"`
		Comments []Comment `json:"comments"`
	}{
		Product:  toProduct(*product),
		Comments: comments,
	}
	writeJSON(w, http.StatusOK, response)
}

type productInput struct {
	Category    uint   `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       *int64 `json:"price"`
}

func (in *productInput) validate() map[string]string {
	fields := map[string]string{}
	if in.Category == 0 {
		fields["category"] = "required"
	}
	if in.Name == "" {
		fields["name"] = "required"
	}
	if in.Price == nil {
		fields["price"] = "required"
	} else if *in.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// HandleCreate lists a new product under the authenticated vendor.
func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.AccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if fields := input.validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	product := &models.Product{
		VendorID:    vendorID,
		CategoryID:  input.Category,
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  *input.Price,
	}
	if err := h.products.CreateProduct(product); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, toProduct(*product))
}

// HandleUpdate replaces a product's mutable fields. Only the vendor
// that listed the product may touch it.
func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.AccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product.VendorID != vendorID {
		writeError(w, http.StatusForbidden, "product belongs to another vendor")
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if fields := input.validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	product.CategoryID = input.Category
	product.Name = input.Name
	product.Description = input.Description
	product.PriceCents = *input.Price
	if err := h.products.UpdateProduct(product); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, toProduct(*product))
}

// HandleDelete removes a vendor's product and its dependent rows.
func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.AccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product.VendorID != vendorID {
		writeError(w, http.StatusForbidden, "product belongs to another vendor")
		return
	}

	if err := h.products.DeleteProduct(product.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateComment attaches an authenticated customer's comment to
// a product.
func (h *CatalogHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	customerID, ok := auth.AccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": map[string]string{"text": "required"}})
		return
	}

	comment := &models.Comment{
		Text:       input.Text,
		CustomerID: customerID,
		ProductID:  product.ID,
	}
	if err := h.comments.CreateComment(comment); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	writeJSON(w, http.StatusCreated, Comment{ID: comment.ID, Text: comment.Text, Customer: comment.CustomerID})
}
