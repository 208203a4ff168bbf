package accounts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/openmarket/market-api/auth"
	"github.com/openmarket/market-api/models"
)

type AccountProvider interface {
	CreateVendor(vendor *models.Vendor) error
	CreateCustomer(customer *models.Customer) error
	GetVendorByID(id uint) (*models.Vendor, error)
	GetVendorByEmail(email string) (*models.Vendor, error)
	GetCustomerByID(id uint) (*models.Customer, error)
	GetCustomerByEmail(email string) (*models.Customer, error)
	ListVendors() ([]models.Vendor, error)
	ListCustomers() ([]models.Customer, error)
	UpdateVendor(vendor *models.Vendor) error
	DeleteVendor(id uint) error
}

type PurchaseProvider interface {
	GetByCustomer(customerID uint) ([]models.Purchase, error)
}

type ProductProvider interface {
	GetByVendor(vendorID uint) ([]models.Product, error)
}

type TokenIssuer interface {
	Issue(accountID uint, role string) (string, error)
}

type Handler struct {
	accounts  AccountProvider
	purchases PurchaseProvider
	products  ProductProvider
	tokens    TokenIssuer
}

func NewHandler(accounts AccountProvider, purchases PurchaseProvider, products ProductProvider, tokens TokenIssuer) *Handler {
	return &Handler{
		accounts:  accounts,
		purchases: purchases,
		products:  products,
		tokens:    tokens,
	}
}

type VendorResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	SecondName  string `json:"second_name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

type CustomerResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	SecondName string `json:"second_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostCode   string `json:"post_code"`
}

type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type PurchaseResponse struct {
	ID        uint   `json:"id"`
	Reference string `json:"reference"`
	Product   uint   `json:"product"`
	Amount    int64  `json:"amount"`
}

func toVendor(v *models.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		Email:       v.Email,
		Name:        v.Name,
		SecondName:  v.SecondName,
		Phone:       v.Phone,
		Description: v.Description,
	}
}

func toCustomer(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		Email:      c.Email,
		Name:       c.Name,
		SecondName: c.SecondName,
		Phone:      c.Phone,
		Address:    c.Address,
		PostCode:   c.PostCode,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// HandleRegisterVendor creates a seller account.
func (h *Handler) HandleRegisterVendor(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email       string `json:"email"`
		Name        string `json:"name"`
		SecondName  string `json:"second_name"`
		Phone       string `json:"phone"`
		Description string `json:"description"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	fields := map[string]string{}
	if input.Email == "" {
		fields["email"] = "required"
	}
	if input.Name == "" {
		fields["name"] = "required"
	}
	if input.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	vendor := &models.Vendor{
		Email:        input.Email,
		Name:         input.Name,
		SecondName:   input.SecondName,
		Phone:        input.Phone,
		Description:  input.Description,
		PasswordHash: string(hash),
	}
	if err := h.accounts.CreateVendor(vendor); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create vendor")
		return
	}
	writeJSON(w, http.StatusCreated, toVendor(vendor))
}

// HandleRegisterCustomer creates a buyer account together with its
// empty cart.
func (h *Handler) HandleRegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		SecondName string `json:"second_name"`
		Phone      string `json:"phone"`
		CardNumber string `json:"card_number"`
		Address    string `json:"address"`
		PostCode   string `json:"post_code"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	fields := map[string]string{}
	if input.Email == "" {
		fields["email"] = "required"
	}
	if input.Name == "" {
		fields["name"] = "required"
	}
	if input.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	customer := &models.Customer{
		Email:        input.Email,
		Name:         input.Name,
		SecondName:   input.SecondName,
		Phone:        input.Phone,
		CardNumber:   input.CardNumber,
		Address:      input.Address,
		PostCode:     input.PostCode,
		PasswordHash: string(hash),
	}
	if err := h.accounts.CreateCustomer(customer); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}
	writeJSON(w, http.StatusCreated, toCustomer(customer))
}

// HandleLogin exchanges credentials for a bearer token. Customer
// accounts are tried first, then vendors.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Email == "" || input.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var (
		accountID uint
		hash      string
		role      string
	)
	if customer, err := h.accounts.GetCustomerByEmail(input.Email); err == nil {
		accountID, hash, role = customer.ID, customer.PasswordHash, auth.RoleCustomer
	} else if vendor, err := h.accounts.GetVendorByEmail(input.Email); err == nil {
		accountID, hash, role = vendor.ID, vendor.PasswordHash, auth.RoleVendor
	} else {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(accountID, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "token_type": "Bearer"})
}

// HandleGetCustomer serves a customer profile with their completed
// purchase history.
func (h *Handler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := h.accounts.GetCustomerByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get customer")
		return
	}

	rows, err := h.purchases.GetByCustomer(customer.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get purchases")
		return
	}
	purchases := make([]PurchaseResponse, len(rows))
	for i, p := range rows {
		purchases[i] = PurchaseResponse{
			ID:        p.ID,
			Reference: p.Reference,
			Product:   p.ProductID,
			Amount:    p.AmountCents,
		}
	}

	writeJSON(w, http.StatusOK, struct {
		Customer  CustomerResponse   `json:"customer"`
		Purchases []PurchaseResponse `json:"purchases"`
	}{toCustomer(customer), purchases})
}

// HandleGetVendor serves a vendor's public detail with their listings.
func (h *Handler) HandleGetVendor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vendor id")
		return
	}

	vendor, err := h.accounts.GetVendorByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrVendorNotFound) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get vendor")
		return
	}

	h.writeVendorDetail(w, vendor)
}

func (h *Handler) writeVendorDetail(w http.ResponseWriter, vendor *models.Vendor) {
	rows, err := h.products.GetByVendor(vendor.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get products")
		return
	}
	products := make([]ProductResponse, len(rows))
	for i, p := range rows {
		products[i] = ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.PriceCents,
		}
	}

	writeJSON(w, http.StatusOK, struct {
		Vendor   VendorResponse    `json:"vendor"`
		Products []ProductResponse `json:"products"`
	}{toVendor(vendor), products})
}

// HandleListVendors serves every vendor's public profile.
func (h *Handler) HandleListVendors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.accounts.ListVendors()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vendors")
		return
	}
	vendors := make([]VendorResponse, len(rows))
	for i := range rows {
		vendors[i] = toVendor(&rows[i])
	}
	writeJSON(w, http.StatusOK, struct {
		Count   int              `json:"count"`
		Vendors []VendorResponse `json:"vendors"`
	}{len(vendors), vendors})
}

// HandleListCustomers serves every customer profile. Card numbers and
// password hashes never leave the model layer here.
func (h *Handler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.accounts.ListCustomers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	customers := make([]CustomerResponse, len(rows))
	for i := range rows {
		customers[i] = toCustomer(&rows[i])
	}
	writeJSON(w, http.StatusOK, struct {
		Count     int                `json:"count"`
		Customers []CustomerResponse `json:"customers"`
	}{len(customers), customers})
}

// HandleGetProfile serves the authenticated vendor's own profile.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	vendor, ok := h.currentVendor(w, r)
	if !ok {
		return
	}
	h.writeVendorDetail(w, vendor)
}

// HandleUpdateProfile updates the authenticated vendor's profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	vendor, ok := h.currentVendor(w, r)
	if !ok {
		return
	}

	var input struct {
		Name        string `json:"name"`
		SecondName  string `json:"second_name"`
		Phone       string `json:"phone"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": map[string]string{"name": "required"}})
		return
	}

	vendor.Name = input.Name
	vendor.SecondName = input.SecondName
	vendor.Phone = input.Phone
	vendor.Description = input.Description
	if err := h.accounts.UpdateVendor(vendor); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update vendor")
		return
	}
	writeJSON(w, http.StatusOK, toVendor(vendor))
}

// HandleDeleteProfile deletes the authenticated vendor and everything
// they listed.
func (h *Handler) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	vendor, ok := h.currentVendor(w, r)
	if !ok {
		return
	}
	if err := h.accounts.DeleteVendor(vendor.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete vendor")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) currentVendor(w http.ResponseWriter, r *http.Request) (*models.Vendor, bool) {
	id, ok := auth.AccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return nil, false
	}
	vendor, err := h.accounts.GetVendorByID(id)
	if err != nil {
		if errors.Is(err, models.ErrVendorNotFound) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "failed to get vendor")
		return nil, false
	}
	return vendor, true
}
