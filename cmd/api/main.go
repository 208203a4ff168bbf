package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openmarket/market-api/app/accounts"
	"github.com/openmarket/market-api/app/cart"
	"github.com/openmarket/market-api/app/catalog"
	"github.com/openmarket/market-api/app/categories"
	"github.com/openmarket/market-api/app/checkout"
	"github.com/openmarket/market-api/auth"
	"github.com/openmarket/market-api/config"
	"github.com/openmarket/market-api/models"
	"github.com/openmarket/market-api/payments"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Vendor{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.Comment{},
		&models.Cart{},
		&models.Purchase{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	productsRepo := models.NewProductsRepository(db)
	categoriesRepo := models.NewCategoriesRepository(db)
	accountsRepo := models.NewAccountsRepository(db)
	cartsRepo := models.NewCartsRepository(db)
	purchasesRepo := models.NewPurchasesRepository(db)
	commentsRepo := models.NewCommentsRepository(db)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	processor := payments.NewClient(cfg.ProcessorURL, cfg.ProcessorKey, cfg.PaymentTimeout)
	checkoutSvc := checkout.NewService(productsRepo, accountsRepo, purchasesRepo, processor, cfg.Currency, cfg.PaymentTimeout)

	catalogHandler := catalog.NewCatalogHandler(productsRepo, commentsRepo, cfg.PageSize)
	categoryHandler := categories.NewCategoryHandler(categoriesRepo)
	checkoutHandler := checkout.NewHandler(checkoutSvc)
	cartHandler := cart.NewHandler(cartsRepo, accountsRepo)
	accountsHandler := accounts.NewHandler(accountsRepo, purchasesRepo, productsRepo, tokens)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /products", catalogHandler.HandleList)
	mux.HandleFunc("GET /products/{id}", catalogHandler.HandleGetProduct)
	mux.HandleFunc("POST /products", tokens.Require(auth.RoleVendor, catalogHandler.HandleCreate))
	mux.HandleFunc("PUT /products/{id}", tokens.Require(auth.RoleVendor, catalogHandler.HandleUpdate))
	mux.HandleFunc("DELETE /products/{id}", tokens.Require(auth.RoleVendor, catalogHandler.HandleDelete))
	mux.HandleFunc("POST /products/{id}/comments", tokens.Require(auth.RoleCustomer, catalogHandler.HandleCreateComment))
	mux.HandleFunc("POST /products/{id}/checkout", tokens.Require(auth.RoleCustomer, checkoutHandler.HandlePost))

	mux.HandleFunc("GET /categories", categoryHandler.HandleGetAll)
	mux.HandleFunc("POST /categories", categoryHandler.HandleCreate)
	mux.HandleFunc("PUT /categories/{id}", categoryHandler.HandleUpdate)
	mux.HandleFunc("DELETE /categories/{id}", categoryHandler.HandleDelete)

	mux.HandleFunc("GET /vendors", accountsHandler.HandleListVendors)
	mux.HandleFunc("POST /vendors", accountsHandler.HandleRegisterVendor)
	mux.HandleFunc("GET /customers", accountsHandler.HandleListCustomers)
	mux.HandleFunc("POST /customers", accountsHandler.HandleRegisterCustomer)
	mux.HandleFunc("POST /login", accountsHandler.HandleLogin)
	mux.HandleFunc("GET /customers/{id}", accountsHandler.HandleGetCustomer)
	mux.HandleFunc("GET /vendors/{id}", accountsHandler.HandleGetVendor)
	mux.HandleFunc("GET /vendors/me/profile", tokens.Require(auth.RoleVendor, accountsHandler.HandleGetProfile))
	mux.HandleFunc("PUT /vendors/me/profile", tokens.Require(auth.RoleVendor, accountsHandler.HandleUpdateProfile))
	mux.HandleFunc("DELETE /vendors/me/profile", tokens.Require(auth.RoleVendor, accountsHandler.HandleDeleteProfile))

	mux.HandleFunc("GET /customers/{id}/cart", cartHandler.HandleGet)
	mux.HandleFunc("PUT /customers/{id}/cart", cartHandler.HandlePut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go checkoutSvc.RunReconciler(ctx, cfg.ReconcileInterval, cfg.ReconcileAge)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, cors(mux)); err != nil {
		log.Fatal(err)
	}
}
