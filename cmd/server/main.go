package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"eshop_back_end/internal/cache"
	"eshop_back_end/internal/config"
	"eshop_back_end/internal/database"
	"eshop_back_end/internal/handlers"
	"eshop_back_end/internal/routes"
	"eshop_back_end/internal/services"
	"eshop_back_end/internal/store"
	"eshop_back_end/internal/utils"
)

func main() {
	config.Load()

	stripe.Key = config.Get("STRIPE_SECRET_KEY", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	conns, err := database.Connect(ctx)
	cancel()
	if err != nil {
		log.Fatalf("❌ Initialisation des connexions: %v", err)
	}
	defer conns.Close(context.Background())

	jwtSecret := []byte(config.Get("JWT_SECRET", ""))
	if len(jwtSecret) == 0 {
		log.Fatal("❌ JWT_SECRET manquant")
	}
	tokenTTL := 24 * time.Hour
	if raw := config.Get("JWT_TTL_HOURS", ""); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			tokenTTL = time.Duration(hours) * time.Hour
		}
	}

	// ─── Stores et services, injection explicite ───
	stores := store.NewMongoStores(conns.Mongo, conns.DB)
	blacklist := cache.NewTokenBlacklist(conns.Redis)

	var search *services.SearchService
	if conns.Elastic != nil {
		search = services.NewSearchService(conns.Elastic)
	}
	var images *services.ImageService
	if conns.MinIO != nil {
		images = services.NewImageService(conns.MinIO, conns.MinIOBucket, conns.MinIOEndpoint)
	}

	ledger := services.NewInventoryLedger(stores.Products)
	orderItems := services.NewOrderItemService(stores.Items)
	pricing := services.NewPricingCalculator(stores.Items, stores.Products)
	orderService := services.NewOrderService(stores.UnitOfWork, stores.Orders, stores.Users, ledger, orderItems, pricing)

	productService := services.NewProductService(conns.DB, conns.Redis, search, images)
	categoryService := services.NewCategoryService(conns.DB, conns.Redis)
	userService := services.NewUserService(conns.DB)
	authService := services.NewAuthService(conns.DB, blacklist, jwtSecret, tokenTTL)
	healthService := services.NewHealthService(conns.Mongo, conns.Redis, conns.MinIO, conns.Elastic, conns.MinIOBucket)

	var mailer *utils.Mailer
	if host := config.Get("SMTP_HOST", ""); host != "" {
		port, _ := strconv.Atoi(config.Get("SMTP_PORT", "587"))
		mailer = utils.NewMailer(
			host, port,
			config.Get("SMTP_USERNAME", ""),
			config.Get("SMTP_PASSWORD", ""),
			config.Get("SMTP_FROM", "noreply@eshop.local"),
			config.Get("SEPA_IBAN", ""),
			config.Get("SEPA_BIC", ""),
			config.Get("SEPA_HOLDER", ""),
		)
	} else {
		log.Println("⚠️ SMTP non configuré, emails de confirmation désactivés")
	}

	h := routes.Handlers{
		Orders:     handlers.NewOrderHandler(orderService, mailer),
		Products:   handlers.NewProductHandler(productService, images),
		Categories: handlers.NewCategoryHandler(categoryService),
		Users:      handlers.NewUserHandler(userService),
		Auth:       handlers.NewAuthHandler(authService),
		Payments:   handlers.NewPaymentHandler(),
		Health:     handlers.NewHealthHandler(healthService),
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, h, jwtSecret, blacklist)

	port := config.Get("PORT", "8080")
	log.Printf("🚀 Serveur démarré sur le port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Serveur arrêté: %v", err)
	}
}
