package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/imagehost"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/routes"
	"storefront/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer func() {
		if err := database.Disconnect(ctx, client); err != nil {
			log.WithError(err).Error("disconnect database")
		}
	}()

	db := client.Database(cfg.MongoDB)
	users := repository.NewUserRepository(db.Collection("users"))
	products := repository.NewProductRepository(db.Collection("products"))
	carts := repository.NewCartRepository(db.Collection("carts"))
	orders := repository.NewOrderRepository(db.Collection("orders"))

	if err := users.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("ensure user indexes")
	}
	if err := carts.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("ensure cart indexes")
	}

	uploader, err := imagehost.New(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		log.WithError(err).Fatal("init image host")
	}

	tx := database.NewTxn(client)
	authService := service.NewAuthService(users, cfg.BcryptCost)
	cartService := service.NewCartService(carts, products, tx)
	checkoutService := service.NewCheckoutService(carts, products, orders, tx)
	productCache := cache.New(cfg.CacheTTL)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Session())

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, log),
		Products:  handlers.NewProductHandler(products, productCache, log),
		Cart:      handlers.NewCartHandler(cartService, log),
		Orders:    handlers.NewOrderHandler(checkoutService, orders, log),
		Upload:    handlers.NewUploadHandler(uploader, log),
		Dashboard: handlers.NewDashboardHandler(products, orders, log),
	})

	log.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
