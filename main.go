package main

import (
	"context"
	"log"

	"storefront-backend/common/logger"
	"storefront-backend/controllers"
	"storefront-backend/database"
	"storefront-backend/middleware"
	"storefront-backend/pkg/aws"
	"storefront-backend/repository"
	"storefront-backend/routes"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	db, err := database.Connect(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer db.Close()

	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("Failed to create indexes: ", err)
	}

	// Repositories
	productRepo := repository.NewMongoProductRepository(db.DB)
	cartRepo := repository.NewMongoCartRepository(db.DB)
	orderRepo := repository.NewMongoOrderRepository(db.DB)
	addressRepo := repository.NewMongoAddressRepository(db.DB)
	userRepo := repository.NewMongoUserRepository(db.DB)
	notificationRepo := repository.NewMongoNotificationRepository(db.DB)

	// AWS is optional: without a topic/queue the dispatcher still stores
	// notifications and the reconciler still logs.
	var snsClient aws.SNSPublisher
	var reconcileQueue aws.QueueSender
	if cfg.AWSNotifiers {
		awsCfg, err := aws.LoadConfig(context.Background())
		if err != nil {
			log.Fatal("Failed to load AWS config: ", err)
		}
		if cfg.SNSTopicArn != "" {
			snsClient = aws.NewSNSClient(awsCfg)
		}
		if cfg.SQSQueueURL != "" {
			reconcileQueue = aws.NewSQSQueue(awsCfg, cfg.SQSQueueURL)
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	}
	cache := controllers.NewCacheManager(rdb)

	// Services
	checkoutSvc := services.NewCheckoutService(cartRepo, productRepo, cfg.ShippingFee, cfg.TaxRate)
	dispatcher := services.NewNotificationService(notificationRepo, snsClient, cfg.SNSTopicArn)
	reconciler := services.NewQueueReconciler(reconcileQueue)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, productRepo, addressRepo, checkoutSvc, dispatcher, reconciler)
	addressSvc := services.NewAddressService(addressRepo)
	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)

	// HTTP server
	auth := middleware.NewAuth(cfg.JWTSecret)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	routes.Register(r, auth, routes.Controllers{
		Orders:    controllers.NewOrderController(orderSvc, userRepo, cache),
		Payments: &controllers.PaymentController{
			Stripe:      stripeSvc,
			UserRepo:    userRepo,
			AddressRepo: addressRepo,
			Checkout:    checkoutSvc,
			Orders:      orderSvc,
			Cache:       cache,
		},
		Cart:      controllers.NewCartController(cartRepo, productRepo),
		Addresses: controllers.NewAddressController(addressSvc),
		Products:  controllers.NewProductController(productRepo, cache),
	})

	logger.Log.Sugar().Infof("storefront-backend listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed: ", err)
	}
}
