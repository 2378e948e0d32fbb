package router

import (
	"log"

	"venus/config"
	"venus/internal/domain"
	"venus/internal/handler"
	"venus/internal/middleware"
	"venus/internal/repository"
	"venus/internal/service"
	appvalidator "venus/internal/validator"
	"venus/internal/ws"
	"venus/pkg/payment"
	"venus/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, uploader storage.Uploader) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		appvalidator.Register(v)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	planRepo := repository.NewPaymentPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	mapHub := ws.NewMapHub()

	// Services
	authSvc := service.NewAuthService(&cfg.JWT, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	// a nil *FCMService inside the interface would not compare equal to nil
	var pusher service.Pusher
	if fcmSvc != nil {
		pusher = fcmSvc
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, pusher)
	profileSvc := service.NewProfileService(profileRepo, mapHub)
	discoverySvc := service.NewDiscoveryService(profileRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, planRepo, newGateway(&cfg.Daraja), notifSvc, cfg.Daraja.CallbackURL, cfg.Daraja.Timeout)
	photoSvc := service.NewPhotoService(photoRepo, uploader, cfg.Photo.Folder, cfg.Photo.MaxSizeMB)
	matchSvc := service.NewMatchService(matchRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	meHandler := handler.NewMeHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc, discoverySvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	paymentWebhookHandler := handler.NewPaymentWebhookHandler(paymentSvc)
	photoHandler := handler.NewPhotoHandler(photoSvc)
	matchHandler := handler.NewMatchHandler(matchSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", meHandler.Get)
			me.POST("/fcm-token", meHandler.RegisterFCMToken)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		profiles := api.Group("/profiles")
		profiles.Use(authMw)
		{
			profiles.POST("/complete", profileHandler.Complete)
			profiles.GET("/me", profileHandler.Me)
			profiles.GET("/map", profileHandler.Map)
			profiles.PATCH("/location", profileHandler.UpdateLocation)
			profiles.PUT("/preferences", profileHandler.UpdatePreferences)
		}

		api.GET("/payment-plans", paymentHandler.ListPlans)
		// Daraja posts here; no auth header is sent
		api.POST("/payments/callback", paymentWebhookHandler.Handle)
		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.POST("", paymentHandler.Create)
			payments.GET("", paymentHandler.List)
			payments.POST("/initiate-stk", paymentHandler.InitiateSTK)
			payments.GET("/:id", paymentHandler.Get)
			payments.PATCH("/:id", paymentHandler.UpdateStatus)
			payments.POST("/:id/push", paymentHandler.RetryPush)
		}

		photos := api.Group("/photos")
		photos.Use(authMw)
		{
			photos.POST("", photoHandler.Upload)
			photos.GET("", photoHandler.List)
			photos.DELETE("/:id", photoHandler.Delete)
		}

		matches := api.Group("/matches")
		matches.Use(authMw)
		{
			matches.POST("", matchHandler.Save)
			matches.GET("", matchHandler.List)
		}
	}

	r.GET("/ws/map", ws.UpgradeMapWS(&cfg.JWT, mapHub, func(userID string) (domain.Gender, error) {
		p, err := profileRepo.GetByUserID(userID)
		if err != nil {
			return "", err
		}
		return p.Gender, nil
	}))

	return r
}

func newGateway(cfg *config.DarajaConfig) payment.Gateway {
	if cfg.Gateway == "stub" {
		log.Printf("[MPESA] using stub gateway; no real STK pushes will be sent")
		return payment.StubGateway{}
	}
	return payment.NewDarajaGateway(payment.DarajaConfig{
		BaseURL:        cfg.BaseURL,
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		ShortCode:      cfg.ShortCode,
		Passkey:        cfg.Passkey,
		CallbackURL:    cfg.CallbackURL,
		Timeout:        cfg.Timeout,
	})
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.AllowMethods = append(c.AllowMethods, "PATCH")
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
