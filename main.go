package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/config"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/controllers"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/database"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/logger"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/repository"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/routes"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog := logger.Initialize(cfg.Environment)
	defer zlog.Sync()

	db, err := database.ConnectPostgres(cfg, zlog,
		&models.User{},
		&models.StorageBox{},
		&models.Payment{},
		&models.Booking{},
		&models.NotificationLog{},
	)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	paymentRepo := repository.NewGormPaymentRepo(db)
	bookingRepo := repository.NewGormBookingRepo(db)
	userRepo := repository.NewGormUserRepo(db)
	boxRepo := repository.NewGormBoxRepo(db)
	notificationRepo := repository.NewNotificationRepository(db)

	gateway := services.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookKey, cfg.StripeLiveMode, zlog)
	identity := services.NewIdentityService(userRepo, zlog)
	lockClient := services.NewHTTPLockClient(cfg.LockServiceURL)

	// Side-effect transports are optional: missing configuration degrades
	// to no-ops, never to a blocked booking pipeline.
	var email services.EmailSender
	if smtpSender, err := services.NewSMTPSender(); err != nil {
		zlog.Warn("SMTP not configured, booking emails disabled", zap.Error(err))
		email = services.NoopEmailSender{}
	} else {
		email = smtpSender
	}

	var push services.PushPublisher
	if snsPublisher, err := services.NewSNSPublisher(context.Background(), cfg.BookingSNSTopic); err != nil {
		zlog.Warn("SNS not configured, booking events disabled", zap.Error(err))
		push = services.NoopPushPublisher{}
	} else {
		push = snsPublisher
	}

	notifier := services.NewNotifier(notificationRepo, userRepo, boxRepo, email, push, zlog)
	bookingSvc := services.NewBookingService(paymentRepo, bookingRepo, boxRepo, identity, lockClient, notifier, zlog)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zlog))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	bc := &controllers.BookingController{
		Gateway:  gateway,
		Bookings: bookingSvc,
		Logger:   zlog,
	}
	routes.RegisterRoutes(r, bc)

	zlog.Info("Booking service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("Server failed", zap.Error(err))
	}
}
