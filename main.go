package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/AlexObbs/shopp/config"
	"github.com/AlexObbs/shopp/controllers"
	"github.com/AlexObbs/shopp/database"
	"github.com/AlexObbs/shopp/events"
	"github.com/AlexObbs/shopp/logger"
	"github.com/AlexObbs/shopp/middleware"
	"github.com/AlexObbs/shopp/notification"
	awspkg "github.com/AlexObbs/shopp/pkg/aws"
	"github.com/AlexObbs/shopp/repository"
	"github.com/AlexObbs/shopp/routes"
	"github.com/AlexObbs/shopp/sender"
	"github.com/AlexObbs/shopp/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[PaymentService] ❌ Failed to load config:", err)
	}

	logger.Initialize(cfg.Environment)
	defer logger.Log.Sync()

	if err := database.Connect(cfg.MongoURL, cfg.MongoDB); err != nil {
		log.Fatal("[PaymentService] ❌ Failed to connect to MongoDB:", err)
	}
	defer database.Close()

	tipRepo := repository.NewMongoTipRepo(database.DB)
	guideRepo := repository.NewMongoGuideRepo(database.DB)
	emailLogRepo := repository.NewMongoEmailLogRepo(database.DB)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := tipRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatal("[PaymentService] ❌ Failed to ensure tip indexes:", err)
	}
	cancelIndex()

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	var emailSender sender.EmailSender
	if cfg.SMTPConfigured() {
		smtpSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender)
		if err != nil {
			log.Fatal("[PaymentService] ❌ Failed to configure SMTP sender:", err)
		}
		emailSender = smtpSender
	} else {
		logger.Log.Warn("SMTP not configured, tip notifications disabled")
	}
	notifier := notification.NewService(emailSender, emailLogRepo, cfg.AdminEmails, logger.Log)

	publisher := buildEventPublisher(cfg)
	if publisher != nil {
		defer publisher.Close()
	}

	resolver := services.NewGuideResolver(guideRepo, logger.Log)
	checkoutSvc := services.NewCheckoutService(stripeSvc, cfg.FrontendURL, cfg.FallbackCurrency, logger.Log)
	tipSvc := services.NewTipService(stripeSvc, tipRepo, resolver, notifier, publisher, cfg.FrontendURL, cfg.FallbackCurrency, logger.Log)

	keepAlive := services.NewKeepAlive(cfg.SelfURL, cfg.CompanionURL, cfg.KeepAliveInterval, logger.Log)
	keepAlive.Start()
	defer keepAlive.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.NewRateLimiter(rate.Limit(20), 40, 10*time.Minute).Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	cc := &controllers.CheckoutController{Service: checkoutSvc, Logger: logger.Log, Production: cfg.IsProduction()}
	tc := &controllers.TipController{Service: tipSvc, Logger: logger.Log, Production: cfg.IsProduction()}
	pc := &controllers.PingController{KeepAlive: keepAlive, Logger: logger.Log}
	routes.RegisterRoutes(r, cc, tc, pc)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("[PaymentService] ✅ Running on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("[PaymentService] ❌ Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("[PaymentService] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[PaymentService] ❌ Forced shutdown:", err)
	}
}

func buildEventPublisher(cfg *config.Config) events.PaymentEventPublisher {
	switch cfg.EventBackend {
	case "sns":
		awsCfg, err := awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			log.Fatal("[PaymentService] ❌ Failed to load AWS config:", err)
		}
		return events.NewSNSPaymentPublisher(awspkg.NewSNSClient(awsCfg), cfg.PaymentSNSTopicARN)
	case "kafka":
		return events.NewKafkaPaymentPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
	default:
		return nil
	}
}
