package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/armandomtz/fraccionet/internal/config"
	"github.com/armandomtz/fraccionet/internal/handler"
	"github.com/armandomtz/fraccionet/internal/middleware"
	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/repository"
	"github.com/armandomtz/fraccionet/internal/scheduler"
	"github.com/armandomtz/fraccionet/internal/service"
	"github.com/armandomtz/fraccionet/internal/ws"
	"github.com/armandomtz/fraccionet/migrations"
	"github.com/armandomtz/fraccionet/pkg/auth"
	"github.com/armandomtz/fraccionet/pkg/mailer"
	"github.com/armandomtz/fraccionet/pkg/push"
	"github.com/armandomtz/fraccionet/pkg/storage"
)

// @title           FraccioNet API
// @version         1.0
// @description     Residential community backend: chat rooms over WebSocket with Redis fan-out, payment vigencia reminders via Expo/FCM push.

// @contact.name   API Support
// @contact.email  soporte@fraccionet.local

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting FraccioNet API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(
			&model.User{},
			&model.ResetCode{},
			&model.Chat{},
			&model.ChatMember{},
			&model.Message{},
			&model.Payment{},
			&model.PushToken{},
			&model.NotificationLog{},
			&model.Announcement{},
			&model.Rule{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== Email (SMTP / Mailpit) ====================
	mailClient := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	log.Printf("📧 SMTP configured: %s:%s", cfg.SMTP.Host, cfg.SMTP.Port)

	// ==================== Push Gateways ====================
	expoClient := push.NewExpoClient(cfg.Push.ExpoURL)
	fcmClient, err := push.NewFCMClient(cfg.Push.FirebaseCredentials)
	if err != nil {
		log.Printf("⚠️  FCM init error: %v", err)
	}
	pushSender := push.NewSender(expoClient, fcmClient)

	// ==================== Initialize Layers ====================
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewResetCodeRepository(db)
	chatRepo := repository.NewChatRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	tokenRepo := repository.NewPushTokenRepository(db)
	notifLogRepo := repository.NewNotificationLogRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	ruleRepo := repository.NewRuleRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, resetRepo, jwtManager, mailClient, rdb)
	userService := service.NewUserService(userRepo)
	chatService := service.NewChatService(chatRepo, msgRepo)
	notifService := service.NewNotificationService(tokenRepo, pushSender)

	schedulerLoc := cfg.Scheduler.Location()
	vigenciaService := service.NewVigenciaService(
		paymentRepo, tokenRepo, notifLogRepo, pushSender,
		schedulerLoc, cfg.Scheduler.DaysAhead,
	)

	// WebSocket Hub (with Redis Pub/Sub for horizontal scaling)
	hub := ws.NewHub(rdb)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Daily vigencia scan
	daily := scheduler.NewDaily("vigencia", cfg.Scheduler.Hour, schedulerLoc, func(ctx context.Context) {
		if _, err := vigenciaService.Run(ctx); err != nil {
			log.Printf("⚠️ [Scheduler] Vigencia scan failed: %v", err)
		}
	})
	daily.Start(hubCtx)

	// MinIO Storage
	minioStorage, err := storage.NewMinIO(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Printf("⚠️  MinIO not available: %v (file upload disabled)", err)
	}
	if minioStorage != nil {
		log.Println("✅ Connected to MinIO")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	chatHandler := handler.NewChatHandler(chatService, hub)
	wsHandler := handler.NewWSHandler(hub, chatService, jwtManager)
	paymentHandler := handler.NewPaymentHandler(paymentRepo)
	notifHandler := handler.NewNotificationHandler(
		notifService, vigenciaService, paymentRepo,
		schedulerLoc, cfg.Scheduler.DaysAhead,
	)
	announcementHandler := handler.NewAnnouncementHandler(announcementRepo)
	ruleHandler := handler.NewRuleHandler(ruleRepo)
	uploadHandler := handler.NewUploadHandler(minioStorage)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "fraccionet-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}

		// Device registration is public: the app registers its token
		// before the resident logs in.
		api.POST("/notificaciones/token", notifHandler.RegisterToken)
		api.DELETE("/notificaciones/token/:token", notifHandler.RemoveToken)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/auth/me", authHandler.Profile)

			// Users
			protected.GET("/usuarios", userHandler.ListUsers)
			protected.GET("/usuarios/nombres", userHandler.ListUserNames)
			protected.GET("/usuarios/edificios", userHandler.ListBuildings)
			protected.GET("/usuarios/:id", userHandler.GetUser)
			protected.PUT("/usuarios/:id", userHandler.UpdateUser)

			// Chats
			protected.GET("/chats", chatHandler.ListChats)
			protected.POST("/chats", chatHandler.CreateChat)
			protected.GET("/chats/:id/messages", chatHandler.ListMessages)
			protected.POST("/chats/:id/messages", chatHandler.PostMessage)

			// Payments
			protected.GET("/pagos", paymentHandler.ListPayments)
			protected.GET("/pagos/usuario/:userId", paymentHandler.ListUserPayments)

			// Announcements and rules (read)
			protected.GET("/anuncios", announcementHandler.ListAnnouncements)
			protected.GET("/reglas", ruleHandler.ListRules)

			// Upload
			protected.POST("/upload/ine", uploadHandler.UploadIne)
			protected.DELETE("/upload/ine", uploadHandler.DeleteIne)

			// Admin-only surfaces
			admin := protected.Group("")
			admin.Use(middleware.RequireRole("administrador"))
			{
				admin.POST("/usuarios", userHandler.CreateUser)
				admin.DELETE("/usuarios/:id", userHandler.DeleteUser)

				admin.DELETE("/chats/:id", chatHandler.DeleteChat)

				admin.POST("/pagos", paymentHandler.CreatePayment)

				admin.POST("/anuncios", announcementHandler.CreateAnnouncement)
				admin.PUT("/anuncios/:id", announcementHandler.UpdateAnnouncement)
				admin.DELETE("/anuncios/:id", announcementHandler.DeleteAnnouncement)

				admin.POST("/reglas", ruleHandler.CreateRule)
				admin.PUT("/reglas/:id", ruleHandler.UpdateRule)
				admin.DELETE("/reglas/:id", ruleHandler.DeleteRule)

				admin.POST("/notificaciones/enviar", notifHandler.SendNotification)
				admin.POST("/cron/test-vigencia", notifHandler.RunVigencia)
				admin.GET("/debug/vigencias", notifHandler.DebugVigencias)
				admin.GET("/debug/tokens/:userId", notifHandler.DebugTokens)
			}
		}
	}

	// WebSocket endpoint (auth via query parameter)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 FraccioNet API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("🔌 WebSocket: ws://0.0.0.0:%s/ws?token=<jwt>", cfg.App.Port)
	log.Printf("⏰ Vigencia scan daily at %02d:00 %s (%d days ahead)",
		cfg.Scheduler.Hour, cfg.Scheduler.Timezone, cfg.Scheduler.DaysAhead)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	daily.Stop()
	hubCancel()
	log.Println("✅ Server exited gracefully")
}
