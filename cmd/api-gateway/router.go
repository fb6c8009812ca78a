package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/rentalhub/marketplace-backend/docs"
	"github.com/rentalhub/marketplace-backend/internal/common/cache"
	"github.com/rentalhub/marketplace-backend/internal/common/config"
	"github.com/rentalhub/marketplace-backend/internal/common/crypto"
	"github.com/rentalhub/marketplace-backend/internal/common/jwt"
	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
	commonMiddleware "github.com/rentalhub/marketplace-backend/internal/common/middleware"
	"github.com/rentalhub/marketplace-backend/internal/common/qrcode"
	adminHandler "github.com/rentalhub/marketplace-backend/internal/handler/admin"
	agentHandler "github.com/rentalhub/marketplace-backend/internal/handler/agent"
	authHandler "github.com/rentalhub/marketplace-backend/internal/handler/auth"
	bookingHandler "github.com/rentalhub/marketplace-backend/internal/handler/booking"
	contentHandler "github.com/rentalhub/marketplace-backend/internal/handler/content"
	listingHandler "github.com/rentalhub/marketplace-backend/internal/handler/listing"
	paymentHandler "github.com/rentalhub/marketplace-backend/internal/handler/payment"
	publicHandler "github.com/rentalhub/marketplace-backend/internal/handler/public"
	userHandler "github.com/rentalhub/marketplace-backend/internal/handler/user"
	"github.com/rentalhub/marketplace-backend/internal/middleware"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/scheduler"
	adminService "github.com/rentalhub/marketplace-backend/internal/service/admin"
	agentService "github.com/rentalhub/marketplace-backend/internal/service/agent"
	authService "github.com/rentalhub/marketplace-backend/internal/service/auth"
	bookingService "github.com/rentalhub/marketplace-backend/internal/service/booking"
	commissionService "github.com/rentalhub/marketplace-backend/internal/service/commission"
	contentService "github.com/rentalhub/marketplace-backend/internal/service/content"
	"github.com/rentalhub/marketplace-backend/internal/service/events"
	listingService "github.com/rentalhub/marketplace-backend/internal/service/listing"
	paymentService "github.com/rentalhub/marketplace-backend/internal/service/payment"
	statsService "github.com/rentalhub/marketplace-backend/internal/service/stats"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
	userService "github.com/rentalhub/marketplace-backend/internal/service/user"
	"github.com/rentalhub/marketplace-backend/pkg/sms"
	"github.com/rentalhub/marketplace-backend/pkg/storage"
)

// dependencies are the infrastructure clients built by main. Redis, the SMS
// sender, the event publisher and metrics are optional.
type dependencies struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	redis     *redis.Client
	uploader  storage.Uploader
	sms       sms.Sender
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// setupRouter wires services and handlers onto r and returns the background
// tasks for the scheduler.
func setupRouter(r *gin.Engine, d *dependencies) *scheduler.TaskHandler {
	cfg := d.cfg

	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:           cfg.JWT.Secret,
		AccessExpireTime: cfg.JWT.AccessTokenDuration(),
		Issuer:           cfg.JWT.Issuer,
	})
	hasher := crypto.NewPasswordHasher(cfg.Crypto.BcryptCost)
	qr := qrcode.NewGenerator()

	var store *cache.Store
	if d.redis != nil {
		store = cache.NewStore(d.redis)
	}

	// repositories
	userRepo := repository.NewUserRepository(d.db)
	auditRepo := repository.NewAuditLogRepository(d.db)

	// services
	bus := events.NewBus(d.publisher, cfg.MQTT.TopicPrefix, d.metrics, d.logger)
	uploadSvc := upload.NewUploadService(d.uploader, upload.Limits{
		ListingMaxSize: cfg.Upload.ListingMaxSize,
		ProfileMaxSize: cfg.Upload.ProfileMaxSize,
		MaxFiles:       cfg.Upload.MaxFiles,
	})
	authSvc := authService.NewAuthService(d.db, userRepo, jwtManager, hasher)
	listingSvc := listingService.NewListingService(d.db, uploadSvc)
	bookingSvc := bookingService.NewBookingService(d.db, qr, bus, d.metrics, bookingService.Options{
		StrictTransitions: cfg.Business.Booking.StrictTransitions,
		ReferenceRetries:  cfg.Business.Booking.ReferenceRetries,
	})
	commissionSvc := commissionService.NewCommissionService(d.db, bus, d.metrics)
	paymentSvc := paymentService.NewPaymentService(d.db, bookingSvc, uploadSvc, bus, d.metrics)
	profileSvc := userService.NewProfileService(d.db, uploadSvc)
	agentSvc := agentService.NewAgentService(d.db, commissionSvc, qr)
	userAdminSvc := adminService.NewUserAdminService(d.db, hasher)
	agentAdminSvc := adminService.NewAgentAdminService(d.db, d.sms, adminService.NotifyTemplates{
		Approved: cfg.SMS.AgentApprovedTemplate,
		Rejected: cfg.SMS.AgentRejectedTemplate,
	}, bus, d.metrics)
	auditSvc := adminService.NewAuditService(d.db)
	statsSvc := statsService.NewStatsService(d.db, store,
		time.Duration(cfg.Cache.PublicStatsTTL)*time.Second, d.metrics)
	contactSvc := contentService.NewContactService(d.db)
	reviewSvc := contentService.NewReviewService(d.db)

	// handlers
	authH := authHandler.NewHandler(authSvc)
	listingH := listingHandler.NewHandler(listingSvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	paymentH := paymentHandler.NewHandler(paymentSvc)
	agentH := agentHandler.NewHandler(agentSvc)
	userH := userHandler.NewHandler(profileSvc)
	contentH := contentHandler.NewHandler(contactSvc, reviewSvc)
	publicH := publicHandler.NewHandler(statsSvc)
	adminUserH := adminHandler.NewUserHandler(userAdminSvc)
	adminAgentH := adminHandler.NewAgentHandler(agentAdminSvc)
	adminBookingH := adminHandler.NewBookingHandler(bookingSvc)
	adminFinanceH := adminHandler.NewFinanceHandler(commissionSvc, paymentSvc)
	adminReviewH := adminHandler.NewReviewHandler(reviewSvc)
	dashboardH := adminHandler.NewDashboardHandler(statsSvc, auditSvc)

	// global middleware
	r.Use(middleware.Recovery(d.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.RequestSizeLimiter(maxBodySize(&cfg.Upload)))
	r.Use(middleware.CORS(middleware.CORSConfigFrom(&cfg.CORS)))
	if cfg.Tracing.Enabled {
		r.Use(commonMiddleware.Tracing(&commonMiddleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			SkipPaths:   []string{"/health", "/ready", cfg.Metrics.Path},
		}))
	}
	if d.metrics != nil {
		r.Use(d.metrics.Middleware(cfg.Metrics.Path))
		r.GET(cfg.Metrics.Path, d.metrics.Handler())
	}
	r.Use(middleware.AccessLog(d.logger))

	r.GET("/health", healthHandler)
	r.GET("/ready", readyHandler(d.db, d.redis))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if local, ok := d.uploader.(*storage.LocalUploader); ok {
		r.Static(local.PublicPrefix(), local.Dir())
	}

	authenticate := middleware.Authenticate(jwtManager, userRepo)
	audit := commonMiddleware.NewAuditLogger(auditRepo, d.logger).Log()

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		if cfg.RateLimit.Enabled && store != nil {
			auth.Use(middleware.AuthRateLimit(store, cfg.RateLimit.AuthLimit,
				time.Duration(cfg.RateLimit.AuthWindow)*time.Second, d.logger))
		}
		auth.POST("/register/client", authH.RegisterClient)
		auth.POST("/register/agent", authH.RegisterAgent)
		auth.POST("/login", authH.Login)

		// public
		v1.GET("/accommodations", listingH.ListAccommodations)
		v1.GET("/accommodations/:id", listingH.GetAccommodation)
		v1.GET("/vehicles", listingH.ListVehicles)
		v1.GET("/vehicles/:id", listingH.GetVehicle)
		v1.GET("/reviews/:type/:id", contentH.ListReviews)
		v1.POST("/contact", contentH.SubmitInquiry)
		v1.GET("/public/stats", publicH.Stats)

		authed := v1.Group("", authenticate)

		authed.GET("/users/profile", userH.GetProfile)
		authed.PATCH("/users/profile", userH.UpdateProfile)

		client := middleware.RequireClient()
		authed.POST("/bookings", middleware.RequireRoles(models.RoleClient, models.RoleAgent), bookingH.Create)
		authed.GET("/bookings/my", client, bookingH.ListMine)
		authed.GET("/bookings/:id", bookingH.Get)
		authed.GET("/bookings/:id/qrcode", client, bookingH.QRCode)
		authed.PATCH("/bookings/:id/cancel", client, bookingH.Cancel)
		authed.GET("/bookings/:id/payments", middleware.RequireRoles(models.RoleClient, models.RoleAgent, models.RoleAdmin), paymentH.ListByBooking)
		authed.POST("/payments", client, paymentH.Create)
		authed.POST("/reviews", client, contentH.SubmitReview)

		agents := authed.Group("/agents", middleware.RequireAgent())
		{
			agents.GET("/commissions", agentH.Commissions)
			agents.GET("/stats", agentH.Stats)
			agents.GET("/referral-code", agentH.ReferralCode)
			agents.GET("/referral-code/qrcode", agentH.ReferralQRCode)
			agents.GET("/clients", agentH.Clients)
		}

		// admin-managed resources outside /admin
		managed := authed.Group("", middleware.RequireAdmin(), audit)
		{
			managed.POST("/accommodations", listingH.CreateAccommodation)
			managed.PATCH("/accommodations/:id", listingH.UpdateAccommodation)
			managed.DELETE("/accommodations/:id", listingH.DeleteAccommodation)
			managed.POST("/vehicles", listingH.CreateVehicle)
			managed.PATCH("/vehicles/:id", listingH.UpdateVehicle)
			managed.DELETE("/vehicles/:id", listingH.DeleteVehicle)
			managed.GET("/contact", contentH.ListInquiries)
			managed.PATCH("/contact/:id/status", contentH.UpdateInquiryStatus)
		}

		admin := authed.Group("/admin", middleware.RequireAdmin(), audit)
		{
			admin.GET("/stats", dashboardH.Stats)
			admin.GET("/audit-logs", dashboardH.AuditLogs)

			admin.GET("/users", adminUserH.List)
			admin.POST("/users", adminUserH.Create)
			admin.PATCH("/users/:id", adminUserH.Update)
			admin.DELETE("/users/:id", adminUserH.Delete)

			admin.GET("/agents/pending", adminAgentH.Pending)
			admin.PATCH("/agents/:id/approve", adminAgentH.Approve)
			admin.PATCH("/agents/:id/reject", adminAgentH.Reject)

			admin.GET("/bookings", adminBookingH.List)
			admin.PATCH("/bookings/:id/status", adminBookingH.UpdateStatus)

			admin.GET("/commissions", adminFinanceH.ListCommissions)
			admin.POST("/commissions", adminFinanceH.CreateCommission)
			admin.PATCH("/commissions/:id/status", adminFinanceH.UpdateCommissionStatus)
			admin.PATCH("/payments/:id/status", adminFinanceH.UpdatePaymentStatus)

			admin.GET("/reviews", adminReviewH.List)
			admin.PATCH("/reviews/:id/status", adminReviewH.UpdateStatus)
		}
	}

	return scheduler.NewTaskHandler(bookingSvc, agentAdminSvc, statsSvc)
}

// maxBodySize allows a full listing upload plus form fields.
func maxBodySize(cfg *config.UploadConfig) int64 {
	files := int64(cfg.MaxFiles)
	if files < 1 {
		files = 1
	}
	return cfg.ListingMaxSize*files + 1<<20
}
