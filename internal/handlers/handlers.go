package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"coachhub/api/internal/config"
	"coachhub/api/internal/middleware"
	"coachhub/api/internal/permissions"
	"coachhub/api/internal/repository"
	"coachhub/api/internal/service"
	"coachhub/api/internal/storage"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	audit       *service.AuditService
	db          *pgxpool.Pool
	cache       *redis.Client
	store       *storage.ObjectStore
	users       *repository.UserRepository
	sessions    *repository.SessionRepository
	activity    *repository.ActivityRepository
	donations   *repository.DonationRepository
	bookings    *repository.BookingRepository
	coaches     *repository.CoachRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	auth := service.NewAuthService(userRepo, sessionRepo, cache, cfg, log)
	audit := service.NewAuditService(activityRepo, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		audit:       audit,
		db:          db,
		cache:       cache,
		store:       store,
		users:       userRepo,
		sessions:    sessionRepo,
		activity:    activityRepo,
		donations:   donationRepo,
		bookings:    bookingRepo,
		coaches:     coachRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.POST("/password-reset/request", h.RequestPasswordReset)
	auth.POST("/password-reset/confirm", h.ConfirmPasswordReset)

	authed := v1.Group("/auth")
	authed.Use(middleware.Auth(h.cfg.Sessions.CookieName, h.authService))
	authed.POST("/logout", h.Logout)
	authed.GET("/me", h.Me)
	authed.GET("/sessions", h.MySessions)
	authed.POST("/change-password", h.ChangePassword)

	v1.GET("/coaches", h.ListCoaches)
	v1.POST("/donations", h.CreateDonation)

	bookings := v1.Group("/bookings")
	bookings.Use(middleware.Auth(h.cfg.Sessions.CookieName, h.authService))
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.MyBookings)
	bookings.DELETE("/:id", h.CancelBooking)

	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(h.cfg.Sessions.CookieName, h.authService))

	admin.GET("/users", middleware.RequirePermission(permissions.ViewUsers), h.AdminListUsers)
	admin.GET("/users/:id", middleware.RequirePermission(permissions.ViewUsers), h.AdminGetUser)
	admin.PATCH("/users/:id/role", middleware.RequirePermission(permissions.ManageUsers), h.AdminUpdateUserRole)
	admin.PATCH("/users/:id/status", middleware.RequirePermission(permissions.ManageUsers), h.AdminUpdateUserStatus)
	admin.PATCH("/users/:id/permissions", middleware.RequirePermission(permissions.ManageUsers), h.AdminUpdateUserPermissions)

	admin.GET("/sessions", middleware.RequirePermission(permissions.ManageSessions), h.AdminListSessions)
	admin.DELETE("/sessions/:id", middleware.RequirePermission(permissions.ManageSessions), h.AdminTerminateSession)

	admin.GET("/activity", middleware.RequirePermission(permissions.ViewActivityLogs), h.AdminListActivity)

	admin.GET("/donations", middleware.RequirePermission(permissions.ViewDonations), h.AdminListDonations)
	admin.PATCH("/donations/:id/status", middleware.RequirePermission(permissions.ManageDonations), h.AdminUpdateDonationStatus)

	admin.GET("/bookings", middleware.RequirePermission(permissions.ViewBookings), h.AdminListBookings)
	admin.PATCH("/bookings/:id/status", middleware.RequirePermission(permissions.ManageBookings), h.AdminUpdateBookingStatus)

	admin.GET("/coaches", middleware.RequirePermission(permissions.ViewCoaches), h.AdminListCoaches)
	admin.POST("/coaches", middleware.RequirePermission(permissions.ManageCoaches), h.AdminCreateCoach)
	admin.PATCH("/coaches/:id", middleware.RequirePermission(permissions.ManageCoaches), h.AdminUpdateCoach)
	admin.PATCH("/coaches/:id/approval", middleware.RequirePermission(permissions.ManageCoaches), h.AdminApproveCoach)
	admin.POST("/coaches/:id/document", middleware.RequirePermission(permissions.ManageCoaches), h.AdminUploadCoachDocument)
	admin.GET("/coaches/:id/document", middleware.RequirePermission(permissions.ViewCoaches), h.AdminCoachDocumentURL)
}

func pagination(c *gin.Context) (limit int, offset int) {
	limit = 50
	offset = 0
	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}
