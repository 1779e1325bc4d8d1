package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staynest/internal/infra/config"
	"staynest/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Confirm(c *gin.Context)
	CheckIn(c *gin.Context)
	CheckOut(c *gin.Context)
	Cancel(c *gin.Context)
	Quote(c *gin.Context)
	ListMine(c *gin.Context)
}

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
}

type PropertyHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	AddRoom(c *gin.Context)
	CompleteMedia(c *gin.Context)
	Approve(c *gin.Context)
	Reject(c *gin.Context)
}

type MediaHTTP interface {
	Upload(c *gin.Context)
	Tag(c *gin.Context)
	SetCover(c *gin.Context)
	Remove(c *gin.Context)
}

type Handlers struct {
	Booking      BookingHTTP
	Availability AvailabilityHTTP
	Property     PropertyHTTP
	Media        MediaHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-User-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/quote", h.Booking.Quote)
		api.POST("/bookings/:id/confirm", h.Booking.Confirm)
		api.POST("/bookings/:id/checkin", h.Booking.CheckIn)
		api.POST("/bookings/:id/checkout", h.Booking.CheckOut)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/me/bookings", h.Booking.ListMine)
	}
	if h.Availability != nil {
		api.GET("/properties/:id/rooms/:roomID/availability", h.Availability.Calendar)
	}
	if h.Property != nil {
		api.POST("/properties", h.Property.Create)
		api.GET("/properties/:id", h.Property.Get)
		api.POST("/properties/:id/rooms", h.Property.AddRoom)
		api.POST("/properties/:id/media/complete", h.Property.CompleteMedia)

		admin := api.Group("/admin")
		admin.POST("/properties/:id/approve", h.Property.Approve)
		admin.POST("/properties/:id/reject", h.Property.Reject)
	}
	if h.Media != nil {
		api.POST("/properties/:id/media", h.Media.Upload)
		api.PUT("/properties/:id/media/:mediaID/tags", h.Media.Tag)
		api.POST("/properties/:id/media/:mediaID/cover", h.Media.SetCover)
		api.DELETE("/properties/:id/media/:mediaID", h.Media.Remove)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
