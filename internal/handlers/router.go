package handlers

import (
	"net/http"
	"sync"
	"time"

	"trip-planner/internal/auth"
	"trip-planner/internal/security"
	"trip-planner/internal/services"
	"trip-planner/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RouterDeps carries everything the HTTP surface needs
type RouterDeps struct {
	Invitations    *services.InvitationService
	Trips          *services.TripService
	Limiter        *security.RateLimiter
	AllowedOrigins []string
}

var registerValidators sync.Once

// RegisterValidators installs the custom binding rules used by request schemas
func RegisterValidators() {
	registerValidators.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("invitecode", func(fl validator.FieldLevel) bool {
				return utils.IsWellFormedCode(fl.Field().String())
			})
		}
	})
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(deps RouterDeps) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	limit := func(c *gin.Context) { c.Next() }
	if deps.Limiter != nil {
		limit = deps.Limiter.Middleware()
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	invitationHandler := NewInvitationHandler(deps.Invitations)
	tripHandler := NewTripHandler(deps.Trips)

	// Public invitation preview
	router.GET("/api/invitations/join/:token", limit, invitationHandler.ValidateInvitation)

	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		invitations := api.Group("/invitations")
		{
			invitations.GET("/trips/:tripId/link", invitationHandler.GetInviteLink)
			invitations.POST("/trips/:tripId/link", invitationHandler.RotateInviteLink)
			invitations.DELETE("/trips/:tripId/link", invitationHandler.RevokeInviteLink)
			invitations.GET("/trips/:tripId", invitationHandler.ListInvitations)
			invitations.POST("/join/:token/accept", invitationHandler.AcceptInvitation)
			invitations.GET("/find-by-code/:code", limit, invitationHandler.FindByCode)
		}

		trips := api.Group("/trips")
		{
			trips.POST("", tripHandler.CreateTrip)
			trips.GET("/:tripId", tripHandler.GetTrip)
			trips.GET("/:tripId/participants", tripHandler.ListParticipants)
		}
	}

	return router
}
