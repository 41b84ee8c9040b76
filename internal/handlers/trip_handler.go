package handlers

import (
	"net/http"

	"trip-planner/internal/auth"
	"trip-planner/internal/models"
	"trip-planner/internal/services"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	trips *services.TripService
}

func NewTripHandler(trips *services.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// CreateTrip creates a trip owned by the caller
func (h *TripHandler) CreateTrip(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	trip, err := h.trips.CreateTrip(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// GetTrip returns a trip the caller belongs to
func (h *TripHandler) GetTrip(c *gin.Context) {
	userID, tripID, ok := bindTrip(c)
	if !ok {
		return
	}

	trip, err := h.trips.ViewTrip(c.Request.Context(), userID, tripID)
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// ListParticipants returns the members of a trip
func (h *TripHandler) ListParticipants(c *gin.Context) {
	userID, tripID, ok := bindTrip(c)
	if !ok {
		return
	}

	participants, err := h.trips.ListParticipants(c.Request.Context(), userID, tripID)
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": participants,
		"count":        len(participants),
	})
}
