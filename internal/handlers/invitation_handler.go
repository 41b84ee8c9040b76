package handlers

import (
	"errors"
	"io"
	"net/http"

	"trip-planner/internal/auth"
	"trip-planner/internal/models"
	"trip-planner/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvitationHandler struct {
	invitations *services.InvitationService
}

func NewInvitationHandler(invitations *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// bindTrip resolves the caller and the :tripId parameter, aborting on failure
func bindTrip(c *gin.Context) (userID, tripID uuid.UUID, ok bool) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return uuid.Nil, uuid.Nil, false
	}

	var uri models.TripURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, "Invalid trip ID")
		return uuid.Nil, uuid.Nil, false
	}
	tripID, err := uuid.Parse(uri.TripID)
	if err != nil {
		badRequest(c, "Invalid trip ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, tripID, true
}

// GetInviteLink returns the trip's active invite link, creating one if needed
func (h *InvitationHandler) GetInviteLink(c *gin.Context) {
	userID, tripID, ok := bindTrip(c)
	if !ok {
		return
	}

	inv, err := h.invitations.GetOrCreateLink(c.Request.Context(), userID, tripID)
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, h.invitations.LinkResponse(inv))
}

// RotateInviteLink revokes the current link and mints a new one
func (h *InvitationHandler) RotateInviteLink(c *gin.Context) {
	userID, tripID, ok := bindTrip(c)
	if !ok {
		return
	}

	// the body is optional
	var req models.RotateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	inv, err := h.invitations.RotateLink(c.Request.Context(), userID, tripID, services.RotateLinkInput{
		MaxUses:       req.MaxUses,
		CustomMessage: req.CustomMessage,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, h.invitations.LinkResponse(inv))
}

// RevokeInviteLink disables every active link of the trip
func (h *InvitationHandler) RevokeInviteLink(c *gin.Context) {
	userID, tripID, ok := bindTrip(c)
	if !ok {
		return
	}

	revoked, err := h.invitations.RevokeLink(c.Request.Context(), userID, tripID)
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": revoked})
}

// ListInvitations returns the invitation history of a trip
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	userID, tripID, ok := bindTrip(c)
	if !ok {
		return
	}

	invitations, err := h.invitations.ListInvitations(c.Request.Context(), userID, tripID)
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": invitations,
		"count":       len(invitations),
	})
}

// ValidateInvitation checks a token without redeeming it. Public.
func (h *InvitationHandler) ValidateInvitation(c *gin.Context) {
	var uri models.TokenURI
	if err := c.ShouldBindUri(&uri); err != nil {
		// malformed tokens cannot exist
		respondWithError(c, services.ErrInvitationNotFound, gin.H{"valid": false})
		return
	}

	inv, trip, err := h.invitations.ValidateToken(c.Request.Context(), uri.Token)
	if err != nil {
		respondWithError(c, err, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"invitation": models.NewInvitationView(inv),
		"trip":       trip,
	})
}

// AcceptInvitation joins the caller to the invitation's trip
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	var uri models.TokenURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, services.ErrInvitationNotFound, nil)
		return
	}

	trip, err := h.invitations.AcceptInvitation(c.Request.Context(), userID, uri.Token)
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully joined the trip",
		"trip":    trip,
	})
}

// FindByCode resolves a 6-digit code to its invitation token
func (h *InvitationHandler) FindByCode(c *gin.Context) {
	var uri models.CodeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, services.ErrMalformedCode, nil)
		return
	}

	found, err := h.invitations.FindByCode(c.Request.Context(), uri.Code)
	if err != nil {
		respondWithError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, models.CodeLookupResponse{
		Token:  found.Token,
		TripID: found.TripID,
	})
}
