package models

import (
	"time"

	"github.com/google/uuid"
)

// RotateInviteRequest is the optional body of POST /api/invitations/trips/:tripId/link
type RotateInviteRequest struct {
	MaxUses       *int   `json:"max_uses" binding:"omitempty,min=1,max=1000"`
	CustomMessage string `json:"custom_message" binding:"max=500"`
	ExpiresInDays int    `json:"expires_in_days" binding:"omitempty,min=1,max=90"`
}

// TripURI binds the :tripId path parameter
type TripURI struct {
	TripID string `uri:"tripId" binding:"required,uuid"`
}

// TokenURI binds the :token path parameter
type TokenURI struct {
	Token string `uri:"token" binding:"required,min=1,max=32,alphanum"`
}

// CodeURI binds the :code path parameter
type CodeURI struct {
	Code string `uri:"code" binding:"required,invitecode"`
}

// InviteLinkResponse is returned by the get-link and rotate-link endpoints
type InviteLinkResponse struct {
	Token         string    `json:"token"`
	Code          string    `json:"code"`
	ExpiresAt     time.Time `json:"expires_at"`
	Link          string    `json:"link"`
	MaxUses       int       `json:"max_uses"`
	CurrentUses   int       `json:"current_uses"`
	CustomMessage string    `json:"custom_message,omitempty"`
}

// InvitationView is the public projection of an invitation returned by validate
type InvitationView struct {
	ID            uuid.UUID        `json:"id"`
	TripID        uuid.UUID        `json:"trip_id"`
	Status        InvitationStatus `json:"status"`
	ExpiresAt     time.Time        `json:"expires_at"`
	MaxUses       int              `json:"max_uses"`
	CurrentUses   int              `json:"current_uses"`
	CustomMessage string           `json:"custom_message,omitempty"`
}

func NewInvitationView(inv *Invitation) *InvitationView {
	return &InvitationView{
		ID:            inv.ID,
		TripID:        inv.TripID,
		Status:        inv.Status,
		ExpiresAt:     inv.ExpiresAt,
		MaxUses:       inv.MaxUses,
		CurrentUses:   inv.CurrentUses,
		CustomMessage: inv.CustomMessage,
	}
}

// CodeLookupResponse is returned by find-by-code
type CodeLookupResponse struct {
	Token  string    `json:"token"`
	TripID uuid.UUID `json:"trip_id"`
}
