package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvitationStatus is the stored lifecycle state of an invitation.
// Exhaustion (current_uses == max_uses) is derived, not stored.
type InvitationStatus string

const (
	InvitationStatusActive  InvitationStatus = "active"
	InvitationStatusExpired InvitationStatus = "expired"
	InvitationStatusRevoked InvitationStatus = "revoked"
)

// Invitation is a redeemable credential (token + short code) granting join access to one trip.
// Rows are never deleted; revoked and expired rows remain as an audit trail.
type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TripID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_invitations_one_active_per_trip,where:status = 'active'" json:"trip_id"`
	Trip      *Trip     `gorm:"foreignKey:TripID" json:"trip,omitempty"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	// Token is unique across every invitation ever minted
	Token string `gorm:"size:32;not null;uniqueIndex" json:"token"`
	// Code is unique among active invitations only
	Code          string           `gorm:"size:6;not null;uniqueIndex:idx_invitations_active_code,where:status = 'active'" json:"code"`
	Status        InvitationStatus `gorm:"size:16;not null;default:active;index" json:"status"`
	ExpiresAt     time.Time        `gorm:"not null" json:"expires_at"`
	UsedAt        *time.Time       `json:"used_at,omitempty"`
	MaxUses       int              `gorm:"not null;default:1" json:"max_uses"`
	CurrentUses   int              `gorm:"not null;default:0" json:"current_uses"`
	CustomMessage string           `gorm:"size:500" json:"custom_message,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Invitation model
func (Invitation) TableName() string {
	return "invitations"
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsExpiredAt reports whether the invitation's validity window has closed,
// regardless of the stored status.
func (i *Invitation) IsExpiredAt(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// IsExhausted reports whether every allowed redemption has been used.
func (i *Invitation) IsExhausted() bool {
	return i.CurrentUses >= i.MaxUses
}

// IsLiveAt reports whether the invitation is active and not yet expired.
func (i *Invitation) IsLiveAt(now time.Time) bool {
	return i.Status == InvitationStatusActive && !i.IsExpiredAt(now)
}

// IsRedeemableAt reports whether the invitation can still be accepted.
func (i *Invitation) IsRedeemableAt(now time.Time) bool {
	return i.IsLiveAt(now) && !i.IsExhausted()
}

// RemainingUses returns how many more users may redeem the invitation.
func (i *Invitation) RemainingUses() int {
	if i.IsExhausted() {
		return 0
	}
	return i.MaxUses - i.CurrentUses
}
