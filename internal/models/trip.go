package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ParticipantRole distinguishes the trip owner from invited members
type ParticipantRole string

const (
	ParticipantRoleOwner  ParticipantRole = "owner"
	ParticipantRoleMember ParticipantRole = "member"
)

// Trip is a group trip. Only the fields the invitation flow displays are modelled here.
type Trip struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Destination string          `gorm:"size:200" json:"destination"`
	Description string          `gorm:"type:text" json:"description"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Budget      decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"budget"`
	Currency    string          `gorm:"size:3;default:USD" json:"currency"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Trip model
func (Trip) TableName() string {
	return "trips"
}

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TripParticipant is a (trip, user) membership pair
type TripParticipant struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TripID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_trip_participants_trip_user" json:"trip_id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_trip_participants_trip_user;index" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role         ParticipantRole `gorm:"size:20;not null;default:member" json:"role"`
	InvitationID *uuid.UUID      `gorm:"type:uuid;index" json:"invitation_id,omitempty"`
	JoinedAt     time.Time       `gorm:"autoCreateTime" json:"joined_at"`
}

// TableName specifies the table name for TripParticipant model
func (TripParticipant) TableName() string {
	return "trip_participants"
}

func (p *TripParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TripPreview is the read-only projection shown before and after joining a trip
type TripPreview struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Destination      string          `json:"destination"`
	Description      string          `json:"description"`
	StartDate        *time.Time      `json:"start_date,omitempty"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
	Budget           decimal.Decimal `json:"budget"`
	Currency         string          `json:"currency"`
	ParticipantCount int64           `json:"participant_count"`
	Owner            *TripOwner      `json:"owner,omitempty"`
}

// TripOwner is the public view of a trip owner
type TripOwner struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// NewTripPreview builds the public projection of a trip. trip.Owner may be nil.
func NewTripPreview(trip *Trip, participantCount int64) *TripPreview {
	preview := &TripPreview{
		ID:               trip.ID,
		Name:             trip.Name,
		Destination:      trip.Destination,
		Description:      trip.Description,
		StartDate:        trip.StartDate,
		EndDate:          trip.EndDate,
		Budget:           trip.Budget,
		Currency:         trip.Currency,
		ParticipantCount: participantCount,
	}
	if trip.Owner != nil {
		preview.Owner = &TripOwner{
			ID:        trip.Owner.ID,
			Name:      trip.Owner.Name,
			AvatarURL: trip.Owner.AvatarURL,
		}
	}
	return preview
}

// CreateTripRequest is the body of POST /api/trips
type CreateTripRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Destination string     `json:"destination" binding:"max=200"`
	Description string     `json:"description" binding:"max=5000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      string     `json:"budget" binding:"omitempty,numeric"`
	Currency    string     `json:"currency" binding:"omitempty,len=3,alpha"`
}
