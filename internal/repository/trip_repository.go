package repository

import (
	"context"

	"trip-planner/internal/models"

	"github.com/google/uuid"
)

// CreateTrip inserts a trip
func (r *Repository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

// GetTripByID retrieves a trip by ID
func (r *Repository) GetTripByID(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).Where("id = ?", tripID).First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetTripWithOwner retrieves a trip with its owner preloaded
func (r *Repository) GetTripWithOwner(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", tripID).First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// LockTrip reads a trip row under an exclusive lock for the rest of the transaction.
// Serialises invitation minting per trip.
func (r *Repository) LockTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.forUpdate(r.db.WithContext(ctx)).Where("id = ?", tripID).First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateParticipant inserts a membership row. The (trip_id, user_id) unique
// index rejects duplicates.
func (r *Repository) CreateParticipant(ctx context.Context, participant *models.TripParticipant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

// IsParticipant reports whether a membership row exists for (tripID, userID)
func (r *Repository) IsParticipant(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TripParticipant{}).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountParticipants counts the members of a trip
func (r *Repository) CountParticipants(ctx context.Context, tripID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TripParticipant{}).
		Where("trip_id = ?", tripID).
		Count(&count).Error
	return count, err
}

// ListParticipants returns the members of a trip with their users, oldest first
func (r *Repository) ListParticipants(ctx context.Context, tripID uuid.UUID) ([]models.TripParticipant, error) {
	var participants []models.TripParticipant
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("trip_id = ?", tripID).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}
