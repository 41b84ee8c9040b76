package repository

import (
	"context"
	"time"

	"trip-planner/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvitation inserts an invitation. Token and active-code uniqueness are
// enforced by indexes; callers must handle unique violations.
func (r *Repository) CreateInvitation(ctx context.Context, invitation *models.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// GetInvitationByID retrieves an invitation by ID
func (r *Repository) GetInvitationByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetInvitationByToken retrieves an invitation by its link token, whatever its status
func (r *Repository) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindActiveInvitationByCode looks up the live invitation carrying code
func (r *Repository) FindActiveInvitationByCode(ctx context.Context, code string, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.WithContext(ctx).
		Where("code = ? AND status = ? AND expires_at > ?", code, models.InvitationStatusActive, now).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListActiveInvitations returns invitations whose stored status is active,
// including ones whose expiry has passed but was not yet observed. Newest first.
func (r *Repository) ListActiveInvitations(ctx context.Context, tripID uuid.UUID) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND status = ?", tripID, models.InvitationStatusActive).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// ListInvitationsForTrip returns every invitation ever minted for a trip, newest first
func (r *Repository) ListInvitationsForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// TripIDsWithActiveDuplicates returns trips holding more than one active invitation
func (r *Repository) TripIDsWithActiveDuplicates(ctx context.Context) ([]uuid.UUID, error) {
	var tripIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("status = ?", models.InvitationStatusActive).
		Group("trip_id").
		Having("COUNT(*) > 1").
		Pluck("trip_id", &tripIDs).Error
	return tripIDs, err
}

// TokenExists reports whether any invitation ever used token
func (r *Repository) TokenExists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("token = ?", token).
		Count(&count).Error
	return count > 0, err
}

// ActiveCodeExists reports whether an active invitation holds code
func (r *Repository) ActiveCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("code = ? AND status = ?", code, models.InvitationStatusActive).
		Count(&count).Error
	return count > 0, err
}

// MarkInvitationExpired flips an active invitation to expired.
// Idempotent: returns false when the row was no longer active.
func (r *Repository) MarkInvitationExpired(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InvitationStatusActive).
		Updates(map[string]interface{}{
			"status":     models.InvitationStatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExpireStaleInvitations marks every active invitation of a trip whose expiry has passed
func (r *Repository) ExpireStaleInvitations(ctx context.Context, tripID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("trip_id = ? AND status = ? AND expires_at <= ?", tripID, models.InvitationStatusActive, now).
		Updates(map[string]interface{}{
			"status":     models.InvitationStatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// RevokeExhaustedInvitations revokes active invitations of a trip that have no uses left
func (r *Repository) RevokeExhaustedInvitations(ctx context.Context, tripID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("trip_id = ? AND status = ? AND current_uses >= max_uses", tripID, models.InvitationStatusActive).
		Updates(map[string]interface{}{
			"status":     models.InvitationStatusRevoked,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// RevokeActiveInvitations revokes every active invitation of a trip
func (r *Repository) RevokeActiveInvitations(ctx context.Context, tripID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("trip_id = ? AND status = ?", tripID, models.InvitationStatusActive).
		Updates(map[string]interface{}{
			"status":     models.InvitationStatusRevoked,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// RevokeActiveInvitationsExcept revokes active invitations of a trip other than keepID
func (r *Repository) RevokeActiveInvitationsExcept(ctx context.Context, tripID, keepID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("trip_id = ? AND status = ? AND id <> ?", tripID, models.InvitationStatusActive, keepID).
		Updates(map[string]interface{}{
			"status":     models.InvitationStatusRevoked,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// IncrementInvitationUses records one redemption as a single conditional update.
// Returns false when the invitation is no longer active, has expired, or has no uses left.
func (r *Repository) IncrementInvitationUses(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ? AND expires_at > ? AND current_uses < max_uses",
			id, models.InvitationStatusActive, now).
		Updates(map[string]interface{}{
			"current_uses": gorm.Expr("current_uses + ?", 1),
			"used_at":      now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
