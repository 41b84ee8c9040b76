package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvitationPredicates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	inv := &Invitation{
		Status:      InvitationStatusActive,
		ExpiresAt:   now.Add(time.Hour),
		MaxUses:     2,
		CurrentUses: 1,
	}

	assert.False(t, inv.IsExpiredAt(now))
	assert.True(t, inv.IsLiveAt(now))
	assert.True(t, inv.IsRedeemableAt(now))
	assert.Equal(t, 1, inv.RemainingUses())

	t.Run("expiry boundary is exclusive", func(t *testing.T) {
		assert.True(t, inv.IsExpiredAt(inv.ExpiresAt))
		assert.False(t, inv.IsLiveAt(inv.ExpiresAt))
	})

	t.Run("exhausted stays active but is not redeemable", func(t *testing.T) {
		exhausted := *inv
		exhausted.CurrentUses = 2
		assert.True(t, exhausted.IsLiveAt(now))
		assert.True(t, exhausted.IsExhausted())
		assert.False(t, exhausted.IsRedeemableAt(now))
		assert.Equal(t, 0, exhausted.RemainingUses())
	})

	t.Run("revoked is never live", func(t *testing.T) {
		revoked := *inv
		revoked.Status = InvitationStatusRevoked
		assert.False(t, revoked.IsLiveAt(now))
		assert.False(t, revoked.IsRedeemableAt(now))
	})
}

func TestNewTripPreview(t *testing.T) {
	owner := &User{ID: uuid.New(), Name: "Uma"}
	trip := &Trip{
		ID:       uuid.New(),
		Name:     "Lisbon",
		Budget:   decimal.RequireFromString("1250.50"),
		Currency: "EUR",
		OwnerID:  owner.ID,
		Owner:    owner,
	}

	preview := NewTripPreview(trip, 3)
	assert.Equal(t, trip.ID, preview.ID)
	assert.Equal(t, int64(3), preview.ParticipantCount)
	assert.True(t, preview.Budget.Equal(decimal.RequireFromString("1250.5")))
	if assert.NotNil(t, preview.Owner) {
		assert.Equal(t, "Uma", preview.Owner.Name)
	}

	trip.Owner = nil
	assert.Nil(t, NewTripPreview(trip, 0).Owner)
}
