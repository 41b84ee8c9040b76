package services

import (
	"context"
	"testing"
	"time"

	"trip-planner/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	preview, err := f.trips.CreateTrip(ctx, f.owner.ID, &models.CreateTripRequest{
		Name:        "  Kyoto  ",
		Destination: "Japan",
		StartDate:   &start,
		EndDate:     &end,
		Budget:      "2500.456",
		Currency:    "jpy",
	})
	require.NoError(t, err)

	assert.Equal(t, "Kyoto", preview.Name)
	assert.Equal(t, "JPY", preview.Currency)
	assert.True(t, preview.Budget.Equal(decimal.RequireFromString("2500.46")))
	assert.Equal(t, int64(1), preview.ParticipantCount)
	require.NotNil(t, preview.Owner)
	assert.Equal(t, f.owner.Name, preview.Owner.Name)

	participants, err := f.trips.ListParticipants(ctx, f.owner.ID, preview.ID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, models.ParticipantRoleOwner, participants[0].Role)
	assert.Nil(t, participants[0].InvitationID)
}

func TestCreateTripValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err := f.trips.CreateTrip(ctx, f.owner.ID, &models.CreateTripRequest{Name: "Back", StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.trips.CreateTrip(ctx, f.owner.ID, &models.CreateTripRequest{Name: "Debt", Budget: "-5"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.trips.CreateTrip(ctx, uuid.New(), &models.CreateTripRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTripAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stranger := f.createUser(t, "Sam")

	ok, err := f.trips.HasAccess(ctx, f.owner.ID, f.tripID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.trips.HasAccess(ctx, stranger.ID, f.tripID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.trips.ViewTrip(ctx, stranger.ID, f.tripID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.trips.HasAccess(ctx, f.owner.ID, uuid.New())
	assert.ErrorIs(t, err, ErrTripNotFound)

	_, err = f.trips.GetPreview(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	member, err := f.trips.IsMember(ctx, f.tripID, f.owner.ID)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestEnsureUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.trips.EnsureUser(ctx, "Nora@Example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "nora@example.com", created.Email)
	assert.Equal(t, "Nora", created.Name)

	again, err := f.trips.EnsureUser(ctx, "nora@example.com", "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Nora", again.Name)

	_, err = f.trips.EnsureUser(ctx, " ", "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
