package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"trip-planner/internal/database"
	"trip-planner/internal/models"
	"trip-planner/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testTTL = 30 * 24 * time.Hour

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// File backed so every pooled connection sees the same database.
	dsn := filepath.Join(t.TempDir(), "trips.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db      *gorm.DB
	repo    *repository.Repository
	trips   *TripService
	invites *InvitationService
	clock   *fakeClock
	owner   *models.User
	tripID  uuid.UUID
}

func newFixture(t *testing.T, opts ...InvitationOption) *fixture {
	t.Helper()

	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	clock := newFakeClock()
	trips := NewTripService(repo)

	opts = append([]InvitationOption{WithClock(clock.Now)}, opts...)
	invites := NewInvitationService(repo, trips, InvitationOptions{
		TTL:            testTTL,
		DefaultMaxUses: 10,
		LinkBaseURL:    "https://trips.example.com/",
	}, opts...)

	f := &fixture{db: db, repo: repo, trips: trips, invites: invites, clock: clock}
	f.owner = f.createUser(t, "Olivia")
	f.tripID = f.createTrip(t, f.owner.ID, "Lisbon")
	return f
}

func (f *fixture) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) createTrip(t *testing.T, ownerID uuid.UUID, name string) uuid.UUID {
	t.Helper()
	preview, err := f.trips.CreateTrip(context.Background(), ownerID, &models.CreateTripRequest{Name: name})
	require.NoError(t, err)
	return preview.ID
}

func (f *fixture) activeInvitations(t *testing.T, tripID uuid.UUID) []models.Invitation {
	t.Helper()
	active, err := f.repo.ListActiveInvitations(context.Background(), tripID)
	require.NoError(t, err)
	return active
}

// sequence returns a generator yielding values in order, then repeating the last one
func sequence(values ...string) func() (string, error) {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v, nil
	}
}
