package services

import (
	"context"
	"log/slog"
	"strings"

	"trip-planner/internal/database"
	"trip-planner/internal/models"
	"trip-planner/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripService is the thin trip surface the invitation flow depends on:
// access checks, membership and the public trip projection.
type TripService struct {
	repo *repository.Repository
}

// NewTripService creates a new TripService
func NewTripService(repo *repository.Repository) *TripService {
	return &TripService{repo: repo}
}

// CreateTrip creates a trip owned by ownerID and records the owner as its first participant
func (s *TripService) CreateTrip(ctx context.Context, ownerID uuid.UUID, req *models.CreateTripRequest) (*models.TripPreview, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		if database.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr("get user", err)
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, invalidInput("end_date must not be before start_date")
	}

	budget := decimal.Zero
	if req.Budget != "" {
		parsed, err := decimal.NewFromString(req.Budget)
		if err != nil || parsed.IsNegative() {
			return nil, invalidInput("budget must be a non-negative number")
		}
		budget = parsed.Round(2)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	trip := &models.Trip{
		Name:        strings.TrimSpace(req.Name),
		Destination: strings.TrimSpace(req.Destination),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      budget,
		Currency:    currency,
		OwnerID:     ownerID,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateTrip(ctx, trip); err != nil {
			return storageErr("create trip", err)
		}
		owner := &models.TripParticipant{
			TripID: trip.ID,
			UserID: ownerID,
			Role:   models.ParticipantRoleOwner,
		}
		if err := tx.CreateParticipant(ctx, owner); err != nil {
			return storageErr("create owner participant", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("trip created", "trip_id", trip.ID, "owner_id", ownerID)
	return s.GetPreview(ctx, trip.ID)
}

// GetPreview returns the public projection of a trip
func (s *TripService) GetPreview(ctx context.Context, tripID uuid.UUID) (*models.TripPreview, error) {
	trip, err := s.repo.GetTripWithOwner(ctx, tripID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrTripNotFound
		}
		return nil, storageErr("get trip", err)
	}

	count, err := s.repo.CountParticipants(ctx, tripID)
	if err != nil {
		return nil, storageErr("count participants", err)
	}

	return models.NewTripPreview(trip, count), nil
}

// HasAccess reports whether userID owns or participates in tripID
func (s *TripService) HasAccess(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	trip, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		if database.IsNotFound(err) {
			return false, ErrTripNotFound
		}
		return false, storageErr("get trip", err)
	}

	if trip.OwnerID == userID {
		return true, nil
	}

	ok, err := s.repo.IsParticipant(ctx, tripID, userID)
	if err != nil {
		return false, storageErr("check participant", err)
	}
	return ok, nil
}

// RequireAccess returns ErrForbidden unless userID owns or participates in tripID
func (s *TripService) RequireAccess(ctx context.Context, userID, tripID uuid.UUID) error {
	ok, err := s.HasAccess(ctx, userID, tripID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// IsMember reports whether userID already belongs to tripID. Owners count as members.
func (s *TripService) IsMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	return s.HasAccess(ctx, userID, tripID)
}

// ViewTrip returns the trip projection for a member
func (s *TripService) ViewTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.TripPreview, error) {
	if err := s.RequireAccess(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.GetPreview(ctx, tripID)
}

// ListParticipants returns the members of a trip for a member
func (s *TripService) ListParticipants(ctx context.Context, userID, tripID uuid.UUID) ([]models.TripParticipant, error) {
	if err := s.RequireAccess(ctx, userID, tripID); err != nil {
		return nil, err
	}

	participants, err := s.repo.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, storageErr("list participants", err)
	}
	return participants, nil
}

// EnsureUser returns the user registered under email, creating it when absent.
// Used by tooling that issues dev tokens; regular users come from the identity provider.
func (s *TripService) EnsureUser(ctx context.Context, email, name string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalidInput("email is required")
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := s.repo.FindOrCreateUserByEmail(ctx, email, name)
	if err != nil {
		return nil, storageErr("find or create user", err)
	}
	return user, nil
}
