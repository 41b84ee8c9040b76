package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trip-planner/internal/database"
	"trip-planner/internal/models"
	"trip-planner/internal/repository"
	"trip-planner/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// MaxGenerationAttempts bounds the generate-and-insert loop for token and code
const MaxGenerationAttempts = 10

var (
	// errActiveExists reports that a concurrent request committed an active
	// invitation for the trip while we were minting one.
	errActiveExists = errors.New("trip already has an active invitation")
	// errRedemptionRejected rolls back an accept whose conditional increment matched no row.
	errRedemptionRejected = errors.New("invitation redemption rejected")
)

// TripAccess is the slice of the trip collaborator the invitation flow needs
type TripAccess interface {
	RequireAccess(ctx context.Context, userID, tripID uuid.UUID) error
	IsMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	GetPreview(ctx context.Context, tripID uuid.UUID) (*models.TripPreview, error)
}

// InvitationOptions configures minted invitations
type InvitationOptions struct {
	TTL            time.Duration
	DefaultMaxUses int
	// LinkBaseURL is the frontend origin the join link points at
	LinkBaseURL string
}

// RotateLinkInput customises the invitation minted by RotateLink. Zero values use the defaults.
type RotateLinkInput struct {
	MaxUses       *int
	CustomMessage string
	ExpiresInDays int
}

// CodeLookup is the result of FindByCode
type CodeLookup struct {
	Token  string
	TripID uuid.UUID
}

type mintParams struct {
	maxUses       int
	ttl           time.Duration
	customMessage string
	// supersede revokes a concurrently created active invitation instead of yielding to it
	supersede bool
}

// InvitationService owns the invitation lifecycle: minting, get-or-create,
// rotation, validation and redemption.
type InvitationService struct {
	repo  *repository.Repository
	trips TripAccess
	opts  InvitationOptions

	now      func() time.Time
	newToken func() (string, error)
	newCode  func() (string, error)

	// collapses concurrent get-or-create calls for the same trip within this process
	group singleflight.Group
}

// InvitationOption customises an InvitationService
type InvitationOption func(*InvitationService)

// WithClock replaces the wall clock, used for expiry
func WithClock(now func() time.Time) InvitationOption {
	return func(s *InvitationService) {
		s.now = now
	}
}

// WithCredentialGenerators replaces the token and code generators
func WithCredentialGenerators(token, code func() (string, error)) InvitationOption {
	return func(s *InvitationService) {
		if token != nil {
			s.newToken = token
		}
		if code != nil {
			s.newCode = code
		}
	}
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(repo *repository.Repository, trips TripAccess, opts InvitationOptions, options ...InvitationOption) *InvitationService {
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}
	if opts.DefaultMaxUses < 1 {
		opts.DefaultMaxUses = 1
	}
	opts.LinkBaseURL = strings.TrimRight(opts.LinkBaseURL, "/")

	s := &InvitationService{
		repo:     repo,
		trips:    trips,
		opts:     opts,
		now:      time.Now,
		newToken: utils.GenerateLinkToken,
		newCode:  utils.GenerateSixDigitCode,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *InvitationService) clock() time.Time {
	return s.now().UTC()
}

// GetOrCreateLink returns the trip's live active invitation, minting one if none exists.
// Repeated calls return the same credential until it expires, is rotated, or runs out of uses.
func (s *InvitationService) GetOrCreateLink(ctx context.Context, userID, tripID uuid.UUID) (*models.Invitation, error) {
	if err := s.trips.RequireAccess(ctx, userID, tripID); err != nil {
		return nil, err
	}

	v, err, _ := s.group.Do(tripID.String(), func() (interface{}, error) {
		return s.getOrCreate(ctx, userID, tripID)
	})
	if err != nil {
		return nil, err
	}

	// callers sharing a singleflight result must not share the pointer
	inv := *(v.(*models.Invitation))
	return &inv, nil
}

func (s *InvitationService) getOrCreate(ctx context.Context, userID, tripID uuid.UUID) (*models.Invitation, error) {
	var (
		inv        *models.Invitation
		created    bool
		duplicates bool
	)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := s.lockTrip(ctx, tx, tripID); err != nil {
			return err
		}

		now := s.clock()
		if _, err := tx.ExpireStaleInvitations(ctx, tripID, now); err != nil {
			return storageErr("expire stale invitations", err)
		}
		if _, err := tx.RevokeExhaustedInvitations(ctx, tripID, now); err != nil {
			return storageErr("revoke exhausted invitations", err)
		}

		active, err := tx.ListActiveInvitations(ctx, tripID)
		if err != nil {
			return storageErr("list active invitations", err)
		}
		if len(active) > 0 {
			inv = &active[0]
			duplicates = len(active) > 1
			return nil
		}

		inv, err = s.mint(ctx, tx, userID, tripID, mintParams{
			maxUses: s.opts.DefaultMaxUses,
			ttl:     s.opts.TTL,
		})
		if errors.Is(err, errActiveExists) {
			active, err = tx.ListActiveInvitations(ctx, tripID)
			if err != nil {
				return storageErr("list active invitations", err)
			}
			if len(active) == 0 {
				return ErrGenerationExhausted
			}
			inv = &active[0]
			return nil
		}
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created || duplicates {
		if _, err := s.ReconcileActive(ctx, tripID); err != nil {
			slog.Error("failed to reconcile active invitations", "trip_id", tripID, "err", err)
		}
	}
	if created {
		slog.Info("minted invitation", "trip_id", tripID, "invitation_id", inv.ID, "created_by", userID)
	}

	return inv, nil
}

// RotateLink revokes every active invitation of the trip and mints a new one.
// Both steps commit together, so the trip never holds two active invitations.
func (s *InvitationService) RotateLink(ctx context.Context, userID, tripID uuid.UUID, input RotateLinkInput) (*models.Invitation, error) {
	if err := s.trips.RequireAccess(ctx, userID, tripID); err != nil {
		return nil, err
	}

	params := mintParams{
		maxUses:       s.opts.DefaultMaxUses,
		ttl:           s.opts.TTL,
		customMessage: strings.TrimSpace(input.CustomMessage),
		supersede:     true,
	}
	if input.MaxUses != nil {
		if *input.MaxUses < 1 {
			return nil, invalidInput("max_uses must be at least 1")
		}
		params.maxUses = *input.MaxUses
	}
	if input.ExpiresInDays < 0 {
		return nil, invalidInput("expires_in_days must be positive")
	}
	if input.ExpiresInDays > 0 {
		params.ttl = time.Duration(input.ExpiresInDays) * 24 * time.Hour
	}
	if len(params.customMessage) > 500 {
		return nil, invalidInput("custom_message must be at most 500 characters")
	}

	var (
		inv     *models.Invitation
		revoked int64
	)
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := s.lockTrip(ctx, tx, tripID); err != nil {
			return err
		}

		var err error
		revoked, err = tx.RevokeActiveInvitations(ctx, tripID, s.clock())
		if err != nil {
			return storageErr("revoke active invitations", err)
		}

		inv, err = s.mint(ctx, tx, userID, tripID, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("rotated invitation link", "trip_id", tripID, "invitation_id", inv.ID, "revoked", revoked, "created_by", userID)
	return inv, nil
}

// RevokeLink revokes every active invitation of the trip without minting a new one
func (s *InvitationService) RevokeLink(ctx context.Context, userID, tripID uuid.UUID) (int64, error) {
	if err := s.trips.RequireAccess(ctx, userID, tripID); err != nil {
		return 0, err
	}

	revoked, err := s.repo.RevokeActiveInvitations(ctx, tripID, s.clock())
	if err != nil {
		return 0, storageErr("revoke active invitations", err)
	}

	slog.Info("revoked invitation links", "trip_id", tripID, "revoked", revoked, "user_id", userID)
	return revoked, nil
}

// ValidateToken checks a link token without redeeming it and returns the invitation
// with a read-only projection of its trip. The only write is the lazy
// active -> expired transition.
func (s *InvitationService) ValidateToken(ctx context.Context, token string) (*models.Invitation, *models.TripPreview, error) {
	inv, err := s.loadRedeemable(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	trip, err := s.trips.GetPreview(ctx, inv.TripID)
	if err != nil {
		return nil, nil, err
	}
	return inv, trip, nil
}

// AcceptInvitation redeems a link token for userID and returns the joined trip.
// Validity is always re-checked here; a prior ValidateToken call is not trusted.
func (s *InvitationService) AcceptInvitation(ctx context.Context, userID uuid.UUID, token string) (*models.TripPreview, error) {
	inv, err := s.loadRedeemable(ctx, token)
	if err != nil {
		return nil, err
	}

	member, err := s.trips.IsMember(ctx, inv.TripID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyParticipant
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		now := s.clock()
		participant := &models.TripParticipant{
			TripID:       inv.TripID,
			UserID:       userID,
			Role:         models.ParticipantRoleMember,
			InvitationID: &inv.ID,
			JoinedAt:     now,
		}
		if err := tx.CreateParticipant(ctx, participant); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyParticipant
			}
			return storageErr("create participant", err)
		}

		ok, err := tx.IncrementInvitationUses(ctx, inv.ID, now)
		if err != nil {
			return storageErr("increment invitation uses", err)
		}
		if !ok {
			return errRedemptionRejected
		}
		return nil
	})
	if errors.Is(err, errRedemptionRejected) {
		return nil, s.classifyRejected(ctx, inv.ID)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("user joined trip via invitation", "trip_id", inv.TripID, "user_id", userID, "invitation_id", inv.ID)
	return s.trips.GetPreview(ctx, inv.TripID)
}

// FindByCode resolves a 6-digit code to the token of the live invitation carrying it.
// Codes are only aliases; redemption always goes through the token.
func (s *InvitationService) FindByCode(ctx context.Context, code string) (*CodeLookup, error) {
	if !utils.IsWellFormedCode(code) {
		return nil, ErrMalformedCode
	}

	inv, err := s.repo.FindActiveInvitationByCode(ctx, code, s.clock())
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrCodeNotFound
		}
		return nil, storageErr("find invitation by code", err)
	}

	return &CodeLookup{Token: inv.Token, TripID: inv.TripID}, nil
}

// ListInvitations returns the trip's invitation history, newest first
func (s *InvitationService) ListInvitations(ctx context.Context, userID, tripID uuid.UUID) ([]models.Invitation, error) {
	if err := s.trips.RequireAccess(ctx, userID, tripID); err != nil {
		return nil, err
	}

	invitations, err := s.repo.ListInvitationsForTrip(ctx, tripID)
	if err != nil {
		return nil, storageErr("list invitations", err)
	}
	return invitations, nil
}

// ReconcileActive revokes all but one active invitation of a trip, keeping the
// newest live one. Returns the number of revoked rows.
func (s *InvitationService) ReconcileActive(ctx context.Context, tripID uuid.UUID) (int64, error) {
	active, err := s.repo.ListActiveInvitations(ctx, tripID)
	if err != nil {
		return 0, storageErr("list active invitations", err)
	}
	if len(active) <= 1 {
		return 0, nil
	}

	now := s.clock()
	keep := active[0]
	for _, inv := range active {
		if inv.IsRedeemableAt(now) {
			keep = inv
			break
		}
	}

	revoked, err := s.repo.RevokeActiveInvitationsExcept(ctx, tripID, keep.ID, now)
	if err != nil {
		return 0, storageErr("revoke duplicate invitations", err)
	}

	slog.Warn("revoked duplicate active invitations", "trip_id", tripID, "kept", keep.ID, "revoked", revoked)
	return revoked, nil
}

// ReconcileAll repairs every trip holding more than one active invitation
func (s *InvitationService) ReconcileAll(ctx context.Context) (int64, error) {
	tripIDs, err := s.repo.TripIDsWithActiveDuplicates(ctx)
	if err != nil {
		return 0, storageErr("find duplicate active invitations", err)
	}

	var total int64
	for _, tripID := range tripIDs {
		n, err := s.ReconcileActive(ctx, tripID)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// InviteLink returns the frontend join URL for an invitation
func (s *InvitationService) InviteLink(inv *models.Invitation) string {
	return fmt.Sprintf("%s/join/%s", s.opts.LinkBaseURL, inv.Token)
}

// LinkResponse builds the get-link / rotate-link response body
func (s *InvitationService) LinkResponse(inv *models.Invitation) *models.InviteLinkResponse {
	return &models.InviteLinkResponse{
		Token:         inv.Token,
		Code:          inv.Code,
		ExpiresAt:     inv.ExpiresAt,
		Link:          s.InviteLink(inv),
		MaxUses:       inv.MaxUses,
		CurrentUses:   inv.CurrentUses,
		CustomMessage: inv.CustomMessage,
	}
}

func (s *InvitationService) lockTrip(ctx context.Context, tx *repository.Repository, tripID uuid.UUID) error {
	if _, err := tx.LockTrip(ctx, tripID); err != nil {
		if database.IsNotFound(err) {
			return ErrTripNotFound
		}
		return storageErr("lock trip", err)
	}
	return nil
}

// mint inserts a fresh active invitation inside tx. Each attempt runs in a
// savepoint so a unique violation does not poison the surrounding transaction.
// The existence pre-checks only save round trips; the indexes decide.
func (s *InvitationService) mint(ctx context.Context, tx *repository.Repository, userID, tripID uuid.UUID, p mintParams) (*models.Invitation, error) {
	for attempt := 1; attempt <= MaxGenerationAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerationExhausted, err)
		}
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerationExhausted, err)
		}

		taken, err := tx.TokenExists(ctx, token)
		if err != nil {
			return nil, storageErr("check token", err)
		}
		if taken {
			continue
		}
		taken, err = tx.ActiveCodeExists(ctx, code)
		if err != nil {
			return nil, storageErr("check code", err)
		}
		if taken {
			continue
		}

		now := s.clock()
		inv := &models.Invitation{
			TripID:        tripID,
			CreatedBy:     userID,
			Token:         token,
			Code:          code,
			Status:        models.InvitationStatusActive,
			ExpiresAt:     now.Add(p.ttl),
			MaxUses:       p.maxUses,
			CurrentUses:   0,
			CustomMessage: p.customMessage,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		err = tx.Transaction(ctx, func(sp *repository.Repository) error {
			return sp.CreateInvitation(ctx, inv)
		})
		if err == nil {
			return inv, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, storageErr("create invitation", err)
		}

		// Either the credentials collided or another request activated an
		// invitation for this trip first.
		active, lerr := tx.ListActiveInvitations(ctx, tripID)
		if lerr != nil {
			return nil, storageErr("list active invitations", lerr)
		}
		if len(active) > 0 {
			if !p.supersede {
				return nil, errActiveExists
			}
			if _, err := tx.RevokeActiveInvitations(ctx, tripID, now); err != nil {
				return nil, storageErr("revoke active invitations", err)
			}
		}
		slog.Debug("invitation credential collision, retrying", "trip_id", tripID, "attempt", attempt)
	}

	slog.Error("exhausted invitation credential attempts", "trip_id", tripID, "attempts", MaxGenerationAttempts)
	return nil, ErrGenerationExhausted
}

// loadRedeemable looks up a token and applies the validity rules shared by
// validate and accept.
func (s *InvitationService) loadRedeemable(ctx context.Context, token string) (*models.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvitationNotFound
	}

	inv, err := s.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvitationNotFound
		}
		return nil, storageErr("get invitation", err)
	}

	if err := s.checkRedeemable(ctx, inv, s.clock()); err != nil {
		return nil, err
	}
	return inv, nil
}

// checkRedeemable reports why inv cannot be redeemed at now, performing the lazy
// expiry write when the stored status is still active. Safe to call repeatedly.
func (s *InvitationService) checkRedeemable(ctx context.Context, inv *models.Invitation, now time.Time) error {
	switch inv.Status {
	case models.InvitationStatusRevoked:
		return ErrInvitationRevoked
	case models.InvitationStatusExpired:
		return ErrInvitationExpired
	}

	if inv.IsExpiredAt(now) {
		if _, err := s.repo.MarkInvitationExpired(ctx, inv.ID, now); err != nil {
			return storageErr("expire invitation", err)
		}
		inv.Status = models.InvitationStatusExpired
		slog.Info("invitation expired", "invitation_id", inv.ID, "trip_id", inv.TripID)
		return ErrInvitationExpired
	}

	if inv.IsExhausted() {
		return ErrInvitationExhausted
	}
	return nil
}

// classifyRejected explains a failed conditional increment from the row's current state
func (s *InvitationService) classifyRejected(ctx context.Context, id uuid.UUID) error {
	current, err := s.repo.GetInvitationByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return ErrInvitationNotFound
		}
		return storageErr("get invitation", err)
	}
	if err := s.checkRedeemable(ctx, current, s.clock()); err != nil {
		return err
	}
	// the row changed between the increment and this read; report the likeliest cause
	return ErrInvitationExhausted
}
