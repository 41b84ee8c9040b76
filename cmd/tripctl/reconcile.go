package main

import (
	"fmt"

	"trip-planner/internal/database"
	"trip-planner/internal/repository"
	"trip-planner/internal/services"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newReconcileCommand() *cobra.Command {
	var tripID string

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Revoke duplicate active invitations, keeping the newest per trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			if err := database.Connect(cfg.Database.Driver, cfg.GetDSN()); err != nil {
				return err
			}

			repo := repository.NewRepository(database.GetDB())
			trips := services.NewTripService(repo)
			invitations := services.NewInvitationService(repo, trips, services.InvitationOptions{
				TTL:            cfg.Invite.TTL,
				DefaultMaxUses: cfg.Invite.DefaultMaxUses,
				LinkBaseURL:    cfg.Server.FrontendURL,
			})

			var (
				revoked int64
				err     error
			)
			if tripID != "" {
				id, perr := uuid.Parse(tripID)
				if perr != nil {
					return fmt.Errorf("invalid --trip: %w", perr)
				}
				revoked, err = invitations.ReconcileActive(cmd.Context(), id)
			} else {
				revoked, err = invitations.ReconcileAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "revoked %d duplicate active invitation(s)\n", revoked)
			return nil
		},
	}
	reconcileCmd.Flags().StringVar(&tripID, "trip", "", "only reconcile this trip")

	return reconcileCmd
}
