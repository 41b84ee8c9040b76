package main

import (
	"fmt"
	"time"

	"trip-planner/internal/auth"
	"trip-planner/internal/database"
	"trip-planner/internal/repository"
	"trip-planner/internal/services"

	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Development bearer tokens",
	}
	tokenCmd.AddCommand(newTokenIssueCommand())
	return tokenCmd
}

func newTokenIssueCommand() *cobra.Command {
	var (
		email string
		name  string
		ttl   time.Duration
	)

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Create the user if needed and print a signed bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			auth.InitJWT(cfg.App.JWTSecret)

			if err := database.Connect(cfg.Database.Driver, cfg.GetDSN()); err != nil {
				return err
			}
			if cfg.Database.Driver == "sqlite" {
				if err := database.AutoMigrate(database.GetDB()); err != nil {
					return err
				}
			}

			trips := services.NewTripService(repository.NewRepository(database.GetDB()))
			user, err := trips.EnsureUser(cmd.Context(), email, name)
			if err != nil {
				return err
			}

			token, err := auth.GenerateToken(user.ID, user.Email, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "user %s (%s)\n", user.ID, user.Email)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	issueCmd.Flags().StringVar(&email, "email", "", "email of the user the token is issued for")
	issueCmd.Flags().StringVar(&name, "name", "", "display name used when the user is created")
	issueCmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	_ = issueCmd.MarkFlagRequired("email")

	return issueCmd
}
