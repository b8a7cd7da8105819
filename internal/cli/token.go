package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/crm-suite/backend/internal/integration/adapters"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		user   string
		tenant string
		mail   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.settings.JWTSecret == "" {
				return errors.New("SUPABASE_JWT_SECRET is not set")
			}
			userID := uuid.New()
			if user != "" {
				parsed, err := uuid.Parse(user)
				if err != nil {
					return fmt.Errorf("invalid user id %q: %w", user, err)
				}
				userID = parsed
			}
			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("invalid tenant id %q: %w", tenant, err)
			}

			token, err := adapters.SignAccessToken(
				a.settings.JWTSecret,
				a.settings.JWTAudience,
				userID,
				tenantID,
				mail,
				ttl,
				a.deps.Now(),
			)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.deps.Out, token)
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User id (random when empty)")
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant id")
	cmd.Flags().StringVar(&mail, "email", "dev@example.com", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
