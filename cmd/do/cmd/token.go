package cmd

import (
	"fmt"
	"time"

	"github.com/perfreview/goalflow/internal/db"
	"github.com/perfreview/goalflow/internal/repository"
	"github.com/perfreview/goalflow/internal/service"
	"github.com/spf13/cobra"
)

func TokenCmd() *cobra.Command {
	var userID string
	var expiry time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token for a directory user",
		Long: `Mint an API token for a directory user. The role claim is taken from the directory.
Use it as "Authorization: Bearer <token>".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, database, err := openDatabase(ctx, true)
			if err != nil {
				return err
			}
			defer db.Close(database)

			user, err := service.NewUserService(repository.NewUserRepository(database)).ByID(ctx, userID)
			if err != nil {
				return err
			}

			if expiry == 0 {
				expiry = cfg.JWTExpiry
			}
			token, expiresAt, err := service.NewAuthService(cfg.JWTSecret, expiry).GenerateJWT(user.ID, user.Role)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s) token expires %s\n", user.DisplayName(), user.Role, expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID (required)")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "token lifetime (default JWT_EXPIRY)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
