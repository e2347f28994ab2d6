package main

import (
	"log/slog"

	infraRepo "shopease/internal/infra/repository"
	auth "shopease/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create or promote the account named by ADMIN_EMAIL",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		bootstrap := auth.NewAdminBootstrap(
			infraRepo.NewUserGormRepository(e.db),
			auth.NewBcryptPasswordHasher(e.cfg.BcryptCost),
			auth.NewBcryptPasswordVerifier(),
			auth.SystemClock{},
			e.cfg.AdminEmail,
			e.cfg.AdminPassword,
		)
		user, err := bootstrap.Ensure(cmd.Context())
		if err != nil {
			return err
		}
		e.logger.Info("admin account ready", slog.Int64("userID", user.ID), slog.String("email", user.Email))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
}
