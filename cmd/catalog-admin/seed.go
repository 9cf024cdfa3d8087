package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitrine/catalog-admin/internal/infrastructure/db/sqldb"
	"github.com/vitrine/catalog-admin/internal/infrastructure/security"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the administrator account and the sample catalog",
	Long: "Create the administrator account from ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD " +
		"and insert the sample catalog. Existing rows are left untouched.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, log, db, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.Admin.Password == "" {
			return errors.New("ADMIN_PASSWORD must be set to seed the administrator")
		}
		if !cfg.Database.AutoMigrate {
			if err := sqldb.CreateSchema(ctx, db); err != nil {
				return err
			}
		}

		hash, err := security.NewBcryptHasher(cfg.Auth.BcryptCost).Hash(cfg.Admin.Password)
		if err != nil {
			return err
		}

		email := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
		if err := sqldb.Seed(ctx, db, sqldb.SeedAdmin{
			Name:         cfg.Admin.Name,
			Email:        email,
			PasswordHash: hash,
		}); err != nil {
			return err
		}

		log.Info().Str("admin", email).Msg("seed completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
