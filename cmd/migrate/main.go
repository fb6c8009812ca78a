// Package main provides the marketplace database CLI.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/config"
	"github.com/rentalhub/marketplace-backend/internal/common/crypto"
	"github.com/rentalhub/marketplace-backend/internal/common/database"
	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/logger"
	"github.com/rentalhub/marketplace-backend/internal/models"
	adminService "github.com/rentalhub/marketplace-backend/internal/service/admin"
)

var (
	// configFile is set by the --config flag.
	configFile string

	cfg *config.Config
	db  *gorm.DB
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "migrate",
	Short:             "Rental marketplace database tool",
	PersistentPreRunE: connect,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db == nil {
			return nil
		}
		return database.Close(db)
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Printf("Migrated %d tables\n", len(models.All()))
		return nil
	},
}

var seedAdminOpts adminService.CreateUserRequest

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the first admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedAdminOpts.Email == "" || seedAdminOpts.Password == "" {
			return fmt.Errorf("--email and --password are required")
		}
		created, err := seedAdmin(cmd.Context(), db, cfg.Crypto.BcryptCost, seedAdminOpts)
		if err != nil {
			return err
		}
		if !created {
			fmt.Printf("User %s already exists\n", seedAdminOpts.Email)
			return nil
		}
		fmt.Printf("Admin %s created\n", seedAdminOpts.Email)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./configs/config.yaml)")

	seedAdminCmd.Flags().StringVar(&seedAdminOpts.Email, "email", "", "admin email")
	seedAdminCmd.Flags().StringVar(&seedAdminOpts.Password, "password", "", "admin password")
	seedAdminCmd.Flags().StringVar(&seedAdminOpts.FirstName, "first-name", "Admin", "first name")
	seedAdminCmd.Flags().StringVar(&seedAdminOpts.LastName, "last-name", "", "last name")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(seedAdminCmd)
}

// connect loads configuration and opens the database.
func connect(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(configFile); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if db, err = database.Open(&cfg.Database, logger.GetLogger()); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))
	return nil
}

// seedAdmin creates an active admin with a profile. An existing account with
// the same email is left untouched and reported as not created.
func seedAdmin(ctx context.Context, db *gorm.DB, bcryptCost int, req adminService.CreateUserRequest) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Role = string(models.RoleAdmin)
	svc := adminService.NewUserAdminService(db, crypto.NewPasswordHasher(bcryptCost))
	if _, err := svc.CreateUser(ctx, &req); err != nil {
		if stderrors.Is(err, errors.ErrUserExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
