// Command updaterole changes the role of one user.
//
// Usage: go run ./cmd/updaterole --user 42 --role teacher
package main

import (
	"fmt"
	"os"

	"iaprender_backend/internal/config"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/service"
	"iaprender_backend/pkg/database"
	"iaprender_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string
	userID    uint
	role      string
)

var rootCmd = &cobra.Command{
	Use:          "updaterole",
	Short:        "Change the role of a user",
	Long:         "Sets the role (student, teacher or admin) of a single user and reports the outcome.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configDir, "config", "configs", "directory holding config.yaml")
	rootCmd.Flags().UintVar(&userID, "user", 0, "id of the user to update")
	rootCmd.Flags().StringVar(&role, "role", "", "new role: student, teacher or admin")
	rootCmd.MarkFlagRequired("user")
	rootCmd.MarkFlagRequired("role")
}

func run(cmd *cobra.Command) error {
	if !model.UserRole(role).Valid() {
		return fmt.Errorf("invalid role %q", role)
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, cached overview expires on its own", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	users := service.NewUserService(repository.NewUserRepository(db), nil, nil, repository.NewRedisStore(rdb), nil, 0)
	if err := users.UpdateRole(cmd.Context(), userID, model.UserRole(role)); err != nil {
		return fmt.Errorf("update role of user %d: %w", userID, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "User %d is now %s\n", userID, role)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Failed:", err)
		os.Exit(1)
	}
}
