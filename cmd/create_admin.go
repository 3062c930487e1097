package cmd

import (
	"github.com/spf13/cobra"

	"task-manager.com/task-manager/internal/constants"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

var adminParams services.RegisterParams

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadEnvironment()
		if err != nil {
			return err
		}

		db, err := openDatabase(cfg, logger)
		if err != nil {
			return err
		}
		defer closeDatabase(db, logger)

		auth := services.NewAuthService(
			repository.NewUserRepository(db),
			services.NewArgon2Hasher(nil),
			services.AuthConfig{
				SigningKey: []byte(cfg.JWT.Secret),
				Issuer:     cfg.JWT.Issuer,
				TTL:        cfg.JWT.TTL,
			},
			logger,
		)

		user, err := auth.CreateUser(cmd.Context(), adminParams, constants.RoleAdmin)
		if err != nil {
			return err
		}

		cmd.Printf("created admin %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminParams.Name, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminParams.Email, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminParams.Password, "password", "", "initial password")
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createAdminCmd)
}
