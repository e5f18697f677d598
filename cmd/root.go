package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	adminCmd "github.com/printforge/storefront/admin/cmd"
	"github.com/printforge/storefront/internal/common"
	"github.com/printforge/storefront/internal/log"
	notificationCmd "github.com/printforge/storefront/notification/cmd"
	storeCmd "github.com/printforge/storefront/store/cmd"
)

func Start() {
	logger := log.InitLogger("/var/log/storefront.log", os.Getenv("APP_ENV")).
		With().
		Str(log.KeyAppName, common.AppMainStorefront).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "storefront"}
	commands := []*cobra.Command{
		{
			Use:   "store",
			Short: "Run the store service",
			Run: func(cmd *cobra.Command, args []string) {
				storeCmd.RunStoreService(cmd.Context())
			},
		},
		{
			Use:   "admin",
			Short: "Run the admin service",
			Run: func(cmd *cobra.Command, args []string) {
				adminCmd.RunAdminService(cmd.Context())
			},
		},
		{
			Use:   "notification",
			Short: "Run the notification service",
			Run: func(cmd *cobra.Command, args []string) {
				notificationCmd.RunNotificationService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
