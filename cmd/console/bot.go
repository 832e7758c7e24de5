package main

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/app"
	"github.com/Freeeeeet/staff_scheduler/internal/controller"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram admin bot and the background conclude task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context())
		},
	}
}

func runBot(ctx context.Context) error {
	d, err := openDeps(ctx, true)
	if err != nil {
		return err
	}
	defer d.Close()

	logger := d.logger
	cfg := d.cfg
	if cfg.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	logger.Info("🚀 Starting staff scheduler bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.DefaultTimezone))

	if err := migrate(ctx, d); err != nil {
		return err
	}

	b, err := bot.New(cfg.TelegramToken,
		bot.WithMiddlewares(handlers.AdminOnly(cfg.AdminChatIDs, logger)),
	)
	if err != nil {
		logger.Error("Failed to create bot", zap.Error(err))
		return err
	}

	services := d.services(d.notifier(b))

	ctrl := controller.NewBotController(b, services, callbacks.Settings{
		DefaultTimezone: cfg.DefaultTimezone,
		SyncTimezones:   cfg.SyncTimezones,
		PageSize:        common.DefaultPageSize,
	}, logger)

	if err := ctrl.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu is not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(services.Scheduling, cfg.ConcludeInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("✅ Bot is running")
	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	logger.Info("Bot stopped")
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, false)
			if err != nil {
				return err
			}
			defer d.Close()
			return migrate(ctx, d)
		},
	}
}

func migrate(ctx context.Context, d *deps) error {
	migrator, err := app.NewMigrator(d.pool, d.cfg.MigrationsPath, d.logger)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
