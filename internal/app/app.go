package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/perfreview/goalflow/internal/config"
	"github.com/perfreview/goalflow/internal/db"
	"github.com/perfreview/goalflow/internal/repository"
	"github.com/perfreview/goalflow/internal/service"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	AuthService         *service.AuthService
	UserService         *service.UserService
	EmailService        *service.EmailService
	NotificationService *service.NotificationService
	GoalService         *service.GoalService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Open(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	goalEntryRepository := repository.NewGoalEntryRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)

	// Services
	notificationService := service.NewNotificationService(notificationRepository)

	var emailService *service.EmailService
	if cfg.EmailNotifications {
		emailService, err = service.NewEmailService(
			cfg.ResendAPIKey,
			cfg.EmailFrom,
			cfg.AppURL,
			cfg.AppName,
			cfg.IsDevelopment(),
		)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to initialize email service: %w", err)
		}
		notificationService.WithEmail(emailService, userRepository, goalRepository)
	} else {
		slog.Info("email notifications disabled")
	}

	goalService := service.NewGoalService(goalRepository, notificationService).WithProgress(goalEntryRepository)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		AuthService:         authService,
		UserService:         userService,
		EmailService:        emailService,
		NotificationService: notificationService,
		GoalService:         goalService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
