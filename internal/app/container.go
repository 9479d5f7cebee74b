package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/regwizard/domain"
	"github.com/you/regwizard/internal/config"
	"github.com/you/regwizard/internal/infrastructure/auth"
	"github.com/you/regwizard/internal/infrastructure/database"
	"github.com/you/regwizard/internal/infrastructure/notifications"
	"github.com/you/regwizard/internal/infrastructure/repositories"
	"github.com/you/regwizard/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	AccountRepo domain.AccountRepository
	DraftRepo   domain.DraftRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	VerificationSvc domain.VerificationService
	SuggestionSvc   domain.SuggestionService
	RegistrationSvc domain.RegistrationService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	container.DB = db
	container.RedisClient = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	container.initRepositories()
	container.initServices()

	return container, nil
}

func (c *Container) initRepositories() {
	c.AccountRepo = repositories.NewAccountRepository(c.DB)
	c.DraftRepo = repositories.NewDraftRepository(c.RedisClient, c.Config.DraftTTL)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.TokenSecret, c.Config.TokenIssuer, c.Config.TokenTTL)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
	)

	c.VerificationSvc = services.NewVerificationService(c.NotificationSvc, c.RedisClient, services.VerificationConfig{
		Length:       c.Config.VerificationLength,
		TTL:          c.Config.VerificationTTL,
		MaxAttempts:  c.Config.MaxAttempts,
		ResendWindow: c.Config.ResendWindow,
	})
	c.SuggestionSvc = services.NewSuggestionService(c.AccountRepo)

	c.RegistrationSvc = services.NewRegistrationService(
		c.DraftRepo,
		c.AccountRepo,
		c.VerificationSvc,
		c.SuggestionSvc,
		c.PasswordSvc,
		c.Config.EmailDomain,
	)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
