package config

import (
	"fmt"
	"io"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/engine"
	"pdf-toolkit/internal/infra/supabase"
	"pdf-toolkit/internal/repository"
	"pdf-toolkit/internal/service"
	"pdf-toolkit/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	UserRepository    domain.UserRepository
	HistoryRepository domain.HistoryRepository
	AuthService       domain.AuthService
	ConversionService domain.ConversionService
	HistoryService    domain.HistoryService

	closer io.Closer
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	return NewContainerWithConfig(NewConfig())
}

// NewContainerWithConfig wires the application around cfg
func NewContainerWithConfig(cfg domain.Config) (*Container, error) {
	appLogger := logger.NewLogger(cfg.GetLogLevel())

	c := &Container{
		Config: cfg,
		Logger: appLogger,
	}
	if err := c.initStores(); err != nil {
		return nil, err
	}

	issuer := service.NewJWTIssuer(cfg.GetJWTSecret(), cfg.GetAccessTokenTTL(), cfg.GetRefreshTokenTTL())
	c.AuthService = service.NewAuthService(c.UserRepository, issuer, appLogger)

	engines := service.Engines{
		Text:        engine.NewTextRenderer(),
		Merger:      engine.NewMerger(),
		Word:        engine.NewWordConverter(appLogger),
		Highlighter: engine.NewHighlighter(),
		WordReader:  engine.NewDocxReader(),
	}
	c.ConversionService = service.NewConversionService(engines, c.HistoryRepository, appLogger)
	c.HistoryService = service.NewHistoryService(c.HistoryRepository, appLogger)

	return c, nil
}

func (c *Container) initStores() error {
	switch driver := c.Config.GetStorageDriver(); driver {
	case StorageDriverSQLite:
		db, err := repository.OpenSQLite(c.Config.GetDatabasePath(), c.Logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql handle: %w", err)
		}
		c.closer = sqlDB
		c.UserRepository = repository.NewGormUserRepository(db, c.Logger)
		c.HistoryRepository = repository.NewGormHistoryRepository(db, c.Logger)

	case StorageDriverSupabase:
		supabaseClient := supabase.NewSupabaseClient(c.Config, c.Logger)
		if err := supabaseClient.Initialize(); err != nil {
			return err
		}
		c.UserRepository = repository.NewSupabaseUserRepository(supabaseClient, c.Logger)
		c.HistoryRepository = repository.NewSupabaseHistoryRepository(supabaseClient, c.Logger)

	case StorageDriverMemory:
		c.Logger.Warn("Using in-memory store, data is lost on restart")
		c.UserRepository = repository.NewMemoryUserRepository()
		c.HistoryRepository = repository.NewMemoryHistoryRepository()

	default:
		return fmt.Errorf("unknown storage driver %q", driver)
	}

	c.Logger.Info("Store initialized", "driver", c.Config.GetStorageDriver())
	return nil
}

// Close releases the database handle, if any
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
