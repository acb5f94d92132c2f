package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/allisson/handoff/internal/config"
	cryptoService "github.com/allisson/handoff/internal/crypto/service"
	handoffHTTP "github.com/allisson/handoff/internal/handoff/http"
	handoffRepository "github.com/allisson/handoff/internal/handoff/repository"
	handoffService "github.com/allisson/handoff/internal/handoff/service"
	handoffUsecase "github.com/allisson/handoff/internal/handoff/usecase"
)

// TokenRepository returns the handoff token repository selected by HANDOFF_STORE.
func (c *Container) TokenRepository() (handoffUsecase.TokenRepository, error) {
	var err error
	c.tokenRepoInit.Do(func() {
		c.tokenRepo, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// TokenStore returns the handoff token store, bounded by the configured store timeout.
func (c *Container) TokenStore() (handoffUsecase.TokenStore, error) {
	var err error
	c.tokenStoreInit.Do(func() {
		c.tokenStore, err = c.initTokenStore()
		if err != nil {
			c.initErrors["tokenStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenStore"]; exists {
		return nil, storedErr
	}
	return c.tokenStore, nil
}

// TenantRepository returns the tenant directory repository.
func (c *Container) TenantRepository() (handoffUsecase.TenantRepository, error) {
	var err error
	c.tenantRepoInit.Do(func() {
		c.tenantRepo, err = c.initTenantRepository()
		if err != nil {
			c.initErrors["tenantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantRepo"]; exists {
		return nil, storedErr
	}
	return c.tenantRepo, nil
}

// HandoffUseCase returns the handoff use case wrapped with business metrics.
func (c *Container) HandoffUseCase() (handoffUsecase.HandoffUseCase, error) {
	var err error
	c.handoffUseCaseInit.Do(func() {
		c.handoffUseCase, err = c.initHandoffUseCase()
		if err != nil {
			c.initErrors["handoffUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["handoffUseCase"]; exists {
		return nil, storedErr
	}
	return c.handoffUseCase, nil
}

// TenantUseCase returns the tenant administration use case.
func (c *Container) TenantUseCase() (handoffUsecase.TenantUseCase, error) {
	var err error
	c.tenantUseCaseInit.Do(func() {
		c.tenantUseCase, err = c.initTenantUseCase()
		if err != nil {
			c.initErrors["tenantUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantUseCase"]; exists {
		return nil, storedErr
	}
	return c.tenantUseCase, nil
}

// Sweeper returns the background expired-token sweeper.
func (c *Container) Sweeper() (*handoffUsecase.Sweeper, error) {
	var err error
	c.sweeperInit.Do(func() {
		c.sweeper, err = c.initSweeper()
		if err != nil {
			c.initErrors["sweeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sweeper"]; exists {
		return nil, storedErr
	}
	return c.sweeper, nil
}

// HandoffHandler returns the HTTP handler for the sign-in and restore endpoints.
func (c *Container) HandoffHandler() (*handoffHTTP.HandoffHandler, error) {
	var err error
	c.handoffHandlerInit.Do(func() {
		c.handoffHandler, err = c.initHandoffHandler()
		if err != nil {
			c.initErrors["handoffHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["handoffHandler"]; exists {
		return nil, storedErr
	}
	return c.handoffHandler, nil
}

// SessionMiddleware returns the middleware that authenticates tenant-origin requests by
// their session cookies.
func (c *Container) SessionMiddleware() (gin.HandlerFunc, error) {
	verifier, err := c.AssertionVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get assertion verifier for session middleware: %w", err)
	}

	tenantRepo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for session middleware: %w", err)
	}

	directory := handoffUsecase.NewTimeoutTenantDirectory(tenantRepo, c.config.HandoffStoreTimeout)
	return handoffHTTP.SessionMiddleware(verifier, directory, c.config.BaseDomain, c.Logger()), nil
}

func (c *Container) initTokenRepository() (handoffUsecase.TokenRepository, error) {
	switch c.config.HandoffStore {
	case config.HandoffStoreMemory:
		return handoffRepository.NewMemoryTokenRepository(), nil
	case config.HandoffStoreRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for token repository: %w", err)
		}
		return handoffRepository.NewRedisTokenRepository(client), nil
	case config.HandoffStoreSQL:
	default:
		return nil, fmt.Errorf("unsupported handoff store: %s", c.config.HandoffStore)
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for token repository: %w", err)
		}
		return handoffRepository.NewMySQLTokenRepository(db, txManager), nil
	case "postgres":
		return handoffRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initTokenStore() (handoffUsecase.TokenStore, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token store: %w", err)
	}

	store := handoffUsecase.NewTokenStore(
		tokenRepo,
		handoffService.NewTokenService(),
		cryptoService.NewTokenSealer(),
	)
	return handoffUsecase.NewTimeoutTokenStore(store, c.config.HandoffStoreTimeout), nil
}

func (c *Container) initTenantRepository() (handoffUsecase.TenantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return handoffRepository.NewMySQLTenantRepository(db), nil
	case "postgres":
		return handoffRepository.NewPostgreSQLTenantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initHandoffUseCase() (handoffUsecase.HandoffUseCase, error) {
	if c.config.HandoffTokenTTL <= 0 {
		return nil, fmt.Errorf("invalid handoff token ttl: %s", c.config.HandoffTokenTTL)
	}

	identityProvider, err := c.IdentityProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity provider for handoff use case: %w", err)
	}

	tenantRepo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for handoff use case: %w", err)
	}

	store, err := c.TokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get token store for handoff use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for handoff use case: %w", err)
	}

	directory := handoffUsecase.NewTimeoutTenantDirectory(tenantRepo, c.config.HandoffStoreTimeout)
	useCase := handoffUsecase.NewHandoffUseCase(c.config, identityProvider, directory, store, c.Logger())
	return handoffUsecase.NewHandoffUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initTenantUseCase() (handoffUsecase.TenantUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for tenant use case: %w", err)
	}

	tenantRepo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for tenant use case: %w", err)
	}

	return handoffUsecase.NewTenantUseCase(txManager, tenantRepo, c.config.CentralSubdomain), nil
}

func (c *Container) initSweeper() (*handoffUsecase.Sweeper, error) {
	store, err := c.TokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get token store for sweeper: %w", err)
	}

	return handoffUsecase.NewSweeper(
		store,
		c.config.HandoffSweepInterval,
		c.config.HandoffSweepRetention,
		c.Logger(),
	), nil
}

func (c *Container) initHandoffHandler() (*handoffHTTP.HandoffHandler, error) {
	useCase, err := c.HandoffUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get handoff use case for handoff handler: %w", err)
	}

	return handoffHTTP.NewHandoffHandler(
		useCase,
		handoffHTTP.NewSessionCookieWriter(c.config.CookieSecure),
		c.Logger(),
	), nil
}
