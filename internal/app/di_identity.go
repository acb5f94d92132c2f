package app

import (
	"context"
	"fmt"

	"github.com/allisson/handoff/internal/config"
	handoffUsecase "github.com/allisson/handoff/internal/handoff/usecase"
	"github.com/allisson/handoff/internal/identity/kratos"
	identityRepository "github.com/allisson/handoff/internal/identity/repository"
	identityService "github.com/allisson/handoff/internal/identity/service"
	identityUsecase "github.com/allisson/handoff/internal/identity/usecase"
)

// AccountRepository returns the local account repository.
func (c *Container) AccountRepository() (identityUsecase.AccountRepository, error) {
	var err error
	c.accountRepoInit.Do(func() {
		c.accountRepo, err = c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountRepo"]; exists {
		return nil, storedErr
	}
	return c.accountRepo, nil
}

// LocalProvider returns the identity provider backed by local accounts. It needs
// ASSERTION_SIGNING_KEY.
func (c *Container) LocalProvider() (*identityUsecase.LocalProvider, error) {
	var err error
	c.localProviderInit.Do(func() {
		c.localProvider, err = c.initLocalProvider()
		if err != nil {
			c.initErrors["localProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["localProvider"]; exists {
		return nil, storedErr
	}
	return c.localProvider, nil
}

// AccountUseCase returns the use case that provisions local accounts.
func (c *Container) AccountUseCase() (identityUsecase.AccountUseCase, error) {
	return c.LocalProvider()
}

// IdentityProvider returns the credential verifier selected by IDENTITY_PROVIDER.
func (c *Container) IdentityProvider() (handoffUsecase.IdentityProvider, error) {
	var err error
	c.identityProviderInit.Do(func() {
		err = c.initIdentityProvider()
		if err != nil {
			c.initErrors["identityProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityProvider"]; exists {
		return nil, storedErr
	}
	return c.identityProvider, nil
}

// AssertionVerifier returns the verifier for assertions issued by the configured identity
// provider.
func (c *Container) AssertionVerifier() (handoffUsecase.AssertionVerifier, error) {
	if _, err := c.IdentityProvider(); err != nil {
		return nil, err
	}
	return c.assertionVerifier, nil
}

func (c *Container) initAccountRepository() (identityUsecase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return identityRepository.NewMySQLAccountRepository(db), nil
	case "postgres":
		return identityRepository.NewPostgreSQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initLocalProvider() (*identityUsecase.LocalProvider, error) {
	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for local provider: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.config.IdentityProviderTimeout)
	defer cancel()

	signingKey, err := c.KMSService().ResolveSecret(ctx, c.config.KMSKeyURI, c.config.AssertionSigningKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assertion signing key: %w", err)
	}

	assertions, err := identityService.NewAssertionService(signingKey, c.config.AssertionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create assertion service: %w", err)
	}

	passwordService, err := identityService.NewPasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to create password service: %w", err)
	}

	provider, err := identityUsecase.NewLocalProvider(
		accountRepo,
		passwordService,
		assertions,
		identityUsecase.LockoutPolicy{
			MaxAttempts: c.config.LockoutMaxAttempts,
			Duration:    c.config.LockoutDuration,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create local provider: %w", err)
	}
	return provider, nil
}

// initIdentityProvider sets both identityProvider and assertionVerifier, which are always
// the same provider.
func (c *Container) initIdentityProvider() error {
	switch c.config.IdentityProvider {
	case config.IdentityProviderLocal:
		provider, err := c.LocalProvider()
		if err != nil {
			return err
		}
		c.identityProvider = provider
		c.assertionVerifier = provider
	case config.IdentityProviderKratos:
		provider := kratos.NewProvider(c.config.KratosPublicURL, c.config.IdentityProviderTimeout, c.Logger())
		c.identityProvider = provider
		c.assertionVerifier = provider
	default:
		return fmt.Errorf("unsupported identity provider: %s", c.config.IdentityProvider)
	}
	return nil
}
