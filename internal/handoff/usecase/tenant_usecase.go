package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/handoff/internal/database"
	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	customValidation "github.com/allisson/handoff/internal/validation"
)

type tenantUseCase struct {
	txManager  database.TxManager
	tenantRepo TenantRepository
	reserved   map[string]struct{}
}

// NewTenantUseCase creates a TenantUseCase. Companies can never take a reserved label,
// such as the central sign-in subdomain.
func NewTenantUseCase(
	txManager database.TxManager,
	tenantRepo TenantRepository,
	reservedSubdomains ...string,
) TenantUseCase {
	reserved := make(map[string]struct{}, len(reservedSubdomains))
	for _, label := range reservedSubdomains {
		if label = strings.ToLower(strings.TrimSpace(label)); label != "" {
			reserved[label] = struct{}{}
		}
	}
	return &tenantUseCase{
		txManager:  txManager,
		tenantRepo: tenantRepo,
		reserved:   reserved,
	}
}

func (t *tenantUseCase) CreateCompany(ctx context.Context, subdomain, name string) (*handoffDomain.Company, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	name = strings.TrimSpace(name)

	err := validation.Errors{
		"subdomain": validation.Validate(subdomain, validation.Required, customValidation.Subdomain),
		"name":      validation.Validate(name, validation.Required, customValidation.NotBlank),
	}.Filter()
	if err != nil {
		return nil, customValidation.WrapValidationError(err)
	}
	if _, ok := t.reserved[subdomain]; ok {
		return nil, handoffDomain.ErrSubdomainReserved
	}

	company := &handoffDomain.Company{
		ID:        uuid.Must(uuid.NewV7()),
		Subdomain: subdomain,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		_, err := t.tenantRepo.GetCompanyBySubdomain(ctx, subdomain)
		switch {
		case err == nil:
			return handoffDomain.ErrSubdomainTaken
		case !apperrors.Is(err, handoffDomain.ErrCompanyNotFound):
			return err
		}
		return t.tenantRepo.CreateCompany(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (t *tenantUseCase) AssignUser(
	ctx context.Context,
	userID string,
	companyID uuid.UUID,
	role string,
) (*handoffDomain.Membership, error) {
	userID = strings.TrimSpace(userID)
	if err := validation.Validate(userID, validation.Required, customValidation.NotBlank); err != nil {
		return nil, customValidation.WrapValidationError(validation.Errors{"user_id": err})
	}

	parsedRole, err := handoffDomain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	membership := &handoffDomain.Membership{
		UserID:    userID,
		CompanyID: companyID,
		Role:      parsedRole,
		CreatedAt: time.Now().UTC(),
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := t.tenantRepo.LookupCompany(ctx, companyID); err != nil {
			return err
		}
		return t.tenantRepo.SaveMembership(ctx, membership)
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}
