package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/handoff/internal/database"
	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// PostgreSQLTenantRepository implements the tenant directory for PostgreSQL.
type PostgreSQLTenantRepository struct {
	db *sql.DB
}

// NewPostgreSQLTenantRepository creates a new PostgreSQL tenant repository.
func NewPostgreSQLTenantRepository(db *sql.DB) *PostgreSQLTenantRepository {
	return &PostgreSQLTenantRepository{db: db}
}

// CreateCompany inserts a company. Returns ErrSubdomainTaken on a duplicate subdomain.
func (p *PostgreSQLTenantRepository) CreateCompany(ctx context.Context, company *handoffDomain.Company) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO companies (id, subdomain, name, created_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, company.ID, company.Subdomain, company.Name, company.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return handoffDomain.ErrSubdomainTaken
		}
		return apperrors.Wrap(err, "failed to create company")
	}
	return nil
}

// LookupCompany retrieves a company by id.
func (p *PostgreSQLTenantRepository) LookupCompany(
	ctx context.Context,
	companyID uuid.UUID,
) (*handoffDomain.Company, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subdomain, name, created_at FROM companies WHERE id = $1`

	var company handoffDomain.Company
	err := querier.QueryRowContext(ctx, query, companyID).Scan(
		&company.ID,
		&company.Subdomain,
		&company.Name,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, handoffDomain.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get company")
	}
	return &company, nil
}

// GetCompanyBySubdomain retrieves a company by subdomain.
func (p *PostgreSQLTenantRepository) GetCompanyBySubdomain(
	ctx context.Context,
	subdomain string,
) (*handoffDomain.Company, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subdomain, name, created_at FROM companies WHERE subdomain = $1`

	var company handoffDomain.Company
	err := querier.QueryRowContext(ctx, query, subdomain).Scan(
		&company.ID,
		&company.Subdomain,
		&company.Name,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, handoffDomain.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get company by subdomain")
	}
	return &company, nil
}

// SaveMembership upserts the user's single membership.
func (p *PostgreSQLTenantRepository) SaveMembership(
	ctx context.Context,
	membership *handoffDomain.Membership,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO memberships (user_id, company_id, role, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id) DO UPDATE SET company_id = EXCLUDED.company_id, role = EXCLUDED.role`

	_, err := querier.ExecContext(
		ctx,
		query,
		membership.UserID,
		membership.CompanyID,
		string(membership.Role),
		membership.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save membership")
	}
	return nil
}

// LookupUser retrieves the user's membership. The role is returned as stored; mapping it
// to a dashboard is the caller's concern.
func (p *PostgreSQLTenantRepository) LookupUser(
	ctx context.Context,
	userID string,
) (*handoffDomain.Membership, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT user_id, company_id, role, created_at FROM memberships WHERE user_id = $1`

	var membership handoffDomain.Membership
	var role string
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&membership.UserID,
		&membership.CompanyID,
		&role,
		&membership.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, handoffDomain.ErrMembershipNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get membership")
	}
	membership.Role = handoffDomain.Role(role)
	return &membership, nil
}
