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

// MySQLTenantRepository implements the tenant directory for MySQL, storing UUIDs as
// BINARY(16).
type MySQLTenantRepository struct {
	db *sql.DB
}

// NewMySQLTenantRepository creates a new MySQL tenant repository.
func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}

// CreateCompany inserts a company. Returns ErrSubdomainTaken on a duplicate subdomain.
func (m *MySQLTenantRepository) CreateCompany(ctx context.Context, company *handoffDomain.Company) error {
	querier := database.GetTx(ctx, m.db)

	id, err := company.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `INSERT INTO companies (id, subdomain, name, created_at) VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, company.Subdomain, company.Name, company.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return handoffDomain.ErrSubdomainTaken
		}
		return apperrors.Wrap(err, "failed to create company")
	}
	return nil
}

// LookupCompany retrieves a company by id.
func (m *MySQLTenantRepository) LookupCompany(
	ctx context.Context,
	companyID uuid.UUID,
) (*handoffDomain.Company, error) {
	id, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}
	return m.getCompany(ctx, `SELECT id, subdomain, name, created_at FROM companies WHERE id = ?`, id)
}

// GetCompanyBySubdomain retrieves a company by subdomain.
func (m *MySQLTenantRepository) GetCompanyBySubdomain(
	ctx context.Context,
	subdomain string,
) (*handoffDomain.Company, error) {
	return m.getCompany(ctx, `SELECT id, subdomain, name, created_at FROM companies WHERE subdomain = ?`, subdomain)
}

func (m *MySQLTenantRepository) getCompany(
	ctx context.Context,
	query string,
	arg any,
) (*handoffDomain.Company, error) {
	querier := database.GetTx(ctx, m.db)

	var company handoffDomain.Company
	var idBytes []byte
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&idBytes,
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

	if err := company.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}
	return &company, nil
}

// SaveMembership upserts the user's single membership.
func (m *MySQLTenantRepository) SaveMembership(ctx context.Context, membership *handoffDomain.Membership) error {
	querier := database.GetTx(ctx, m.db)

	companyID, err := membership.CompanyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `INSERT INTO memberships (user_id, company_id, role, created_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE company_id = VALUES(company_id), role = VALUES(role)`

	_, err = querier.ExecContext(
		ctx,
		query,
		membership.UserID,
		companyID,
		string(membership.Role),
		membership.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save membership")
	}
	return nil
}

// LookupUser retrieves the user's membership.
func (m *MySQLTenantRepository) LookupUser(ctx context.Context, userID string) (*handoffDomain.Membership, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT user_id, company_id, role, created_at FROM memberships WHERE user_id = ?`

	var membership handoffDomain.Membership
	var companyID []byte
	var role string
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&membership.UserID,
		&companyID,
		&role,
		&membership.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, handoffDomain.ErrMembershipNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get membership")
	}

	if err := membership.CompanyID.UnmarshalBinary(companyID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}
	membership.Role = handoffDomain.Role(role)
	return &membership, nil
}
