package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/handoff/internal/database"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	"github.com/allisson/handoff/internal/handoff/usecase"
	"github.com/allisson/handoff/internal/testutil"
)

func TestTenantRepositories(t *testing.T) {
	tests := []struct {
		name    string
		skip    func(t *testing.T)
		setup   func(t *testing.T) *sql.DB
		newRepo func(db *sql.DB) usecase.TenantRepository
	}{
		{
			name:  "postgresql",
			skip:  testutil.SkipIfNoPostgres,
			setup: testutil.SetupPostgresDB,
			newRepo: func(db *sql.DB) usecase.TenantRepository {
				return NewPostgreSQLTenantRepository(db)
			},
		},
		{
			name:  "mysql",
			skip:  testutil.SkipIfNoMySQL,
			setup: testutil.SetupMySQLDB,
			newRepo: func(db *sql.DB) usecase.TenantRepository {
				return NewMySQLTenantRepository(db)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.skip(t)
			db := tt.setup(t)
			defer testutil.TeardownDB(t, db)

			repo := tt.newRepo(db)
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Microsecond)

			company := &handoffDomain.Company{
				ID:        uuid.Must(uuid.NewV7()),
				Subdomain: "acme",
				Name:      "Acme",
				CreatedAt: now,
			}
			require.NoError(t, repo.CreateCompany(ctx, company))

			t.Run("Success_LookupCompany", func(t *testing.T) {
				got, err := repo.LookupCompany(ctx, company.ID)
				require.NoError(t, err)
				assert.Equal(t, company.ID, got.ID)
				assert.Equal(t, "acme", got.Subdomain)
				assert.Equal(t, "Acme", got.Name)

				got, err = repo.GetCompanyBySubdomain(ctx, "acme")
				require.NoError(t, err)
				assert.Equal(t, company.ID, got.ID)
			})

			t.Run("Error_CompanyNotFound", func(t *testing.T) {
				_, err := repo.LookupCompany(ctx, uuid.Must(uuid.NewV7()))
				assert.ErrorIs(t, err, handoffDomain.ErrCompanyNotFound)

				_, err = repo.GetCompanyBySubdomain(ctx, "missing")
				assert.ErrorIs(t, err, handoffDomain.ErrCompanyNotFound)
			})

			t.Run("Error_SubdomainTaken", func(t *testing.T) {
				err := repo.CreateCompany(ctx, &handoffDomain.Company{
					ID:        uuid.Must(uuid.NewV7()),
					Subdomain: "acme",
					Name:      "Other",
					CreatedAt: now,
				})
				assert.ErrorIs(t, err, handoffDomain.ErrSubdomainTaken)
			})

			t.Run("Success_SaveMembershipReplaces", func(t *testing.T) {
				other := &handoffDomain.Company{
					ID:        uuid.Must(uuid.NewV7()),
					Subdomain: "globex",
					Name:      "Globex",
					CreatedAt: now,
				}
				require.NoError(t, repo.CreateCompany(ctx, other))

				require.NoError(t, repo.SaveMembership(ctx, &handoffDomain.Membership{
					UserID:    "user-1",
					CompanyID: company.ID,
					Role:      handoffDomain.RoleEmployee,
					CreatedAt: now,
				}))
				require.NoError(t, repo.SaveMembership(ctx, &handoffDomain.Membership{
					UserID:    "user-1",
					CompanyID: other.ID,
					Role:      handoffDomain.RoleManager,
					CreatedAt: now,
				}))

				got, err := repo.LookupUser(ctx, "user-1")
				require.NoError(t, err)
				assert.Equal(t, other.ID, got.CompanyID)
				assert.Equal(t, handoffDomain.RoleManager, got.Role)
			})

			t.Run("Error_MembershipNotFound", func(t *testing.T) {
				_, err := repo.LookupUser(ctx, "nobody")
				assert.ErrorIs(t, err, handoffDomain.ErrMembershipNotFound)
			})

			t.Run("Success_InsideTransaction", func(t *testing.T) {
				txManager := database.NewTxManager(db)
				err := txManager.WithTx(ctx, func(ctx context.Context) error {
					return repo.CreateCompany(ctx, &handoffDomain.Company{
						ID:        uuid.Must(uuid.NewV7()),
						Subdomain: "initech",
						Name:      "Initech",
						CreatedAt: now,
					})
				})
				require.NoError(t, err)

				_, err = repo.GetCompanyBySubdomain(ctx, "initech")
				assert.NoError(t, err)
			})
		})
	}
}
