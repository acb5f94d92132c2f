package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	handoffUsecase "github.com/allisson/handoff/internal/handoff/usecase"
)

// RunCreateCompany registers a tenant company reachable at subdomain.baseDomain and prints
// its id, which assign-user needs.
//
// Requirements: Database must be migrated and accessible.
func RunCreateCompany(
	ctx context.Context,
	tenantUseCase handoffUsecase.TenantUseCase,
	logger *slog.Logger,
	writer io.Writer,
	subdomain string,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("creating company", slog.String("subdomain", subdomain))

	company, err := tenantUseCase.CreateCompany(ctx, subdomain, name)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]string{
			"company_id": company.ID.String(),
			"subdomain":  company.Subdomain,
			"name":       company.Name,
		})
	} else {
		_, _ = fmt.Fprintf(writer, "Company ID: %s\n", company.ID)
		_, _ = fmt.Fprintf(writer, "Subdomain: %s\n", company.Subdomain)
		_, _ = fmt.Fprintf(writer, "Name: %s\n", company.Name)
	}

	logger.Info("company created successfully",
		slog.String("company_id", company.ID.String()),
		slog.String("subdomain", company.Subdomain),
	)

	return nil
}
