package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	handoffUsecase "github.com/allisson/handoff/internal/handoff/usecase"
)

// RunAssignUser places a user in a company with a role, replacing any earlier assignment.
// userID is the id the identity provider reports for the user.
//
// Requirements: Database must be migrated and accessible.
func RunAssignUser(
	ctx context.Context,
	tenantUseCase handoffUsecase.TenantUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userID string,
	companyID string,
	role string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	parsedCompanyID, err := uuid.Parse(companyID)
	if err != nil {
		return fmt.Errorf("invalid company ID format: %w", err)
	}

	logger.Info("assigning user",
		slog.String("user_id", userID),
		slog.String("company_id", parsedCompanyID.String()),
		slog.String("role", role),
	)

	membership, err := tenantUseCase.AssignUser(ctx, userID, parsedCompanyID, role)
	if err != nil {
		return fmt.Errorf("failed to assign user: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]string{
			"user_id":    membership.UserID,
			"company_id": membership.CompanyID.String(),
			"role":       string(membership.Role),
		})
	} else {
		_, _ = fmt.Fprintf(
			writer,
			"User %s assigned to company %s as %s\n",
			membership.UserID,
			membership.CompanyID,
			membership.Role,
		)
	}

	logger.Info("user assigned successfully",
		slog.String("user_id", membership.UserID),
		slog.String("company_id", membership.CompanyID.String()),
	)

	return nil
}
