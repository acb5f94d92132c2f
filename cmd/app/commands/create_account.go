package commands

import (
	"context"
	"fmt"
	"log/slog"

	identityUsecase "github.com/allisson/handoff/internal/identity/usecase"
)

// RunCreateAccount creates a local identity provider account. When password is empty it
// is read from io.Reader so it stays out of shell history. The printed account id is the
// user id to pass to assign-user.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAccount(
	ctx context.Context,
	accountUseCase identityUsecase.AccountUseCase,
	logger *slog.Logger,
	email string,
	password string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if password == "" {
		var err error
		password, err = promptLine(io, "Password: ")
		if err != nil {
			return err
		}
	}

	logger.Info("creating account")

	account, err := accountUseCase.CreateAccount(ctx, email, password)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if format == "json" {
		writeJSON(io.Writer, map[string]string{
			"account_id": account.ID.String(),
			"email":      account.Email,
		})
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Account ID: %s\n", account.ID)
		_, _ = fmt.Fprintf(io.Writer, "Email: %s\n", account.Email)
	}

	logger.Info("account created successfully", slog.String("account_id", account.ID.String()))

	return nil
}
