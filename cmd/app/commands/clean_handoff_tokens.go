package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	handoffUsecase "github.com/allisson/handoff/internal/handoff/usecase"
)

// RunCleanHandoffTokens deletes handoff tokens that expired more than retentionSeconds
// ago, consumed or not. With dryRun it only reports how many would be deleted.
//
// Requirements: the token store backend must be reachable.
func RunCleanHandoffTokens(
	ctx context.Context,
	store handoffUsecase.TokenStore,
	logger *slog.Logger,
	writer io.Writer,
	retentionSeconds int,
	dryRun bool,
	format string,
) error {
	if retentionSeconds < 0 {
		return fmt.Errorf("retention-seconds must not be negative, got: %d", retentionSeconds)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("cleaning handoff tokens",
		slog.Int("retention_seconds", retentionSeconds),
		slog.Bool("dry_run", dryRun),
	)

	olderThan := time.Now().UTC().Add(-time.Duration(retentionSeconds) * time.Second)
	count, err := store.Sweep(ctx, olderThan, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean handoff tokens: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]any{
			"count":             count,
			"retention_seconds": retentionSeconds,
			"dry_run":           dryRun,
		})
	} else {
		outputCleanHandoffTokensText(writer, count, retentionSeconds, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

func outputCleanHandoffTokensText(writer io.Writer, count int64, retentionSeconds int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(
			writer,
			"Dry-run mode: Would delete %d handoff token(s) expired for more than %d second(s)\n",
			count,
			retentionSeconds,
		)
		return
	}
	_, _ = fmt.Fprintf(
		writer,
		"Successfully deleted %d handoff token(s) expired for more than %d second(s)\n",
		count,
		retentionSeconds,
	)
}
