package usecase

import (
	"context"
	"time"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	"github.com/allisson/handoff/internal/metrics"
)

const metricsDomain = "handoff"

// handoffUseCaseWithMetrics decorates HandoffUseCase with metrics instrumentation.
type handoffUseCaseWithMetrics struct {
	next    HandoffUseCase
	metrics metrics.BusinessMetrics
}

// NewHandoffUseCaseWithMetrics wraps a HandoffUseCase with metrics recording.
func NewHandoffUseCaseWithMetrics(useCase HandoffUseCase, m metrics.BusinessMetrics) HandoffUseCase {
	return &handoffUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (h *handoffUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.AuthenticateOutput, error) {
	start := time.Now()
	output, err := h.next.Authenticate(ctx, input)

	outcome := ""
	if output != nil {
		outcome = string(output.Mode)
	}
	h.record(ctx, "authenticate", start, outcome, err)

	return output, err
}

func (h *handoffUseCaseWithMetrics) EstablishSession(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.AuthenticateOutput, error) {
	start := time.Now()
	output, err := h.next.EstablishSession(ctx, input)

	h.record(ctx, "establish_session", start, string(handoffDomain.ModeDirect), err)

	return output, err
}

func (h *handoffUseCaseWithMetrics) IssueToken(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := h.next.IssueToken(ctx, input)

	h.record(ctx, "issue_token", start, string(handoffDomain.ModeRedirect), err)

	return output, err
}

func (h *handoffUseCaseWithMetrics) Restore(
	ctx context.Context,
	input *handoffDomain.RestoreInput,
) (*handoffDomain.RestoreOutput, error) {
	start := time.Now()
	output, err := h.next.Restore(ctx, input)

	h.record(ctx, "restore", start, "session_established", err)

	return output, err
}

// record counts the operation and its outcome; on error the outcome is the error code.
func (h *handoffUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	outcome string,
	err error,
) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		outcome = handoffDomain.ErrorCode(err)
	}

	h.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	h.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
	if outcome != "" {
		h.metrics.RecordOutcome(ctx, metricsDomain, operation, outcome)
	}
}
