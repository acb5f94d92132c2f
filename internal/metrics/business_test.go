package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a sample for name whose
// labels match the partial pattern. The exporter injects extra OTel scope labels, hence
// the regex.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("handoff_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "handoff_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "handoff", "authenticate", StatusSuccess)
	bm.RecordOperation(ctx, "handoff", "authenticate", StatusSuccess)
	bm.RecordOperation(ctx, "handoff", "restore", StatusError)
	bm.RecordDuration(ctx, "handoff", "authenticate", 40*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "handoff", "authenticate", 60*time.Millisecond, StatusSuccess)
	bm.RecordOutcome(ctx, "handoff", "authenticate", "redirect")
	bm.RecordOutcome(ctx, "handoff", "restore", "token_invalid_or_expired")

	output := scrape(t, provider)

	assertMetricLine(t, output, `handoff_test_operations_total`,
		`domain="handoff".*operation="authenticate".*status="success"`, `2`)
	assertMetricLine(t, output, `handoff_test_operations_total`,
		`domain="handoff".*operation="restore".*status="error"`, `1`)
	assertMetricLine(t, output, `handoff_test_operation_duration_seconds_count`,
		`domain="handoff".*operation="authenticate".*status="success"`, `2`)
	assertMetricLine(t, output, `handoff_test_operation_outcomes_total`,
		`domain="handoff".*operation="authenticate".*outcome="redirect"`, `1`)
	assertMetricLine(t, output, `handoff_test_operation_outcomes_total`,
		`domain="handoff".*operation="restore".*outcome="token_invalid_or_expired"`, `1`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, bm)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		bm.RecordOperation(ctx, "handoff", "authenticate", StatusSuccess)
		bm.RecordDuration(ctx, "handoff", "authenticate", time.Millisecond, StatusError)
		bm.RecordOutcome(ctx, "handoff", "restore", "tenant_mismatch")
	})
}
