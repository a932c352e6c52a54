package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	return 0
}

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordPricing(t *testing.T) {
	InitRegistry()

	before := value(t, PricingRequestsTotal.WithLabelValues("series", StatusSuccess))
	RecordPricing("series", StatusSuccess, 0.002)
	after := value(t, PricingRequestsTotal.WithLabelValues("series", StatusSuccess))
	assert.Equal(t, before+1, after)
}

func TestRecordPricingStatuses(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		market string
		status string
	}{
		{"goal success", "goals", StatusSuccess},
		{"format failure", "format", StatusFailure},
		{"series cached", "series", StatusCached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordPricing(tt.market, tt.status, 0.001)
			})
		})
	}
}

func TestRecordCalibration(t *testing.T) {
	InitRegistry()

	before := value(t, CalibrationMethodTotal.WithLabelValues("goals", "bisection"))
	RecordCalibration("goals", "bisection", 31)
	assert.Equal(t, before+1, value(t, CalibrationMethodTotal.WithLabelValues("goals", "bisection")))
}

func TestUpdateQuoteCache(t *testing.T) {
	InitRegistry()

	UpdateQuoteCache(0.75, 12)
	assert.Equal(t, 0.75, value(t, QuoteCacheHitRatio))
	assert.Equal(t, 12.0, value(t, QuoteCacheItems))
}

func TestDataSourceMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordDataSourceFetch("file", StatusSuccess)
		RecordCircuitBreakerTrip()
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordPricing("goals", StatusSuccess, 0.01)

	handler := Handler()
	require.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "betting_models_pricing_requests_total")
}

func BenchmarkRecordPricing(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordPricing("series", StatusSuccess, 0.0005)
	}
}
