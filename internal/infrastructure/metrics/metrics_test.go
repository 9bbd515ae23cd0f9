package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/artifact"
	"github.com/studyforge/studyforge/internal/domain/plan"
)

func TestMetrics_Observers(t *testing.T) {
	m := New()

	m.ObserveReservation(plan.TierFree, "granted")
	m.ObserveReservation(plan.TierFree, "granted")
	m.ObserveReservation(plan.TierFree, "denied")
	m.ObserveGeneration(artifact.KindQuiz, "ok", 2*time.Second)
	m.Record(context.Background(), account.Transition{Trigger: account.TriggerExpiry, ToTier: plan.TierFree})
	m.ObserveHTTP("POST", "/api/chat", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("free", "granted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("free", "denied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("quiz", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("expiry", "free")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/chat", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveReservation(plan.TierPremium, "granted")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `studyforge_quota_reservations_total{outcome="granted",tier="premium"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
