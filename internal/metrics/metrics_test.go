package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcovc/services/internal/contracts"
)

func TestRecordSelection(t *testing.T) {
	auctionsBefore := testutil.ToFloat64(AuctionsTotal)
	selectedBefore := testutil.ToFloat64(OrdersTotal.WithLabelValues("selected"))
	claimsBefore := testutil.ToFloat64(QuotaClaimsTotal.WithLabelValues("own-quotes"))
	overBefore := testutil.ToFloat64(OverallocationsTotal)

	RecordSelection(&contracts.Selection{
		InputOrders: 10,
		MaxOrders:   3,
		QuotaClaims: []contracts.QuotaClaim{{Strategy: "own-quotes", Quota: 2, Claimed: 2}},
		Filled:      1,
		OrderUIDs:   make([]contracts.OrderUID, 3),
	}, 2*time.Millisecond)

	assert.Equal(t, auctionsBefore+1, testutil.ToFloat64(AuctionsTotal))
	assert.Equal(t, selectedBefore+3, testutil.ToFloat64(OrdersTotal.WithLabelValues("selected")))
	assert.Equal(t, claimsBefore+2, testutil.ToFloat64(QuotaClaimsTotal.WithLabelValues("own-quotes")))
	assert.Equal(t, overBefore, testutil.ToFloat64(OverallocationsTotal))
}

func TestRecordSelectionOverallocated(t *testing.T) {
	before := testutil.ToFloat64(OverallocationsTotal)

	RecordSelection(&contracts.Selection{
		MaxOrders: 1,
		OrderUIDs: make([]contracts.OrderUID, 2),
	}, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(OverallocationsTotal))
}

func TestRecordEngineRequest(t *testing.T) {
	okBefore := testutil.ToFloat64(EngineRequestsTotal.WithLabelValues("solve", "ok"))
	errBefore := testutil.ToFloat64(EngineRequestsTotal.WithLabelValues("solve", "error"))

	RecordEngineRequest("solve", nil)
	RecordEngineRequest("solve", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(EngineRequestsTotal.WithLabelValues("solve", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(EngineRequestsTotal.WithLabelValues("solve", "error")))
}

func TestMetricsRegistered(t *testing.T) {
	AuctionsTotal.Add(0)

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "driver_auctions_prioritized_total" {
			found = true
			break
		}
	}
	assert.True(t, found, "driver_auctions_prioritized_total metric not found")
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "driver_selection_duration_seconds")
}
