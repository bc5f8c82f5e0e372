package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePlaceMutation(t *testing.T) {
	before := testutil.ToFloat64(placeMutations.WithLabelValues("create", OutcomeSuccess))

	ObservePlaceMutation("create", OutcomeSuccess)
	ObservePlaceMutation("create", OutcomeSuccess)

	after := testutil.ToFloat64(placeMutations.WithLabelValues("create", OutcomeSuccess))
	assert.Equal(t, before+2, after)
}

func TestObserveRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))

	ObserveRequest("get", "", http.StatusNotFound, 3*time.Millisecond)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, before+1, after)
}

func TestRequestStarted(t *testing.T) {
	done := RequestStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestHandler(t *testing.T) {
	ObserveCacheLookup(true)
	ObserveAuthFailure("expired")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "places_cache_lookups_total")
	assert.Contains(t, body, "places_auth_failures_total")
}
