package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/retailetl/internal/analytics"
	"github.com/JonMunkholm/retailetl/internal/config"
	"github.com/JonMunkholm/retailetl/internal/metrics"
)

func testDataset() *analytics.Dataset {
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	return &analytics.Dataset{
		Customers: []analytics.Customer{{ID: "C1", SignupDate: day(1, 3)}, {ID: "C2", SignupDate: day(1, 9)}},
		Products:  []analytics.Product{{ID: "P1", Name: "Pen", Category: "Office"}},
		Orders: []analytics.Order{
			{ID: "O1", CustomerID: "C1", Date: day(1, 10), TotalAmount: 20},
			{ID: "O2", CustomerID: "C2", Date: day(2, 1), TotalAmount: 5},
		},
		Items: []analytics.OrderItem{
			{ID: "I1", OrderID: "O1", ProductID: "P1", Quantity: 2, UnitPrice: 10},
			{ID: "I2", OrderID: "O2", ProductID: "P1", Quantity: 1, UnitPrice: 5},
		},
	}
}

func newTestServer(t *testing.T, src Snapshotter) *Server {
	t.Helper()
	cfg := config.Defaults().Server
	return NewServer(src, analytics.DefaultConfig(), metrics.New(), cfg)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func staticSource(ds *analytics.Dataset) Snapshotter {
	return SnapshotFunc(func(context.Context) (*analytics.Dataset, error) { return ds, nil })
}

func TestListViews(t *testing.T) {
	s := newTestServer(t, staticSource(testDataset()))

	rec := get(t, s, "/api/views")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []ViewInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, len(analytics.Views()))
	assert.Equal(t, "/api/views/"+views[0].Name, views[0].URL)
}

func TestView_LifetimeValue(t *testing.T) {
	s := newTestServer(t, staticSource(testDataset()))

	rec := get(t, s, "/api/views/customer_lifetime_value")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		View string                    `json:"view"`
		Data []analytics.CustomerValue `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "customer_lifetime_value", body.View)
	assert.Equal(t, []analytics.CustomerValue{
		{CustomerID: "C1", LifetimeValue: 20},
		{CustomerID: "C2", LifetimeValue: 5},
	}, body.Data)
}

func TestView_UndefinedMetricIsNull(t *testing.T) {
	s := newTestServer(t, staticSource(&analytics.Dataset{}))

	rec := get(t, s, "/api/views/repeat_purchase_rate")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"view":"repeat_purchase_rate","data":{"repeat_purchase_rate":null}}`, rec.Body.String())
}

func TestView_TopNOverride(t *testing.T) {
	s := newTestServer(t, staticSource(testDataset()))

	rec := get(t, s, "/api/views/pareto?top_n=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []analytics.ParetoRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "C1", body.Data[0].CustomerID)
}

func TestView_Unknown(t *testing.T) {
	s := newTestServer(t, staticSource(testDataset()))

	rec := get(t, s, "/api/views/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "REQ003", body.Code)
}

func TestView_SnapshotError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "REQ002"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "DB005"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			s := newTestServer(t, SnapshotFunc(func(context.Context) (*analytics.Dataset, error) {
				return nil, tt.err
			}))

			rec := get(t, s, "/api/views/churn_count")
			require.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestIndexAndMetrics(t *testing.T) {
	s := newTestServer(t, staticSource(testDataset()))

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/api/views/rfm_scores"`)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	get(t, s, "/api/views/monthly_revenue")
	rec = get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/views/{name}"`)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, staticSource(testDataset()))
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
