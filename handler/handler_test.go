package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	C "shoplens/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := NewApp(&C.Configuration{
		Env:            C.DEVELOPMENT,
		Seed:           42,
		VisitsPerMonth: 100,
		Months:         1,
		DemoDays:       30,
		CacheSize:      8,
	})
	require.NoError(t, err)

	r := gin.New()
	InitRoutes(r, app)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestGetAnalysisSummaryHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/demo/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, float64(100), payload["total_sessions"])
	assert.Contains(t, payload, "total_revenue")
	assert.Contains(t, payload, "segment_summaries")
}

func TestGetAnalysisSummaryHandlerOverrides(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/demo/analysis?visits_per_month=50&months=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, float64(50), payload["total_sessions"])
}

func TestGetAnalysisSummaryHandlerBadParams(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, r, http.MethodGet, "/demo/analysis?visits_per_month=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, r, http.MethodGet, "/demo/analysis?visits_per_month=-10", "").Code)
}

func TestGetCustomerCLVHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/demo/customers/clv", "")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.NotEmpty(t, rows)
	assert.Contains(t, rows[0], "total_clv")
	assert.Contains(t, rows[0], "clv_segment")
}

func TestDownloadTableHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/demo/export/customers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=customers.csv", w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "customer_id,"))

	assert.Equal(t, http.StatusNotFound,
		doRequest(t, r, http.MethodGet, "/demo/export/nope", "").Code)
}

func TestDownloadWorkbookHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/demo/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	// xlsx files are zip archives.
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestGetChartsHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/demo/charts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload["product_revenue_chart"], "quickchart.io")
	assert.Contains(t, payload["segment_summary_table"], "quickchart.io")
}

func TestGetTrendsHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/timeseries/trends?days=30&seed=7", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload, "direction")
	assert.Len(t, payload["trend_line"], 30)
}

func TestGetAnomaliesHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/timeseries/anomalies?metric=revenue", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload["flags"], 30)

	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, r, http.MethodGet, "/timeseries/anomalies?metric=nope", "").Code)
}

func TestGetClustersHandler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/timeseries/clusters", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Days     []map[string]interface{} `json:"days"`
		Profiles []map[string]interface{} `json:"profiles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload.Days, 30)
	assert.Len(t, payload.Profiles, 3)

	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, r, http.MethodGet, "/timeseries/clusters?n_clusters=0", "").Code)
}

func TestConnectGA4Handler(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodPost, "/ga4/connect", `{"property_id":"123456"}`)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = doRequest(t, r, http.MethodPost, "/ga4/connect", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
