package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goccram/adapters/rng"
	"goccram/app"
	"goccram/internal/resampling"
)

func testServer() *Server {
	service := app.NewAnalysisService(resampling.NewDriver(rng.NewCounterSource()), nil, nil)
	return NewServer(service, gin.TestMode, resampling.Options{})
}

func postAnalysis(t *testing.T, server *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	server := testServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunAnalysis(t *testing.T) {
	server := testServer()
	w := postAnalysis(t, server, app.AnalysisRequest{
		Counts: []int{
			0, 0, 20,
			0, 10, 0,
			20, 0, 0,
			0, 10, 0,
			0, 0, 20,
		},
		Shape:      []int{5, 3},
		Response:   1,
		Predictors: []int{0},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		CCRAM  float64  `json:"ccram"`
		SCCRAM *float64 `json:"sccram"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, 27.0/32.0, result.CCRAM, 1e-9)
	require.NotNil(t, result.SCCRAM)
	assert.InDelta(t, 1.0, *result.SCCRAM, 1e-9)
}

func TestRunAnalysis_PartialOptions(t *testing.T) {
	server := testServer()
	w := postAnalysis(t, server, map[string]any{
		"counts":     []int{10, 10, 10, 10},
		"shape":      []int{2, 2},
		"response":   1,
		"predictors": []int{0},
		"bootstrap":  true,
		"options":    map[string]any{"resamples": 200},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Bootstrap struct {
			Resamples       int     `json:"resamples"`
			ConfidenceLevel float64 `json:"confidence_level"`
			Method          string  `json:"ci_method"`
		} `json:"bootstrap"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 200, result.Bootstrap.Resamples)
	assert.Equal(t, 0.95, result.Bootstrap.ConfidenceLevel)
	assert.Equal(t, "percentile", result.Bootstrap.Method)
}

func TestRunAnalysis_BadTable(t *testing.T) {
	server := testServer()
	w := postAnalysis(t, server, app.AnalysisRequest{
		Counts:     []int{1, -2, 3, 4},
		Shape:      []int{2, 2},
		Response:   1,
		Predictors: []int{0},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunAnalysis_BadAxisSpec(t *testing.T) {
	server := testServer()
	w := postAnalysis(t, server, app.AnalysisRequest{
		Counts:     []int{1, 2, 3, 4},
		Shape:      []int{2, 2},
		Response:   1,
		Predictors: []int{1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunAnalysis_MalformedJSON(t *testing.T) {
	server := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	server := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/missing", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
