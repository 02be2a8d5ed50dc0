package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/install-check/internal/locator"
	"github.com/sells-group/install-check/internal/model"
	"github.com/sells-group/install-check/internal/pipeline"
	"github.com/sells-group/install-check/internal/recorder"
	"github.com/sells-group/install-check/pkg/geocode"
)

type stubGeocoder struct {
	res *geocode.Result
	err error
}

func (s stubGeocoder) Geocode(_ context.Context, _ string) (*geocode.Result, error) {
	return s.res, s.err
}

type stubFetcher struct {
	features []model.Feature
	err      error
}

func (s stubFetcher) Fetch(_ context.Context, _ model.Coordinate) ([]model.Feature, error) {
	return s.features, s.err
}

var liege = model.Coordinate{Lat: 50.6326, Lon: 5.5797}

func newTestRouter(t *testing.T, gc geocode.Client, f stubFetcher) (http.Handler, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classifications.jsonl")
	rec := recorder.NewJSONL(path)
	checker := pipeline.New(locator.New(gc), f, rec)
	return buildRouter(checker), path
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type apiResponse struct {
	Result *pipeline.Result `json:"result"`
	Record *model.Record    `json:"record"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var out apiResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_Check(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	w := postJSON(t, h, "/api/check", `{
		"url": "https://www.google.com/maps/@50.85,4.35,17z",
		"network_type": "facade",
		"facade_length_m": 42
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decodeResponse(t, w)
	require.NotNil(t, out.Result)
	assert.Nil(t, out.Record)
	assert.Equal(t, pipeline.EntryCheck, out.Result.Entry)
	assert.Equal(t, model.LabelSimple, out.Result.Decision.Label)
	require.NotNil(t, out.Result.Coordinate)
	assert.InDelta(t, 50.85, out.Result.Coordinate.Lat, 1e-9)
}

func TestRouter_CheckBadNetworkType(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	w := postJSON(t, h, "/api/check", `{"network_type": "satellite"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestRouter_CheckMalformedBody(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	w := postJSON(t, h, "/api/check", `{"url":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
}

func TestRouter_CheckAndSave(t *testing.T) {
	h, path := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	w := postJSON(t, h, "/api/check", `{
		"network_type": "underground",
		"public_dig_required": true,
		"save": true,
		"case_id": "T-1042"
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decodeResponse(t, w)
	require.NotNil(t, out.Record)
	require.NotNil(t, out.Record.CaseID)
	assert.Equal(t, "T-1042", *out.Record.CaseID)
	assert.Equal(t, model.LabelComplex, out.Result.Decision.Label)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, []byte("\n")))
}

func TestRouter_Analyze(t *testing.T) {
	gc := stubGeocoder{res: &geocode.Result{
		Latitude: liege.Lat, Longitude: liege.Lon, Source: "nominatim", Quality: "rooftop", Matched: true,
	}}
	f := stubFetcher{features: []model.Feature{
		{ID: 7, Element: "node", Kind: model.FeaturePole, Location: liege},
	}}
	h, _ := newTestRouter(t, gc, f)

	w := postJSON(t, h, "/api/analyze", `{"address": "Rue du Pont 12, 4000 Liège"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decodeResponse(t, w)
	require.NotNil(t, out.Result)
	assert.Equal(t, pipeline.EntryAnalyze, out.Result.Entry)
	assert.Equal(t, model.NetworkAerial, out.Result.Decision.NetworkType)
	require.NotNil(t, out.Result.Context)
	assert.Equal(t, 1, out.Result.Context.FeatureCount)
}

func TestRouter_AnalyzeFetchFailureIsBorderline(t *testing.T) {
	gc := stubGeocoder{res: &geocode.Result{Latitude: liege.Lat, Longitude: liege.Lon, Source: "nominatim", Matched: true}}
	h, _ := newTestRouter(t, gc, stubFetcher{err: errors.New("overpass down")})

	w := postJSON(t, h, "/api/analyze", `{"address": "Rue du Pont 12, 4000 Liège"}`)
	require.Equal(t, http.StatusOK, w.Code)

	out := decodeResponse(t, w)
	assert.True(t, out.Result.NoContext)
	assert.Equal(t, model.LabelBorderline, out.Result.Decision.Label)
}

func TestRouter_AnalyzeUnresolved(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{res: &geocode.Result{Matched: false}}, stubFetcher{})

	w := postJSON(t, h, "/api/analyze", `{"address": "nowhere at all"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "could not be geocoded")
}

func TestRouter_AnalyzeBlankAddress(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	w := postJSON(t, h, "/api/analyze", `{"address": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SaveRecord(t *testing.T) {
	h, path := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	checked := decodeResponse(t, postJSON(t, h, "/api/check", `{"network_type":"aerial","aerial_height_m":6}`))
	body, err := json.Marshal(map[string]any{"result": checked.Result})
	require.NoError(t, err)

	w := postJSON(t, h, "/api/records", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec model.Record
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
	assert.NotEmpty(t, rec.ID)
	assert.Nil(t, rec.CaseID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), rec.ID)
}

func TestRouter_SaveRecordRequiresResult(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	w := postJSON(t, h, "/api/records", `{"case_id":"T-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	req := httptest.NewRequest(http.MethodOptions, "/api/check", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SaveRecordRejectsForgedDecision(t *testing.T) {
	h, path := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	w := postJSON(t, h, "/api/records", `{
		"result": {
			"entry": "check",
			"observation": {"network_type": "facade", "facade_length_m": 900},
			"decision": {
				"label": "simple",
				"network_type": "facade",
				"reasons": ["looks fine"],
				"risk_score": 0,
				"risk_policy": "confidence_based",
				"needs_review": false
			}
		},
		"case_id": "T-9"
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "does not match")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing may be logged")
}

func TestRouter_SaveRecordRejectsEditedLabel(t *testing.T) {
	h, path := newTestRouter(t, stubGeocoder{}, stubFetcher{})

	checked := decodeResponse(t, postJSON(t, h, "/api/check", `{"network_type":"facade","facade_length_m":80}`))
	require.Equal(t, model.LabelComplex, checked.Result.Decision.Label)
	checked.Result.Decision.Label = model.LabelSimple

	body, err := json.Marshal(map[string]any{"result": checked.Result})
	require.NoError(t, err)

	w := postJSON(t, h, "/api/records", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
