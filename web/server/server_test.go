package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	s := NewServer(0)
	s.SetLogger(core.NewNopLogger())
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(), "/api/scenes")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp scene.ScenesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Groups)
	assert.Equal(t, "Built-in Scenes", resp.Groups[0].Name)
}

func TestHandleMaterials(t *testing.T) {
	rec := get(t, newTestServer(), "/api/materials?scene=default")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MaterialsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "brighten", resp.Root)
	assert.Equal(t, []string{"blue", "brighten", "checker_layer", "red"}, resp.Materials)

	rec = get(t, newTestServer(), "/api/materials?scene=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSwatch(t *testing.T) {
	rec := get(t, newTestServer(), "/api/swatch?scene=default&width=32&height=24&maxSamples=2&maxPasses=1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "0", rec.Header().Get("X-Failed-Samples"))
	lum, err := strconv.ParseFloat(rec.Header().Get("X-Average-Luminance"), 64)
	require.NoError(t, err)
	assert.Greater(t, lum, 0.0)

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestHandleSwatch_InvalidParameters(t *testing.T) {
	tests := []string{
		"/api/swatch?width=abc",
		"/api/swatch?width=4",
		"/api/swatch?maxSamples=0",
		"/api/swatch?adaptiveThreshold=2",
		"/api/swatch?material=missing",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rec := get(t, newTestServer(), target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestHandleRender_StreamsPasses(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?scene=glitter&width=40&height=40&maxSamples=4&maxPasses=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: passComplete\n"))
	assert.Contains(t, body, "event: complete\ndata: Rendering completed\n\n")
	assert.NotContains(t, body, "event: error")

	// Each pass has at least one tile event before it completes
	assert.GreaterOrEqual(t, strings.Count(body, "event: tile\n"), 2)
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?maxPasses=0")
	body := rec.Body.String()
	assert.Contains(t, body, "event: error\ndata: Invalid request:")
	assert.NotContains(t, body, "event: complete")
}

func TestHandleRender_UnknownScene(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?scene=missing")
	assert.Contains(t, rec.Body.String(), "event: error")
}

func TestHandleInspect(t *testing.T) {
	rec := get(t, newTestServer(), "/api/inspect?scene=default&width=64&height=64&x=32&y=32")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp InspectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Hit)
	assert.True(t, resp.Resolved)
	assert.Equal(t, "brighten", resp.Material)
	assert.Equal(t, "color_correct", resp.MaterialType)
	assert.InDelta(t, 1, resp.Presence, 1e-9)
	assert.NotEmpty(t, resp.Parameters)
	assert.Equal(t, "ggx", resp.Uniform["specularModel"])

	input, ok := resp.Properties["input"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "layer", input["type"])
}

func TestHandleInspect_Miss(t *testing.T) {
	rec := get(t, newTestServer(), "/api/inspect?width=64&height=64&x=0&y=0")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp InspectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Hit)
	assert.Equal(t, "color_correct", resp.MaterialType)
}

func TestHandleInspect_InvalidCoordinates(t *testing.T) {
	for _, target := range []string{
		"/api/inspect?x=a&y=0",
		"/api/inspect?x=0",
		"/api/inspect?width=64&height=64&x=64&y=0",
	} {
		rec := get(t, newTestServer(), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestParseIntParam(t *testing.T) {
	values := map[string][]string{"n": {"12"}, "bad": {"x"}}

	n, err := parseIntParam(values, "n", 1, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = parseIntParam(values, "missing", 7, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = parseIntParam(values, "bad", 1, 0, 100)
	assert.Error(t, err)

	_, err = parseIntParam(values, "n", 1, 0, 10)
	assert.Error(t, err)
}
