package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/material"
	"github.com/df07/go-layered-materials/pkg/renderer"
	"github.com/df07/go-layered-materials/pkg/scene"
)

// DefaultSceneID is rendered when a request names no scene
const DefaultSceneID = "default"

// DefaultTileSize is the tile size of web renders
const DefaultTileSize = 32

// Server handles web requests for the material previewer
type Server struct {
	port      int
	staticDir string
	logger    core.Logger
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:      port,
		staticDir: "static/",
		logger:    core.NewDefaultLogger("server", false),
	}
}

// SetLogger replaces the server log
func (s *Server) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	s.logger = logger
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene              string  `json:"scene"`              // Scene id (e.g., "default" or "file:car-paint")
	Material           string  `json:"material"`           // Material name, empty for the scene root
	Width              int     `json:"width"`              // Image width
	Height             int     `json:"height"`             // Image height
	RotationY          float64 `json:"rotationY"`          // Sphere rotation in degrees
	MaxSamples         int     `json:"maxSamples"`         // Maximum samples per pixel
	MaxPasses          int     `json:"maxPasses"`          // Maximum number of passes
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples"` // Adaptive sampling minimum share of samples
	AdaptiveThreshold  float64 `json:"adaptiveThreshold"`  // Adaptive sampling relative error threshold
	Debug              bool    `json:"debug"`              // Forward debug messages to the console
}

// Handler returns the HTTP handler serving the API and static files
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if info, err := os.Stat(s.staticDir); err == nil && info.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/materials", s.handleMaterials)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/swatch", s.handleSwatch)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Infof("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the material files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// MaterialsResponse lists the materials of a scene
type MaterialsResponse struct {
	Scene     string   `json:"scene"`
	Root      string   `json:"root"`
	Materials []string `json:"materials"`
}

// handleMaterials lists the materials a scene can preview
func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = DefaultSceneID
	}

	sceneObj, err := scene.Load(sceneID, s.logger)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, MaterialsResponse{
		Scene:     sceneID,
		Root:      sceneObj.Root(),
		Materials: sceneObj.MaterialNames(),
	})
}

// handleSwatch renders a swatch to completion and returns it as a PNG
func (s *Server) handleSwatch(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sceneObj, m, err := s.loadMaterial(req, s.logger)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	img, stats, err := renderer.RenderSwatch(r.Context(), m, sceneObj, req.swatchConfig(), req.progressiveConfig(), s.logger)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Average-Samples", strconv.FormatFloat(stats.AverageSamples, 'f', 2, 64))
	w.Header().Set("X-Failed-Samples", strconv.Itoa(stats.FailedSamples))
	w.Header().Set("X-Average-Luminance", strconv.FormatFloat(stats.AverageLuminance, 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// loadMaterial loads the requested scene and resolves the requested material
func (s *Server) loadMaterial(req *RenderRequest, logger core.Logger) (*scene.Scene, material.Layerable, error) {
	sceneObj, err := scene.Load(req.Scene, logger)
	if err != nil {
		return nil, nil, err
	}
	m, err := sceneObj.Material(req.Material)
	if err != nil {
		return nil, nil, err
	}
	return sceneObj, m, nil
}

// parseCommonSceneParams parses the parameters shared by render and inspect requests
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = DefaultSceneID
	}
	req.Material = query.Get("material")

	var err error
	if req.Width, err = parseIntParam(query, "width", 256, 16, 2048); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 256, 16, 2048); err != nil {
		return err
	}
	if req.RotationY, err = parseFloatParam(query, "rotationY", 30, -360, 360); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 16, 1, 4096); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 3, 1, 100); err != nil {
		return nil, err
	}
	if req.AdaptiveMinSamples, err = parseFloatParam(query, "adaptiveMinSamples", 0.25, 0.01, 1.0); err != nil {
		return nil, err
	}
	if req.AdaptiveThreshold, err = parseFloatParam(query, "adaptiveThreshold", 0.01, 0.001, 0.5); err != nil {
		return nil, err
	}
	req.Debug = query.Get("debug") == "true"

	// Performance warning
	if req.Width*req.Height > 1024*1024 && req.MaxSamples > 256 {
		s.logger.Warnf("Large swatch with high samples may render slowly")
	}

	return req, nil
}

func (req *RenderRequest) swatchConfig() renderer.SwatchConfig {
	view := renderer.DefaultSwatchConfig()
	view.Width = req.Width
	view.Height = req.Height
	view.RotationY = req.RotationY
	return view
}

func (req *RenderRequest) progressiveConfig() renderer.ProgressiveConfig {
	config := renderer.DefaultProgressiveConfig()
	config.TileSize = DefaultTileSize
	config.MaxSamplesPerPixel = req.MaxSamples
	config.MaxPasses = req.MaxPasses
	config.AdaptiveMinSamples = req.AdaptiveMinSamples
	config.AdaptiveThreshold = req.AdaptiveThreshold
	return config
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
