package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server serving scene files from scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest holds the scene and camera parameters shared by render and
// inspect requests
type RenderRequest struct {
	Scene         string `json:"scene"`         // Scene ID (e.g., "cornell-box" or "file:two-spheres")
	Width         int    `json:"width"`         // Image width
	Height        int    `json:"height"`        // Image height
	Threads       int    `json:"threads"`       // Render workers, 0 for sequential
	SuperSampling int    `json:"superSampling"` // Rays per pixel side
	Adaptive      bool   `json:"adaptive"`      // Adaptive supersampling
	SoftShadows   bool   `json:"softShadows"`   // Soft shadows for point and area lights
	Seed          int64  `json:"seed"`          // Soft shadow jitter seed, 0 for regular grids
	MaxLevel      int    `json:"maxLevel"`      // Recursion depth
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scenes)
}

// parseSceneParams parses the parameters shared by render and inspect requests
func (s *Server) parseSceneParams(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()
	req := &RenderRequest{Scene: "cornell-box"}
	if sceneID := values.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.SoftShadows, err = parseBoolParam(values, "softShadows", false); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", 0, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	return req, nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req, err := s.parseSceneParams(r)
	if err != nil {
		return nil, err
	}

	values := r.URL.Query()
	if req.Threads, err = parseIntParam(values, "threads", renderer.ThreadsAllButSpare, renderer.ThreadsAllButSpare, 256); err != nil {
		return nil, err
	}
	if req.Threads == -1 {
		return nil, fmt.Errorf("threads must be -2, 0 or positive, got: -1")
	}
	if req.SuperSampling, err = parseIntParam(values, "superSampling", 0, 0, 16); err != nil {
		return nil, err
	}
	if req.Adaptive, err = parseBoolParam(values, "adaptive", false); err != nil {
		return nil, err
	}
	if req.MaxLevel, err = parseIntParam(values, "maxLevel", integrator.DefaultConfig().MaxLevel, 1, 50); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.SuperSampling > 4 && !req.Adaptive {
		log.Printf("Render warning: Large image with high supersampling may render slowly")
	}

	return req, nil
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

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds a built-in scene or loads a file:<name> scene from the
// scenes directory
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	opts := scene.Options{SoftShadows: req.SoftShadows}
	if req.Seed != 0 {
		opts.Sampler = core.NewRandomSampler(req.Seed)
	}

	if name, ok := strings.CutPrefix(req.Scene, "file:"); ok {
		if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return nil, fmt.Errorf("invalid scene file name %q", name)
		}
		return loaders.LoadScene(filepath.Join(s.scenesDir, name+".json"), opts)
	}
	return scene.NewBuiltinScene(req.Scene, opts)
}

// createCamera builds the camera the scene was composed for
func (s *Server) createCamera(sceneObj *scene.Scene, req *RenderRequest) (*renderer.Camera, error) {
	config := renderer.NewCameraConfig(sceneObj.View)
	config.Threads = req.Threads
	config.SuperSampling = req.SuperSampling
	config.Adaptive = req.Adaptive
	return config.Build()
}

// writeJSONError writes {"error": message} with the given status
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
