package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var logger = log.New("server")

// Config controls the web server
type Config struct {
	Port         int                    // TCP port to listen on
	NumWorkers   int                    // Render goroutines per frame, 0 means one per CPU
	Textures     *material.TextureStore // Loaded textures shared by every scene, may be nil
	DefaultScene string                 // Scene used when a request names none
	LiveWidth    int                    // Frame size of the live session
	LiveHeight   int
}

// DefaultConfig returns the configuration used by the serve command
func DefaultConfig() Config {
	return Config{
		Port:         8080,
		DefaultScene: "spheres",
		LiveWidth:    400,
		LiveHeight:   300,
	}
}

// Server handles web requests for the ray tracer
type Server struct {
	cfg     Config
	catalog *scene.Catalog
	echo    *echo.Echo

	mu     sync.Mutex
	scenes map[string]*scene.Scene // Built scenes by id

	liveMu    sync.Mutex
	live      *renderer.Session
	liveScene string
}

// NewServer creates a server for the scenes in catalog
func NewServer(cfg Config, catalog *scene.Catalog) *Server {
	if cfg.DefaultScene == "" {
		cfg.DefaultScene = DefaultConfig().DefaultScene
	}
	if cfg.LiveWidth <= 0 || cfg.LiveHeight <= 0 {
		cfg.LiveWidth, cfg.LiveHeight = DefaultConfig().LiveWidth, DefaultConfig().LiveHeight
	}
	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		scenes:  make(map[string]*scene.Scene),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/animate", s.handleAnimate)
	e.GET("/api/inspect", s.handleInspect)
	e.GET("/api/live/frame", s.handleLiveFrame)
	e.GET("/api/live/scene", s.handleLiveSceneInfo)
	e.POST("/api/live/scene", s.handleLiveScene)
	s.echo = e

	return s
}

// Handler exposes the routes for embedding or testing
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()
	logger.Noticef("serving on http://localhost%s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Notice("server stopped")
	return nil
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the catalog grouped for the scene picker
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.Groups())
}

// sceneFor returns the built scene for id, building and caching it on first use
func (s *Server) sceneFor(id string) (*scene.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc, ok := s.scenes[id]; ok {
		return sc, nil
	}
	sc, err := s.catalog.Build(id, s.cfg.Textures)
	if err != nil {
		return nil, err
	}
	s.scenes[id] = sc
	return sc, nil
}

// RenderRequest holds the parameters shared by the render, animate and inspect endpoints
type RenderRequest struct {
	Scene     string  `json:"scene"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	MaxDepth  int     `json:"maxDepth"`
	Gamma     float64 `json:"gamma"`
	Yaw       float64 `json:"yaw"`   // Orbit around the target in radians
	Pitch     float64 `json:"pitch"` // Orbit toward the up axis in radians
	Zoom      float64 `json:"zoom"`
	Time      float64 `json:"time"`      // Simulation time in seconds
	TimeOfDay float64 `json:"timeOfDay"` // Only used when Daylight is set
	Daylight  bool    `json:"daylight"`
}

// parseRenderRequest reads and range checks the query parameters
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: s.cfg.DefaultScene}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 300, 1, 2000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", 4, 0, 16); err != nil {
		return nil, err
	}
	if req.Gamma, err = parseFloatParam(values, "gamma", 1, 0.1, 5); err != nil {
		return nil, err
	}
	if req.Yaw, err = parseFloatParam(values, "yaw", 0, -10, 10); err != nil {
		return nil, err
	}
	if req.Pitch, err = parseFloatParam(values, "pitch", 0, -3, 3); err != nil {
		return nil, err
	}
	if req.Zoom, err = parseFloatParam(values, "zoom", 1, 0.1, 20); err != nil {
		return nil, err
	}
	if req.Time, err = parseFloatParam(values, "time", 0, 0, 1e6); err != nil {
		return nil, err
	}
	if values.Get("tod") != "" {
		req.Daylight = true
		if req.TimeOfDay, err = parseFloatParam(values, "tod", 0.5, 0, 1); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// options converts the request into frame renderer options
func (s *Server) options(req *RenderRequest) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.Width = req.Width
	opts.Height = req.Height
	opts.MaxDepth = req.MaxDepth
	opts.Gamma = req.Gamma
	opts.NumWorkers = s.cfg.NumWorkers
	return opts
}

// camera builds the request's view of sc
func (req *RenderRequest) camera(sc *scene.Scene) *renderer.Camera {
	cam := renderer.NewCamera(sc.Camera)
	cam.Orbit(req.Yaw, req.Pitch)
	cam.Zoom = req.Zoom
	return cam
}

// environment returns the per-frame environment for the request
func (req *RenderRequest) environment(sc *scene.Scene) scene.Environment {
	if req.Daylight {
		return scene.Daylight(req.TimeOfDay, req.Time)
	}
	return sc.Environment.WithTime(req.Time)
}

// requestScene parses the request and resolves its scene, mapping failures to HTTP errors
func (s *Server) requestScene(c echo.Context) (*RenderRequest, *scene.Scene, error) {
	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}
	sc, err := s.sceneFor(req.Scene)
	if errors.Is(err, scene.ErrUnknownScene) {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "Unknown scene: "+req.Scene)
	}
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return req, sc, nil
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
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
