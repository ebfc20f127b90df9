package server

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// LiveSceneResponse reports the scene installed in the live session
type LiveSceneResponse struct {
	Scene      string `json:"scene"`
	Primitives int    `json:"primitives"`
}

// liveSession returns the shared session, creating it on the default scene on first use
func (s *Server) liveSession() (*renderer.Session, error) {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()

	if s.live != nil {
		return s.live, nil
	}
	opts := renderer.DefaultOptions()
	opts.Width = s.cfg.LiveWidth
	opts.Height = s.cfg.LiveHeight
	opts.NumWorkers = s.cfg.NumWorkers
	r, err := renderer.NewFrameRenderer(opts)
	if err != nil {
		return nil, err
	}
	sc, err := s.sceneFor(s.cfg.DefaultScene)
	if err != nil {
		return nil, err
	}
	s.live = renderer.NewSession(r, sc)
	s.liveScene = s.cfg.DefaultScene
	return s.live, nil
}

// handleLiveFrame renders the live session's current scene. Camera, time and
// daylight come from the query; frame size is fixed by the session.
func (s *Server) handleLiveFrame(c echo.Context) error {
	session, err := s.liveSession()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	buffer, stats, err := session.RenderWith(c.Request().Context(), func(sc *scene.Scene) (*renderer.Camera, *scene.Environment) {
		env := req.environment(sc)
		return req.camera(sc), &env
	})
	if errors.Is(err, renderer.ErrInterrupted) {
		return echo.NewHTTPError(http.StatusConflict, "frame interrupted by a scene switch")
	}
	if err != nil {
		return renderError(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, buffer.ToRGBA(req.Gamma)); err != nil {
		return err
	}
	c.Response().Header().Set("X-Scene", stats.Scene)
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// handleLiveScene switches the live session to another catalog scene,
// interrupting any frame in progress
func (s *Server) handleLiveScene(c echo.Context) error {
	id := c.QueryParam("scene")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing scene")
	}
	session, err := s.liveSession()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	sc, err := s.sceneFor(id)
	if errors.Is(err, scene.ErrUnknownScene) {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown scene: "+id)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := session.SwapScene(sc); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	s.liveMu.Lock()
	s.liveScene = id
	s.liveMu.Unlock()

	return c.JSON(http.StatusOK, LiveSceneResponse{Scene: id, Primitives: sc.PrimitiveCount()})
}

// handleLiveSceneInfo reports which scene the live session is showing
func (s *Server) handleLiveSceneInfo(c echo.Context) error {
	session, err := s.liveSession()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	s.liveMu.Lock()
	id := s.liveScene
	s.liveMu.Unlock()
	return c.JSON(http.StatusOK, LiveSceneResponse{Scene: id, Primitives: session.Scene().PrimitiveCount()})
}
