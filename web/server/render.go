package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/labstack/echo/v4"
)

// FrameUpdate is one frame of an animation sent via SSE
type FrameUpdate struct {
	Frame     int     `json:"frame"`
	Frames    int     `json:"frames"`
	Time      float64 `json:"time"`
	ImageData string  `json:"imageData"` // Base64 encoded PNG
	ElapsedMs int64   `json:"elapsedMs"`
}

// handleRender renders a single frame and returns it as a PNG
func (s *Server) handleRender(c echo.Context) error {
	req, sc, err := s.requestScene(c)
	if err != nil {
		return err
	}
	r, err := renderer.NewFrameRenderer(s.options(req))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	env := req.environment(sc)
	buffer, stats, err := r.Render(c.Request().Context(), sc, req.camera(sc), &env)
	if err != nil {
		return renderError(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, buffer.ToRGBA(req.Gamma)); err != nil {
		return err
	}

	header := c.Response().Header()
	header.Set("X-Render-Time-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	header.Set("X-Primitives", strconv.Itoa(stats.Primitives))
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// handleAnimate streams consecutive frames of a scene via SSE, advancing the
// simulation time by 1/fps per frame
func (s *Server) handleAnimate(c echo.Context) error {
	req, sc, err := s.requestScene(c)
	if err != nil {
		return err
	}
	values := c.QueryParams()
	frames, err := parseIntParam(values, "frames", 8, 1, 120)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}
	fps, err := parseFloatParam(values, "fps", 10, 1, 60)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}
	r, err := renderer.NewFrameRenderer(s.options(req))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Use request context to detect client disconnection
	ctx := c.Request().Context()
	cam := req.camera(sc)
	startTime := time.Now()

	for i := 0; i < frames; i++ {
		env := req.environment(sc)
		env.Time = req.Time + float64(i)/fps

		buffer, _, err := r.Render(ctx, sc, cam, &env)
		if err != nil {
			if errors.Is(err, renderer.ErrInterrupted) {
				logger.Infof("animation of %s abandoned after %d frames", sc.Name, i)
				return nil
			}
			return sendSSEEvent(w, "error", err.Error())
		}

		imageData, err := imageToBase64PNG(buffer, req.Gamma)
		if err != nil {
			return sendSSEEvent(w, "error", fmt.Sprintf("failed to encode image: %v", err))
		}
		data, err := json.Marshal(FrameUpdate{
			Frame:     i,
			Frames:    frames,
			Time:      env.Time,
			ImageData: imageData,
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
		if err != nil {
			return err
		}
		if err := sendSSEEvent(w, "frame", string(data)); err != nil {
			return err
		}
	}

	return sendSSEEvent(w, "complete", "Rendering completed")
}

// renderError maps a failed render onto an HTTP error
func renderError(err error) error {
	if errors.Is(err, renderer.ErrInterrupted) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// imageToBase64PNG encodes a frame as a base64 PNG
func imageToBase64PNG(buffer *renderer.PixelBuffer, gamma float64) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, buffer.ToRGBA(gamma)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEEvent writes one SSE event and flushes it to the client
func sendSSEEvent(w *echo.Response, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
