package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// sphereScene builds a unit sphere at the origin seen from +Z
func sphereScene(name string, color core.Vec3) scene.Factory {
	return func(textures *material.TextureStore) (*scene.Scene, error) {
		b := scene.NewBuilder(name).UseTextures(textures)
		m := b.AddMaterial(material.NewMatte(color).WithName(name + "-matte"))
		b.AddSphere(core.NewVec3(0, 0, 0), 1, m)
		b.AddLight(lights.NewPointLight(core.NewVec3(2, 2, 4), core.NewVec3(1, 1, 1), 1))
		b.SetCamera(scene.CameraConfig{
			Center: core.NewVec3(0, 0, 5),
			LookAt: core.NewVec3(0, 0, 0),
			Up:     core.NewVec3(0, 1, 0),
			VFov:   40,
		})
		b.SetEnvironment(scene.UniformSky(core.NewVec3(0.2, 0.3, 0.4)))
		return b.Build(geometry.DefaultBVHOptions())
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	catalog := scene.NewCatalog()
	if err := catalog.Register(scene.SceneInfo{ID: "tiny", Group: "Test"}, sphereScene("tiny", core.NewVec3(1, 0, 0))); err != nil {
		t.Fatalf("register tiny: %v", err)
	}
	if err := catalog.Register(scene.SceneInfo{ID: "other", Group: "Test"}, sphereScene("other", core.NewVec3(0, 1, 0))); err != nil {
		t.Fatalf("register other: %v", err)
	}
	return NewServer(Config{
		NumWorkers:   2,
		DefaultScene: "tiny",
		LiveWidth:    10,
		LiveHeight:   8,
	}, catalog)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS header *, got %q", got)
	}
}

func TestScenes_ListsDefaultCatalogGroups(t *testing.T) {
	s := NewServer(DefaultConfig(), scene.DefaultCatalog())
	rec := doRequest(t, s, http.MethodGet, "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var groups []scene.SceneGroup
	if err := json.Unmarshal(rec.Body.Bytes(), &groups); err != nil {
		t.Fatalf("Failed to decode scenes: %v", err)
	}
	ids := make(map[string]bool)
	for _, g := range groups {
		for _, info := range g.Scenes {
			ids[info.ID] = true
		}
	}
	for _, want := range []string{"spheres", "mirror-worlds", "glass", "sphere-grid"} {
		if !ids[want] {
			t.Errorf("Expected scene %s in listing", want)
		}
	}
}

func TestRender_ReturnsPNG(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/render?scene=tiny&width=16&height=12&depth=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("Expected 16x12 image, got %dx%d", b.Dx(), b.Dy())
	}

	// Centre pixel is the red sphere, the corner is sky
	r, g, _, _ := img.At(8, 6).RGBA()
	if r <= g {
		t.Errorf("Expected red centre pixel, got r=%d g=%d", r, g)
	}
	_, _, cb, _ := img.At(0, 0).RGBA()
	if want := uint32(102) * 0x101; cb != want {
		t.Errorf("Expected sky blue channel %d in corner, got %d", want, cb)
	}
}

func TestRender_RejectsBadRequests(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown scene", "/api/render?scene=nope", http.StatusNotFound},
		{"zero width", "/api/render?width=0", http.StatusBadRequest},
		{"non-numeric height", "/api/render?height=tall", http.StatusBadRequest},
		{"depth too large", "/api/render?depth=99", http.StatusBadRequest},
		{"NaN gamma", "/api/render?gamma=NaN", http.StatusBadRequest},
		{"time of day out of range", "/api/render?tod=2", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, tt.target)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestInspect(t *testing.T) {
	s := newTestServer(t)

	t.Run("centre hits sphere", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/inspect?scene=tiny&width=16&height=12&x=8&y=6")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp InspectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !resp.Hit {
			t.Fatal("Expected a hit")
		}
		if resp.GeometryType != "sphere" || resp.MaterialType != "matte" || resp.MaterialName != "tiny-matte" {
			t.Errorf("Unexpected hit description: %+v", resp)
		}
		if resp.Distance < 3.9 || resp.Distance > 4.1 {
			t.Errorf("Expected distance near 4, got %f", resp.Distance)
		}
		if !resp.FrontFace {
			t.Error("Expected front face hit")
		}
	})

	t.Run("corner misses", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/inspect?scene=tiny&width=16&height=12&x=0&y=0")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var resp InspectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Hit {
			t.Error("Expected no hit in the corner")
		}
		if resp.Color != [3]float64{0.2, 0.3, 0.4} {
			t.Errorf("Expected sky colour, got %v", resp.Color)
		}
	})

	for _, target := range []string{
		"/api/inspect?width=16&height=12&x=16&y=0",
		"/api/inspect?width=16&height=12&x=abc&y=0",
		"/api/inspect?width=16&height=12&x=0",
	} {
		rec := doRequest(t, s, http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestAnimate_StreamsFrames(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/animate?scene=tiny&width=8&height=6&frames=3&fps=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "event: frame\n"); n != 3 {
		t.Errorf("Expected 3 frame events, got %d", n)
	}
	if !strings.Contains(body, "event: complete\n") {
		t.Error("Expected a complete event")
	}
	if strings.Contains(body, "event: error\n") {
		t.Errorf("Unexpected error event in %q", body)
	}

	// Second frame is 1/fps seconds after the first
	var update FrameUpdate
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: {") {
			continue
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &update); err != nil {
			t.Fatalf("Failed to decode frame: %v", err)
		}
		if update.Frame == 1 {
			break
		}
	}
	if update.Frame != 1 || update.Time < 0.099 || update.Time > 0.101 {
		t.Errorf("Expected frame 1 at t=0.1, got frame %d at %f", update.Frame, update.Time)
	}
}

func TestLiveSession_SwitchesScenes(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/live/scene")
	var info LiveSceneResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to decode live scene: %v", err)
	}
	if info.Scene != "tiny" || info.Primitives != 1 {
		t.Errorf("Expected live session on tiny, got %+v", info)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/live/scene?scene=other")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 switching scene, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/live/frame")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for live frame, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Scene"); got != "other" {
		t.Errorf("Expected frame of other, got %q", got)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 8 {
		t.Errorf("Expected 10x8 live frame, got %dx%d", b.Dx(), b.Dy())
	}
	r, g, _, _ := img.At(5, 4).RGBA()
	if g <= r {
		t.Errorf("Expected green centre after switching, got r=%d g=%d", r, g)
	}

	if rec := doRequest(t, s, http.MethodPost, "/api/live/scene?scene=nope"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown scene, got %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodPost, "/api/live/scene"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without scene, got %d", rec.Code)
	}
}

func TestSceneCache_BuildsOnce(t *testing.T) {
	s := newTestServer(t)
	a, err := s.sceneFor("tiny")
	if err != nil {
		t.Fatalf("sceneFor failed: %v", err)
	}
	b, err := s.sceneFor("tiny")
	if err != nil {
		t.Fatalf("sceneFor failed: %v", err)
	}
	if a != b {
		t.Error("Expected cached scene to be reused")
	}
}
