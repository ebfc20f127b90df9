package renderer

import (
	"context"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Session owns the current scene and coordinates scene switches with render
// passes: a swap cancels every pass in flight, waits for them to drain, and
// only then installs the new scene. Passes never observe a half-replaced scene.
type Session struct {
	renderer *FrameRenderer

	mu    sync.RWMutex // read-held by passes, write-held by swaps
	scene *scene.Scene

	passMu       sync.Mutex
	passes       map[int]context.CancelFunc
	nextPass     int
	swapsPending int
}

// NewSession creates a session rendering sc with r
func NewSession(r *FrameRenderer, sc *scene.Scene) *Session {
	return &Session{
		renderer: r,
		scene:    sc,
		passes:   make(map[int]context.CancelFunc),
	}
}

// Scene returns the scene currently installed
func (s *Session) Scene() *scene.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene
}

// Renderer returns the frame renderer used for passes
func (s *Session) Renderer() *FrameRenderer {
	return s.renderer
}

// FrameSetup derives the camera and environment for a pass from the scene
// the pass will render
type FrameSetup func(sc *scene.Scene) (*Camera, *scene.Environment)

// Render runs one pass against the current scene. A pass started while a
// swap is pending is interrupted straight away.
func (s *Session) Render(ctx context.Context, cam *Camera, env *scene.Environment) (*PixelBuffer, FrameStats, error) {
	return s.RenderWith(ctx, func(*scene.Scene) (*Camera, *scene.Environment) {
		return cam, env
	})
}

// RenderWith runs one pass, calling setup with the scene the pass renders.
// No swap can land between setup and the pass.
func (s *Session) RenderWith(ctx context.Context, setup FrameSetup) (*PixelBuffer, FrameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.scene == nil {
		return nil, FrameStats{}, ErrSceneNotDefined
	}
	cam, env := setup(s.scene)

	passCtx, cancel := context.WithCancel(ctx)
	id := s.register(cancel)
	defer s.unregister(id)

	return s.renderer.Render(passCtx, s.scene, cam, env)
}

// SwapScene replaces the current scene once no pass is using it. sc must be
// fully built. In-flight passes return ErrInterrupted.
func (s *Session) SwapScene(sc *scene.Scene) error {
	if sc == nil {
		return ErrSceneNotDefined
	}

	s.passMu.Lock()
	s.swapsPending++
	for _, cancel := range s.passes {
		cancel()
	}
	s.passMu.Unlock()

	s.mu.Lock()
	old := s.scene
	s.scene = sc
	s.mu.Unlock()

	s.passMu.Lock()
	s.swapsPending--
	s.passMu.Unlock()

	if old != nil {
		logger.Infof("scene switched from %s to %s", old.Name, sc.Name)
	} else {
		logger.Infof("scene set to %s", sc.Name)
	}
	return nil
}

// register records a pass's cancel function, cancelling it at once when a
// swap is waiting
func (s *Session) register(cancel context.CancelFunc) int {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	id := s.nextPass
	s.nextPass++
	s.passes[id] = cancel
	if s.swapsPending > 0 {
		cancel()
	}
	return id
}

func (s *Session) unregister(id int) {
	s.passMu.Lock()
	cancel := s.passes[id]
	delete(s.passes, id)
	s.passMu.Unlock()
	cancel()
}
