package renderer

import "errors"

var (
	// ErrInterrupted is returned when a pass is cancelled before every row is done.
	// It wraps the context error as well.
	ErrInterrupted = errors.New("renderer: render interrupted")
	// ErrSceneNotDefined is returned when rendering without a scene
	ErrSceneNotDefined = errors.New("renderer: scene not defined")
	// ErrCameraNotDefined is returned when rendering without a camera
	ErrCameraNotDefined = errors.New("renderer: camera not defined")
	// ErrInvalidFrameSize is returned for non-positive or oversized frame dimensions
	ErrInvalidFrameSize = errors.New("renderer: invalid frame size")
	// ErrInvalidOption is returned when an option other than the frame size is out of range
	ErrInvalidOption = errors.New("renderer: invalid option")
)
