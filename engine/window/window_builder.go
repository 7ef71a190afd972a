package window

import "github.com/Carmen-Shannon/oxy-compose/engine/config"

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial client size in screen coordinates.
//
// Parameters:
//   - width: initial width
//   - height: initial height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width, w.height = width, height
	}
}

// WithSizeLimits bounds interactive resizing. Pass 0 to leave a side unbounded.
//
// Parameters:
//   - minWidth, minHeight: the smallest allowed client size
//   - maxWidth, maxHeight: the largest allowed client size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.limits = sizeLimits{minWidth: minWidth, minHeight: minHeight, maxWidth: maxWidth, maxHeight: maxHeight}
	}
}

// WithConfig applies the title, size and size limits of a window configuration.
//
// Parameters:
//   - cfg: the window section of the engine configuration
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithConfig(cfg config.WindowConfig) WindowBuilderOption {
	return func(w *engineWindow) {
		if cfg.Title != "" {
			w.title = cfg.Title
		}
		if cfg.Width > 0 && cfg.Height > 0 {
			w.width, w.height = cfg.Width, cfg.Height
		}
		w.limits = sizeLimits{
			minWidth:  cfg.MinWidth,
			minHeight: cfg.MinHeight,
			maxWidth:  cfg.MaxWidth,
			maxHeight: cfg.MaxHeight,
		}
	}
}
