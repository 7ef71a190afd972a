package effect

import "github.com/Carmen-Shannon/oxy-compose/engine/renderer/shader"

type systemConfig struct {
	library shader.Library
}

// SystemBuilderOption is a functional option applied during construction via NewSystem.
type SystemBuilderOption func(*systemConfig)

// WithHotReload watches the library's search directories and queues changed sources for Update.
// Watching is only available on desktop platforms; elsewhere the option is ignored.
//
// Parameters:
//   - lib: the library whose directories to watch
//
// Returns:
//   - SystemBuilderOption: a function that enables hot reload on a system
func WithHotReload(lib shader.Library) SystemBuilderOption {
	return func(c *systemConfig) {
		c.library = lib
	}
}
