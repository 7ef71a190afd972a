//go:build !(linux || darwin || windows || freebsd)

package effect

import "github.com/Carmen-Shannon/oxy-compose/engine/renderer/shader"

type sourceWatcher struct{}

func newSourceWatcher(shader.Library, func(names ...string)) (*sourceWatcher, error) {
	return nil, nil
}

func (*sourceWatcher) Close() error {
	return nil
}
