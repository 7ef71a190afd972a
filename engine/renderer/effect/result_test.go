package effect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultStates(t *testing.T) {
	done := Completed(5)
	assert.True(t, done.IsCompleted())
	v, err := done.Wait()
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	failed := Failed[int](assert.AnError)
	_, err = failed.Wait()
	assert.ErrorIs(t, err, assert.AnError)

	pending := newPending[string]()
	assert.False(t, pending.IsCompleted())
	pending.resolve("a", nil)
	pending.resolve("b", errors.New("ignored"))
	s, err := pending.Wait()
	require.NoError(t, err)
	assert.Equal(t, "a", s)
}

func TestThen(t *testing.T) {
	double := func(v int) (int, error) { return v * 2, nil }

	r := then(Completed(2), double)
	require.True(t, r.IsCompleted())
	v, _ := r.Wait()
	assert.Equal(t, 4, v)

	src := newPending[int]()
	r = then(src, double)
	assert.False(t, r.IsCompleted())
	src.resolve(5, nil)
	v, err := r.Wait()
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	called := false
	r = then(Failed[int](assert.AnError), func(int) (int, error) { called = true; return 0, nil })
	_, err = r.Wait()
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, called)
}

func TestGo(t *testing.T) {
	release := make(chan struct{})
	r := Go(func() (string, error) {
		<-release
		return "built", nil
	})
	assert.False(t, r.IsCompleted())
	close(release)
	<-r.Done()
	v, err := r.Wait()
	require.NoError(t, err)
	assert.Equal(t, "built", v)
}
