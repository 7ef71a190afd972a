package effect

import "sync"

// Result is either an already available value or a pending task producing one.
// Callers choose between polling IsCompleted, selecting on Done and blocking in Wait.
type Result[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// Completed returns a Result that already holds v.
func Completed[T any](v T) *Result[T] {
	r := newPending[T]()
	r.resolve(v, nil)
	return r
}

// Failed returns a Result that already holds err.
func Failed[T any](err error) *Result[T] {
	var zero T
	r := newPending[T]()
	r.resolve(zero, err)
	return r
}

func newPending[T any]() *Result[T] {
	return &Result[T]{done: make(chan struct{})}
}

// resolve stores the outcome. Only the first call has an effect.
func (r *Result[T]) resolve(v T, err error) {
	r.once.Do(func() {
		r.value, r.err = v, err
		close(r.done)
	})
}

// IsCompleted reports whether the value or error is available without blocking.
func (r *Result[T]) IsCompleted() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Done is closed once the result is available.
func (r *Result[T]) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the result is available and returns it.
func (r *Result[T]) Wait() (T, error) {
	<-r.done
	return r.value, r.err
}

// then maps a result through fn. A completed input is mapped on the calling goroutine,
// a pending one on a goroutine waiting for it.
func then[T, U any](r *Result[T], fn func(T) (U, error)) *Result[U] {
	out := newPending[U]()
	apply := func() {
		v, err := r.Wait()
		if err != nil {
			var zero U
			out.resolve(zero, err)
			return
		}
		out.resolve(fn(v))
	}
	if r.IsCompleted() {
		apply()
	} else {
		go apply()
	}
	return out
}

// Go runs fn on a new goroutine and returns its pending result.
func Go[T any](fn func() (T, error)) *Result[T] {
	r := newPending[T]()
	go func() {
		r.resolve(fn())
	}()
	return r
}
