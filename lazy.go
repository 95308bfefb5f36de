// Package sloth provides generic single-value lazy initialization.
package sloth

// Lazy is a value of type T computed on first access by a parameterless
// evaluator function and cached for the rest of the container's lifetime.
//
// The evaluator runs at most once: the first call to Get, Ptr or Unwrap
// (or any view derived from them) invokes it, and every later access
// observes the cached result. If the container is never accessed, the
// evaluator never runs at all.
//
// If the evaluator panics, nothing is cached and the next access invokes
// it again.
//
// Lazy is not safe for concurrent use.
type Lazy[T any] struct {
	eval       func() T
	value      T
	evaluated  bool
	evaluating bool
	consumed   bool
}

// New creates a lazy T whose value, if needed, will later be obtained
// from eval and cached. eval is not invoked here.
func New[T any](eval func() T) *Lazy[T] {
	return &Lazy[T]{eval: eval}
}

// Of creates an already-evaluated container holding value.
func Of[T any](value T) *Lazy[T] {
	return &Lazy[T]{value: value, evaluated: true}
}

// Get returns the value, evaluating it if necessary.
func (l *Lazy[T]) Get() T {
	l.force()
	return l.value
}

// Ptr returns a pointer to the stored value, evaluating it if necessary.
// Mutations through the pointer are observed by all subsequent accesses
// and never cause re-evaluation. Consecutive calls return the same
// pointer for the life of the container.
func (l *Lazy[T]) Ptr() *T {
	l.force()
	return &l.value
}

// Unwrap returns the owned value, evaluating it if necessary, and
// consumes the container. Any use of the container after Unwrap panics.
func (l *Lazy[T]) Unwrap() T {
	l.force()
	l.consumed = true
	v := l.value
	var zero T
	l.value = zero
	return v
}

// IsEvaluated reports whether the evaluator has run. It never triggers
// evaluation itself.
func (l *Lazy[T]) IsEvaluated() bool {
	return l.evaluated
}

// Func returns the container as a plain func() T. The returned function
// shares the container's cache, so it evaluates at most once no matter
// how it is mixed with direct Get calls.
func (l *Lazy[T]) Func() func() T {
	return l.Get
}

// View returns a read-only handle on the container.
func (l *Lazy[T]) View() View[T] {
	return View[T]{lazy: l}
}

func (l *Lazy[T]) force() {
	if l.consumed {
		panic("sloth: use of consumed Lazy")
	}
	if l.evaluated {
		return
	}
	if l.evaluating {
		panic("sloth: recursive evaluation")
	}
	l.evaluating = true
	defer func() { l.evaluating = false }()

	l.value = l.eval()
	l.evaluated = true
	l.eval = nil
}

// View is a read-only handle on a Lazy. It exposes Get and nothing else,
// so holders can read the value without being able to mutate or consume
// the underlying container.
type View[T any] struct {
	lazy *Lazy[T]
}

// Get returns the value, evaluating it if necessary.
func (v View[T]) Get() T {
	return v.lazy.Get()
}

// LazyErr is a lazy value whose evaluator can fail. A failed evaluation
// is not cached: the error is returned to the caller, the container stays
// unevaluated and the next access invokes the evaluator again.
//
// LazyErr is not safe for concurrent use.
type LazyErr[T any] struct {
	eval       func() (T, error)
	value      T
	evaluated  bool
	evaluating bool
	consumed   bool
}

// NewErr creates a lazy T from a fallible evaluator. eval is not invoked
// here.
func NewErr[T any](eval func() (T, error)) *LazyErr[T] {
	return &LazyErr[T]{eval: eval}
}

// Get returns the value, evaluating it if necessary. On evaluator error
// the container remains unevaluated and a later Get retries.
func (l *LazyErr[T]) Get() (T, error) {
	if err := l.force(); err != nil {
		var zero T
		return zero, err
	}
	return l.value, nil
}

// MustGet returns the value, panicking if evaluation fails.
func (l *LazyErr[T]) MustGet() T {
	v, err := l.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Unwrap returns the owned value, evaluating it if necessary, and
// consumes the container. On evaluator error the container is not
// consumed and remains usable. Any use after a successful Unwrap panics.
func (l *LazyErr[T]) Unwrap() (T, error) {
	if err := l.force(); err != nil {
		var zero T
		return zero, err
	}
	l.consumed = true
	v := l.value
	var zero T
	l.value = zero
	return v, nil
}

// IsEvaluated reports whether the evaluator has run successfully. It
// never triggers evaluation itself.
func (l *LazyErr[T]) IsEvaluated() bool {
	return l.evaluated
}

func (l *LazyErr[T]) force() error {
	if l.consumed {
		panic("sloth: use of consumed LazyErr")
	}
	if l.evaluated {
		return nil
	}
	if l.evaluating {
		panic("sloth: recursive evaluation")
	}
	l.evaluating = true
	defer func() { l.evaluating = false }()

	v, err := l.eval()
	if err != nil {
		return err
	}
	l.value = v
	l.evaluated = true
	l.eval = nil
	return nil
}

// Memoize creates a memoized version of a function.
func Memoize[T any](fn func() T) func() T {
	return New(fn).Get
}

// MemoizeErr creates a memoized version of a fallible function. Errors
// are not memoized; a call after a failure invokes fn again.
func MemoizeErr[T any](fn func() (T, error)) func() (T, error) {
	return NewErr(fn).Get
}

// Map returns a container whose value is fn applied to l's value. The
// result is itself lazy: neither container evaluates until the returned
// one is accessed.
func Map[T, U any](l *Lazy[T], fn func(T) U) *Lazy[U] {
	return New(func() U {
		return fn(l.Get())
	})
}

// FlatMap returns a container produced by fn from l's value, flattened
// into a single level of laziness.
func FlatMap[T, U any](l *Lazy[T], fn func(T) *Lazy[U]) *Lazy[U] {
	return New(func() U {
		return fn(l.Get()).Get()
	})
}
