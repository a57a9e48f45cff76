package util

import (
	"io"
	"sync"
)

// FinishDetectableReadCloser decorates a byte stream with a one-shot signal
// that fires exactly once when the stream terminates. Termination is EOF or
// a read error; the writing side may also report termination explicitly via
// Finish when its write half dies first.
type FinishDetectableReadCloser struct {
	inner    io.ReadCloser
	finishCh chan struct{}
	once     sync.Once
}

func NewFinishDetectableReadCloser(inner io.ReadCloser) *FinishDetectableReadCloser {
	return &FinishDetectableReadCloser{
		inner:    inner,
		finishCh: make(chan struct{}),
	}
}

func (r *FinishDetectableReadCloser) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if err != nil {
		r.Finish()
	}
	return n, err
}

// Finish fires the finish signal. Safe to call multiple times.
func (r *FinishDetectableReadCloser) Finish() {
	r.once.Do(func() {
		close(r.finishCh)
	})
}

// FinishCh is closed once the stream has terminated.
func (r *FinishDetectableReadCloser) FinishCh() <-chan struct{} {
	return r.finishCh
}

func (r *FinishDetectableReadCloser) Close() error {
	r.Finish()
	return r.inner.Close()
}
