package finalizer

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// Finalizer collects resources to be closed together, in the reverse order
// they were added.
type Finalizer struct {
	resources []io.Closer
}

// NewFinalizer returns a new Finalizer.
func NewFinalizer() *Finalizer {
	return &Finalizer{}
}

// Add resources.
func (r *Finalizer) Add(cs ...io.Closer) {
	r.resources = append(r.resources, cs...)
}

// Cleanup closes every resource and returns err combined with the close errors.
func (r *Finalizer) Cleanup(err error) error {
	var errs error
	for i := len(r.resources) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, r.resources[i].Close())
	}
	r.resources = nil
	return multierr.Combine(err, errs)
}

// Cleanupf is like Cleanup, formatting err with format first. A nil err stays nil.
func (r *Finalizer) Cleanupf(format string, err error) error {
	if err != nil {
		err = fmt.Errorf(format, err)
	}
	return r.Cleanup(err)
}

// NewContextCloser transforms a context cancel func into an io.Closer.
func NewContextCloser(cancel context.CancelFunc) io.Closer {
	return &ContextCloser{cf: cancel}
}

// ContextCloser maps a context cancel func to the io.Closer interface.
type ContextCloser struct {
	cf context.CancelFunc
}

// Close cancels the context.
func (cc *ContextCloser) Close() error {
	cc.cf()
	return nil
}
