package trace

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Fallback tries each tracer in order and returns the first success.
type Fallback struct {
	tracers []Tracer
	log     logrus.FieldLogger
}

// NewFallback chains tracers. The last one is usually a LocalTracer so a
// trace is always available.
func NewFallback(log logrus.FieldLogger, tracers ...Tracer) *Fallback {
	return &Fallback{tracers: tracers, log: log}
}

func (f *Fallback) Trace(ctx context.Context, req Request) (*Trace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var errs []error
	for _, t := range f.tracers {
		tr, err := t.Trace(ctx, req)
		if err == nil {
			return tr, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.log.WithError(err).WithField("tracer", fmt.Sprintf("%T", t)).Debug("tracer failed, trying next")
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no tracers configured")
	}
	return nil, errors.Join(errs...)
}
