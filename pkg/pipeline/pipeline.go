// Package pipeline fans a single byte stream out to N heterogeneous
// consumer operators, each running on its own goroutine behind a bounded
// channel, and collects their typed outputs once the stream closes.
//
// Go has neither variadic generics nor generic methods, so arity here is a
// plain slice rather than a compile-time tuple: FanoutPush and FanoutPull
// are free functions (required, since a type parameter cannot be added to
// a method) that register an operator against a Builder and return a
// typed Handle, so callers never type-assert by hand even though the
// Builder stores results homogeneously underneath.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/neobrew-cli/neobrew/pkg/appctx"
	"github.com/neobrew-cli/neobrew/pkg/neobrewerr"
)

// PushOperator receives every chunk of the stream as it arrives and
// produces its output once the stream closes.
type PushOperator[O any] interface {
	Feed(chunk []byte) error
	Flush() (O, error)
}

// PullOperator treats the stream as a synchronous, blocking io.Reader.
type PullOperator[O any] interface {
	FromReader(r io.Reader) (O, error)
}

type registration struct {
	ch  chan []byte
	run func(ctx context.Context) (any, error)
}

// Builder accumulates operators fanned out over a future byte stream.
// The zero value is not usable; construct one with NewBuilder.
type Builder struct {
	ctx           *appctx.Context
	registrations []registration
	results       []any
}

// NewBuilder returns an empty Builder sized by ctx's channel capacity.
func NewBuilder(ctx *appctx.Context) *Builder {
	return &Builder{ctx: ctx}
}

// Handle is a typed accessor for one fanned-out operator's output. It is
// only valid to call Value after Spawn has returned successfully.
type Handle[O any] struct {
	b   *Builder
	idx int
}

// Value returns the operator's output.
func (h Handle[O]) Value() O {
	out, _ := h.b.results[h.idx].(O)
	return out
}

// FanoutPush registers a push operator on b and returns a handle to its
// eventual output.
func FanoutPush[O any](b *Builder, op PushOperator[O]) Handle[O] {
	ch := make(chan []byte, b.ctx.ChannelCapacity())
	idx := len(b.registrations)
	b.registrations = append(b.registrations, registration{
		ch: ch,
		run: func(ctx context.Context) (any, error) {
			var zero O
			for {
				select {
				case chunk, ok := <-ch:
					if !ok {
						return op.Flush()
					}
					if err := op.Feed(chunk); err != nil {
						return zero, err
					}
				case <-ctx.Done():
					return zero, ctx.Err()
				}
			}
		},
	})
	return Handle[O]{b: b, idx: idx}
}

// FanoutPull registers a pull operator on b and returns a handle to its
// eventual output.
func FanoutPull[O any](b *Builder, op PullOperator[O]) Handle[O] {
	ch := make(chan []byte, b.ctx.ChannelCapacity())
	idx := len(b.registrations)
	b.registrations = append(b.registrations, registration{
		ch: ch,
		run: func(ctx context.Context) (any, error) {
			return op.FromReader(&chanReader{ch: ch})
		},
	})
	return Handle[O]{b: b, idx: idx}
}

// chanReader adapts a channel of byte chunks into an io.Reader. Channel
// close is reported as io.EOF regardless of why the channel closed; a
// source failure is surfaced through Spawn's return value instead.
type chanReader struct {
	ch  <-chan []byte
	buf []byte
}

func (r *chanReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		chunk, ok := <-r.ch
		if !ok {
			return 0, io.EOF
		}
		r.buf = chunk
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

const readChunkSize = 32 * 1024

// Spawn drives source through every registered operator, delivering each
// chunk to every operator in registration order before advancing, and
// blocks until every operator has completed. The first of {source error,
// any operator error} is returned; the rest are discarded.
//
// Cancelling ctx cancels every operator worker: their channels close and
// the blocking workers terminate at the next feed or reader call.
func (b *Builder) Spawn(ctx context.Context, source io.Reader) error {
	cctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var driverWG sync.WaitGroup
	driverWG.Add(1)
	go func() {
		defer driverWG.Done()
		if err := b.drive(cctx, source); err != nil {
			cancel(neobrewerr.Wrap(neobrewerr.StreamError, err, "pipeline source stream failed"))
		}
	}()

	b.results = make([]any, len(b.registrations))
	var opWG sync.WaitGroup
	for i, reg := range b.registrations {
		i, reg := i, reg
		opWG.Add(1)
		go func() {
			defer opWG.Done()
			out, err := reg.run(cctx)
			b.results[i] = out
			if err != nil {
				cancel(neobrewerr.Wrap(neobrewerr.OperatorError, err, "pipeline operator %d failed", i))
			}
		}()
	}

	driverWG.Wait()
	for _, reg := range b.registrations {
		close(reg.ch)
	}
	opWG.Wait()

	if cause := context.Cause(cctx); cause != nil && cause != context.Canceled {
		return cause
	}
	return nil
}

// drive reads source in fixed-size chunks and forwards each to every
// registered operator's channel, honoring the composite back-pressure of
// all operators at once: it will not advance past a chunk until every
// channel has accepted it.
func (b *Builder) drive(ctx context.Context, source io.Reader) error {
	buf := make([]byte, readChunkSize)
	for {
		n, readErr := source.Read(buf)
		if n > 0 {
			chunk := bytes.Clone(buf[:n])
			for _, reg := range b.registrations {
				select {
				case reg.ch <- chunk:
				case <-ctx.Done():
					return nil
				}
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return nil
			}
			return readErr
		}
	}
}
