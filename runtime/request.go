package runtime

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/phpcore"
	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/arrays"
	"github.com/wippyai/phpcore/callable"
	"github.com/wippyai/phpcore/codec"
	"github.com/wippyai/phpcore/cursor"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/mtrand"
	"github.com/wippyai/phpcore/object"
	"github.com/wippyai/phpcore/value"
)

// Request is the per-request state: one arena and everything bound to it.
// A Request is used by one goroutine at a time.
type Request struct {
	engine  *Engine
	arena   *arena.Arena
	cursors *cursor.Table
	rng     *mtrand.Rand
	invoker phpcore.Invoker
	arrays  *arrays.Engine
	objects *object.Model
	codec   *codec.Codec
	cancel  func()
	closed  bool
}

// NewRequest creates a request with a fresh arena.
func (e *Engine) NewRequest() *Request {
	a := arena.New(e.cfg.Arena)
	cursors := cursor.NewTable()
	cancel := a.Subscribe(cursors)

	rng := mtrand.New()
	if e.cfg.Seed != nil {
		rng = mtrand.NewSeeded(*e.cfg.Seed)
	}

	invokers := []phpcore.Invoker{e.funcs.Bind(a)}
	if e.wasm != nil {
		invokers = append(invokers, e.wasm.Bind(a))
	}
	inv := callable.Chain(invokers...)

	return &Request{
		engine:  e,
		arena:   a,
		cursors: cursors,
		rng:     rng,
		invoker: inv,
		arrays: arrays.New(a,
			arrays.WithInvoker(inv),
			arrays.WithCursors(cursors),
			arrays.WithRand(rng),
			arrays.WithInterner(e.syms)),
		objects: object.New(a, e.classes, e.syms),
		codec:   codec.New(a, e.syms, e.cfg.Codec),
		cancel:  cancel,
	}
}

func (r *Request) Arena() *arena.Arena      { return r.arena }
func (r *Request) Arrays() *arrays.Engine   { return r.arrays }
func (r *Request) Objects() *object.Model   { return r.objects }
func (r *Request) Codec() *codec.Codec      { return r.codec }
func (r *Request) Invoker() phpcore.Invoker { return r.invoker }
func (r *Request) Rand() *mtrand.Rand       { return r.rng }

// Call runs the array builtin name.
func (r *Request) Call(ctx context.Context, name string, args ...value.Handle) (value.Handle, error) {
	if r.closed {
		return 0, errClosed()
	}
	return r.arrays.Call(ctx, name, args...)
}

// CallJSON decodes each argument from JSON, runs the builtin and returns the
// result handle along with the argument handles, so by-reference changes can
// be read back.
func (r *Request) CallJSON(ctx context.Context, name string, args ...[]byte) (value.Handle, []value.Handle, error) {
	if r.closed {
		return 0, nil, errClosed()
	}
	hs := make([]value.Handle, len(args))
	for i, arg := range args {
		h, err := r.codec.DecodeJSON(arg)
		if err != nil {
			return 0, nil, errors.WithFunc(err, name)
		}
		hs[i] = h
	}
	res, err := r.Call(ctx, name, hs...)
	return res, hs, err
}

// Close releases every value of the request. Calling it twice is a no-op.
func (r *Request) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var err error
	err = multierr.Append(err, r.arena.Close())
	r.cancel()
	if r.cursors.Len() != 0 {
		err = multierr.Append(err, errors.InvalidOperation(errors.PhaseRuntime, "cursor table not empty after close"))
	}
	r.engine.log.Debug("request closed", zap.Error(err))
	return err
}

func errClosed() error {
	return errors.InvalidOperation(errors.PhaseRuntime, "request is closed")
}
