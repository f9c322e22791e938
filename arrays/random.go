package arrays

import (
	"context"
	"time"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/mtrand"
	"github.com/wippyai/phpcore/value"
)

// Shuffle implements shuffle(&array). The result is a list; the
// permutation is the same for the same seed.
func (e *Engine) Shuffle(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "shuffle"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	vals := d.Values()
	for j := len(vals) - 1; j > 0; j-- {
		i := e.rng.Range(0, int64(j))
		vals[i], vals[j] = vals[j], vals[i]
	}
	if err := e.a.ReplaceArray(args[0], value.NewList(vals...)); err != nil {
		return 0, errors.WithFunc(err, fn)
	}
	e.cursors.Forget(args[0])
	return e.boolean(true), nil
}

// Rand implements array_rand(array, num = 1). One pick returns a key;
// several picks return a list of keys in array order.
func (e *Engine) Rand(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_rand"
	if err := arity(fn, args, 1, 2); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	num, err := e.optIntArg(fn, args, 1, 1)
	if err != nil {
		return 0, err
	}
	n := d.Len()
	if n == 0 {
		return 0, errors.InvalidArgument(fn, 1, "cannot be empty")
	}
	if num < 1 || num > int64(n) {
		return 0, errors.InvalidArgument(fn, 2, "must be between 1 and the number of elements in argument #1 ($array)")
	}

	if num == 1 {
		k, _ := d.At(int(e.rng.Range(0, int64(n-1))))
		return e.keyHandle(k), nil
	}

	// selection sampling keeps the picks in array order
	out := value.NewArrayData(int(num))
	need := int(num)
	for i := 0; i < n && need > 0; i++ {
		if int(e.rng.Range(0, int64(n-i-1))) < need {
			k, _ := d.At(i)
			out.Append(e.keyHandle(k))
			need--
		}
	}
	return e.array(out), nil
}

// Srand implements mt_srand(seed = random) and srand. Without a seed the
// generator is reseeded from the clock.
func (e *Engine) Srand(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "mt_srand"
	if err := arity(fn, args, 0, 2); err != nil {
		return 0, err
	}
	if len(args) == 0 || e.isNull(args[0]) {
		now := time.Now().UnixNano()
		e.rng.Seed(uint32(now) ^ uint32(now>>32))
		return e.null(), nil
	}
	seed, err := e.intArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	e.rng.Seed(uint32(seed))
	return e.null(), nil
}

// MtRand implements mt_rand() and mt_rand(min, max).
func (e *Engine) MtRand(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "mt_rand"
	lo, hi, ok, err := e.randBounds(fn, args)
	if err != nil {
		return 0, err
	}
	if !ok {
		return e.alloc(value.Int(e.rng.Uint31())), nil
	}
	if hi < lo {
		return 0, errors.InvalidArgument(fn, 2, "must be greater than or equal to argument #1 ($min)")
	}
	return e.alloc(value.Int(e.rng.Range(lo, hi))), nil
}

// RandInt implements rand() and rand(min, max). Unlike mt_rand, reversed
// bounds are swapped.
func (e *Engine) RandInt(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "rand"
	lo, hi, ok, err := e.randBounds(fn, args)
	if err != nil {
		return 0, err
	}
	if !ok {
		return e.alloc(value.Int(e.rng.Uint31())), nil
	}
	return e.alloc(value.Int(e.rng.Range(lo, hi))), nil
}

// randBounds reads the optional (min, max) pair. ok is false when no
// bounds were given.
func (e *Engine) randBounds(fn string, args []value.Handle) (lo, hi int64, ok bool, err error) {
	switch len(args) {
	case 0:
		return 0, 0, false, nil
	case 2:
	default:
		return 0, 0, false, errors.Arity(fn, "exactly 0 or 2 arguments", len(args))
	}
	if lo, err = e.intArg(fn, args, 0); err != nil {
		return 0, 0, false, err
	}
	if hi, err = e.intArg(fn, args, 1); err != nil {
		return 0, 0, false, err
	}
	return lo, hi, true, nil
}

// GetRandMax implements mt_getrandmax() and getrandmax().
func (e *Engine) GetRandMax(_ context.Context, args ...value.Handle) (value.Handle, error) {
	if err := arity("mt_getrandmax", args, 0, 0); err != nil {
		return 0, err
	}
	return e.alloc(value.Int(mtrand.MaxRand)), nil
}
