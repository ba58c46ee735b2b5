package packing

import "errors"

var (
	// ErrInvalidParameters reports a non-positive region extent or radius
	// mean, a negative count or std-dev, or mismatched dimensionality.
	ErrInvalidParameters = errors.New("packing: invalid parameters")

	// ErrImpossiblePacking reports a region extent that does not exceed
	// mean + 4·stddev on some axis.
	ErrImpossiblePacking = errors.New("packing: impossible packing")

	// ErrRetryExhausted reports that MaxRadiusDraws normal draws all rounded
	// to a non-positive radius. Generate absorbs it.
	ErrRetryExhausted = errors.New("packing: radius retries exhausted")

	// ErrPackingSaturated reports that the attempt budget ran out before the
	// requested count was placed.
	ErrPackingSaturated = errors.New("packing: attempt budget exhausted")
)
