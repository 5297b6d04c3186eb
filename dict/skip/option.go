package skip

import (
	"math/rand"
	"time"
)

type options struct {
	// Source of the promotion coin. The default is seeded from the clock.
	rand *rand.Rand

	// coin overrides rand when set; true promotes the key one more level.
	coin func() bool

	// Upper bound on the number of levels a tower may reach. 0 means
	// promotion is unbounded.
	maxLevel int
}

func defaultOptions() *options {
	return &options{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type Option interface {
	apply(*options)
}

type funcOption struct {
	fn func(*options)
}

func (funcOpt funcOption) apply(o *options) {
	funcOpt.fn(o)
}

func newFuncOption(fn func(*options)) *funcOption {
	return &funcOption{
		fn: fn,
	}
}

// WithSeed seeds the promotion coin so runs are reproducible.
func WithSeed(seed int64) Option {
	return newFuncOption(func(o *options) {
		o.rand = rand.New(rand.NewSource(seed))
	})
}

// WithRand uses r as the promotion coin.
func WithRand(r *rand.Rand) Option {
	return newFuncOption(func(o *options) {
		o.rand = r
	})
}

// WithCoin replaces the fair coin with fn. Tests use it to build exact
// tower shapes.
func WithCoin(fn func() bool) Option {
	return newFuncOption(func(o *options) {
		o.coin = fn
	})
}

// WithMaxLevel caps the number of levels a tower may reach.
func WithMaxLevel(maxLevel int) Option {
	return newFuncOption(func(o *options) {
		o.maxLevel = maxLevel
	})
}
