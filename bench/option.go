package bench

type options struct {
	logger Logger

	// verify validates every engine implementing dict.Validator after each
	// round.
	verify bool

	// agreement compares the result of every operation across engines.
	agreement bool

	// progress receives the number of operations replayed since its last
	// call.
	progress func(delta int)

	// runs repeats the whole workload with fresh engines; timings are
	// averaged over all runs.
	runs int
}

func defaultOptions() *options {
	return &options{
		logger: defaultLogger,
		runs:   1,
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

func WithLogger(logger Logger) Option {
	return newFuncOption(func(o *options) {
		if logger == nil {
			logger = NopLogger()
		}
		o.logger = logger
	})
}

func WithVerify(verify bool) Option {
	return newFuncOption(func(o *options) {
		o.verify = verify
	})
}

func WithAgreement(agreement bool) Option {
	return newFuncOption(func(o *options) {
		o.agreement = agreement
	})
}

func WithProgress(fn func(delta int)) Option {
	return newFuncOption(func(o *options) {
		o.progress = fn
	})
}

// WithRuns sets how many times the workload is replayed. Values below 1
// are treated as 1.
func WithRuns(runs int) Option {
	return newFuncOption(func(o *options) {
		o.runs = max(runs, 1)
	})
}
