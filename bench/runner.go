package bench

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Hakuto4838/OrderedDict.git/datastream"
	"github.com/Hakuto4838/OrderedDict.git/dict"
)

var ErrDisagreement = errors.New("engines disagree")

var newImpl = NewImpl

// 每累積這麼多筆操作回報一次進度並檢查 context
const progressEvery = 1024

// Runner replays workloads against several engines at once. Every
// operation is issued to all engines back to back and timed per call.
type Runner struct {
	opts *options
}

func NewRunner(opts ...Option) *Runner {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}
	return &Runner{opts: o}
}

// outcome is what an engine answered for one operation.
type outcome struct {
	ok    bool
	key   dict.K
	value dict.V
}

func apply(d dict.Dictionary, op datastream.Operation) (outcome, error) {
	switch op.Type {
	case datastream.OpInsert:
		_, err := d.Insert(op.Key, "")
		if err != nil && !errors.Is(err, dict.ErrDuplicateKey) {
			return outcome{}, err
		}
		return outcome{ok: err == nil}, nil
	case datastream.OpFind:
		nd := d.Find(op.Key)
		if nd == nil {
			return outcome{}, nil
		}
		return outcome{ok: true, key: nd.GetKey(), value: nd.GetValue()}, nil
	case datastream.OpClosestAfter:
		k, ok := d.ClosestKeyAfter(op.Key)
		if !ok {
			return outcome{}, nil
		}
		return outcome{ok: true, key: k}, nil
	case datastream.OpRemove:
		e, ok := d.Remove(op.Key)
		return outcome{ok: ok, key: e.Key, value: e.Value}, nil
	default:
		return outcome{}, errors.Errorf("unknown operation type %d", op.Type)
	}
}

type engine struct {
	name string
	d    dict.Analyable
	sums []RoundStats
}

// Run replays wl against fresh engines named by impls and returns the
// average cost per operation type for every round.
func (r *Runner) Run(ctx context.Context, wl *datastream.Workload, impls []string, seed int64) (*Report, error) {
	if len(impls) == 0 {
		return nil, errors.New("no implementations to run")
	}

	engines := make([]*engine, len(impls))
	for i, name := range impls {
		engines[i] = &engine{name: name, sums: make([]RoundStats, len(wl.Rounds))}
	}

	for run := 0; run < r.opts.runs; run++ {
		for _, e := range engines {
			d, err := newImpl(e.name, seed+int64(run))
			if err != nil {
				return nil, err
			}
			e.d = d
		}
		r.opts.logger.Log("run %d/%d: %d rounds, %d ops, impls %v", run+1, r.opts.runs, len(wl.Rounds), wl.OpCount(), impls)

		for i := range wl.Rounds {
			if err := r.runRound(ctx, &wl.Rounds[i], i, engines); err != nil {
				return nil, errors.Wrapf(err, "run %d round %d", run+1, i)
			}
		}
		for _, e := range engines {
			e.d.Destroy()
		}
	}

	rep := &Report{Impls: make([]ImplReport, len(engines))}
	for i, e := range engines {
		rounds := make([]RoundStats, len(e.sums))
		for j, s := range e.sums {
			rounds[j] = s.average(r.opts.runs)
		}
		rep.Impls[i] = ImplReport{Name: e.name, Rounds: rounds}
	}
	return rep, nil
}

func (r *Runner) runRound(ctx context.Context, round *datastream.Round, idx int, engines []*engine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, e := range engines {
		for _, key := range round.Fill {
			if _, err := e.d.Insert(key, ""); err != nil {
				return errors.Wrapf(err, "%s fill", e.name)
			}
		}
		e.sums[idx].Exponent = round.Exponent
		e.sums[idx].Size += e.d.Size()
	}

	seq := round.Sequence()
	results := make([]outcome, len(engines))
	pending := 0
	for {
		op, ok := seq.Next()
		if !ok {
			break
		}
		for i, e := range engines {
			start := time.Now()
			res, err := apply(e.d, op)
			elapsed := time.Since(start)
			if err != nil {
				return errors.Wrapf(err, "%s %s %d", e.name, op.Type, op.Key)
			}
			e.sums[idx].add(op.Type, elapsed)
			results[i] = res
		}
		if r.opts.agreement {
			for i := 1; i < len(engines); i++ {
				if results[i] != results[0] {
					return errors.Wrapf(ErrDisagreement, "%s %d: %s got %+v, %s got %+v",
						op.Type, op.Key, engines[0].name, results[0], engines[i].name, results[i])
				}
			}
		}

		pending++
		if pending == progressEvery {
			r.report(pending)
			pending = 0
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	r.report(pending)

	if r.opts.agreement {
		for _, e := range engines[1:] {
			if e.d.Size() != engines[0].d.Size() {
				return errors.Wrapf(ErrDisagreement, "size: %s has %d, %s has %d",
					engines[0].name, engines[0].d.Size(), e.name, e.d.Size())
			}
		}
	}
	for _, e := range engines {
		_, height := e.d.GetMaxStats()
		e.sums[idx].Height += height
		if !r.opts.verify {
			continue
		}
		if v, ok := e.d.(dict.Validator); ok {
			if err := v.Validate(); err != nil {
				return errors.Wrapf(err, "%s", e.name)
			}
		}
	}
	r.opts.logger.Log("round %d (2^%d): done", idx, round.Exponent)
	return nil
}

func (r *Runner) report(delta int) {
	if r.opts.progress != nil && delta > 0 {
		r.opts.progress(delta)
	}
}
