// Package stress replays random compatibility queries from many goroutines
// and checks every answer against a sequential baseline.
package stress

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"typeconv/internal/trace"
	"typeconv/internal/typeconv"
	"typeconv/internal/types"
)

// ErrMismatch is returned by Report.Err when a concurrent answer differed
// from the baseline.
var ErrMismatch = errors.New("concurrent answer differs from baseline")

const (
	// maxRecorded bounds Report.Samples.
	maxRecorded = 16
	// writerPairs is the number of pairs each writer registers.
	writerPairs = 4096
)

// Options configure a run. Zero fields take defaults.
type Options struct {
	Workers int
	// Queries is the number of distinct queries; every worker replays all of
	// them in its own order.
	Queries     int
	Arity       int
	Overloads   int
	Seed        uint64
	AllowUnsafe bool
	// Writers register unrelated pairs while readers run. Ignored when the
	// manager is frozen.
	Writers int
	// ReportEvery is the number of queries between progress events.
	ReportEvery int
	Progress    ProgressSink
}

func (o *Options) defaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Queries <= 0 {
		o.Queries = 10000
	}
	if o.Arity <= 0 {
		o.Arity = 2
	}
	if o.Overloads <= 0 {
		o.Overloads = 4
	}
	if o.ReportEvery <= 0 {
		o.ReportEvery = 500
	}
}

// Mismatch records one disagreeing answer.
type Mismatch struct {
	Worker int
	Query  int
	Want   string
	Got    string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("worker %d query %d: got %s, want %s", m.Worker, m.Query, m.Got, m.Want)
}

// Report summarizes a run.
type Report struct {
	Workers    int
	Queries    uint64
	Registered uint64
	Mismatches uint64
	Samples    []Mismatch
	Elapsed    time.Duration
}

// PerSecond is the query throughput across all workers.
func (r Report) PerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Queries) / r.Elapsed.Seconds()
}

// Err reports ErrMismatch when any answer disagreed.
func (r Report) Err() error {
	if r.Mismatches == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", ErrMismatch, r.Mismatches, r.Queries)
}

// Run stresses m with queries over pool. pool must not be empty.
func Run(ctx context.Context, m *typeconv.Manager, pool []types.Type, opts Options) (Report, error) {
	if len(pool) == 0 {
		return Report{}, errors.New("stress: empty type pool")
	}
	opts.defaults()

	total, err := safecast.Conv[uint64](opts.Queries)
	if err != nil {
		return Report{}, err
	}

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeDriver, "stress", trace.CurrentSpan(ctx).SpanID)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	qs := generate(rng, pool, opts.Queries, opts.Arity, opts.Overloads)
	want := make([]answer, len(qs))
	for i := range qs {
		want[i] = run(m, &qs[i], opts.AllowUnsafe)
	}
	trace.Point(tr, trace.ScopePass, "stress:baseline", fmt.Sprintf("%d queries", len(qs)), span.ID())

	var (
		done       atomic.Uint64
		mismatches atomic.Uint64
		registered atomic.Uint64
		mu         sync.Mutex
		samples    []Mismatch
	)
	record := func(mm Mismatch) {
		mismatches.Add(1)
		mu.Lock()
		if len(samples) < maxRecorded {
			samples = append(samples, mm)
		}
		mu.Unlock()
	}
	emit := func(ev Event) {
		if opts.Progress != nil {
			opts.Progress.OnEvent(ev)
		}
	}

	start := time.Now()
	readers, rctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		emit(Event{Worker: w, Status: StatusQueued, Total: total})
	}
	for w := 0; w < opts.Workers; w++ {
		readers.Go(func() error {
			began := time.Now()
			ws := trace.Begin(tr, trace.ScopeTable, fmt.Sprintf("worker %d", w), span.ID())
			defer ws.End("")
			order := rand.New(rand.NewPCG(opts.Seed, uint64(w)+1)).Perm(len(qs))
			var local, bad uint64
			emit(Event{Worker: w, Status: StatusWorking, Total: total})
			for n, i := range order {
				if n%opts.ReportEvery == 0 {
					if err := rctx.Err(); err != nil {
						emit(Event{Worker: w, Status: StatusError, Done: local, Total: total, Mismatches: bad, Err: err, Elapsed: time.Since(began)})
						return err
					}
					if n > 0 {
						emit(Event{Worker: w, Status: StatusWorking, Done: local, Total: total, Mismatches: bad, Elapsed: time.Since(began)})
					}
				}
				got := run(m, &qs[i], opts.AllowUnsafe)
				local++
				if !got.equal(want[i]) {
					bad++
					record(Mismatch{Worker: w, Query: i, Want: want[i].String(), Got: got.String()})
				}
			}
			done.Add(local)
			status := StatusDone
			if bad > 0 {
				status = StatusError
			}
			ws.WithExtra("mismatches", fmt.Sprint(bad))
			emit(Event{Worker: w, Status: status, Done: local, Total: total, Mismatches: bad, Elapsed: time.Since(began)})
			return nil
		})
	}

	var writers errgroup.Group
	stop := make(chan struct{})
	if !m.Frozen() && opts.Writers > 0 {
		base := maxID(pool) + 1
		for w := 0; w < opts.Writers; w++ {
			writers.Go(func() error {
				// Writers touch only ids above the pool so baseline answers hold.
				for k := int32(0); k < writerPairs; k++ {
					from := types.New(base + int32(w)*writerPairs*2 + k*2)
					m.AddPromotion(from, types.New(from.ID()+1))
					registered.Add(1)
					select {
					case <-stop:
						return nil
					default:
					}
				}
				return nil
			})
		}
	}

	err = readers.Wait()
	close(stop)
	_ = writers.Wait()

	rep := Report{
		Workers:    opts.Workers,
		Queries:    done.Load(),
		Registered: registered.Load(),
		Mismatches: mismatches.Load(),
		Samples:    samples,
		Elapsed:    time.Since(start),
	}
	span.WithExtra("queries", fmt.Sprint(rep.Queries)).
		WithExtra("mismatches", fmt.Sprint(rep.Mismatches)).
		End("")
	return rep, err
}

func maxID(pool []types.Type) int32 {
	var hi int32
	for _, t := range pool {
		hi = max(hi, t.ID())
	}
	return hi
}

func (a answer) String() string {
	if a.pair {
		return a.code.String()
	}
	return fmt.Sprintf("best=%d count=%d rating=%s", a.sel.Best, a.sel.Count, a.sel.Rating)
}
