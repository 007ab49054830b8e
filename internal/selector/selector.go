package selector

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/carton-fit/internal/geometry"
	"github.com/eugenenazirov/carton-fit/internal/packer"
)

// utilizationTolerance absorbs rounding when checking the [0, 100] range.
const utilizationTolerance = 1e-6

// Evaluator runs the packer against candidate containers.
type Evaluator struct {
	poolSize    int
	maxAttempts int
	workers     int
	eps         float64
	logger      *zap.Logger
	recorder    Recorder
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithPoolSize sets how many item copies are offered to each container.
func WithPoolSize(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

// WithMaxAttempts caps packer attempts per container (0 attempts the whole pool).
func WithMaxAttempts(n int) Option {
	return func(e *Evaluator) {
		if n >= 0 {
			e.maxAttempts = n
		}
	}
}

// WithWorkers sets how many containers are evaluated concurrently.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithEpsilon overrides the geometric tolerance handed to the packer.
func WithEpsilon(eps float64) Option {
	return func(e *Evaluator) {
		if eps >= 0 {
			e.eps = eps
		}
	}
}

// WithLogger attaches a logger for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.recorder = r
		}
	}
}

// New creates an Evaluator with the default pool size and a single worker.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		poolSize: packer.DefaultPoolSize,
		workers:  1,
		eps:      geometry.Epsilon,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate packs a pool of item copies into container and verifies the result.
func (e *Evaluator) Evaluate(container packer.Container, item packer.Item) (packer.Result, error) {
	start := time.Now()

	pool, err := packer.GeneratePool(item.Name, item.Dimensions, item.Weight, e.poolSize)
	if err != nil {
		return packer.Result{}, err
	}

	p := packer.New(packer.WithMaxAttempts(e.maxAttempts), packer.WithEpsilon(e.eps))
	result, err := p.Pack(container, pool)
	if err != nil {
		return packer.Result{}, err
	}

	if err := e.verify(result, item); err != nil {
		return packer.Result{}, err
	}

	elapsed := time.Since(start)
	e.recorder.ObserveEvaluation(result.Placed(), result.Utilization(), elapsed)
	e.logger.Debug("container evaluated",
		zap.String("container", container.Label),
		zap.Stringer("item", item.Dimensions),
		zap.Int("placed", result.Placed()),
		zap.Int("unplaced", result.Unplaced),
		zap.Float64("utilization", result.Utilization()),
		zap.Duration("duration", elapsed),
	)

	return result, nil
}

// SelectBest evaluates every container and returns the one with the strictly
// greatest utilization. Ties keep the earlier container.
func (e *Evaluator) SelectBest(containers []packer.Container, item packer.Item) (Selection, error) {
	if len(containers) == 0 {
		return Selection{}, ErrInvalidCatalog
	}
	if _, err := packer.NewItem(item.Name, item.Dimensions, item.Weight); err != nil {
		return Selection{}, err
	}

	start := time.Now()

	results, err := e.evaluateAll(containers, item)
	if err != nil {
		return Selection{}, err
	}

	selection := Selection{
		Item:        item,
		BestIndex:   -1,
		Evaluations: make([]Evaluation, len(containers)),
	}
	for i, result := range results {
		selection.Evaluations[i] = Evaluation{
			Container:   containers[i],
			Result:      result,
			Utilization: result.Utilization(),
		}
	}

	bestUtilization := 0.0
	for i, ev := range selection.Evaluations {
		if ev.Result.Placed() > 0 && ev.Utilization > bestUtilization {
			bestUtilization = ev.Utilization
			selection.BestIndex = i
		}
	}
	if selection.BestIndex >= 0 {
		selection.Best = &selection.Evaluations[selection.BestIndex]
	}

	elapsed := time.Since(start)
	e.recorder.ObserveSelection(selection.Found(), len(containers), elapsed)

	fields := []zap.Field{
		zap.Stringer("item", item.Dimensions),
		zap.Int("candidates", len(containers)),
		zap.Bool("found", selection.Found()),
		zap.Duration("duration", elapsed),
	}
	if selection.Found() {
		fields = append(fields,
			zap.String("best", selection.Best.Container.Label),
			zap.Float64("utilization", selection.Best.Utilization),
		)
	}
	e.logger.Debug("selection completed", fields...)

	return selection, nil
}

// evaluateAll returns results indexed like containers. On failure the error of
// the earliest failing container is returned.
func (e *Evaluator) evaluateAll(containers []packer.Container, item packer.Item) ([]packer.Result, error) {
	results := make([]packer.Result, len(containers))

	if e.workers <= 1 || len(containers) == 1 {
		for i, c := range containers {
			result, err := e.Evaluate(c, item)
			if err != nil {
				return nil, fmt.Errorf("evaluate %q: %w", c.Label, err)
			}
			results[i] = result
		}
		return results, nil
	}

	errs := make([]error, len(containers))
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for i, c := range containers {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c packer.Container) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = e.Evaluate(c, item)
		}(i, c)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("evaluate %q: %w", containers[i].Label, err)
		}
	}
	return results, nil
}

func (e *Evaluator) verify(result packer.Result, item packer.Item) error {
	volume := result.Container.Volume()
	expected := float64(result.Placed()) * item.Dimensions.Volume() / volume * 100
	utilization := result.Utilization()

	if !(utilization >= 0 && utilization <= 100+utilizationTolerance) {
		return fmt.Errorf("%w: utilization %.6f%% in %q", ErrPackingInvariant, utilization, result.Container.Label)
	}
	if diff := expected - utilization; !(math.Abs(diff) <= utilizationTolerance) {
		return fmt.Errorf("%w: placed volume %.6f%% does not match %d items", ErrPackingInvariant, utilization, result.Placed())
	}

	for i, p := range result.Placements {
		box := p.Box()
		if !box.Within(result.Container.Dimensions, e.eps) {
			return fmt.Errorf("%w: placement %d at %s leaves %q", ErrPackingInvariant, i, p.Position, result.Container.Label)
		}
		for j := i + 1; j < len(result.Placements); j++ {
			if box.Overlaps(result.Placements[j].Box(), e.eps) {
				return fmt.Errorf("%w: placements %d and %d overlap", ErrPackingInvariant, i, j)
			}
		}
	}
	return nil
}
