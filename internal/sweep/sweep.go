// Package sweep evaluates the speed and power formulas over a range of
// revolution periods, producing the x/y series for a power curve.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/san-kum/spm/internal/formulas"
)

// minChunk keeps small sweeps on one goroutine.
const minChunk = 256

var ErrInvalidConfig = errors.New("sweep: invalid config")

type Config struct {
	StartMicros        float64
	StopMicros         float64
	Samples            int
	CylinderDiameterKm float64
	Workers            int
}

func (c Config) validate() error {
	if c.Samples < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidConfig, c.Samples)
	}
	if c.StartMicros == c.StopMicros {
		return fmt.Errorf("%w: empty period range", ErrInvalidConfig)
	}
	return nil
}

type Result struct {
	Micros []float64 `json:"micros"`
	Speeds []float64 `json:"speeds"`
	Powers []float64 `json:"powers"`
}

func (r *Result) Len() int { return len(r.Micros) }

// Monotonic reports whether power rises exactly when speed rises between
// consecutive samples.
func (r *Result) Monotonic() bool {
	if len(r.Speeds) != len(r.Micros) || len(r.Powers) != len(r.Micros) {
		return false
	}
	for i := 1; i < len(r.Micros); i++ {
		if (r.Speeds[i] > r.Speeds[i-1]) != (r.Powers[i] > r.Powers[i-1]) {
			return false
		}
	}
	return true
}

// Run evaluates the sweep. Any rejected sample fails the whole run.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return Evaluate(ctx, formulas.Linspace(cfg.StartMicros, cfg.StopMicros, cfg.Samples), cfg.CylinderDiameterKm, cfg.Workers)
}

// Evaluate maps speed and power over an arbitrary sequence of periods.
// The result keeps its own copy of micros.
func Evaluate(ctx context.Context, micros []float64, cylinderDiameterKm float64, workers int) (*Result, error) {
	res := &Result{
		Micros: append([]float64(nil), micros...),
		Speeds: make([]float64, len(micros)),
		Powers: make([]float64, len(micros)),
	}

	var (
		mu       sync.Mutex
		firstErr error
		errIdx   = len(micros)
	)

	formulas.ParallelFor(len(micros), minChunk, workers, func(start, end int) {
		for i := start; i < end; i++ {
			if i%minChunk == 0 && ctx.Err() != nil {
				record(&mu, &firstErr, &errIdx, i, ctx.Err())
				return
			}
			mph, err := formulas.SpeedMPH(micros[i], cylinderDiameterKm)
			if err != nil {
				record(&mu, &firstErr, &errIdx, i, fmt.Errorf("sample %d: %w", i, err))
				return
			}
			res.Speeds[i] = mph
			res.Powers[i] = formulas.PowerFromSpeed(mph)
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// record keeps the error of the lowest failing index so results do not
// depend on goroutine scheduling.
func record(mu *sync.Mutex, firstErr *error, errIdx *int, i int, err error) {
	mu.Lock()
	defer mu.Unlock()
	if i < *errIdx {
		*errIdx = i
		*firstErr = err
	}
}
