package indicators

import (
	"fmt"
	"math"
)

// zEpsilon guards the z-score against a zero-variance window.
const zEpsilon = 1e-8

// Rolling is a streaming fixed-window series exposing the mean, standard
// deviation and z-score of the most recent observation.
type Rolling struct {
	period int
	values []float64
}

// NewRolling creates a rolling window over the given period.
func NewRolling(period int) *Rolling {
	return &Rolling{
		period: period,
		values: make([]float64, 0, period),
	}
}

func (r *Rolling) Name() string {
	return fmt.Sprintf("Rolling(%d)", r.period)
}

func (r *Rolling) Warmup() int {
	return r.period
}

func (r *Rolling) Reset() {
	r.values = r.values[:0]
}

func (r *Rolling) Update(v float64) {
	r.values = append(r.values, v)
	// Keep only the last 'period' values
	if len(r.values) > r.period {
		r.values = r.values[1:]
	}
}

func (r *Rolling) Ready() bool {
	return len(r.values) >= r.period
}

func (r *Rolling) Last() float64 {
	if len(r.values) == 0 {
		return 0
	}
	return r.values[len(r.values)-1]
}

func (r *Rolling) Mean() float64 {
	if len(r.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.values {
		sum += v
	}
	return sum / float64(len(r.values))
}

// Std is the sample standard deviation of the window.
func (r *Rolling) Std() float64 {
	if len(r.values) < 2 {
		return 0
	}
	mean := r.Mean()
	var ss float64
	for _, v := range r.values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(r.values)-1))
}

// ZScore is how many standard deviations the latest observation sits from
// the window mean. A zero-variance window yields ~0 via the epsilon guard
// rather than dividing by zero.
func (r *Rolling) ZScore() float64 {
	return (r.Last() - r.Mean()) / (r.Std() + zEpsilon)
}

// EMA is a streaming Exponential Moving Average indicator
type EMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

// NewEMA creates a new Exponential Moving Average indicator with the given period
func NewEMA(period int) *EMA {
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *EMA) Warmup() int {
	return e.period
}

func (e *EMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *EMA) Update(v float64) {
	if e.count < e.period {
		// During warmup, accumulate sum for initial SMA
		e.warmupSum += v
		e.count++
		if e.count == e.period {
			// Initialize EMA with SMA
			e.ema = e.warmupSum / float64(e.period)
		}
	} else {
		// Apply EMA formula
		e.ema = (v-e.ema)*e.multiplier + e.ema
	}
}

func (e *EMA) Ready() bool {
	return e.count >= e.period
}

func (e *EMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}
