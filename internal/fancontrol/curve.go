package fancontrol

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Step switches the fan to Duty once the temperature reaches MinC.
type Step struct {
	MinC float64
	Duty float64
}

// Curve is a static step function from temperature to duty cycle.
//
// Thresholds are lower-bound inclusive: a temperature exactly on a threshold
// takes that step's duty. Below the first threshold the fan is off.
// There is no hysteresis.
type Curve struct {
	steps []Step
}

// The 50°C cutoff is the behavior the fan has always had, even though older
// notes described it as 40°C.
var defaultSteps = []Step{
	{MinC: 50.0, Duty: 0.2},
	{MinC: 55.0, Duty: 0.5},
	{MinC: 63.0, Duty: 0.7},
	{MinC: 70.0, Duty: 1.0},
}

func DefaultCurve() Curve {
	return Curve{steps: slices.Clone(defaultSteps)}
}

// NewCurve validates steps and returns a Curve over a copy of them.
func NewCurve(steps []Step) (Curve, error) {
	if len(steps) == 0 {
		return Curve{}, fmt.Errorf("curve has no steps")
	}
	for i, s := range steps {
		if math.IsNaN(s.MinC) || math.IsInf(s.MinC, 0) {
			return Curve{}, fmt.Errorf("curve step %d: min_temp_c must be finite", i)
		}
		if math.IsNaN(s.Duty) || s.Duty < 0 || s.Duty > 1 {
			return Curve{}, fmt.Errorf("curve step %d: duty must be within [0, 1]", i)
		}
		if i == 0 {
			continue
		}
		prev := steps[i-1]
		if s.MinC <= prev.MinC {
			return Curve{}, fmt.Errorf("curve step %d: min_temp_c must be greater than %v", i, prev.MinC)
		}
		if s.Duty < prev.Duty {
			return Curve{}, fmt.Errorf("curve step %d: duty must not decrease", i)
		}
	}
	return Curve{steps: slices.Clone(steps)}, nil
}

func (c Curve) Steps() []Step { return slices.Clone(c.steps) }

// DutyFor returns the duty cycle in [0, 1] for tempC.
func (c Curve) DutyFor(tempC float64) float64 {
	// First step strictly above tempC. NaN compares false everywhere, so it
	// lands on the last step: an unknown temperature runs the fan hardest.
	i := sort.Search(len(c.steps), func(i int) bool { return c.steps[i].MinC > tempC })
	if i == 0 {
		return 0
	}
	return clamp(c.steps[i-1].Duty, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
