package fancontrol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var afterFn = time.After

const DefaultInterval = 5 * time.Second

type Config struct {
	// Curve maps temperature to duty; the zero value selects DefaultCurve.
	Curve Curve
	// Interval is the pause between iterations.
	Interval time.Duration
	// Out receives one status line per iteration; nil means stdout.
	Out io.Writer
}

// Reading is what one iteration observed and commanded.
type Reading struct {
	TempC float64
	Duty  float64
}

// Controller runs the read, map, actuate loop. It is driven from a single
// goroutine and is not safe for concurrent use.
type Controller struct {
	sensor   Sensor
	actuator Actuator
	cfg      Config
}

func New(sensor Sensor, actuator Actuator, cfg Config) *Controller {
	if len(cfg.Curve.steps) == 0 {
		cfg.Curve = DefaultCurve()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Controller{sensor: sensor, actuator: actuator, cfg: cfg}
}

// Step performs one iteration. A sensor failure returns before the actuator
// is touched. Errors are *SensorError or *ActuatorError.
func (c *Controller) Step() (Reading, error) {
	tempC, err := c.sensor.ReadCelsius()
	if err != nil {
		var se *SensorError
		if !errors.As(err, &se) {
			err = &SensorError{Source: "sensor", Err: err}
		}
		return Reading{}, err
	}

	duty := c.cfg.Curve.DutyFor(tempC)
	if err := c.actuator.SetDutyCycle(duty); err != nil {
		var ae *ActuatorError
		if !errors.As(err, &ae) {
			err = &ActuatorError{Op: "set duty cycle", Err: err}
		}
		return Reading{TempC: tempC}, err
	}

	fmt.Fprintf(c.cfg.Out, "Temp: %.1f°C, Duty Cycle: %.0f%%\n", tempC, duty*100)
	return Reading{TempC: tempC, Duty: duty}, nil
}

// Run iterates until ctx is cancelled (returning nil) or an iteration fails
// (returning its error). There is no retry and no fallback duty.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := c.Step(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-afterFn(c.cfg.Interval):
		}
	}
}
