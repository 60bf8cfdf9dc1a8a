package fancontrol

import (
	"fmt"
	"io"
)

// Actuator drives the fan. Duty is a fraction in [0, 1].
type Actuator interface {
	SetDutyCycle(duty float64) error
}

// Fan is an Actuator backed by hardware that must be released on shutdown.
type Fan interface {
	Actuator
	io.Closer
}

// ActuatorError is returned when the fan output cannot be opened, configured
// or updated.
type ActuatorError struct {
	Op  string
	Err error
}

func (e *ActuatorError) Error() string {
	return fmt.Sprintf("fancontrol: %s: %v", e.Op, e.Err)
}

func (e *ActuatorError) Unwrap() error { return e.Err }

const (
	BackendSysfs = "sysfs"
	BackendGPIO  = "gpio"
	BackendNone  = "none"
)

// Polarity values match what /sys/class/pwm accepts.
type Polarity string

const (
	PolarityNormal   Polarity = "normal"
	PolarityInversed Polarity = "inversed"
)

const (
	DefaultFrequencyHz = 25000
	DefaultGPIOPin     = 18
)

type FanConfig struct {
	Backend string

	// PWMChip selects /sys/class/pwm/pwmchipN; negative scans for the first usable chip.
	PWMChip int
	// PWMChannel selects pwmM on the chip; negative picks the channel wired to
	// GPIO18 for the detected board.
	PWMChannel  int
	FrequencyHz int
	Polarity    Polarity

	// GPIOPin is BCM numbering, used by the gpio backend.
	GPIOPin int
}

var openPWMFn = openPWM
var openGPIOFn = openGPIO

// OpenFan opens and initializes the configured backend. A sysfs fan comes
// back enabled at duty 0.
func OpenFan(cfg FanConfig) (Fan, error) {
	if cfg.FrequencyHz == 0 {
		cfg.FrequencyHz = DefaultFrequencyHz
	}
	if cfg.Polarity == "" {
		cfg.Polarity = PolarityNormal
	}
	if cfg.GPIOPin == 0 {
		cfg.GPIOPin = DefaultGPIOPin
	}

	var (
		fan Fan
		err error
	)
	switch cfg.Backend {
	case BackendSysfs, "":
		fan, err = openPWMFn(cfg)
	case BackendGPIO:
		fan, err = openGPIOFn(cfg.GPIOPin)
	case BackendNone:
		return &noopFan{}, nil
	default:
		return nil, &ActuatorError{Op: "open", Err: fmt.Errorf("unknown backend %q", cfg.Backend)}
	}
	if err != nil {
		return nil, &ActuatorError{Op: "open " + backendName(cfg.Backend), Err: err}
	}
	return fan, nil
}

func backendName(b string) string {
	if b == "" {
		return BackendSysfs
	}
	return b
}

// noopFan accepts every update without touching hardware.
type noopFan struct{}

func (n *noopFan) SetDutyCycle(duty float64) error { return nil }

func (n *noopFan) Close() error { return nil }
