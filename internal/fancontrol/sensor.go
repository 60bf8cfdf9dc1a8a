package fancontrol

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultThermalZonePath is where Linux exposes the SoC temperature on a Raspberry Pi.
const DefaultThermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// Sensor reports a single temperature in degrees Celsius.
type Sensor interface {
	ReadCelsius() (float64, error)
}

// SensorError is returned when the temperature source cannot be read or its
// content is not a number.
type SensorError struct {
	Source string
	Err    error
}

func (e *SensorError) Error() string {
	return fmt.Sprintf("fancontrol: sensor %s: %v", e.Source, e.Err)
}

func (e *SensorError) Unwrap() error { return e.Err }

// ThermalZone reads a sysfs thermal zone, which reports millidegrees Celsius
// as plain text (e.g. "52345\n").
type ThermalZone struct {
	Path string
}

func NewThermalZone(path string) *ThermalZone {
	if path == "" {
		path = DefaultThermalZonePath
	}
	return &ThermalZone{Path: path}
}

func (z *ThermalZone) ReadCelsius() (float64, error) {
	b, err := os.ReadFile(z.Path)
	if err != nil {
		return 0, &SensorError{Source: z.Path, Err: fmt.Errorf("read: %w", err)}
	}
	c, err := parseMilliCelsius(string(b))
	if err != nil {
		return 0, &SensorError{Source: z.Path, Err: err}
	}
	return c, nil
}

func parseMilliCelsius(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("temperature empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse temperature %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse temperature %q: not finite", s)
	}
	return v / 1000.0, nil
}
