package fancontrol

import (
	"fmt"
	"math"
	"strings"

	"github.com/shirou/gopsutil/host"
)

var sensorsTemperaturesFn = host.SensorsTemperatures

// HostSensor reads one named sensor from the host's hwmon/thermal listing
// (e.g. "cpu_thermal_input" on Raspberry Pi OS). Values are already in Celsius.
type HostSensor struct {
	Key string
}

func NewHostSensor(key string) *HostSensor {
	return &HostSensor{Key: strings.TrimSpace(key)}
}

func (h *HostSensor) ReadCelsius() (float64, error) {
	stats, err := sensorsTemperaturesFn()
	// gopsutil reports unreadable entries as warnings alongside the ones it
	// could read; only a listing with nothing in it is a hard failure.
	if err != nil && len(stats) == 0 {
		return 0, &SensorError{Source: "host:" + h.Key, Err: fmt.Errorf("list sensors: %w", err)}
	}
	for _, st := range stats {
		if st.SensorKey != h.Key {
			continue
		}
		if math.IsNaN(st.Temperature) || math.IsInf(st.Temperature, 0) {
			return 0, &SensorError{Source: "host:" + h.Key, Err: fmt.Errorf("temperature %v not finite", st.Temperature)}
		}
		return st.Temperature, nil
	}
	return 0, &SensorError{Source: "host:" + h.Key, Err: fmt.Errorf("sensor key not found")}
}
