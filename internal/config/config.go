package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Fan     FanConfig     `yaml:"fan"`
	Control ControlConfig `yaml:"control"`
}

type SensorConfig struct {
	// Source is "thermal_zone" (sysfs millidegrees file) or "host" (gopsutil sensor key).
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	Key    string `yaml:"key"`
}

type FanConfig struct {
	// Backend is "sysfs", "gpio" or "none".
	Backend string `yaml:"backend"`
	// PWMChip and PWMChannel pick /sys/class/pwm/pwmchipN/pwmM; -1 means auto.
	PWMChip     int    `yaml:"pwm_chip"`
	PWMChannel  int    `yaml:"pwm_channel"`
	FrequencyHz int    `yaml:"frequency_hz"`
	Polarity    string `yaml:"polarity"`
	// GPIOPin is BCM numbering, used by the gpio backend.
	GPIOPin int `yaml:"gpio_pin"`
}

type ControlConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Curve overrides the built-in temperature/duty table when non-empty.
	Curve []CurveStep `yaml:"curve"`
}

type CurveStep struct {
	MinTempC float64 `yaml:"min_temp_c"`
	Duty     float64 `yaml:"duty"`
}

// Default is the configuration used when no file is given: thermal_zone0,
// a 25 kHz normal-polarity sysfs PWM fan and a 5 s loop.
func Default() Config {
	return Config{
		Sensor: SensorConfig{
			Source: "thermal_zone",
			Path:   "/sys/class/thermal/thermal_zone0/temp",
		},
		Fan: FanConfig{
			Backend:     "sysfs",
			PWMChip:     -1,
			PWMChannel:  -1,
			FrequencyHz: 25000,
			Polarity:    "normal",
			GPIOPin:     18,
		},
		Control: ControlConfig{
			Interval: 5 * time.Second,
		},
	}
}

// Load overlays the YAML file at path on Default and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Sensor.Source = strings.ToLower(strings.TrimSpace(c.Sensor.Source))
	c.Sensor.Path = strings.TrimSpace(c.Sensor.Path)
	c.Sensor.Key = strings.TrimSpace(c.Sensor.Key)
	switch c.Sensor.Source {
	case "thermal_zone":
		if c.Sensor.Path == "" {
			return fmt.Errorf("sensor.path is required when sensor.source is 'thermal_zone'")
		}
	case "host":
		if c.Sensor.Key == "" {
			return fmt.Errorf("sensor.key is required when sensor.source is 'host'")
		}
	default:
		return fmt.Errorf("sensor.source must be one of: thermal_zone, host")
	}

	c.Fan.Backend = strings.ToLower(strings.TrimSpace(c.Fan.Backend))
	c.Fan.Polarity = strings.ToLower(strings.TrimSpace(c.Fan.Polarity))
	switch c.Fan.Backend {
	case "sysfs", "gpio", "none":
	default:
		return fmt.Errorf("fan.backend must be one of: sysfs, gpio, none")
	}
	if c.Fan.PWMChip < -1 {
		return fmt.Errorf("fan.pwm_chip must be >= 0 (or -1 for auto)")
	}
	if c.Fan.PWMChannel < -1 {
		return fmt.Errorf("fan.pwm_channel must be >= 0 (or -1 for auto)")
	}
	if c.Fan.FrequencyHz <= 0 {
		return fmt.Errorf("fan.frequency_hz must be > 0")
	}
	if c.Fan.Polarity != "normal" && c.Fan.Polarity != "inversed" {
		return fmt.Errorf("fan.polarity must be one of: normal, inversed")
	}
	if c.Fan.GPIOPin <= 0 {
		return fmt.Errorf("fan.gpio_pin must be > 0")
	}

	if c.Control.Interval <= 0 {
		return fmt.Errorf("control.interval must be > 0")
	}
	for i, st := range c.Control.Curve {
		if math.IsNaN(st.MinTempC) || math.IsInf(st.MinTempC, 0) {
			return fmt.Errorf("control.curve[%d].min_temp_c must be finite", i)
		}
		if math.IsNaN(st.Duty) || st.Duty < 0 || st.Duty > 1 {
			return fmt.Errorf("control.curve[%d].duty must be within [0, 1]", i)
		}
		if i == 0 {
			continue
		}
		prev := c.Control.Curve[i-1]
		if st.MinTempC <= prev.MinTempC {
			return fmt.Errorf("control.curve[%d].min_temp_c must be greater than %v", i, prev.MinTempC)
		}
		if st.Duty < prev.Duty {
			return fmt.Errorf("control.curve[%d].duty must not decrease", i)
		}
	}
	return nil
}
