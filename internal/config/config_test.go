package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestDefault_MatchesStockFan(t *testing.T) {
	cfg := Default()
	if cfg.Sensor.Source != "thermal_zone" || cfg.Sensor.Path != "/sys/class/thermal/thermal_zone0/temp" {
		t.Fatalf("sensor=%+v", cfg.Sensor)
	}
	if cfg.Fan.Backend != "sysfs" || cfg.Fan.FrequencyHz != 25000 || cfg.Fan.Polarity != "normal" {
		t.Fatalf("fan=%+v", cfg.Fan)
	}
	if cfg.Fan.PWMChip != -1 || cfg.Fan.PWMChannel != -1 {
		t.Fatalf("pwm chip/channel=%d/%d want auto", cfg.Fan.PWMChip, cfg.Fan.PWMChannel)
	}
	if cfg.Control.Interval != 5*time.Second {
		t.Fatalf("interval=%s want 5s", cfg.Control.Interval)
	}
	if len(cfg.Control.Curve) != 0 {
		t.Fatalf("curve=%v want empty", cfg.Control.Curve)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Fan.Backend != "sysfs" || cfg.Control.Interval != 5*time.Second {
		t.Fatalf("cfg=%+v want defaults", cfg)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	body := strings.Join([]string{
		"fan:",
		"  backend: GPIO",
		"  gpio_pin: 14",
		"control:",
		"  interval: 2s",
		"  curve:",
		"    - {min_temp_c: 45, duty: 0.3}",
		"    - {min_temp_c: 65, duty: 1}",
		"",
	}, "\n")
	cfg, err := Load(writeTempConfig(t, body))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Fan.Backend != "gpio" || cfg.Fan.GPIOPin != 14 {
		t.Fatalf("fan=%+v", cfg.Fan)
	}
	// Untouched keys keep their defaults.
	if cfg.Fan.FrequencyHz != 25000 || cfg.Sensor.Source != "thermal_zone" {
		t.Fatalf("cfg=%+v want defaults kept", cfg)
	}
	if cfg.Control.Interval != 2*time.Second {
		t.Fatalf("interval=%s want 2s", cfg.Control.Interval)
	}
	want := []CurveStep{{MinTempC: 45, Duty: 0.3}, {MinTempC: 65, Duty: 1}}
	if len(cfg.Control.Curve) != len(want) {
		t.Fatalf("curve=%v want %v", cfg.Control.Curve, want)
	}
	for i := range want {
		if cfg.Control.Curve[i] != want[i] {
			t.Fatalf("curve[%d]=%v want %v", i, cfg.Control.Curve[i], want[i])
		}
	}
}

func TestLoad_HostSensor(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "sensor:\n  source: host\n  key: cpu_thermal_input\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sensor.Key != "cpu_thermal_input" {
		t.Fatalf("key=%q", cfg.Sensor.Key)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "UnknownSource",
			body: "sensor:\n  source: ipmi\n",
			want: "sensor.source must be one of: thermal_zone, host",
		},
		{
			name: "HostRequiresKey",
			body: "sensor:\n  source: host\n",
			want: "sensor.key is required when sensor.source is 'host'",
		},
		{
			name: "ThermalZoneRequiresPath",
			body: "sensor:\n  path: ''\n",
			want: "sensor.path is required when sensor.source is 'thermal_zone'",
		},
		{
			name: "UnknownBackend",
			body: "fan:\n  backend: relay\n",
			want: "fan.backend must be one of: sysfs, gpio, none",
		},
		{
			name: "BadChip",
			body: "fan:\n  pwm_chip: -2\n",
			want: "fan.pwm_chip must be >= 0 (or -1 for auto)",
		},
		{
			name: "BadChannel",
			body: "fan:\n  pwm_channel: -5\n",
			want: "fan.pwm_channel must be >= 0 (or -1 for auto)",
		},
		{
			name: "BadFrequency",
			body: "fan:\n  frequency_hz: 0\n",
			want: "fan.frequency_hz must be > 0",
		},
		{
			name: "BadPolarity",
			body: "fan:\n  polarity: reversed\n",
			want: "fan.polarity must be one of: normal, inversed",
		},
		{
			name: "BadGPIOPin",
			body: "fan:\n  gpio_pin: -1\n",
			want: "fan.gpio_pin must be > 0",
		},
		{
			name: "CurveDutyOutOfRange",
			body: "control:\n  curve:\n    - {min_temp_c: 50, duty: 1.2}\n",
			want: "control.curve[0].duty must be within [0, 1]",
		},
		{
			name: "CurveUnsorted",
			body: "control:\n  curve:\n    - {min_temp_c: 60, duty: 0.5}\n    - {min_temp_c: 55, duty: 0.7}\n",
			want: "control.curve[1].min_temp_c must be greater than 60",
		},
		{
			name: "CurveDutyDecreases",
			body: "control:\n  curve:\n    - {min_temp_c: 50, duty: 0.5}\n    - {min_temp_c: 60, duty: 0.2}\n",
			want: "control.curve[1].duty must not decrease",
		},
		{
			name: "CurveThresholdNotFinite",
			body: "control:\n  curve:\n    - {min_temp_c: .inf, duty: 1}\n",
			want: "control.curve[0].min_temp_c must be finite",
		},
		{
			name: "BadInterval",
			body: "control:\n  interval: 0s\n",
			want: "control.interval must be > 0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.body))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeTempConfig(t, "fan:\n  speed: 11\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err=%v want not-exist", err)
	}
}
