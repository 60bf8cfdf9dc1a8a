//go:build !linux

package fancontrol

import "fmt"

func openPWM(cfg FanConfig) (Fan, error) {
	return nil, fmt.Errorf("sysfs pwm unsupported on this platform")
}
