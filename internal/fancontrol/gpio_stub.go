//go:build !linux

package fancontrol

import "fmt"

// Stub implementation for non-Linux platforms.
func openGPIO(pin int) (Fan, error) {
	return nil, fmt.Errorf("gpio unsupported on this platform")
}
