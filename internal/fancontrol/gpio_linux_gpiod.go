//go:build linux

package fancontrol

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// gpiodFan switches a 2-wire fan through a transistor/MOSFET on a BCM GPIO
// using the Linux GPIO character device. Any duty > 0 turns the fan on.
type gpiodFan struct {
	line *gpiocdev.Line
}

func openGPIO(pin int) (Fan, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("invalid gpio pin %d", pin)
	}

	// On Pi, line names are "GPIO18" etc. regardless of which gpiochip
	// carries the header (gpiochip0 on most boards, gpiochip4 on early Pi 5 kernels).
	lineName := fmt.Sprintf("GPIO%d", pin)
	chip, offset, err := gpiocdev.FindLine(lineName)
	if err != nil {
		return nil, fmt.Errorf("gpio line %q not found: %w", lineName, err)
	}
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("pifan"))
	if err != nil {
		return nil, fmt.Errorf("request gpio line %q on %s: %w", lineName, chip, err)
	}
	return &gpiodFan{line: line}, nil
}

func (g *gpiodFan) SetDutyCycle(duty float64) error {
	if g == nil || g.line == nil {
		return fmt.Errorf("gpio fan not initialized")
	}
	v := 0
	if duty > 0 {
		v = 1
	}
	return g.line.SetValue(v)
}

func (g *gpiodFan) Close() error {
	if g == nil || g.line == nil {
		return nil
	}
	_ = g.line.SetValue(0)
	err := g.line.Close()
	g.line = nil
	return err
}
