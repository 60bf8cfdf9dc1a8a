//go:build linux

package fancontrol

import (
	"os"
	"strings"
)

var deviceTreeModelPaths = []string{
	"/sys/firmware/devicetree/base/model",
	"/proc/device-tree/model",
}

func isRaspberryPi5() bool {
	for _, p := range deviceTreeModelPaths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		model := strings.Trim(strings.TrimSpace(string(b)), "\x00")
		if strings.Contains(model, "Raspberry Pi 5") {
			return true
		}
	}
	return false
}
