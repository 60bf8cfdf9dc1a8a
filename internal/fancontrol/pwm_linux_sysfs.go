//go:build linux

package fancontrol

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// sysfsPWM drives a hardware PWM channel via /sys/class/pwm.
//
// Notes:
//   - On Raspberry Pi, GPIO18 must be routed to the PWM block, typically with
//     `dtoverlay=pwm-2chan` (Pi 3/4) or `dtoverlay=pwm-2chan,pin=18,func=2` (Pi 5).
//   - On Pi 5 the RP1 PWM block exposes GPIO18 as channel 2; earlier boards use
//     channel 0.
type sysfsPWM struct {
	chipPath string // /sys/class/pwm/pwmchipN
	pwmPath  string // /sys/class/pwm/pwmchipN/pwmM
	channel  int

	periodNS uint64
	exported bool // we exported the channel and should unexport it on Close
}

var pwmSysfsBase = "/sys/class/pwm"
var isRaspberryPi5Fn = isRaspberryPi5

// Window during which attribute writes are retried after export.
var sysfsRetryWindow = 2 * time.Second

// How long to wait for pwmN to appear after writing export.
var exportWaitWindow = 500 * time.Millisecond

func openPWM(cfg FanConfig) (Fan, error) {
	return openSysfsPWM(cfg)
}

func openSysfsPWM(cfg FanConfig) (*sysfsPWM, error) {
	if cfg.FrequencyHz <= 0 {
		return nil, fmt.Errorf("invalid frequency %d", cfg.FrequencyHz)
	}
	if cfg.Polarity != PolarityNormal && cfg.Polarity != PolarityInversed {
		return nil, fmt.Errorf("invalid polarity %q", cfg.Polarity)
	}

	chipPath, npwm, err := resolvePWMChip(cfg.PWMChip)
	if err != nil {
		return nil, err
	}
	channel := cfg.PWMChannel
	if channel < 0 {
		channel = defaultPWMChannel()
	}
	if channel >= npwm {
		return nil, fmt.Errorf("%s has %d channel(s), channel %d not available", chipPath, npwm, channel)
	}

	d := &sysfsPWM{
		chipPath: chipPath,
		channel:  channel,
		pwmPath:  filepath.Join(chipPath, fmt.Sprintf("pwm%d", channel)),
	}
	if err := d.ensureExported(); err != nil {
		return nil, err
	}
	if err := d.configure(cfg.FrequencyHz, cfg.Polarity); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func defaultPWMChannel() int {
	if isRaspberryPi5Fn() {
		return 2
	}
	return 0
}

func resolvePWMChip(chip int) (chipPath string, npwm int, err error) {
	if chip >= 0 {
		chipPath = filepath.Join(pwmSysfsBase, fmt.Sprintf("pwmchip%d", chip))
		n, err := readInt(filepath.Join(chipPath, "npwm"))
		if err != nil {
			return "", 0, fmt.Errorf("read %s npwm: %w", chipPath, err)
		}
		return chipPath, n, nil
	}
	return findPWMChip()
}

func findPWMChip() (chipPath string, npwm int, err error) {
	base := pwmSysfsBase
	entries, err := os.ReadDir(base)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", base, err)
	}

	// Prefer low-numbered chips; these are the SoC PWM blocks on a Pi.
	preferred := []string{"pwmchip0", "pwmchip1", "pwmchip2"}
	// Note: in sysfs, pwmchipN entries are commonly symlinks, not directories.
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "pwmchip") {
			seen[name] = true
		}
	}
	candidates := make([]string, 0, len(entries))
	for _, name := range preferred {
		if seen[name] {
			candidates = append(candidates, name)
		}
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "pwmchip") && !slices.Contains(candidates, name) {
			candidates = append(candidates, name)
		}
	}

	for _, name := range candidates {
		chip := filepath.Join(base, name)
		n, rerr := readInt(filepath.Join(chip, "npwm"))
		if rerr != nil || n <= 0 {
			continue
		}
		return chip, n, nil
	}

	return "", 0, fmt.Errorf("no sysfs pwmchip found (is the pwm overlay enabled?)")
}

func (d *sysfsPWM) ensureExported() error {
	if _, err := os.Stat(d.pwmPath); err == nil {
		return nil
	}
	exportPath := filepath.Join(d.chipPath, "export")
	if err := writeSysfs(exportPath, strconv.Itoa(d.channel)); err != nil {
		// Someone else exported it in the meantime.
		if _, statErr := os.Stat(d.pwmPath); statErr == nil {
			return nil
		}
		return fmt.Errorf("export pwm%d: %w", d.channel, err)
	}
	d.exported = true

	// Wait briefly for sysfs node to appear.
	deadline := time.Now().Add(exportWaitWindow)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(d.pwmPath); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := os.Stat(d.pwmPath); err != nil {
		// Don't leave behind a channel we exported but cannot use.
		_ = writeSysfsOnce(filepath.Join(d.chipPath, "unexport"), strconv.Itoa(d.channel))
		d.exported = false
		return fmt.Errorf("pwm path not created after export: %w", err)
	}
	return nil
}

// configure leaves the channel enabled at the given frequency and polarity
// with duty 0.
func (d *sysfsPWM) configure(hz int, pol Polarity) error {
	periodNS := uint64(1_000_000_000 / hz)
	if periodNS == 0 {
		periodNS = 1
	}

	// Period, polarity and duty are only writable while disabled, and the
	// kernel rejects a period shorter than the current duty.
	if err := d.writeBool("enable", false); err != nil {
		return fmt.Errorf("disable pwm: %w", err)
	}
	if err := d.writeUint("duty_cycle", 0); err != nil {
		return fmt.Errorf("set duty: %w", err)
	}
	if err := d.writeUint("period", periodNS); err != nil {
		return fmt.Errorf("set period: %w", err)
	}
	d.periodNS = periodNS
	if err := writeSysfs(filepath.Join(d.pwmPath, "polarity"), string(pol)); err != nil {
		return fmt.Errorf("set polarity: %w", err)
	}
	if err := d.writeBool("enable", true); err != nil {
		return fmt.Errorf("enable pwm: %w", err)
	}
	return nil
}

func (d *sysfsPWM) SetDutyCycle(duty float64) error {
	duty = clamp(duty, 0, 1)
	ns := uint64(math.Round(float64(d.periodNS) * duty))
	if ns > d.periodNS {
		ns = d.periodNS
	}
	return d.writeUint("duty_cycle", ns)
}

// Close disables the output and releases the channel if we exported it.
func (d *sysfsPWM) Close() error {
	err := d.writeBool("enable", false)
	if d.exported {
		if uerr := writeSysfs(filepath.Join(d.chipPath, "unexport"), strconv.Itoa(d.channel)); uerr != nil {
			err = errors.Join(err, uerr)
		}
		d.exported = false
	}
	return err
}

func (d *sysfsPWM) writeUint(name string, v uint64) error {
	p := filepath.Join(d.pwmPath, name)
	return writeSysfs(p, strconv.FormatUint(v, 10))
}

func (d *sysfsPWM) writeBool(name string, v bool) error {
	p := filepath.Join(d.pwmPath, name)
	val := "0"
	if v {
		val = "1"
	}
	return writeSysfs(p, val)
}

func writeSysfs(path string, value string) error {
	// O_WRONLY without O_TRUNC/O_CREATE: some sysfs attributes reject
	// truncation even when mode bits allow writes. Right after export udev may
	// still be adjusting permissions, so EACCES/ENOENT are retried for a while.
	deadline := time.Now().Add(sysfsRetryWindow)
	for {
		err := writeSysfsOnce(path, value)
		if err == nil {
			return nil
		}
		if time.Now().Before(deadline) && isRetryableSysfsErr(err) {
			time.Sleep(25 * time.Millisecond)
			continue
		}
		return err
	}
}

func writeSysfsOnce(path string, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(value)
	cerr := f.Close()
	if werr != nil && cerr != nil {
		return errors.Join(werr, cerr)
	}
	if werr != nil {
		return werr
	}
	return cerr
}

func isRetryableSysfsErr(err error) bool {
	return errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.ENOENT)
}

func readInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.Atoi(s)
}
