package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"pifan/internal/config"
	"pifan/internal/fancontrol"
)

var openFanFn = fancontrol.OpenFan

func run(ctx context.Context, cfg config.Config, once bool, out io.Writer) error {
	curve, err := buildCurve(cfg.Control.Curve)
	if err != nil {
		return err
	}
	sensor := buildSensor(cfg.Sensor)

	fan, err := openFanFn(fancontrol.FanConfig{
		Backend:     cfg.Fan.Backend,
		PWMChip:     cfg.Fan.PWMChip,
		PWMChannel:  cfg.Fan.PWMChannel,
		FrequencyHz: cfg.Fan.FrequencyHz,
		Polarity:    fancontrol.Polarity(cfg.Fan.Polarity),
		GPIOPin:     cfg.Fan.GPIOPin,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := fan.Close(); err != nil {
			log.Printf("fan close failed: %v", err)
		}
	}()

	ctl := fancontrol.New(sensor, fan, fancontrol.Config{
		Curve:    curve,
		Interval: cfg.Control.Interval,
		Out:      out,
	})

	if once {
		_, err := ctl.Step()
		return err
	}

	log.Printf("pifan starting sensor=%s backend=%s interval=%s", cfg.Sensor.Source, cfg.Fan.Backend, cfg.Control.Interval)
	if err := ctl.Run(ctx); err != nil {
		return err
	}
	log.Printf("pifan stopping")
	return nil
}

func buildSensor(c config.SensorConfig) fancontrol.Sensor {
	if c.Source == "host" {
		return fancontrol.NewHostSensor(c.Key)
	}
	return fancontrol.NewThermalZone(c.Path)
}

func buildCurve(steps []config.CurveStep) (fancontrol.Curve, error) {
	if len(steps) == 0 {
		return fancontrol.DefaultCurve(), nil
	}
	fs := make([]fancontrol.Step, 0, len(steps))
	for _, s := range steps {
		fs = append(fs, fancontrol.Step{MinC: s.MinTempC, Duty: s.Duty})
	}
	curve, err := fancontrol.NewCurve(fs)
	if err != nil {
		return fancontrol.Curve{}, fmt.Errorf("control.curve: %w", err)
	}
	return curve, nil
}
