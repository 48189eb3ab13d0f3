package probes

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// TemperatureProbe reports the sensor count and, per sensor, the current
// reading in Celsius.
type TemperatureProbe struct{}

func (TemperatureProbe) Name() string { return "temperature" }

func (TemperatureProbe) Collect(ctx context.Context) ([]Sample, error) {
	temps, err := sensors.TemperaturesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "temperature sensors")
	}

	samples := make([]Sample, 0, 2*len(temps)+1)
	samples = append(samples, sysinfoSample("temperature_sensor_count", formatInt(len(temps))))
	for i, t := range temps {
		samples = append(samples,
			sysinfoSample(fmt.Sprintf("temperature_sensor_%d_name", i), t.SensorKey),
			sysinfoSample(fmt.Sprintf("temperature_sensor_%d_celsius", i), formatFloat(t.Temperature)),
		)
	}

	return samples, nil
}
