// Package gyro turns a yaw rate sensor into an accumulated rotation by
// dead-reckoning. Rotation is positive to the left.
package gyro

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type RateSensor interface {
	YawRate() (int16, error)
}

const (
	CALIBRATION_SAMPLES  = 10
	CALIBRATION_INTERVAL = 10 * time.Millisecond
)

type Estimator struct {
	sensor    RateSensor
	dpsPerLSB float64
	bias      float64
	rotation  float64
	sleep     func(time.Duration)
}

func NewEstimator(sensor RateSensor, dpsPerLSB float64) *Estimator {
	return &Estimator{
		sensor:    sensor,
		dpsPerLSB: dpsPerLSB,
		sleep:     time.Sleep,
	}
}

// WithSleep replaces the calibration delay, so simulations do not block.
func (e *Estimator) WithSleep(sleep func(time.Duration)) *Estimator {
	e.sleep = sleep
	return e
}

// Calibrate averages the raw rate while the vehicle is at rest and uses it as
// the zero point. It blocks for CALIBRATION_SAMPLES*CALIBRATION_INTERVAL.
func (e *Estimator) Calibrate() {
	var sum float64
	count := 0
	for i := 0; i < CALIBRATION_SAMPLES; i++ {
		raw, err := e.sensor.YawRate()
		if err != nil {
			log.WithError(err).Warn("Could not read gyro during calibration")
		} else {
			sum += float64(raw)
			count++
		}
		e.sleep(CALIBRATION_INTERVAL)
	}
	if count > 0 {
		e.bias = sum / float64(count)
	}
	log.WithField("bias", e.bias).Debug("Gyro calibrated")
}

func (e *Estimator) Reset() {
	e.rotation = 0
}

// Integrate treats the current rate as constant over elapsed and adds the
// resulting angle. A failed read contributes nothing.
func (e *Estimator) Integrate(elapsed time.Duration) float64 {
	raw, err := e.sensor.YawRate()
	if err != nil {
		log.WithError(err).Warn("Could not read gyro")
		return e.rotation
	}
	rate := (float64(raw) - e.bias) * e.dpsPerLSB
	e.rotation += rate * elapsed.Seconds()
	return e.rotation
}

func (e *Estimator) Rotation() float64 {
	return e.rotation
}

func (e *Estimator) Bias() float64 {
	return e.bias
}
