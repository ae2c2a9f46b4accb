package hardware

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"robotcar/config"
	"robotcar/fourwheeled"
	"robotcar/gyro"
	"robotcar/i2c"
	"robotcar/pca9685"
	"robotcar/servo"
	"robotcar/speech"
	"robotcar/vehicle"
)

// Robot holds every opened device of the car.
type Robot struct {
	Bus     *i2c.Bus
	PCA     *pca9685.PCA9685
	Drive   *fourwheeled.Drivetrain
	Head    *servo.Servo
	Ranges  *RangeSensors
	Sensors vehicle.Sensors
	Gyro    *gyro.Estimator
	Speaker *speech.Speaker
}

// Open brings up all devices on the configured I2C bus.
func Open(cfg config.Config) (*Robot, error) {
	hw := cfg.Hardware
	bus, err := i2c.Open(i2c.BusNumber(hw.I2CBus))
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %d: %w", hw.I2CBus, err)
	}
	r := &Robot{Bus: bus, Speaker: NewSpeaker(cfg.Speech)}
	fail := func(err error) (*Robot, error) {
		bus.Close()
		return nil, err
	}

	if r.PCA, err = NewPCA9685(bus, hw.PCA9685Address); err != nil {
		return fail(err)
	}
	r.Drive = NewDrivetrain(r.PCA, hw.Wheels)
	if r.Head, err = NewHead(r.PCA, hw.Servo); err != nil {
		return fail(err)
	}
	if r.Ranges, err = NewRangeSensors(bus, hw.RangeSensors); err != nil {
		return fail(err)
	}
	if r.Sensors, err = r.Ranges.VehicleSensors(hw.Ultrasonic); err != nil {
		return fail(err)
	}
	if r.Gyro, err = NewGyro(bus, hw.GyroAddress); err != nil {
		return fail(err)
	}
	log.WithField("bus", hw.I2CBus).Info("Hardware initialized")
	return r, nil
}

func (r *Robot) Parts() vehicle.Parts {
	return vehicle.Parts{
		Sensors: r.Sensors,
		Head:    r.Head,
		Drive:   r.Drive,
		Gyro:    r.Gyro,
		Speaker: r.Speaker,
	}
}

// Close stops the motors, centers the head and lets the last utterance
// finish before releasing the bus.
func (r *Robot) Close() error {
	r.Drive.Stop()
	r.Head.Aim(servo.CENTER)
	r.Speaker.Wait()
	return r.Bus.Close()
}
