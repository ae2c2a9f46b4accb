// Package hardware assembles the drivers into the parts the vehicle needs,
// following the pin and address layout from the configuration.
package hardware

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"robotcar/config"
	"robotcar/fourwheeled"
	"robotcar/gpio"
	"robotcar/gyro"
	"robotcar/hcsr04"
	"robotcar/i2c"
	"robotcar/lsm6dsox"
	"robotcar/pca9685"
	"robotcar/pwm"
	"robotcar/servo"
	"robotcar/speech"
	"robotcar/ttmotor"
	"robotcar/vehicle"
	"robotcar/vl53l0x"
)

const (
	PWM_FREQUENCY = 50
	PWM_PERIOD    = time.Second / PWM_FREQUENCY
)

// NewPCA9685 resets the board and sets the 50Hz servo frequency shared by
// the head servo and the motor channels.
func NewPCA9685(bus i2c.Conn, address int) (*pca9685.PCA9685, error) {
	pca, err := pca9685.New(bus, uint8(address))
	if err != nil {
		return nil, err
	}
	if err := pca.SetFrequency(PWM_FREQUENCY); err != nil {
		return nil, fmt.Errorf("pca9685 frequency: %w", err)
	}
	return pca, nil
}

func newMotor(pca *pca9685.PCA9685, w config.Wheel) *ttmotor.Motor {
	return ttmotor.New(pca.Channel(w.Speed), pca.Channel(w.Forward), pca.Channel(w.Backward))
}

func NewDrivetrain(pca *pca9685.PCA9685, wheels config.Wheels) *fourwheeled.Drivetrain {
	return &fourwheeled.Drivetrain{
		LeftFront:  newMotor(pca, wheels.LeftFront),
		LeftBack:   newMotor(pca, wheels.LeftBack),
		RightFront: newMotor(pca, wheels.RightFront),
		RightBack:  newMotor(pca, wheels.RightBack),
	}
}

// NewHead drives the head servo from a PCA9685 channel or, with output
// "pwm", from a sysfs hardware PWM.
func NewHead(pca *pca9685.PCA9685, cfg config.Servo) (*servo.Servo, error) {
	switch cfg.Output {
	case "", "pca9685":
		return servo.New(pca.Channel(cfg.Channel)), nil
	case "pwm":
		out := pwm.NewPWM(cfg.PWMChip, cfg.PWMChannel)
		if err := out.Setup(PWM_PERIOD, pwm.PolarityNormal); err != nil {
			return nil, err
		}
		return servo.New(out), nil
	}
	return nil, fmt.Errorf("unknown servo output %q", cfg.Output)
}

// RangeSensors are the four VL53L0X sensors by position.
type RangeSensors struct {
	Right   *vl53l0x.Sensor
	Left    *vl53l0x.Sensor
	Forward *vl53l0x.Sensor
	Floor   *vl53l0x.Sensor
}

var exportXShut = func(number gpio.Number) (vl53l0x.Shutdown, error) {
	return gpio.Export(number)
}

// NewRangeSensors readdresses the sensors through their XSHUT lines, in
// the order right, left, forward, floor.
func NewRangeSensors(bus i2c.Conn, cfg config.RangeSensors) (*RangeSensors, error) {
	positions := []struct {
		name string
		cfg  config.RangeSensor
	}{
		{"right", cfg.Right},
		{"left", cfg.Left},
		{"forward", cfg.Forward},
		{"floor", cfg.Floor},
	}
	placements := make([]vl53l0x.Placement, 0, len(positions))
	for _, p := range positions {
		xshut, err := exportXShut(gpio.Number(p.cfg.XShut))
		if err != nil {
			return nil, fmt.Errorf("%s sensor xshut: %w", p.name, err)
		}
		placements = append(placements, vl53l0x.Placement{
			Name:    p.name,
			XShut:   xshut,
			Address: uint8(p.cfg.Address),
		})
	}
	sensors, err := vl53l0x.Chain(bus, placements, cfg.LongRange, time.Sleep)
	if err != nil {
		return nil, err
	}
	return &RangeSensors{
		Right:   sensors[0],
		Left:    sensors[1],
		Forward: sensors[2],
		Floor:   sensors[3],
	}, nil
}

// VehicleSensors picks the floor sensor: the HC-SR04 when enabled,
// the downward VL53L0X otherwise.
func (r *RangeSensors) VehicleSensors(ultrasonic config.Ultrasonic) (vehicle.Sensors, error) {
	sensors := vehicle.Sensors{
		Left:    r.Left,
		Right:   r.Right,
		Forward: r.Forward,
		Floor:   r.Floor,
	}
	if ultrasonic.Enabled {
		floor, err := hcsr04.Open("floor", ultrasonic.Echo, ultrasonic.Trigger)
		if err != nil {
			return sensors, err
		}
		log.WithFields(log.Fields{"echo": ultrasonic.Echo, "trigger": ultrasonic.Trigger}).Info("Using ultrasonic floor sensor")
		sensors.Floor = floor
	}
	return sensors, nil
}

func NewGyro(bus i2c.Conn, address int) (*gyro.Estimator, error) {
	imu := lsm6dsox.New(bus, uint8(address))
	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("lsm6dsox at %#02x: %w", address, err)
	}
	return gyro.NewEstimator(imu, lsm6dsox.GYRO_DPS_PER_LSB), nil
}

func NewSpeaker(cfg config.Speech) *speech.Speaker {
	return speech.New(speech.Voice{
		Name:     cfg.Voice,
		Volume:   cfg.Volume,
		WordGap:  cfg.WordGap,
		Rate:     cfg.Rate,
		Program:  cfg.Program,
		Disabled: cfg.Disabled,
	})
}

func NavigationConfig(cfg config.Config) vehicle.Config {
	nav := vehicle.DefaultConfig()
	nav.ClearanceCm = cfg.Navigation.ClearanceCm
	nav.FloorDropCm = cfg.Navigation.FloorDropCm
	nav.Speed = vehicle.SpeedLevel(cfg.Speed)
	nav.TurnSpeed = cfg.Navigation.TurnSpeed
	nav.BackUpTime = cfg.Navigation.BackUpTime
	nav.TurnRounds = cfg.Navigation.TurnRounds
	nav.TurnTimeout = cfg.Navigation.TurnTimeout
	nav.BackwardTime = cfg.Navigation.BackwardTime
	nav.StepTick = cfg.Navigation.StepTick
	nav.VoiceTick = cfg.Navigation.VoiceTick
	return nav
}
