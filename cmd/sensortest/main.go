package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"robotcar/config"
	"robotcar/hardware"
	"robotcar/i2c"
	"robotcar/logging"
	"robotcar/servo"
	"robotcar/vehicle"
)

type nullDrive struct{}

func (nullDrive) Stop()         {}
func (nullDrive) Forward(int)   {}
func (nullDrive) Backward(int)  {}
func (nullDrive) SpinLeft(int)  {}
func (nullDrive) SpinRight(int) {}

type nullGyro struct{}

func (nullGyro) Calibrate()                      {}
func (nullGyro) Reset()                          {}
func (nullGyro) Integrate(time.Duration) float64 { return 0 }

func main() {
	configDir := pflag.String("config", ".", "directory containing robotcar.yaml")
	repeat := pflag.Int("repeat", 5, "readings per sensor")
	pflag.Parse()

	cfg, err := config.LoadWithFlags(*configDir, pflag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup("debug", cfg.LogFormat); err != nil {
		log.Fatal(err)
	}

	bus, err := i2c.Open(i2c.BusNumber(cfg.Hardware.I2CBus))
	if err != nil {
		log.Fatal("Can not open i2c bus ", cfg.Hardware.I2CBus)
	}
	defer bus.Close()

	ranges, err := hardware.NewRangeSensors(bus, cfg.Hardware.RangeSensors)
	if err != nil {
		log.Fatal("Can not initialize range sensors: ", err)
	}
	sensors, err := ranges.VehicleSensors(cfg.Hardware.Ultrasonic)
	if err != nil {
		log.Fatal("Can not initialize floor sensor: ", err)
	}

	for _, s := range []struct {
		name   string
		sensor vehicle.DistanceSensor
	}{
		{"Left", sensors.Left},
		{"Right", sensors.Right},
		{"Forward", sensors.Forward},
		{"Floor", sensors.Floor},
	} {
		for i := 0; i < *repeat; i++ {
			log.Printf("%s distance: %d cm", s.name, s.sensor.DistanceCm())
			time.Sleep(time.Second)
		}
	}

	pca, err := hardware.NewPCA9685(bus, cfg.Hardware.PCA9685Address)
	if err != nil {
		log.Fatal("Can not initialize pca9685: ", err)
	}
	head, err := hardware.NewHead(pca, cfg.Hardware.Servo)
	if err != nil {
		log.Fatal("Can not initialize servo: ", err)
	}
	defer head.Aim(servo.CENTER)

	speaker := hardware.NewSpeaker(cfg.Speech)
	defer speaker.Wait()
	car := vehicle.New(hardware.NavigationConfig(cfg), vehicle.Parts{
		Sensors: sensors,
		Head:    head,
		Drive:   nullDrive{},
		Gyro:    nullGyro{},
		Speaker: speaker,
	})
	for i := 0; i < *repeat; i++ {
		log.Printf("Floor distance: %d cm, road clear: %t", sensors.Floor.DistanceCm(), car.IsRoadClear())
		time.Sleep(time.Second)
	}
}
