package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"robotcar/config"
	"robotcar/hardware"
	"robotcar/i2c"
	"robotcar/vehicle"
)

func main() {
	configDir := pflag.String("config", ".", "directory containing robotcar.yaml")
	pflag.Int("speed", 58, "drive speed in percent")
	duration := pflag.Duration("duration", 2*time.Second, "time to drive each way")
	pflag.Parse()

	cfg, err := config.LoadWithFlags(*configDir, pflag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	bus, err := i2c.Open(i2c.BusNumber(cfg.Hardware.I2CBus))
	if err != nil {
		log.Fatal("Can not open i2c bus ", cfg.Hardware.I2CBus)
	}
	defer bus.Close()
	pca, err := hardware.NewPCA9685(bus, cfg.Hardware.PCA9685Address)
	if err != nil {
		log.Fatal("Can not initialize pca9685: ", err)
	}
	drive := hardware.NewDrivetrain(pca, cfg.Hardware.Wheels)
	defer drive.Stop()

	speed := vehicle.SpeedLevel(cfg.Speed)
	log.Printf("Speed: %d%% (level %d)", cfg.Speed, speed)

	log.Print("The car should be moving forward")
	drive.Forward(speed)
	time.Sleep(*duration)
	log.Print("The car should be moving backward")
	drive.Backward(speed)
	time.Sleep(*duration)
	log.Print("The car should be spinning left")
	drive.SpinLeft(speed)
	time.Sleep(*duration)
	log.Print("The car should be spinning right")
	drive.SpinRight(speed)
	time.Sleep(*duration)
}
