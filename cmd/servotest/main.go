package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"robotcar/config"
	"robotcar/hardware"
	"robotcar/i2c"
)

func main() {
	configDir := pflag.String("config", ".", "directory containing robotcar.yaml")
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
	head, err := hardware.NewHead(pca, cfg.Hardware.Servo)
	if err != nil {
		log.Fatal("Can not initialize servo: ", err)
	}

	log.Print("Moving servo")
	for _, angle := range []int{0, 90, 180, 90} {
		log.Printf("Angle: %d", angle)
		head.Aim(angle)
		time.Sleep(2 * time.Second)
	}
}
