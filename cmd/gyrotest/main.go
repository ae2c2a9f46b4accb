package main

import (
	"bufio"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"robotcar/config"
	"robotcar/hardware"
	"robotcar/i2c"
)

func main() {
	configDir := pflag.String("config", ".", "directory containing robotcar.yaml")
	rounds := pflag.Int("rounds", 5, "number of measured turns")
	window := pflag.Duration("window", 2*time.Second, "length of one measurement")
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
	estimator, err := hardware.NewGyro(bus, cfg.Hardware.GyroAddress)
	if err != nil {
		log.Fatal("Can not initialize gyro: ", err)
	}

	const dt = 100 * time.Millisecond
	stdin := bufio.NewReader(os.Stdin)
	for i := 0; i < *rounds; i++ {
		log.Print("Hit enter when ready to turn and start turning.")
		if _, err := stdin.ReadString('\n'); err != nil {
			return
		}
		estimator.Calibrate()
		estimator.Reset()
		log.Printf("Bias: %.2f", estimator.Bias())
		for elapsed := time.Duration(0); elapsed < *window; elapsed += dt {
			time.Sleep(dt)
			estimator.Integrate(dt)
		}
		log.Printf("Stop turning. Turned by %.1f degrees", estimator.Rotation())
	}
}
