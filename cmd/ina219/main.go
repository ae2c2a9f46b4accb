package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"robotcar/config"
	"robotcar/i2c"
	"robotcar/ina219"
	"robotcar/ups"
)

func main() {
	configDir := pflag.String("config", ".", "directory containing robotcar.yaml")
	pflag.Parse()

	cfg, err := config.LoadWithFlags(*configDir, pflag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	bus, err := i2c.Open(i2c.BusNumber(cfg.Battery.I2CBus))
	if err != nil {
		log.Fatal("Can not open i2c bus ", cfg.Battery.I2CBus)
	}
	defer bus.Close()
	monitor, err := ina219.New(bus, uint8(cfg.Battery.Address))
	if err != nil {
		log.Fatal("Can not initialize ina219: ", err)
	}

	module := ups.NewUpsModule3S(monitor)
	module.OnStatus(func(s ups.UpsModuleStatus) {
		log.Printf("3S: %.3f V", s.BatteryVoltage)
		log.Printf("1S: %.3f V", s.CellVoltage)
		log.Printf("Current: %.3f A", -s.Current)
		log.Printf("Power: %.3f W", s.Power)
		log.Printf("Charge: %d%%", int(s.ChargePercents))
		log.Print("**********")
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	module.Run(ctx, time.Second)
}
