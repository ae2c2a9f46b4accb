package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"robotcar/config"
	"robotcar/hardware"
	"robotcar/i2c"
	"robotcar/ina219"
	"robotcar/logging"
	"robotcar/remote"
	"robotcar/streamer"
	"robotcar/ups"
	"robotcar/vehicle"
)

func main() {
	configDir := pflag.String("config", ".", "directory containing robotcar.yaml")
	pflag.String("mode", config.ModeAutonomous, "driving mode: autonomous or voice")
	pflag.Int("speed", 58, "drive speed in percent")
	pflag.Int("ticks", 500, "number of control ticks to run, 0 runs until stopped")
	pflag.String("log-level", "info", "log level")
	pflag.String("log-format", "text", "log format: text or json")
	pflag.Bool("no-speech", false, "log utterances instead of speaking them")
	pflag.String("address", ":1337", "remote control websocket address")
	pflag.Parse()

	cfg, err := config.LoadWithFlags(*configDir, pflag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err == nil {
			log.Info("Enter pressed, stopping")
			stop()
		}
	}()

	robot, err := hardware.Open(cfg)
	if err != nil {
		log.Fatal("Could not initialize hardware: ", err)
	}
	defer robot.Close()

	telemetry := streamer.NewStreamer[remote.Telemetry](64)
	go telemetry.Run()
	defer telemetry.Stop()

	car := vehicle.New(hardware.NavigationConfig(cfg), robot.Parts(),
		vehicle.WithEvents(func(e vehicle.Event) {
			telemetry.Broadcast(remote.EventMessage(e))
		}))

	var wg sync.WaitGroup
	defer wg.Wait()

	if cfg.Battery.Enabled {
		battery, err := openBattery(cfg.Battery, robot.Bus, cfg.Hardware.I2CBus)
		if err != nil {
			log.WithError(err).Warn("Battery monitor is not available")
		} else {
			battery.OnStatus(func(status ups.UpsModuleStatus) {
				telemetry.Broadcast(remote.BatteryMessage(status))
			})
			wg.Add(1)
			go func() {
				defer wg.Done()
				battery.Run(ctx, cfg.Battery.RefreshPeriod)
			}()
		}
	}

	if cfg.Server.Enabled {
		server := remote.NewServer(car, telemetry)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.ListenAndServe(ctx, cfg.Server.Address); err != nil {
				log.WithError(err).Error("Remote control server failed")
			}
		}()
	}

	log.WithFields(log.Fields{"mode": cfg.Mode, "ticks": cfg.Ticks}).Info("Car starts")
	run(ctx, car, cfg.Mode, cfg.Ticks)
	stop()
	car.Stop()
	log.Info("Car stopped")
}

// run drives the control loop on the calling goroutine until ctx is done
// or ticks have passed.
func run(ctx context.Context, car *vehicle.Car, mode string, ticks int) {
	step := car.MovingStepForward
	if mode == config.ModeVoice {
		step = car.FollowVoiceCommands
	}
	for tick := 0; ticks <= 0 || tick < ticks; tick++ {
		if ctx.Err() != nil {
			return
		}
		step()
	}
}

// openBattery reuses the car's bus when the UPS sits on the same one.
func openBattery(cfg config.Battery, carBus *i2c.Bus, carBusNumber int) (*ups.UpsModule3S, error) {
	bus := carBus
	if cfg.I2CBus != carBusNumber {
		var err error
		if bus, err = i2c.Open(i2c.BusNumber(cfg.I2CBus)); err != nil {
			return nil, err
		}
	}
	monitor, err := ina219.New(bus, uint8(cfg.Address))
	if err != nil {
		return nil, err
	}
	return ups.NewUpsModule3S(monitor), nil
}
