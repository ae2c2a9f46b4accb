package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ModeAutonomous = "autonomous"
	ModeVoice      = "voice"
)

// Navigation tunes the driving core.
type Navigation struct {
	ClearanceCm  int           `mapstructure:"clearanceCm"`
	FloorDropCm  int           `mapstructure:"floorDropCm"`
	TurnSpeed    int           `mapstructure:"turnSpeed"`
	BackUpTime   time.Duration `mapstructure:"backUpTime"`
	TurnRounds   int           `mapstructure:"turnRounds"`
	TurnTimeout  time.Duration `mapstructure:"turnTimeout"`
	BackwardTime time.Duration `mapstructure:"backwardTime"`
	StepTick     time.Duration `mapstructure:"stepTick"`
	VoiceTick    time.Duration `mapstructure:"voiceTick"`
}

// Wheel lists the PCA9685 channels driving one TT motor.
type Wheel struct {
	Speed    int `mapstructure:"speed"`
	Forward  int `mapstructure:"forward"`
	Backward int `mapstructure:"backward"`
}

type Wheels struct {
	LeftFront  Wheel `mapstructure:"leftFront"`
	LeftBack   Wheel `mapstructure:"leftBack"`
	RightFront Wheel `mapstructure:"rightFront"`
	RightBack  Wheel `mapstructure:"rightBack"`
}

// RangeSensor places one VL53L0X: its XSHUT gpio and the address it gets.
type RangeSensor struct {
	XShut   int `mapstructure:"xshut"`
	Address int `mapstructure:"address"`
}

type RangeSensors struct {
	LongRange bool        `mapstructure:"longRange"`
	Right     RangeSensor `mapstructure:"right"`
	Left      RangeSensor `mapstructure:"left"`
	Forward   RangeSensor `mapstructure:"forward"`
	Floor     RangeSensor `mapstructure:"floor"`
}

// Ultrasonic is the optional HC-SR04 floor sensor, pins by periph name.
type Ultrasonic struct {
	Enabled bool   `mapstructure:"enabled"`
	Echo    string `mapstructure:"echo"`
	Trigger string `mapstructure:"trigger"`
}

// Servo selects the head servo output: "pca9685" or "pwm".
type Servo struct {
	Output     string `mapstructure:"output"`
	Channel    int    `mapstructure:"channel"`
	PWMChip    int    `mapstructure:"pwmChip"`
	PWMChannel int    `mapstructure:"pwmChannel"`
}

type Hardware struct {
	I2CBus         int          `mapstructure:"i2cBus"`
	PCA9685Address int          `mapstructure:"pca9685Address"`
	GyroAddress    int          `mapstructure:"gyroAddress"`
	Wheels         Wheels       `mapstructure:"wheels"`
	Servo          Servo        `mapstructure:"servo"`
	RangeSensors   RangeSensors `mapstructure:"rangeSensors"`
	Ultrasonic     Ultrasonic   `mapstructure:"ultrasonic"`
}

type Speech struct {
	Disabled bool   `mapstructure:"disabled"`
	Program  string `mapstructure:"program"`
	Voice    string `mapstructure:"voice"`
	Volume   int    `mapstructure:"volume"`
	WordGap  int    `mapstructure:"wordGap"`
	Rate     int    `mapstructure:"rate"`
}

type Server struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type Battery struct {
	Enabled       bool          `mapstructure:"enabled"`
	I2CBus        int           `mapstructure:"i2cBus"`
	Address       int           `mapstructure:"address"`
	RefreshPeriod time.Duration `mapstructure:"refreshPeriod"`
}

type Config struct {
	LogLevel   string     `mapstructure:"logLevel"`
	LogFormat  string     `mapstructure:"logFormat"`
	Mode       string     `mapstructure:"mode"`
	Ticks      int        `mapstructure:"ticks"`
	Speed      int        `mapstructure:"speed"`
	Navigation Navigation `mapstructure:"navigation"`
	Hardware   Hardware   `mapstructure:"hardware"`
	Speech     Speech     `mapstructure:"speech"`
	Server     Server     `mapstructure:"server"`
	Battery    Battery    `mapstructure:"battery"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFormat", "text")
	viper.SetDefault("mode", ModeAutonomous)
	viper.SetDefault("ticks", 500)
	viper.SetDefault("speed", 58)

	viper.SetDefault("navigation.clearanceCm", 30)
	viper.SetDefault("navigation.floorDropCm", 18)
	viper.SetDefault("navigation.turnSpeed", 10)
	viper.SetDefault("navigation.backUpTime", "200ms")
	viper.SetDefault("navigation.turnRounds", 50)
	viper.SetDefault("navigation.turnTimeout", "3s")
	viper.SetDefault("navigation.backwardTime", "2s")
	viper.SetDefault("navigation.stepTick", "100ms")
	viper.SetDefault("navigation.voiceTick", "250ms")

	viper.SetDefault("hardware.i2cBus", 1)
	viper.SetDefault("hardware.pca9685Address", 0x40)
	viper.SetDefault("hardware.gyroAddress", 0x6A)
	setWheelDefaults("leftFront", 6, 7, 8)
	setWheelDefaults("rightFront", 11, 10, 9)
	setWheelDefaults("leftBack", 0, 1, 2)
	setWheelDefaults("rightBack", 5, 4, 3)
	viper.SetDefault("hardware.servo.output", "pca9685")
	viper.SetDefault("hardware.servo.channel", 15)
	viper.SetDefault("hardware.servo.pwmChip", 0)
	viper.SetDefault("hardware.servo.pwmChannel", 0)
	viper.SetDefault("hardware.rangeSensors.longRange", false)
	setRangeSensorDefaults("right", 17, 0x31)
	setRangeSensorDefaults("left", 27, 0x32)
	setRangeSensorDefaults("forward", 22, 0x33)
	setRangeSensorDefaults("floor", 23, 0x34)
	viper.SetDefault("hardware.ultrasonic.enabled", false)
	viper.SetDefault("hardware.ultrasonic.echo", "GPIO24")
	viper.SetDefault("hardware.ultrasonic.trigger", "GPIO25")

	viper.SetDefault("speech.disabled", false)
	viper.SetDefault("speech.program", "espeak-ng")
	viper.SetDefault("speech.voice", "mb-us1")
	viper.SetDefault("speech.volume", 200)
	viper.SetDefault("speech.wordGap", 5)
	viper.SetDefault("speech.rate", 150)

	viper.SetDefault("server.enabled", true)
	viper.SetDefault("server.address", ":1337")

	viper.SetDefault("battery.enabled", false)
	viper.SetDefault("battery.i2cBus", 1)
	viper.SetDefault("battery.address", 0x41)
	viper.SetDefault("battery.refreshPeriod", "1s")
}

func setWheelDefaults(wheel string, speed, forward, backward int) {
	viper.SetDefault("hardware.wheels."+wheel+".speed", speed)
	viper.SetDefault("hardware.wheels."+wheel+".forward", forward)
	viper.SetDefault("hardware.wheels."+wheel+".backward", backward)
}

func setRangeSensorDefaults(sensor string, xshut, address int) {
	viper.SetDefault("hardware.rangeSensors."+sensor+".xshut", xshut)
	viper.SetDefault("hardware.rangeSensors."+sensor+".address", address)
}

// Load sets the defaults and reads robotcar.yaml from configDir when it
// exists. Environment variables prefixed ROBOTCAR_ override both, with
// dots replaced by underscores (ROBOTCAR_NAVIGATION_CLEARANCECM).
func Load(configDir string) error {
	setDefaults()

	viper.SetEnvPrefix("robotcar")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("robotcar")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// Get returns a typed snapshot of the current configuration.
func Get() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error decoding config: %v", err)
	}
	if cfg.Mode != ModeAutonomous && cfg.Mode != ModeVoice {
		return cfg, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	return cfg, nil
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"mode":       "mode",
	"speed":      "speed",
	"ticks":      "ticks",
	"log-level":  "logLevel",
	"log-format": "logFormat",
	"no-speech":  "speech.disabled",
	"address":    "server.address",
}

// BindFlags lets the flags present in flags override the loaded values
// when they are set on the command line.
func BindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// LoadWithFlags runs Load, BindFlags and Get in that order.
func LoadWithFlags(configDir string, flags *pflag.FlagSet) (Config, error) {
	if err := Load(configDir); err != nil {
		return Config{}, err
	}
	if err := BindFlags(flags); err != nil {
		return Config{}, err
	}
	return Get()
}
