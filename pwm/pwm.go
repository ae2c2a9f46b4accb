package pwm

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// SysfsRoot is where the kernel exposes pwm chips.
var SysfsRoot = "/sys/class/pwm"

type Polarity string

const (
	PolarityNormal   Polarity = "normal"
	PolarityInversed Polarity = "inversed"
)

type PWM struct {
	export    string
	unexport  string
	channel   int
	enable    string
	dutyCycle string
	period    string
	polarity  string
}

func NewPWM(chip int, channel int) *PWM {
	chipDir := filepath.Join(SysfsRoot, fmt.Sprintf("pwmchip%d", chip))
	channelDir := filepath.Join(chipDir, fmt.Sprintf("pwm%d", channel))
	return &PWM{
		export:    filepath.Join(chipDir, "export"),
		unexport:  filepath.Join(chipDir, "unexport"),
		channel:   channel,
		enable:    filepath.Join(channelDir, "enable"),
		dutyCycle: filepath.Join(channelDir, "duty_cycle"),
		period:    filepath.Join(channelDir, "period"),
		polarity:  filepath.Join(channelDir, "polarity"),
	}
}

// Export makes the channel directory appear. Exporting an already
// exported channel is not an error.
func (pwm *PWM) Export() error {
	if _, err := os.Stat(pwm.enable); err == nil {
		return nil
	}
	return os.WriteFile(pwm.export, []byte(strconv.Itoa(pwm.channel)), 0666)
}

func (pwm *PWM) Unexport() error {
	return os.WriteFile(pwm.unexport, []byte(strconv.Itoa(pwm.channel)), 0666)
}

func (pwm *PWM) Enable() error {
	return os.WriteFile(pwm.enable, []byte{'1'}, 0666)
}

func (pwm *PWM) Disable() error {
	return os.WriteFile(pwm.enable, []byte{'0'}, 0666)
}

func (pwm *PWM) Polarity(polarity Polarity) error {
	return os.WriteFile(pwm.polarity, []byte(polarity), 0666)
}

func (pwm *PWM) Period(period time.Duration) error {
	value := fmt.Sprintf("%d", period.Nanoseconds())
	return os.WriteFile(pwm.period, []byte(value), 0666)
}

func (pwm *PWM) DutyCycle(dutyCycle time.Duration) error {
	value := fmt.Sprintf("%d", dutyCycle.Nanoseconds())
	return os.WriteFile(pwm.dutyCycle, []byte(value), 0666)
}

func (pwm *PWM) SetPulseMs(ms float64) error {
	return pwm.DutyCycle(time.Duration(ms * float64(time.Millisecond)))
}

// Setup exports the channel and starts it with the given period and a
// zero-width pulse.
func (pwm *PWM) Setup(period time.Duration, polarity Polarity) error {
	if err := pwm.Export(); err != nil {
		return fmt.Errorf("export pwm%d: %w", pwm.channel, err)
	}
	if err := pwm.Period(period); err != nil {
		return fmt.Errorf("set pwm%d period: %w", pwm.channel, err)
	}
	if err := pwm.DutyCycle(0); err != nil {
		return fmt.Errorf("set pwm%d duty cycle: %w", pwm.channel, err)
	}
	if err := pwm.Polarity(polarity); err != nil {
		return fmt.Errorf("set pwm%d polarity: %w", pwm.channel, err)
	}
	if err := pwm.Enable(); err != nil {
		return fmt.Errorf("enable pwm%d: %w", pwm.channel, err)
	}
	return nil
}
