package hardware

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robotcar/config"
	"robotcar/i2c/i2ctest"
	"robotcar/lsm6dsox"
	"robotcar/pca9685"
	"robotcar/servo"
)

func loadDefaults(t *testing.T) config.Config {
	t.Helper()
	t.Cleanup(viper.Reset)
	require.NoError(t, config.Load(t.TempDir()))
	cfg, err := config.Get()
	require.NoError(t, err)
	return cfg
}

func newBoard(t *testing.T) (*pca9685.PCA9685, *i2ctest.Registers) {
	t.Helper()
	regs := i2ctest.New()
	regs.Attach(pca9685.ADDRESS_DEFAULT)
	pca, err := NewPCA9685(regs, int(pca9685.ADDRESS_DEFAULT))
	require.NoError(t, err)
	return pca, regs
}

func channelRegister(channel int) uint8 {
	return 0x06 + uint8(4*channel)
}

func TestNewPCA9685SetsServoFrequency(t *testing.T) {
	pca, _ := newBoard(t)
	assert.Equal(t, float64(PWM_FREQUENCY), pca.Frequency())
}

func TestDrivetrainUsesConfiguredChannels(t *testing.T) {
	cfg := loadDefaults(t)
	pca, regs := newBoard(t)
	regs.Writes = nil

	NewDrivetrain(pca, cfg.Hardware.Wheels).Forward(11)

	written := map[uint8]bool{}
	for _, w := range regs.WritesTo(pca9685.ADDRESS_DEFAULT) {
		written[w.Offset] = true
	}
	wheels := cfg.Hardware.Wheels
	for _, w := range []config.Wheel{wheels.LeftFront, wheels.LeftBack, wheels.RightFront, wheels.RightBack} {
		assert.True(t, written[channelRegister(w.Speed)], "speed channel %d", w.Speed)
		assert.True(t, written[channelRegister(w.Forward)], "forward channel %d", w.Forward)
		assert.True(t, written[channelRegister(w.Backward)], "backward channel %d", w.Backward)
	}
	assert.False(t, written[channelRegister(cfg.Hardware.Servo.Channel)])
}

func TestNewHead(t *testing.T) {
	cfg := loadDefaults(t)
	pca, regs := newBoard(t)

	head, err := NewHead(pca, cfg.Hardware.Servo)
	require.NoError(t, err)
	head.WithSleep(func(d time.Duration) {})
	head.Aim(servo.CENTER)
	assert.Equal(t, servo.CENTER, head.Position())
	assert.NotEmpty(t, regs.WritesTo(pca9685.ADDRESS_DEFAULT))

	_, err = NewHead(pca, config.Servo{Output: "gpio"})
	assert.ErrorContains(t, err, "gpio")
}

func TestNewGyroChecksDevice(t *testing.T) {
	regs := i2ctest.New()
	_, err := NewGyro(regs, int(lsm6dsox.ADDRESS_DEFAULT))
	assert.Error(t, err)

	regs.Set(lsm6dsox.ADDRESS_DEFAULT, 0x0F, 0x6C)
	estimator, err := NewGyro(regs, int(lsm6dsox.ADDRESS_DEFAULT))
	require.NoError(t, err)
	assert.Zero(t, estimator.Rotation())
}

func TestNavigationConfig(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Navigation.ClearanceCm = 45

	nav := NavigationConfig(cfg)
	assert.Equal(t, 45, nav.ClearanceCm)
	assert.Equal(t, 11, nav.Speed)
	assert.Equal(t, 18, nav.FloorDropCm)
	assert.Equal(t, 135, nav.LeftHeading)
}

func TestNewSpeakerDisabledDoesNotExec(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Speech.Disabled = true
	cfg.Speech.Program = "/nonexistent/espeak"

	speaker := NewSpeaker(cfg.Speech)
	speaker.Say("hello")
	speaker.Wait()
}
