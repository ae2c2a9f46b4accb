package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	cfg, err := Get()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ModeAutonomous, cfg.Mode)
	assert.Equal(t, 500, cfg.Ticks)
	assert.Equal(t, 58, cfg.Speed)
	assert.Equal(t, 30, cfg.Navigation.ClearanceCm)
	assert.Equal(t, 18, cfg.Navigation.FloorDropCm)
	assert.Equal(t, 200*time.Millisecond, cfg.Navigation.BackUpTime)
	assert.Equal(t, 3*time.Second, cfg.Navigation.TurnTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Navigation.VoiceTick)
	assert.Equal(t, 0x40, cfg.Hardware.PCA9685Address)
	assert.Equal(t, Wheel{Speed: 11, Forward: 10, Backward: 9}, cfg.Hardware.Wheels.RightFront)
	assert.Equal(t, 15, cfg.Hardware.Servo.Channel)
	assert.Equal(t, RangeSensor{XShut: 23, Address: 0x34}, cfg.Hardware.RangeSensors.Floor)
	assert.Equal(t, "mb-us1", cfg.Speech.Voice)
	assert.Equal(t, ":1337", cfg.Server.Address)
	assert.Equal(t, time.Second, cfg.Battery.RefreshPeriod)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `
mode: voice
navigation:
  clearanceCm: 40
  turnTimeout: 5s
hardware:
  servo:
    output: pwm
    pwmChip: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robotcar.yaml"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))
	got, err := Get()
	require.NoError(t, err)

	assert.Equal(t, ModeVoice, got.Mode)
	assert.Equal(t, 40, got.Navigation.ClearanceCm)
	assert.Equal(t, 5*time.Second, got.Navigation.TurnTimeout)
	assert.Equal(t, 18, got.Navigation.FloorDropCm)
	assert.Equal(t, "pwm", got.Hardware.Servo.Output)
	assert.Equal(t, 2, got.Hardware.Servo.PWMChip)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("ROBOTCAR_NAVIGATION_FLOORDROPCM", "25")
	t.Setenv("ROBOTCAR_SPEECH_DISABLED", "true")

	require.NoError(t, Load(t.TempDir()))
	cfg, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Navigation.FloorDropCm)
	assert.True(t, cfg.Speech.Disabled)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robotcar.yaml"), []byte("mode: [voice"), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGet_RejectsUnknownMode(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	viper.Set("mode", "racing")

	_, err := Get()
	assert.ErrorContains(t, err, "racing")
}

func TestBindFlags(t *testing.T) {
	t.Cleanup(viper.Reset)

	flags := pflag.NewFlagSet("robotcar", pflag.ContinueOnError)
	flags.String("mode", ModeAutonomous, "")
	flags.Int("speed", 58, "")
	flags.Bool("no-speech", false, "")
	require.NoError(t, flags.Parse([]string{"--mode", "voice", "--no-speech"}))

	require.NoError(t, Load(t.TempDir()))
	require.NoError(t, BindFlags(flags))
	cfg, err := Get()
	require.NoError(t, err)

	assert.Equal(t, ModeVoice, cfg.Mode)
	assert.True(t, cfg.Speech.Disabled)
	assert.Equal(t, 58, cfg.Speed)
	assert.Equal(t, 500, cfg.Ticks)
}
