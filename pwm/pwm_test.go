package pwm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeChip(t *testing.T, channel string) string {
	root := t.TempDir()
	SysfsRoot = root
	t.Cleanup(func() { SysfsRoot = "/sys/class/pwm" })
	dir := filepath.Join(root, "pwmchip0", "pwm"+channel)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, f := range []string{"enable", "duty_cycle", "period", "polarity"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0644))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSetup(t *testing.T) {
	dir := fakeChip(t, "1")
	p := NewPWM(0, 1)

	require.NoError(t, p.Setup(20*time.Millisecond, PolarityNormal))
	assert.Equal(t, "20000000", readFile(t, filepath.Join(dir, "period")))
	assert.Equal(t, "0", readFile(t, filepath.Join(dir, "duty_cycle")))
	assert.Equal(t, "normal", readFile(t, filepath.Join(dir, "polarity")))
	assert.Equal(t, "1", readFile(t, filepath.Join(dir, "enable")))

	require.NoError(t, p.SetPulseMs(1.5))
	assert.Equal(t, "1500000", readFile(t, filepath.Join(dir, "duty_cycle")))
}

func TestExportWritesChannelNumber(t *testing.T) {
	root := t.TempDir()
	SysfsRoot = root
	t.Cleanup(func() { SysfsRoot = "/sys/class/pwm" })
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pwmchip0"), 0755))

	require.NoError(t, NewPWM(0, 1).Export())
	assert.Equal(t, "1", readFile(t, filepath.Join(root, "pwmchip0", "export")))
}
