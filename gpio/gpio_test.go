package gpio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSysfs(t *testing.T) string {
	root := t.TempDir()
	SysfsRoot = root
	t.Cleanup(func() { SysfsRoot = "/sys/class/gpio" })
	return root
}

func TestExportReusesExistingLine(t *testing.T) {
	root := fakeSysfs(t)
	dir := filepath.Join(root, "gpio17")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "value"), []byte("1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "direction"), []byte("in\n"), 0644))

	g, err := Export(17)
	require.NoError(t, err)
	assert.Equal(t, Number(17), g.Number())

	v, err := g.Value()
	require.NoError(t, err)
	assert.Equal(t, HIGH, v)

	require.NoError(t, g.Output(LOW))
	d, err := g.Direction()
	require.NoError(t, err)
	assert.Equal(t, OUT, d)
	v, err = g.Value()
	require.NoError(t, err)
	assert.Equal(t, LOW, v)
}

func TestExportTimesOut(t *testing.T) {
	root := fakeSysfs(t)
	ExportTimeout = 0
	t.Cleanup(func() { ExportTimeout = 500 * time.Millisecond })

	_, err := Export(22)
	require.Error(t, err)
	data, readErr := os.ReadFile(filepath.Join(root, "export"))
	require.NoError(t, readErr)
	assert.Equal(t, "22", string(data))
}
