package lsm6dsox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robotcar/i2c/i2ctest"
)

func TestInitConfiguresGyro(t *testing.T) {
	regs := i2ctest.New()
	regs.Set(ADDRESS_DEFAULT, _REG_WHO_AM_I, _WHO_AM_I_VALUE)

	require.NoError(t, New(regs, ADDRESS_DEFAULT).Init())
	assert.Equal(t, _CTRL2_G_3K33HZ_125DPS, regs.Get(ADDRESS_DEFAULT, _REG_CTRL2_G))
	assert.Equal(t, _CTRL3_C_IF_INC, regs.Get(ADDRESS_DEFAULT, _REG_CTRL3_C))
}

func TestGyroDecodesLittleEndian(t *testing.T) {
	regs := i2ctest.New()
	regs.Set(ADDRESS_DEFAULT, _REG_STATUS, _STATUS_GDA)
	// x=1, y=-2, z=300
	regs.Set(ADDRESS_DEFAULT, _REG_OUTX_L_G, 0x01, 0x00, 0xFE, 0xFF, 0x2C, 0x01)
	imu := New(regs, ADDRESS_DEFAULT)

	v, err := imu.Gyro()
	require.NoError(t, err)
	assert.Equal(t, Vector{X: 1, Y: -2, Z: 300}, v)

	// not ready: the last sample is repeated
	regs.Set(ADDRESS_DEFAULT, _REG_STATUS, 0)
	regs.Set(ADDRESS_DEFAULT, _REG_OUTX_L_G+4, 0x00, 0x00)
	z, err := imu.YawRate()
	require.NoError(t, err)
	assert.Equal(t, int16(300), z)
}

func TestAccelerometerNotReady(t *testing.T) {
	regs := i2ctest.New()
	regs.Set(ADDRESS_DEFAULT, _REG_STATUS, _STATUS_GDA)
	_, err := New(regs, ADDRESS_DEFAULT).Accelerometer()
	assert.Error(t, err)
}
