package lsm6dsox

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"robotcar/i2c"
)

// based on: ST LSM6DSOX datasheet (iNEMO 6-axis IMU)

const (
	_REG_WHO_AM_I uint8 = 0x0F
	_REG_CTRL1_XL uint8 = 0x10
	_REG_CTRL2_G  uint8 = 0x11
	_REG_CTRL3_C  uint8 = 0x12
	_REG_STATUS   uint8 = 0x1E
	_REG_OUTX_L_G uint8 = 0x22
	_REG_OUTX_L_A uint8 = 0x28

	_STATUS_XLDA uint8 = 0x01
	_STATUS_GDA  uint8 = 0x02

	_CTRL1_XL_3K33HZ_2G    uint8 = 0x90
	_CTRL2_G_3K33HZ_125DPS uint8 = 0x92
	_CTRL3_C_IF_INC        uint8 = 0x04

	_WHO_AM_I_VALUE uint8 = 0x6C
)

const ADDRESS_DEFAULT uint8 = 0x6A

// GYRO_DPS_PER_LSB is the sensitivity at the +-125 dps full scale.
const GYRO_DPS_PER_LSB = 4.375 / 1000.0

type Vector struct {
	X, Y, Z int16
}

type LSM6DSOX struct {
	bus      i2c.Conn
	address  uint8
	lastGyro Vector
}

func New(bus i2c.Conn, address uint8) *LSM6DSOX {
	return &LSM6DSOX{
		bus:     bus,
		address: address,
	}
}

// Init selects 3.33kHz output data rate, +-2g and +-125dps, with register
// auto-increment for burst reads.
func (l *LSM6DSOX) Init() error {
	id, err := l.bus.ReadByte(l.address, _REG_WHO_AM_I)
	if err != nil {
		return fmt.Errorf("lsm6dsox at %#02x: %w", l.address, err)
	}
	if id != _WHO_AM_I_VALUE {
		log.WithField("id", fmt.Sprintf("%#02x", id)).Warn("LSM6DSOX reports an unexpected id")
	}
	if err := l.bus.WriteByte(l.address, _REG_CTRL1_XL, _CTRL1_XL_3K33HZ_2G); err != nil {
		return err
	}
	if err := l.bus.WriteByte(l.address, _REG_CTRL2_G, _CTRL2_G_3K33HZ_125DPS); err != nil {
		return err
	}
	return l.bus.WriteByte(l.address, _REG_CTRL3_C, _CTRL3_C_IF_INC)
}

// Gyro returns the raw angular rate. When no new sample is ready the
// previous one is repeated.
func (l *LSM6DSOX) Gyro() (Vector, error) {
	status, err := l.bus.ReadByte(l.address, _REG_STATUS)
	if err != nil {
		return l.lastGyro, err
	}
	if status&_STATUS_GDA == 0 {
		log.Debug("Gyro sample is not ready, repeating the last one")
		return l.lastGyro, nil
	}
	v, err := l.readVector(_REG_OUTX_L_G)
	if err != nil {
		return l.lastGyro, err
	}
	l.lastGyro = v
	return v, nil
}

// YawRate is the raw rate around Z; positive is counter-clockwise seen from above.
func (l *LSM6DSOX) YawRate() (int16, error) {
	v, err := l.Gyro()
	return v.Z, err
}

func (l *LSM6DSOX) Accelerometer() (Vector, error) {
	status, err := l.bus.ReadByte(l.address, _REG_STATUS)
	if err != nil {
		return Vector{}, err
	}
	if status&_STATUS_XLDA == 0 {
		return Vector{}, fmt.Errorf("lsm6dsox: accelerometer sample is not ready")
	}
	return l.readVector(_REG_OUTX_L_A)
}

func (l *LSM6DSOX) readVector(offset uint8) (Vector, error) {
	buf := make([]uint8, 6)
	if err := l.bus.ReadBytes(l.address, offset, buf); err != nil {
		return Vector{}, err
	}
	return Vector{
		X: int16(uint16(buf[1])<<8 | uint16(buf[0])),
		Y: int16(uint16(buf[3])<<8 | uint16(buf[2])),
		Z: int16(uint16(buf[5])<<8 | uint16(buf[4])),
	}, nil
}
