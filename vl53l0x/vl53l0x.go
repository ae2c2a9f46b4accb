// Package vl53l0x reads ST VL53L0X time-of-flight laser ranging sensors.
//
// The init sequence is the reduced one used by most hobby drivers: it skips
// SPAD and reference calibration, which costs a few percent of accuracy but
// keeps start-up under a millisecond per sensor.
package vl53l0x

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"robotcar/i2c"
)

const (
	_REG_SYSRANGE_START              uint8 = 0x00
	_REG_SYSTEM_SEQUENCE_CONFIG      uint8 = 0x01
	_REG_SYSTEM_INTERRUPT_CONFIG     uint8 = 0x0A
	_REG_SYSTEM_INTERRUPT_CLEAR      uint8 = 0x0B
	_REG_RESULT_INTERRUPT_STATUS     uint8 = 0x13
	_REG_RESULT_RANGE_STATUS         uint8 = 0x14
	_REG_FINAL_RANGE_MIN_COUNT_RATE  uint8 = 0x44
	_REG_MSRC_CONFIG_CONTROL         uint8 = 0x60
	_REG_GPIO_HV_MUX_ACTIVE_HIGH     uint8 = 0x84
	_REG_VHV_CONFIG_PAD_SCL_SDA      uint8 = 0x89
	_REG_I2C_SLAVE_DEVICE_ADDRESS    uint8 = 0x8A
	_REG_IDENTIFICATION_MODEL_ID     uint8 = 0xC0
	_REG_POWER_MANAGEMENT_GO1_POWER  uint8 = 0x80
	_REG_INTERNAL_PAGE_SELECT        uint8 = 0xFF
	_REG_INTERNAL_STOP_VARIABLE      uint8 = 0x91
	_REG_INTERNAL_I2C_MODE           uint8 = 0x88
	_MODEL_ID                        uint8 = 0xEE
	_RANGE_OFFSET_IN_RESULT          uint8 = 10
	_INTERRUPT_NEW_SAMPLE_READY      uint8 = 0x04
)

const ADDRESS_DEFAULT uint8 = 0x29

// OUT_OF_RANGE_CM is reported when the sensor sees nothing or cannot be
// read. It is deliberately larger than any threshold so that a dead floor
// sensor reads as "no floor" and a dead obstacle sensor reads as clear.
const OUT_OF_RANGE_CM = 819

const measurementTimeout = 500 * time.Millisecond

var ErrTimeout = errors.New("vl53l0x: measurement timed out")

type Sensor struct {
	Name         string
	bus          i2c.Conn
	address      uint8
	stopVariable uint8
	longRange    bool
	sleep        func(time.Duration)
}

func New(bus i2c.Conn, address uint8, name string) *Sensor {
	return &Sensor{
		Name:    name,
		bus:     bus,
		address: address,
		sleep:   time.Sleep,
	}
}

func (s *Sensor) Address() uint8 {
	return s.address
}

// SetLongRange lowers the return signal rate limit so targets up to ~2m
// are reported, at the cost of more noise.
func (s *Sensor) SetLongRange(enabled bool) {
	s.longRange = enabled
}

func (s *Sensor) Init() error {
	id, err := s.bus.ReadByte(s.address, _REG_IDENTIFICATION_MODEL_ID)
	if err != nil {
		return fmt.Errorf("%s sensor at %#02x: %w", s.Name, s.address, err)
	}
	if id != _MODEL_ID {
		return fmt.Errorf("%s sensor at %#02x: unexpected model id %#02x", s.Name, s.address, id)
	}

	// 2V8 pad mode
	vhv, err := s.bus.ReadByte(s.address, _REG_VHV_CONFIG_PAD_SCL_SDA)
	if err != nil {
		return err
	}
	if err := s.bus.WriteByte(s.address, _REG_VHV_CONFIG_PAD_SCL_SDA, vhv|0x01); err != nil {
		return err
	}
	if err := s.bus.WriteByte(s.address, _REG_INTERNAL_I2C_MODE, 0x00); err != nil {
		return err
	}
	if err := s.readStopVariable(); err != nil {
		return err
	}

	// disable the MSRC and pre-range signal rate limit checks
	msrc, err := s.bus.ReadByte(s.address, _REG_MSRC_CONFIG_CONTROL)
	if err != nil {
		return err
	}
	if err := s.bus.WriteByte(s.address, _REG_MSRC_CONFIG_CONTROL, msrc|0x12); err != nil {
		return err
	}

	// signal rate limit in MCPS, fixed point 9.7
	limit := 0.25
	if s.longRange {
		limit = 0.1
	}
	if err := s.bus.WriteWord(s.address, _REG_FINAL_RANGE_MIN_COUNT_RATE, uint16(limit*(1<<7))); err != nil {
		return err
	}

	if err := s.bus.WriteByte(s.address, _REG_SYSTEM_INTERRUPT_CONFIG, _INTERRUPT_NEW_SAMPLE_READY); err != nil {
		return err
	}
	mux, err := s.bus.ReadByte(s.address, _REG_GPIO_HV_MUX_ACTIVE_HIGH)
	if err != nil {
		return err
	}
	if err := s.bus.WriteByte(s.address, _REG_GPIO_HV_MUX_ACTIVE_HIGH, mux&^0x10); err != nil {
		return err
	}
	if err := s.bus.WriteByte(s.address, _REG_SYSTEM_INTERRUPT_CLEAR, 0x01); err != nil {
		return err
	}
	return s.bus.WriteByte(s.address, _REG_SYSTEM_SEQUENCE_CONFIG, 0xE8)
}

func (s *Sensor) readStopVariable() error {
	for _, w := range [][2]uint8{{_REG_POWER_MANAGEMENT_GO1_POWER, 0x01}, {_REG_INTERNAL_PAGE_SELECT, 0x01}, {_REG_SYSRANGE_START, 0x00}} {
		if err := s.bus.WriteByte(s.address, w[0], w[1]); err != nil {
			return err
		}
	}
	stop, err := s.bus.ReadByte(s.address, _REG_INTERNAL_STOP_VARIABLE)
	if err != nil {
		return err
	}
	s.stopVariable = stop
	for _, w := range [][2]uint8{{_REG_SYSRANGE_START, 0x01}, {_REG_INTERNAL_PAGE_SELECT, 0x00}, {_REG_POWER_MANAGEMENT_GO1_POWER, 0x00}} {
		if err := s.bus.WriteByte(s.address, w[0], w[1]); err != nil {
			return err
		}
	}
	return nil
}

// SetAddress moves the sensor to a new 7-bit address. The sensor forgets
// it on reset or power loss.
func (s *Sensor) SetAddress(address uint8) error {
	if err := s.bus.WriteByte(s.address, _REG_I2C_SLAVE_DEVICE_ADDRESS, address&0x7F); err != nil {
		return fmt.Errorf("%s sensor: set address %#02x: %w", s.Name, address, err)
	}
	s.address = address & 0x7F
	return nil
}

// ReadRangeMm performs one single-shot measurement.
func (s *Sensor) ReadRangeMm() (int, error) {
	writes := [][2]uint8{
		{_REG_POWER_MANAGEMENT_GO1_POWER, 0x01},
		{_REG_INTERNAL_PAGE_SELECT, 0x01},
		{_REG_SYSRANGE_START, 0x00},
		{_REG_INTERNAL_STOP_VARIABLE, s.stopVariable},
		{_REG_SYSRANGE_START, 0x01},
		{_REG_INTERNAL_PAGE_SELECT, 0x00},
		{_REG_POWER_MANAGEMENT_GO1_POWER, 0x00},
		{_REG_SYSRANGE_START, 0x01},
	}
	for _, w := range writes {
		if err := s.bus.WriteByte(s.address, w[0], w[1]); err != nil {
			return 0, err
		}
	}
	if err := s.waitFor(_REG_SYSRANGE_START, func(v uint8) bool { return v&0x01 == 0 }); err != nil {
		return 0, err
	}
	if err := s.waitFor(_REG_RESULT_INTERRUPT_STATUS, func(v uint8) bool { return v&0x07 != 0 }); err != nil {
		return 0, err
	}
	mm, err := s.bus.ReadWord(s.address, _REG_RESULT_RANGE_STATUS+_RANGE_OFFSET_IN_RESULT)
	if err != nil {
		return 0, err
	}
	if err := s.bus.WriteByte(s.address, _REG_SYSTEM_INTERRUPT_CLEAR, 0x01); err != nil {
		return 0, err
	}
	return int(mm), nil
}

func (s *Sensor) waitFor(register uint8, done func(uint8) bool) error {
	const step = time.Millisecond
	for waited := time.Duration(0); waited < measurementTimeout; waited += step {
		v, err := s.bus.ReadByte(s.address, register)
		if err != nil {
			return err
		}
		if done(v) {
			return nil
		}
		s.sleep(step)
	}
	return ErrTimeout
}

// DistanceCm never fails: unreadable sensors report OUT_OF_RANGE_CM.
func (s *Sensor) DistanceCm() int {
	mm, err := s.ReadRangeMm()
	if err != nil {
		log.WithError(err).WithField("sensor", s.Name).Warn("Could not read distance")
		return OUT_OF_RANGE_CM
	}
	return min(mm/10, OUT_OF_RANGE_CM)
}
