package pca9685

import (
	"fmt"
	"math"
	"time"

	"robotcar/i2c"
)

// based on: NXP PCA9685 datasheet, 16-channel 12-bit PWM Fm+ I2C-bus LED controller

const (
	_REG_MODE1       uint8 = 0x00
	_REG_MODE2       uint8 = 0x01
	_REG_LED0_ON_L   uint8 = 0x06
	_REG_ALL_LED_ON  uint8 = 0xFA
	_REG_PRESCALE    uint8 = 0xFE
	_MODE1_RESTART   uint8 = 0x80
	_MODE1_AI        uint8 = 0x20
	_MODE1_SLEEP     uint8 = 0x10
	_MODE1_ALLCALL   uint8 = 0x01
	_MODE2_OUTDRV    uint8 = 0x04
	_OSCILLATOR_FREQ       = 25000000.0
	_STEPS                 = 4096
)

const ADDRESS_DEFAULT uint8 = 0x40

const CHANNELS = 16

type PCA9685 struct {
	bus       i2c.Conn
	address   uint8
	frequency float64
	sleep     func(time.Duration)
}

func New(bus i2c.Conn, address uint8) (*PCA9685, error) {
	p := &PCA9685{
		bus:     bus,
		address: address,
		sleep:   time.Sleep,
	}
	if err := p.reset(); err != nil {
		return nil, fmt.Errorf("pca9685 reset at %#02x: %w", address, err)
	}
	return p, nil
}

func (p *PCA9685) reset() error {
	if err := p.SetAllPulseTicks(0, 0); err != nil {
		return err
	}
	if err := p.bus.WriteByte(p.address, _REG_MODE2, _MODE2_OUTDRV); err != nil {
		return err
	}
	if err := p.bus.WriteByte(p.address, _REG_MODE1, _MODE1_ALLCALL|_MODE1_AI); err != nil {
		return err
	}
	p.sleep(5 * time.Millisecond) // oscillator start-up
	return nil
}

// Prescale returns the prescaler register value for the given output frequency.
func Prescale(frequency float64) uint8 {
	value := math.Round(_OSCILLATOR_FREQ/(_STEPS*frequency)) - 1
	return uint8(min(max(value, 3), 255))
}

// SetFrequency changes the PWM frequency of all channels. The chip must
// sleep while the prescaler is written.
func (p *PCA9685) SetFrequency(frequency float64) error {
	oldMode, err := p.bus.ReadByte(p.address, _REG_MODE1)
	if err != nil {
		return err
	}
	sleepMode := (oldMode &^ _MODE1_RESTART) | _MODE1_SLEEP
	if err := p.bus.WriteByte(p.address, _REG_MODE1, sleepMode); err != nil {
		return err
	}
	if err := p.bus.WriteByte(p.address, _REG_PRESCALE, Prescale(frequency)); err != nil {
		return err
	}
	if err := p.bus.WriteByte(p.address, _REG_MODE1, oldMode&^_MODE1_SLEEP); err != nil {
		return err
	}
	p.sleep(5 * time.Millisecond)
	if err := p.bus.WriteByte(p.address, _REG_MODE1, oldMode|_MODE1_RESTART|_MODE1_AI); err != nil {
		return err
	}
	p.frequency = frequency
	return nil
}

func (p *PCA9685) Frequency() float64 {
	return p.frequency
}

func (p *PCA9685) SetPulseTicks(channel int, on uint16, off uint16) error {
	if channel < 0 || channel >= CHANNELS {
		return fmt.Errorf("pca9685: channel %d out of range", channel)
	}
	offset := _REG_LED0_ON_L + uint8(4*channel)
	return p.bus.WriteBytes(p.address, offset, []uint8{
		uint8(on), uint8(on >> 8), uint8(off), uint8(off >> 8),
	})
}

func (p *PCA9685) SetAllPulseTicks(on uint16, off uint16) error {
	return p.bus.WriteBytes(p.address, _REG_ALL_LED_ON, []uint8{
		uint8(on), uint8(on >> 8), uint8(off), uint8(off >> 8),
	})
}

// SetPulseMs sets a channel's high time in milliseconds within the current period.
// Values beyond the period saturate to fully on.
func (p *PCA9685) SetPulseMs(channel int, ms float64) error {
	if p.frequency == 0 {
		return fmt.Errorf("pca9685: frequency is not set")
	}
	periodMs := 1000.0 / p.frequency
	ticks := math.Round(ms / periodMs * _STEPS)
	ticks = min(max(ticks, 0), _STEPS-1)
	return p.SetPulseTicks(channel, 0, uint16(ticks))
}

// Channel binds one output so that servos and motors can hold a pulse
// output without knowing the board.
func (p *PCA9685) Channel(channel int) *Channel {
	return &Channel{pca: p, channel: channel}
}

type Channel struct {
	pca     *PCA9685
	channel int
}

func (c *Channel) SetPulseMs(ms float64) error {
	return c.pca.SetPulseMs(c.channel, ms)
}

func (c *Channel) SetPulseWidth(width time.Duration) error {
	return c.pca.SetPulseMs(c.channel, float64(width)/float64(time.Millisecond))
}
