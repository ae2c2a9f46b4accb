package ina219

import (
	"fmt"

	"robotcar/i2c"
)

// INA219 high side current and power monitor, as fitted on the
// Waveshare UPS Module 3S: https://www.waveshare.com/wiki/UPS_Module_3S

const (
	// Config Register (R/W)
	_REG_CONFIG uint8 = 0x00
	// SHUNT VOLTAGE REGISTER (R)
	_REG_SHUNTVOLTAGE uint8 = 0x01

	// BUS VOLTAGE REGISTER (R)
	_REG_BUSVOLTAGE uint8 = 0x02

	// POWER REGISTER (R)
	_REG_POWER uint8 = 0x03

	// CURRENT REGISTER (R)
	_REG_CURRENT uint8 = 0x04

	// CALIBRATION REGISTER (R/W)
	_REG_CALIBRATION uint8 = 0x05
)

type BusVoltageRange uint16

const (
	RANGE_16V BusVoltageRange = 0x00 // set bus voltage range to 16V
	RANGE_32V BusVoltageRange = 0x01 // set bus voltage range to 32V (default)
)

type Gain uint16

const (
	DIV_1_40MV  Gain = 0x00 // shunt prog. gain set to  1, 40 mV range
	DIV_2_80MV  Gain = 0x01 // shunt prog. gain set to /2, 80 mV range
	DIV_4_160MV Gain = 0x02 // shunt prog. gain set to /4, 160 mV range
	DIV_8_320MV Gain = 0x03 // shunt prog. gain set to /8, 320 mV range
)

type ADCResolution uint16

const (
	ADCRES_9BIT_1S    ADCResolution = 0x00 //  9bit,   1 sample,     84us
	ADCRES_10BIT_1S   ADCResolution = 0x01 // 10bit,   1 sample,    148us
	ADCRES_11BIT_1S   ADCResolution = 0x02 // 11 bit,  1 sample,    276us
	ADCRES_12BIT_1S   ADCResolution = 0x03 // 12 bit,  1 sample,    532us
	ADCRES_12BIT_2S   ADCResolution = 0x09 // 12 bit,  2 samples,  1.06ms
	ADCRES_12BIT_4S   ADCResolution = 0x0A // 12 bit,  4 samples,  2.13ms
	ADCRES_12BIT_8S   ADCResolution = 0x0B // 12bit,   8 samples,  4.26ms
	ADCRES_12BIT_16S  ADCResolution = 0x0C // 12bit,  16 samples,  8.51ms
	ADCRES_12BIT_32S  ADCResolution = 0x0D // 12bit,  32 samples, 17.02ms
	ADCRES_12BIT_64S  ADCResolution = 0x0E // 12bit,  64 samples, 34.05ms
	ADCRES_12BIT_128S ADCResolution = 0x0F // 12bit, 128 samples, 68.10ms
)

type Mode uint16

const (
	POWERDOW             Mode = 0x00 // power down
	SVOLT_TRIGGERED      Mode = 0x01 // shunt voltage triggered
	BVOLT_TRIGGERED      Mode = 0x02 // bus voltage triggered
	SANDBVOLT_TRIGGERED  Mode = 0x03 // shunt and bus voltage triggered
	ADCOFF               Mode = 0x04 // ADC off
	SVOLT_CONTINUOUS     Mode = 0x05 // shunt voltage continuous
	BVOLT_CONTINUOUS     Mode = 0x06 // bus voltage continuous
	SANDBVOLT_CONTINUOUS Mode = 0x07 // shunt and bus voltage continuous
)

const ADDRESS_DEFAULT uint8 = 0x41

type INA219 struct {
	bus        i2c.Conn
	address    uint8
	config     uint16
	calValue   uint16
	currentLSB float64 // mA per bit
	powerLSB   float64 // W per bit
}

// New calibrates the monitor for 32V and 2A on a 0.1 ohm shunt.
func New(bus i2c.Conn, address uint8) (*INA219, error) {
	ina219 := &INA219{
		bus:     bus,
		address: address,
	}
	if err := ina219.setCalibration32Volts2Amps(); err != nil {
		return nil, fmt.Errorf("ina219 calibration at 0x%02x: %w", address, err)
	}
	return ina219, nil
}

// Current LSB is 100uA per bit, so Cal = trunc(0.04096 / (0.0001 * 0.1)) = 4096
// and the power LSB is 20 times the current LSB. Counter overflow occurs at 3.2A.
func (i *INA219) setCalibration32Volts2Amps() error {
	i.currentLSB = 0.1
	i.calValue = 4096
	i.powerLSB = 0.002

	if err := i.bus.WriteWord(i.address, _REG_CALIBRATION, i.calValue); err != nil {
		return err
	}
	i.config = Config(RANGE_32V, DIV_8_320MV, ADCRES_12BIT_32S, ADCRES_12BIT_32S, SANDBVOLT_CONTINUOUS)
	return i.bus.WriteWord(i.address, _REG_CONFIG, i.config)
}

// Config packs the configuration register.
func Config(busRange BusVoltageRange, gain Gain, busADC, shuntADC ADCResolution, mode Mode) uint16 {
	return uint16(busRange)<<13 |
		uint16(gain)<<11 |
		uint16(busADC)<<7 |
		uint16(shuntADC)<<3 |
		uint16(mode)
}

func (i *INA219) readSigned(register uint8) (int16, error) {
	value, err := i.bus.ReadWord(i.address, register)
	if err != nil {
		return 0, err
	}
	return int16(value), nil
}

// ReadShuntVoltage returns volts.
func (i *INA219) ReadShuntVoltage() (float64, error) {
	if err := i.bus.WriteWord(i.address, _REG_CALIBRATION, i.calValue); err != nil {
		return 0, err
	}
	value, err := i.readSigned(_REG_SHUNTVOLTAGE)
	if err != nil {
		return 0, err
	}
	return float64(value) * 0.00001, nil
}

// ReadBusVoltage returns volts.
func (i *INA219) ReadBusVoltage() (float64, error) {
	if err := i.bus.WriteWord(i.address, _REG_CALIBRATION, i.calValue); err != nil {
		return 0, err
	}
	value, err := i.bus.ReadWord(i.address, _REG_BUSVOLTAGE)
	if err != nil {
		return 0, err
	}
	return float64(value>>3) * 0.004, nil
}

// ReadCurrent returns amperes, negative while the battery discharges.
func (i *INA219) ReadCurrent() (float64, error) {
	value, err := i.readSigned(_REG_CURRENT)
	if err != nil {
		return 0, err
	}
	return float64(value) * i.currentLSB * 0.001, nil
}

// ReadPower returns watts.
func (i *INA219) ReadPower() (float64, error) {
	value, err := i.bus.ReadWord(i.address, _REG_POWER)
	if err != nil {
		return 0, err
	}
	return float64(value) * i.powerLSB, nil
}
