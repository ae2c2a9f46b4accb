//go:build linux
// +build linux

package i2c

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

func Open(busNumber BusNumber) (*Bus, error) {
	path := fmt.Sprintf(DevicePath, busNumber)
	f, err := os.OpenFile(path, syscall.O_RDWR, 0666)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Bus{f: f}, nil
}

func (b *Bus) Close() error {
	return b.f.Close()
}

func (b *Bus) ReadByte(address uint8, offset uint8) (uint8, error) {
	buf := []uint8{0}
	if err := b.ReadBytes(address, offset, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadWord reads a big-endian register pair.
func (b *Bus) ReadWord(address uint8, offset uint8) (uint16, error) {
	buf := []uint8{0, 0}
	if err := b.ReadBytes(address, offset, buf); err != nil {
		return 0, err
	}
	return (uint16(buf[0]) << 8) | uint16(buf[1]), nil
}

// ReadBytes fills buf starting at offset. Devices that auto-increment the
// register address (VL53L0X, LSM6DSOX with IF_INC) return consecutive registers.
func (b *Bus) ReadBytes(address uint8, offset uint8, buf []uint8) error {
	if len(buf) == 0 {
		return nil
	}
	msg := []i2c_msg{
		{
			addr:  uint16(address),
			flags: 0,
			len:   1,
			buf:   uintptr(unsafe.Pointer(&offset)),
		},
		{
			addr:  uint16(address),
			flags: uint16(_I2C_M_RD),
			len:   uint16(len(buf)),
			buf:   uintptr(unsafe.Pointer(&buf[0])),
		},
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return transfer(b.f, &msg[0], len(msg))
}

func (b *Bus) WriteByte(address uint8, offset uint8, data uint8) error {
	return b.WriteBytes(address, offset, []uint8{data})
}

func (b *Bus) WriteWord(address uint8, offset uint8, data uint16) error {
	return b.WriteBytes(address, offset, []uint8{uint8(data >> 8), uint8(data)})
}

func (b *Bus) WriteBytes(address uint8, offset uint8, data []uint8) error {
	buf := append([]uint8{offset}, data...)
	msg := []i2c_msg{
		{
			addr:  uint16(address),
			flags: 0,
			len:   uint16(len(buf)),
			buf:   uintptr(unsafe.Pointer(&buf[0])),
		},
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return transfer(b.f, &msg[0], len(msg))
}

const (
	_I2C_RDWR                = 0x0707
	_I2C_RDRW_IOCTL_MAX_MSGS = 42
	_I2C_M_RD                = 0x0001
)

type i2c_msg struct {
	addr      uint16
	flags     uint16
	len       uint16
	__padding uint16
	buf       uintptr
}

type i2c_rdwr_ioctl_data struct {
	msgs  uintptr
	nmsgs uint32
}
