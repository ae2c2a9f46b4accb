// Package i2ctest provides an in-memory register file implementing i2c.Conn.
package i2ctest

import (
	"errors"
	"sync"
)

var ErrNoDevice = errors.New("i2ctest: no device at address")

// Write records a single register write, in call order.
type Write struct {
	Address uint8
	Offset  uint8
	Data    []uint8
}

// Registers emulates devices with auto-incrementing register pointers.
// Reads of unknown registers return zero. A device exists once any of its
// registers has been set or Attach has been called for its address.
type Registers struct {
	mu      sync.Mutex
	devices map[uint8]map[uint8]uint8
	Writes  []Write
	// OnWrite, when set, runs after every write with the lock released.
	OnWrite func(address, offset uint8, data []uint8)
}

func New() *Registers {
	return &Registers{devices: make(map[uint8]map[uint8]uint8)}
}

func (r *Registers) Attach(address uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.device(address)
}

func (r *Registers) Detach(address uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, address)
}

func (r *Registers) Set(address, offset uint8, values ...uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dev := r.device(address)
	for i, v := range values {
		dev[offset+uint8(i)] = v
	}
}

func (r *Registers) Get(address, offset uint8) uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices[address][offset]
}

// WritesTo returns the recorded writes for one device address.
func (r *Registers) WritesTo(address uint8) []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Write
	for _, w := range r.Writes {
		if w.Address == address {
			out = append(out, w)
		}
	}
	return out
}

func (r *Registers) device(address uint8) map[uint8]uint8 {
	dev, ok := r.devices[address]
	if !ok {
		dev = make(map[uint8]uint8)
		r.devices[address] = dev
	}
	return dev
}

func (r *Registers) ReadByte(address uint8, offset uint8) (uint8, error) {
	buf := []uint8{0}
	err := r.ReadBytes(address, offset, buf)
	return buf[0], err
}

func (r *Registers) ReadWord(address uint8, offset uint8) (uint16, error) {
	buf := []uint8{0, 0}
	err := r.ReadBytes(address, offset, buf)
	return uint16(buf[0])<<8 | uint16(buf[1]), err
}

func (r *Registers) ReadBytes(address uint8, offset uint8, buf []uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dev, ok := r.devices[address]
	if !ok {
		return ErrNoDevice
	}
	for i := range buf {
		buf[i] = dev[offset+uint8(i)]
	}
	return nil
}

func (r *Registers) WriteByte(address uint8, offset uint8, data uint8) error {
	return r.WriteBytes(address, offset, []uint8{data})
}

func (r *Registers) WriteWord(address uint8, offset uint8, data uint16) error {
	return r.WriteBytes(address, offset, []uint8{uint8(data >> 8), uint8(data)})
}

func (r *Registers) WriteBytes(address uint8, offset uint8, data []uint8) error {
	r.mu.Lock()
	dev, ok := r.devices[address]
	if !ok {
		r.mu.Unlock()
		return ErrNoDevice
	}
	for i, v := range data {
		dev[offset+uint8(i)] = v
	}
	r.Writes = append(r.Writes, Write{Address: address, Offset: offset, Data: append([]uint8(nil), data...)})
	hook := r.OnWrite
	r.mu.Unlock()
	if hook != nil {
		hook(address, offset, data)
	}
	return nil
}
