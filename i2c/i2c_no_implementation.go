//go:build !linux
// +build !linux

package i2c

func Open(busNumber BusNumber) (*Bus, error) {
	return nil, ErrNoImplementation
}

func (b *Bus) Close() error {
	return ErrNoImplementation
}

func (b *Bus) ReadByte(address uint8, offset uint8) (uint8, error) {
	return 0, ErrNoImplementation
}

func (b *Bus) ReadWord(address uint8, offset uint8) (uint16, error) {
	return 0, ErrNoImplementation
}

func (b *Bus) ReadBytes(address uint8, offset uint8, buf []uint8) error {
	return ErrNoImplementation
}

func (b *Bus) WriteByte(address uint8, offset uint8, data uint8) error {
	return ErrNoImplementation
}

func (b *Bus) WriteWord(address uint8, offset uint8, data uint16) error {
	return ErrNoImplementation
}

func (b *Bus) WriteBytes(address uint8, offset uint8, data []uint8) error {
	return ErrNoImplementation
}
