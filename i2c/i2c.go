package i2c

// original: https://gist.github.com/tetsu-koba/33b339d26ac9c730fb09773acf39eac5#file-i2c-go

import (
	"errors"
	"os"
	"sync"
)

type BusNumber int

const (
	Bus0 BusNumber = 0
	Bus1 BusNumber = 1
	Bus2 BusNumber = 2
	Bus3 BusNumber = 3
)

// DevicePath is the i2c-dev node pattern, formatted with the bus number.
var DevicePath = "/dev/i2c-%d"

var ErrNoImplementation = errors.New("there is no implementation of i2c bus for this platform")

// Conn is the register level access every device driver in this module needs.
// *Bus implements it; tests substitute an in-memory register file.
type Conn interface {
	ReadByte(address uint8, offset uint8) (uint8, error)
	ReadWord(address uint8, offset uint8) (uint16, error)
	ReadBytes(address uint8, offset uint8, buf []uint8) error
	WriteByte(address uint8, offset uint8, data uint8) error
	WriteWord(address uint8, offset uint8, data uint16) error
	WriteBytes(address uint8, offset uint8, data []uint8) error
}

// Bus is shared between the control loop and the battery poller,
// so every transfer is serialized.
type Bus struct {
	mu sync.Mutex
	f  *os.File
}
