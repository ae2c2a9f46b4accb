package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SysfsRoot is the legacy sysfs gpio class directory.
var SysfsRoot = "/sys/class/gpio"

// ExportTimeout bounds the wait for udev to make a freshly exported line writable.
var ExportTimeout = 500 * time.Millisecond

type Number int

type Value int

const (
	LOW  Value = 0
	HIGH Value = 1
)

type Direction string

const (
	IN  Direction = "in"
	OUT Direction = "out"
)

type Gpio struct {
	number    Number
	direction string
	value     string
}

func (g *Gpio) Number() Number {
	return g.number
}

func (g *Gpio) Value() (Value, error) {
	data, err := os.ReadFile(g.value)
	if err != nil {
		return LOW, err
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return LOW, err
	}
	return Value(value), nil
}

func (g *Gpio) SetValue(value Value) error {
	data := fmt.Sprintf("%d", value)
	return os.WriteFile(g.value, []byte(data), 0666)
}

func (g *Gpio) Direction() (Direction, error) {
	data, err := os.ReadFile(g.direction)
	if err != nil {
		return IN, err
	}
	return Direction(strings.TrimSpace(string(data))), nil
}

func (g *Gpio) SetDirection(direction Direction) error {
	return os.WriteFile(g.direction, []byte(direction), 0666)
}

// Output switches the line to output and drives it to value.
func (g *Gpio) Output(value Value) error {
	if err := g.SetDirection(OUT); err != nil {
		return err
	}
	return g.SetValue(value)
}

func (g *Gpio) Unexport() error {
	value := fmt.Sprintf("%d", g.number)
	return os.WriteFile(filepath.Join(SysfsRoot, "unexport"), []byte(value), 0666)
}

// Export claims a line by its kernel number. A line that is already
// exported is reused.
func Export(number Number) (*Gpio, error) {
	dir := filepath.Join(SysfsRoot, fmt.Sprintf("gpio%d", number))
	g := &Gpio{
		number:    number,
		value:     filepath.Join(dir, "value"),
		direction: filepath.Join(dir, "direction"),
	}
	if _, err := os.Stat(dir); err == nil {
		return g, nil
	}
	value := fmt.Sprintf("%d", number)
	if err := os.WriteFile(filepath.Join(SysfsRoot, "export"), []byte(value), 0666); err != nil {
		return nil, fmt.Errorf("export gpio%d: %w", number, err)
	}
	deadline := time.Now().Add(ExportTimeout)
	for {
		if _, err := os.Stat(g.direction); err == nil {
			return g, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("gpio%d did not appear after export", number)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
