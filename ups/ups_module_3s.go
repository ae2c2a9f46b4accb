package ups

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const CELLS = 3

// Monitor is the power monitor on the UPS board, an *ina219.INA219.
type Monitor interface {
	ReadShuntVoltage() (float64, error)
	ReadBusVoltage() (float64, error)
	ReadCurrent() (float64, error)
	ReadPower() (float64, error)
}

// negative ShuntVoltage and Current means the battery is discharging
type UpsModuleStatus struct {
	BusVoltage     float64   `json:"busVoltage"`
	ShuntVoltage   float64   `json:"shuntVoltage"`
	BatteryVoltage float64   `json:"batteryVoltage"`
	CellVoltage    float64   `json:"cellVoltage"`
	Current        float64   `json:"current"`
	Power          float64   `json:"power"`
	ChargePercents float64   `json:"chargePercents"`
	Updated        time.Time `json:"updated"`
}

type UpsModule3S struct {
	mu       sync.RWMutex
	monitor  Monitor
	status   UpsModuleStatus
	onStatus func(UpsModuleStatus)
}

func NewUpsModule3S(monitor Monitor) *UpsModule3S {
	return &UpsModule3S{
		monitor:  monitor,
		onStatus: func(UpsModuleStatus) {},
	}
}

// OnStatus registers a callback run after every successful refresh.
func (u *UpsModule3S) OnStatus(f func(UpsModuleStatus)) {
	u.mu.Lock()
	u.onStatus = f
	u.mu.Unlock()
}

// ChargePercents estimates the charge of one 18650 Li-Ion cell.
// Assume that 4.0V is the maximum voltage the cell shows under load,
// 4.1V is the maximum it can be charged to and 3.5V is the minimum it
// can be discharged to.
func ChargePercents(cellVoltage, current float64) float64 {
	span := 0.5
	if current >= 0 {
		span = 0.6
	}
	return min(max((cellVoltage-3.5)/span*100, 0), 100)
}

// Refresh reads the monitor once and updates the status.
func (u *UpsModule3S) Refresh() error {
	shuntVoltage, err := u.monitor.ReadShuntVoltage()
	if err != nil {
		return err
	}
	busVoltage, err := u.monitor.ReadBusVoltage()
	if err != nil {
		return err
	}
	current, err := u.monitor.ReadCurrent()
	if err != nil {
		return err
	}
	power, err := u.monitor.ReadPower()
	if err != nil {
		return err
	}
	batteryVoltage := busVoltage - shuntVoltage
	status := UpsModuleStatus{
		BusVoltage:     busVoltage,
		ShuntVoltage:   shuntVoltage,
		BatteryVoltage: batteryVoltage,
		CellVoltage:    batteryVoltage / CELLS,
		Current:        current,
		Power:          power,
		ChargePercents: ChargePercents(batteryVoltage/CELLS, current),
		Updated:        time.Now(),
	}

	u.mu.Lock()
	u.status = status
	onStatus := u.onStatus
	u.mu.Unlock()
	onStatus(status)
	return nil
}

// Run refreshes the status every refreshPeriod until ctx is done.
func (u *UpsModule3S) Run(ctx context.Context, refreshPeriod time.Duration) {
	ticker := time.NewTicker(refreshPeriod)
	defer ticker.Stop()
	for {
		if err := u.Refresh(); err != nil {
			log.WithError(err).Warn("Failed to read ups module status")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (u *UpsModule3S) Status() UpsModuleStatus {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.status
}
