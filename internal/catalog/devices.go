// internal/catalog/devices.go
package catalog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avanishpal143/Robotic-backend/internal/data"
)

// DeviceDirectory is the registry of robots in the fleet.
type DeviceDirectory struct {
	mu      sync.RWMutex
	byID    map[string]data.Device
	ordered []string
}

func NewDeviceDirectory() *DeviceDirectory {
	return &DeviceDirectory{byID: make(map[string]data.Device)}
}

// Register adds a device under a fresh id.
func (d *DeviceDirectory) Register(name, model string) data.Device {
	d.mu.Lock()
	defer d.mu.Unlock()

	dev := data.Device{
		DeviceID:   uuid.NewString(),
		DeviceName: name,
		Model:      model,
		CreatedAt:  time.Now().UTC(),
	}
	d.byID[dev.DeviceID] = dev
	d.ordered = append(d.ordered, dev.DeviceID)
	return dev
}

// List returns all devices, newest first.
func (d *DeviceDirectory) List() []data.Device {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]data.Device, 0, len(d.ordered))
	for i := len(d.ordered) - 1; i >= 0; i-- {
		out = append(out, d.byID[d.ordered[i]])
	}
	return out
}

// Lookup resolves a device id, returning ErrDeviceNotFound when the id
// is unknown.
func (d *DeviceDirectory) Lookup(deviceID string) (data.Device, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	dev, ok := d.byID[deviceID]
	if !ok {
		return data.Device{}, data.ErrDeviceNotFound
	}
	return dev, nil
}
