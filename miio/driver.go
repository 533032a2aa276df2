package miio

import (
	"fmt"
	"sort"
	"sync"
)

// DriverConfig carries the connection parameters a driver needs to open
// a device.
type DriverConfig struct {
	Model string
	Host  string
	Token string
}

// Driver opens a connection to a device. Drivers register themselves
// with [RegisterDriver], typically from an init function, the way
// database/sql drivers do. The transport itself lives outside this
// module; only the "mock" driver is built in.
type Driver func(DriverConfig) (Device, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// RegisterDriver makes a device driver available under the given name.
// It panics if called twice with the same name or with a nil driver.
func RegisterDriver(name string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if d == nil {
		panic("miio: RegisterDriver driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("miio: RegisterDriver called twice for driver " + name)
	}
	drivers[name] = d
}

// Drivers returns a sorted list of the registered driver names.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens a device using the named driver.
func Open(name string, cfg DriverConfig) (Device, error) {
	driversMu.RLock()
	d, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("miio: unknown driver %q (forgotten import?)", name)
	}
	return d(cfg)
}

func init() {
	RegisterDriver("mock", func(cfg DriverConfig) (Device, error) {
		return NewSimulated(cfg.Model), nil
	})
}
