package miio

import (
	"context"

	"github.com/lone-faerie/mqttmiio/log"
)

// Device is the surface of a connected Xiaomi appliance used by the
// bridge. The concrete client owns the transport; every call here is a
// single round trip that may block until the transport replies or ctx
// is done.
type Device interface {
	// Model returns the device model identifier, e.g. "zhimi.airpurifier.mc1".
	Model() string
	// Status fetches a fresh state snapshot from the device.
	Status(ctx context.Context) (Status, error)

	SetSpeed(ctx context.Context, rpm int) error
	SetFavoriteLevel(ctx context.Context, level int) error
	SetFanLevel(ctx context.Context, level int) error
	SetVolume(ctx context.Context, volume int) error
}

// Commander wraps a Device and absorbs command failures. Each TrySet
// method logs a failed command and reports success as a bool, so
// callers never see a transport error.
type Commander struct {
	dev Device
}

// NewCommander returns a Commander issuing commands against dev.
func NewCommander(dev Device) *Commander {
	return &Commander{dev: dev}
}

// Model returns the model identifier of the underlying device.
func (c *Commander) Model() string {
	return c.dev.Model()
}

// Device returns the underlying device.
func (c *Commander) Device() Device {
	return c.dev
}

func (c *Commander) try(msg string, err error) bool {
	if err != nil {
		log.Error(msg, err, "model", c.dev.Model())
		return false
	}
	return true
}

// TrySetSpeed sets the target motor speed.
func (c *Commander) TrySetSpeed(ctx context.Context, rpm int) bool {
	return c.try("Setting the target motor speed of the device failed", c.dev.SetSpeed(ctx, rpm))
}

// TrySetFavoriteLevel sets the favorite level.
func (c *Commander) TrySetFavoriteLevel(ctx context.Context, level int) bool {
	return c.try("Setting the favorite level of the device failed", c.dev.SetFavoriteLevel(ctx, level))
}

// TrySetFanLevel sets the fan level.
func (c *Commander) TrySetFanLevel(ctx context.Context, level int) bool {
	return c.try("Setting the fan level of the device failed", c.dev.SetFanLevel(ctx, level))
}

// TrySetVolume sets the buzzer volume.
func (c *Commander) TrySetVolume(ctx context.Context, volume int) bool {
	return c.try("Setting the volume of the device failed", c.dev.SetVolume(ctx, volume))
}
