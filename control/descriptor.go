// Package control implements the numeric controls of a bridged
// appliance: which controls a device model exposes, their bounds, and
// how a user-set value reaches the device.
package control

import (
	"context"

	"github.com/lone-faerie/mqttmiio/miio"
)

// Descriptor describes one numeric control. Descriptors are static
// configuration; the package-level registry is built once and never
// mutated.
type Descriptor struct {
	// Key identifies the control and the status attribute it mirrors.
	Key string
	// Name is the display name of the control.
	Name string
	// Icon is the Material Design icon shown by Home Assistant.
	Icon string
	// Unit is the unit of measurement, if any.
	Unit string

	Min  int
	Max  int
	Step int

	// AvailableWithDeviceOff keeps the control interactive while the
	// device is powered off.
	AvailableWithDeviceOff bool

	// Feature is the bit that selects this descriptor in a resolved
	// feature mask. No bit appears in more than one descriptor.
	Feature miio.Feature

	// Set invokes the device command bound to this control.
	Set func(context.Context, *miio.Commander, int) bool
}

// Types is the fixed registry of numeric controls. Declaration order is
// display order.
var Types = []Descriptor{
	{
		Key:     miio.AttrMotorSpeed,
		Name:    "Motor Speed",
		Icon:    "mdi:fast-forward-outline",
		Unit:    "rpm",
		Min:     200,
		Max:     2000,
		Step:    10,
		Feature: miio.SetMotorSpeed,
		Set: func(ctx context.Context, c *miio.Commander, v int) bool {
			return c.TrySetSpeed(ctx, v)
		},
	},
	{
		Key:                    miio.AttrFavoriteLevel,
		Name:                   "Favorite Level",
		Icon:                   "mdi:star-cog",
		Min:                    0,
		Max:                    17,
		Step:                   1,
		AvailableWithDeviceOff: true,
		Feature:                miio.SetFavoriteLevel,
		Set: func(ctx context.Context, c *miio.Commander, v int) bool {
			return c.TrySetFavoriteLevel(ctx, v)
		},
	},
	{
		Key:                    miio.AttrFanLevel,
		Name:                   "Fan Level",
		Icon:                   "mdi:fan",
		Min:                    1,
		Max:                    3,
		Step:                   1,
		AvailableWithDeviceOff: true,
		Feature:                miio.SetFanLevel,
		Set: func(ctx context.Context, c *miio.Commander, v int) bool {
			return c.TrySetFanLevel(ctx, v)
		},
	},
	{
		Key:                    miio.AttrVolume,
		Name:                   "Volume",
		Icon:                   "mdi:volume-high",
		Unit:                   "%",
		Min:                    0,
		Max:                    100,
		Step:                   1,
		AvailableWithDeviceOff: true,
		Feature:                miio.SetVolume,
		Set: func(ctx context.Context, c *miio.Commander, v int) bool {
			return c.TrySetVolume(ctx, v)
		},
	},
}
