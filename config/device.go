package config

import (
	"strings"
	"time"
)

// DeviceConfig is the configuration for the bridged appliance.
type DeviceConfig struct {
	// Driver names the registered device driver used to open the
	// connection. The "mock" driver is always available; real
	// transports register themselves with miio.RegisterDriver.
	Driver string `yaml:"driver"`
	// Model is the device model identifier, e.g. "zhimi.airpurifier.mc1".
	// The model decides which numeric controls the bridge exposes.
	Model string `yaml:"model"`
	// Host is the address of the device on the local network.
	Host string `yaml:"host,omitempty"`
	// Token is the 32-character hex token used by the device transport.
	Token string `yaml:"token,omitempty"`
	// ID uniquely identifies the device across bridges. If blank, the
	// model with dots replaced by dashes is used.
	ID string `yaml:"id,omitempty"`
	// Name is the display name of the device in Home Assistant.
	Name string `yaml:"name,omitempty"`
	// Interval overrides the top-level polling interval for this device.
	Interval time.Duration `yaml:"interval,omitempty"`
}

// UniqueID returns the configured ID, falling back to the model with
// dots replaced by dashes.
func (cfg *DeviceConfig) UniqueID() string {
	if cfg.ID != "" {
		return cfg.ID
	}
	return strings.ReplaceAll(cfg.Model, ".", "-")
}

var DefaultDevice = DeviceConfig{
	Driver: "mock",
	Model:  "$MQTTMIIO_DEVICE_MODEL",
	Host:   "$MQTTMIIO_DEVICE_HOST",
	Token:  "$MQTTMIIO_DEVICE_TOKEN",
}
