package discovery

import "github.com/lone-faerie/mqttmiio/config"

// Connection is a tuple of the form [connection_type, connection_identifier]
// used for the device mapping of the discovery payload.
type Connection [2]string

// Device implements the device mapping for the discovery payload. This
// ties components together in Home Assistant's device registry.
type Device struct {
	ConfigurationURL string       `json:"cu,omitempty"`
	Connections      []Connection `json:"cns,omitempty"`
	HWVersion        string       `json:"hw,omitempty"`
	Identifiers      []string     `json:"ids,omitempty"`
	Manufacturer     string       `json:"mf,omitempty"`
	Model            string       `json:"mdl,omitempty"`
	ModelID          string       `json:"mdl_id,omitempty"`
	Name             string       `json:"name,omitempty"`
	SerialNumber     string       `json:"sn,omitempty"`
	SuggestedArea    string       `json:"sa,omitempty"`
	SWVersion        string       `json:"sw,omitempty"`
}

// NewDevice returns the Device mapping for the configured appliance.
// The identifier is the configured device id, falling back to the model
// with dots replaced by dashes.
func NewDevice(cfg *config.DeviceConfig) *Device {
	d := &Device{
		Identifiers:  []string{cfg.UniqueID()},
		Manufacturer: "Xiaomi",
		Model:        cfg.Model,
		Name:         cfg.Name,
	}
	if d.Name == "" {
		d.Name = cfg.Model
	}
	if cfg.Host != "" {
		d.Connections = []Connection{{"host", cfg.Host}}
	}
	return d
}
