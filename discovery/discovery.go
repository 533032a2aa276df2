// Package discovery builds and publishes the Home Assistant MQTT
// discovery payload for the bridged device.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lone-faerie/mqttmiio/config"
)

// Platforms of the components published by the bridge.
const (
	Number = "number"
	Sensor = "sensor"
)

type Component map[Option]any

// Discoverer is implemented by anything that contributes components to
// the discovery payload.
type Discoverer interface {
	Discover(*Discovery)
}

// Discovery is the device-style discovery payload published to
// <prefix>/device/[<node_id>/]<object_id>/config.
type Discovery struct {
	Origin     *Origin              `json:"o"`
	Device     *Device              `json:"dev"`
	Components map[string]Component `json:"cmps"`

	cfg *config.DiscoveryConfig

	AvailabilityTopic string `json:"-"`
	ObjectID          string `json:"-"`
	NodeID            string `json:"-"`
}

// New returns a Discovery for the device described by dev, populated
// with the components of each Discoverer.
func New(cfg *config.DiscoveryConfig, dev *Device, cmps ...Discoverer) (*Discovery, error) {
	d := &Discovery{
		Origin:            NewOrigin(),
		Device:            dev,
		Components:        make(map[string]Component, len(cmps)),
		cfg:               cfg,
		NodeID:            cfg.NodeID,
		AvailabilityTopic: cfg.Availability,
	}
	if len(dev.Identifiers) == 0 {
		return nil, errors.New("no device identifiers")
	}
	d.ObjectID = strings.Join(dev.Identifiers, "_")
	for i := range cmps {
		cmps[i].Discover(d)
	}
	return d, nil
}

// Topic returns the discovery topic under the given prefix.
func (d *Discovery) Topic(prefix string) string {
	elems := []string{prefix, "device", d.NodeID, d.ObjectID, "config"}
	if d.NodeID == "" {
		elems = append(elems[:2], elems[3:]...)
	}
	return strings.Join(elems, "/")
}

// SetAvailability adds the given availability component to every
// component of the payload.
func (d *Discovery) SetAvailability(avail Component) {
	for cmp := range d.Components {
		d.Components[cmp][Availability] = avail
	}
}

// Publish publishes the discovery payload and waits for the broker to
// acknowledge it or ctx to be done.
func (d *Discovery) Publish(ctx context.Context, c mqtt.Client) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	t := c.Publish(d.Topic(d.cfg.Prefix), d.cfg.QoS, d.cfg.Retained, data)
	select {
	case <-ctx.Done():
		return nil
	case <-t.Done():
	}
	return t.Error()
}
