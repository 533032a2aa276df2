package discovery

import (
	"encoding/json"
	"testing"

	"github.com/lone-faerie/mqttmiio/config"
)

type staticComponent struct {
	id  string
	cmp Component
}

func (s staticComponent) Discover(d *Discovery) {
	d.Components[s.id] = s.cmp
}

func testDiscovery(t *testing.T, cmps ...Discoverer) *Discovery {
	t.Helper()

	cfg := config.DefaultDiscovery
	dev := NewDevice(&config.DeviceConfig{
		Model: "zhimi.airpurifier.mc1",
		Host:  "10.0.0.9",
	})
	d, err := New(&cfg, dev, cmps...)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNewDevice(t *testing.T) {
	dev := NewDevice(&config.DeviceConfig{Model: "zhimi.airpurifier.mc1"})
	if len(dev.Identifiers) != 1 || dev.Identifiers[0] != "zhimi-airpurifier-mc1" {
		t.Errorf("Identifiers: want [zhimi-airpurifier-mc1], got %v", dev.Identifiers)
	}
	if want, got := "Xiaomi", dev.Manufacturer; got != want {
		t.Errorf("Manufacturer: want %q, got %q", want, got)
	}
	// Name falls back to the model.
	if want, got := "zhimi.airpurifier.mc1", dev.Name; got != want {
		t.Errorf("Name: want %q, got %q", want, got)
	}

	dev = NewDevice(&config.DeviceConfig{
		Model: "zhimi.airpurifier.mc1",
		ID:    "bedroom_purifier",
		Name:  "Bedroom Purifier",
		Host:  "10.0.0.9",
	})
	if len(dev.Identifiers) != 1 || dev.Identifiers[0] != "bedroom_purifier" {
		t.Errorf("Identifiers: want [bedroom_purifier], got %v", dev.Identifiers)
	}
	if want, got := "Bedroom Purifier", dev.Name; got != want {
		t.Errorf("Name: want %q, got %q", want, got)
	}
	if len(dev.Connections) != 1 || dev.Connections[0] != (Connection{"host", "10.0.0.9"}) {
		t.Errorf("Connections: want [[host 10.0.0.9]], got %v", dev.Connections)
	}
}

func TestNew_NoIdentifiers(t *testing.T) {
	cfg := config.DefaultDiscovery
	if _, err := New(&cfg, &Device{}); err == nil {
		t.Error("want error for device without identifiers")
	}
}

func TestTopic(t *testing.T) {
	d := testDiscovery(t)
	if want, got := "homeassistant/device/zhimi-airpurifier-mc1/config", d.Topic("homeassistant"); got != want {
		t.Errorf("Topic: want %q, got %q", want, got)
	}

	d.NodeID = "mqttmiio"
	if want, got := "ha/device/mqttmiio/zhimi-airpurifier-mc1/config", d.Topic("ha"); got != want {
		t.Errorf("Topic: want %q, got %q", want, got)
	}
}

func TestDiscovery_Marshal(t *testing.T) {
	d := testDiscovery(t, staticComponent{
		id: "favorite_level_test",
		cmp: Component{
			Platform:     Number,
			Min:          0,
			Max:          17,
			Step:         1,
			StateTopic:   "mqttmiio/test/favorite_level",
			CommandTopic: "mqttmiio/test/favorite_level/set",
		},
	})

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Origin struct {
			Name string `json:"name"`
		} `json:"o"`
		Device struct {
			Identifiers []string `json:"ids"`
		} `json:"dev"`
		Components map[string]map[string]any `json:"cmps"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if want := "mqttmiio"; got.Origin.Name != want {
		t.Errorf("o.name: want %q, got %q", want, got.Origin.Name)
	}
	if len(got.Device.Identifiers) != 1 || got.Device.Identifiers[0] != "zhimi-airpurifier-mc1" {
		t.Errorf("dev.ids: want [zhimi-airpurifier-mc1], got %v", got.Device.Identifiers)
	}
	cmp, ok := got.Components["favorite_level_test"]
	if !ok {
		t.Fatalf("missing component, got %v", got.Components)
	}
	if want, got := "number", cmp["p"]; got != want {
		t.Errorf("cmps.p: want %q, got %v", want, got)
	}
	if want, got := float64(17), cmp["max"]; got != want {
		t.Errorf("cmps.max: want %v, got %v", want, got)
	}
	if want, got := "mqttmiio/test/favorite_level/set", cmp["cmd_t"]; got != want {
		t.Errorf("cmps.cmd_t: want %q, got %v", want, got)
	}
}

func TestSetAvailability(t *testing.T) {
	d := testDiscovery(t,
		staticComponent{id: "a", cmp: Component{Platform: Number}},
		staticComponent{id: "b", cmp: Component{Platform: Sensor}},
	)
	avail := Component{AvailabilityTopic: "mqttmiio/bridge/status"}
	d.SetAvailability(avail)
	for id, cmp := range d.Components {
		if _, ok := cmp[Availability]; !ok {
			t.Errorf("%s: availability not set", id)
		}
	}
}
