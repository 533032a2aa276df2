package control

import "github.com/lone-faerie/mqttmiio/discovery"

// Discover contributes the control's number component to the discovery
// payload.
func (n *Number) Discover(d *discovery.Discovery) {
	cmp := discovery.Component{
		discovery.Platform:          discovery.Number,
		discovery.Name:              n.desc.Name,
		discovery.Min:               n.desc.Min,
		discovery.Max:               n.desc.Max,
		discovery.Step:              n.desc.Step,
		discovery.Mode:              "slider",
		discovery.StateTopic:        n.Topic(),
		discovery.CommandTopic:      n.CommandTopic(),
		discovery.AvailabilityTopic: d.AvailabilityTopic,
		discovery.UniqueID:          n.uniqueID,
	}
	if n.desc.Icon != "" {
		cmp[discovery.Icon] = n.desc.Icon
	}
	if n.desc.Unit != "" {
		cmp[discovery.UnitOfMeasurement] = n.desc.Unit
	}
	d.Components[n.uniqueID] = cmp
}
