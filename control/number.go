package control

import (
	"context"
	"sync"

	"github.com/olebedev/emitter"

	"github.com/lone-faerie/mqttmiio/coordinator"
	"github.com/lone-faerie/mqttmiio/log"
	"github.com/lone-faerie/mqttmiio/miio"
)

// EventState is the emitter topic a Number emits its value on whenever
// its state changes.
const EventState = "state"

// Number is one numeric control of a device. It mirrors the value of
// one status attribute and forwards user-set values to the device. The
// mirrored value is written only by SetValue and HandleRefresh, which
// never interleave for the same control.
type Number struct {
	emitter.Emitter

	desc     Descriptor
	cmd      *miio.Commander
	coord    *coordinator.Coordinator
	uniqueID string
	topic    string

	mu    sync.RWMutex
	value int
}

// New returns the controls selected by the feature mask, in registry
// order: exactly one Number per descriptor whose feature bit is set.
// Unique ids are derived from the descriptor key and uid so that
// multiple bridged devices never collide. State and command topics live
// under <prefix>/<uid>/<key>.
func New(mask miio.Feature, cmd *miio.Commander, coord *coordinator.Coordinator, prefix, uid string) []*Number {
	var controls []*Number
	for i := range Types {
		desc := &Types[i]
		if !mask.Has(desc.Feature) {
			continue
		}
		n := &Number{
			Emitter:  emitter.Emitter{Cap: 8},
			desc:     *desc,
			cmd:      cmd,
			coord:    coord,
			uniqueID: desc.Key + "_" + uid,
			topic:    prefix + "/" + uid + "/" + desc.Key,
		}
		v, _ := coord.Data().Attr(desc.Key)
		n.value = v
		controls = append(controls, n)
	}
	return controls
}

// Topic returns the topic the control's value is published to.
func (n *Number) Topic() string {
	return n.topic
}

// CommandTopic returns the topic user-set values arrive on.
func (n *Number) CommandTopic() string {
	return n.topic + "/set"
}

// Describe returns the control's descriptor.
func (n *Number) Describe() Descriptor {
	return n.desc
}

// Key returns the descriptor key of the control.
func (n *Number) Key() string {
	return n.desc.Key
}

// UniqueID returns the id identifying this control across bridges.
func (n *Number) UniqueID() string {
	return n.uniqueID
}

// Value returns the mirrored value from the last poll or successful
// write. Enumerated attributes surface their underlying integer.
func (n *Number) Value() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.value
}

// Available reports whether the control is interactive. A control is
// unavailable whenever the device connection is unavailable, and
// additionally while the device is powered off unless the descriptor
// allows off-state interaction.
func (n *Number) Available() bool {
	if !n.coord.Available() {
		return false
	}
	if !n.coord.Data().IsOn && !n.desc.AvailableWithDeviceOff {
		return false
	}
	return true
}

// SetValue forwards v to the device. On success the mirrored value is
// updated to v and a state event is emitted; on failure the mirror is
// left untouched and nothing is emitted. The device reports the final
// value on the next poll either way.
func (n *Number) SetValue(ctx context.Context, v int) bool {
	if v < n.desc.Min || v > n.desc.Max {
		log.Warn("Value out of bounds", "control", n.desc.Key, "value", v, "min", n.desc.Min, "max", n.desc.Max)
		return false
	}
	if !n.desc.Set(ctx, n.cmd, v) {
		return false
	}
	n.mu.Lock()
	n.value = v
	n.mu.Unlock()
	n.Emit(EventState, v)
	return true
}

// HandleRefresh overwrites the mirrored value from the coordinator's
// snapshot and emits a state event. Polling is the source of truth, so
// the polled value wins over any optimistically written one.
func (n *Number) HandleRefresh() {
	v, ok := n.coord.Data().Attr(n.desc.Key)
	if !ok {
		return
	}
	n.mu.Lock()
	n.value = v
	n.mu.Unlock()
	n.Emit(EventState, v)
}
