package mqttmiio

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lone-faerie/mqttmiio/config"
	"github.com/lone-faerie/mqttmiio/control"
	"github.com/lone-faerie/mqttmiio/coordinator"
	"github.com/lone-faerie/mqttmiio/discovery"
	"github.com/lone-faerie/mqttmiio/log"
	"github.com/lone-faerie/mqttmiio/miio"
)

// Bridge is the mqtt client that bridges a device's numeric controls to
// the mqtt broker.
type Bridge struct {
	client mqtt.Client

	topicPrefix  string
	discoveryCfg *config.DiscoveryConfig
	deviceCfg    *config.DeviceConfig

	cmdr     *miio.Commander
	coord    *coordinator.Coordinator
	controls []*control.Number

	once sync.Once

	cancel context.CancelFunc
	wg     sync.WaitGroup
	ready  chan struct{}
	done   chan struct{}
}

// New returns a new Bridge with the provided config, a [mqtt.Client]
// derived from the config, and a device opened with the configured
// driver. The bridge must have [Bridge.Connect] and [Bridge.Start]
// called on it before it may be used.
func New(cfg *config.Config) (*Bridge, error) {
	dev, err := miio.Open(cfg.Device.Driver, miio.DriverConfig{
		Model: cfg.Device.Model,
		Host:  cfg.Device.Host,
		Token: cfg.Device.Token,
	})
	if err != nil {
		return nil, err
	}
	client := mqtt.NewClient(cfg.MQTT.ClientOptions())
	return NewWithClient(cfg, client, dev), nil
}

// NewWithClient returns a new Bridge with the provided config,
// [mqtt.Client], and device. The bridge must have [Bridge.Connect] and
// [Bridge.Start] called on it before it may be used.
func NewWithClient(cfg *config.Config, c mqtt.Client, dev miio.Device) *Bridge {
	if cfg.MQTT.LogLevel <= log.LevelError {
		mqtt.ERROR = log.ErrorLogger()
	}
	if cfg.MQTT.LogLevel <= log.LevelWarn {
		mqtt.WARN = log.WarnLogger()
	}
	if cfg.MQTT.LogLevel <= log.LevelDebug {
		mqtt.DEBUG = log.DebugLogger()
	}
	if cfg.Discovery.Availability == "" {
		cfg.Discovery.Availability = cfg.MQTT.BirthWillTopic
	}
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = "mqttmiio"
	}
	return &Bridge{
		client:       c,
		topicPrefix:  prefix,
		discoveryCfg: &cfg.Discovery,
		deviceCfg:    &cfg.Device,
		cmdr:         miio.NewCommander(dev),
		coord:        coordinator.New(dev, cfg.Device.Interval),
	}
}

func waitToken(ctx context.Context, t mqtt.Token) error {
	select {
	case <-ctx.Done():
		return nil
	case <-t.Done():
	}
	return t.Error()
}

// Connect will create a connection to the message broker.
func (b *Bridge) Connect(ctx context.Context) error {
	t := b.client.Connect()
	return waitToken(ctx, t)
}

// Controls returns the controls the bridge exposes. The set is computed
// once during Start from the model's resolved features and never
// recomputed.
func (b *Bridge) Controls() []*control.Number {
	return b.controls
}

// Coordinator returns the polling coordinator of the bridged device.
func (b *Bridge) Coordinator() *coordinator.Coordinator {
	return b.coord
}

func (b *Bridge) publishAvailability(ctx context.Context, online bool) error {
	payload := "offline"
	if online {
		payload = "online"
	}
	opts := b.client.OptionsReader()
	if ctx == nil {
		ctx = context.Background()
	}
	t := b.client.Publish(opts.WillTopic(), opts.WillQos(), opts.WillRetained(), payload)
	return waitToken(ctx, t)
}

func (b *Bridge) publishState(n *control.Number) {
	t := b.client.Publish(n.Topic(), 0, true, strconv.Itoa(n.Value()))
	if t.Wait() && t.Error() != nil {
		log.Warn("Error publishing state", "control", n.Key(), "err", t.Error())
	}
}

// handleCommand forwards a user-set value to the device. Values are
// accepted as integers or floats; anything else is dropped with a
// warning.
func (b *Bridge) handleCommand(ctx context.Context, n *control.Number) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		msg.Ack()
		f, err := strconv.ParseFloat(strings.TrimSpace(string(msg.Payload())), 64)
		if err != nil {
			log.Warn("Dropping malformed command", "control", n.Key(), "payload", string(msg.Payload()))
			return
		}
		go n.SetValue(ctx, int(f))
	}
}

func (b *Bridge) startControl(ctx context.Context, n *control.Number) {
	t := b.client.Subscribe(n.CommandTopic(), 0, b.handleCommand(ctx, n))
	if err := waitToken(ctx, t); err != nil {
		log.Error("Error subscribing to "+n.CommandTopic(), err)
		return
	}
	ch := n.On(control.EventState)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer n.Off(control.EventState, ch)
		log.Info(n.Key() + " started")
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				b.publishState(n)
			}
		}
	}()
	b.publishState(n)
}

func (b *Bridge) watchCoordinator(ctx context.Context) {
	defer b.wg.Done()
	online := b.coord.Available()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-b.coord.Updated():
			if !ok {
				return
			}
			if err != nil && err != coordinator.ErrNoChange {
				log.Warn("Error polling device", "model", b.cmdr.Model(), "err", err)
			}
			for _, n := range b.controls {
				n.HandleRefresh()
			}
			if avail := b.coord.Available(); avail != online {
				online = avail
				if err := b.publishAvailability(ctx, online); err != nil {
					log.Warn("Error publishing availability", "err", err)
				}
			}
		}
	}
}

// Start resolves the device's features, builds the control set, and
// begins listening for commands and poll updates. A model with no
// applicable controls is not an error; the bridge stays connected and
// reports availability only.
func (b *Bridge) Start(ctx context.Context) {
	b.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		b.start(ctx)
	})
}

func (b *Bridge) start(ctx context.Context) {
	b.ready = make(chan struct{})
	b.done = make(chan struct{})
	ctx, b.cancel = context.WithCancel(ctx)
	go func() {
		defer close(b.ready)
		b.coord.Start(ctx)

		model := b.cmdr.Model()
		features := miio.Features(model)
		b.controls = control.New(features, b.cmdr, b.coord, b.topicPrefix, b.deviceCfg.UniqueID())
		if len(b.controls) == 0 {
			log.Info("Model exposes no numeric controls", "model", model)
		} else {
			log.Info("Controls resolved", "model", model, "features", features.String())
		}

		for _, n := range b.controls {
			b.startControl(ctx, n)
			select {
			case <-ctx.Done():
				return
			default:
			}
		}

		b.wg.Add(1)
		go b.watchCoordinator(ctx)

		if err := b.publishAvailability(ctx, true); err != nil {
			log.Error("Unable to publish birth message", err)
		}
		t := b.client.Subscribe(b.topicPrefix+"/bridge/stop", 0, func(_ mqtt.Client, msg mqtt.Message) {
			msg.Ack()
			b.Disconnect()
		})
		if err := waitToken(ctx, t); err != nil {
			log.Error("Unable to subscribe to stop topic", err)
		}
	}()
}

// Ready returns a channel that can be used to wait until the bridge has
// started.
func (b *Bridge) Ready() <-chan struct{} {
	return b.ready
}

// Done returns a channel that can be used to wait until the bridge has
// disconnected.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Refresh forces a poll of the device and re-renders every control.
func (b *Bridge) Refresh(ctx context.Context) error {
	err := b.coord.Refresh(ctx)
	if err != nil && err != coordinator.ErrNoChange {
		return err
	}
	for _, n := range b.controls {
		n.HandleRefresh()
	}
	return nil
}

// Disconnect will end the connection with the server.
func (b *Bridge) Disconnect() {
	if !b.client.IsConnected() {
		return
	}
	if err := b.publishAvailability(nil, false); err != nil {
		log.Warn("Unable to publish LWT on graceful disconnect", "err", err)
	}
	b.client.Disconnect(500)
	if b.ready != nil {
		<-b.ready
	}
	b.cancel()
	b.coord.Stop()
	b.wg.Wait()
	time.Sleep(time.Second)
	log.Info("Disconnected")
	close(b.done)
}

// Discover publishes the discovery payload for Home Assistant MQTT
// discovery.
func (b *Bridge) Discover(ctx context.Context) error {
	cmps := make([]discovery.Discoverer, len(b.controls))
	for i, n := range b.controls {
		cmps[i] = n
	}
	d, err := discovery.New(b.discoveryCfg, discovery.NewDevice(b.deviceCfg), cmps...)
	if err != nil {
		return err
	}
	if err = d.Publish(ctx, b.client); err != nil {
		log.Error("Unable to perform discovery", err)
		return err
	}
	log.Info("Discovery complete")
	return nil
}
