// Package coordinator polls a device on a fixed interval and caches the
// latest status snapshot for any number of consumers.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lone-faerie/mqttmiio/log"
	"github.com/lone-faerie/mqttmiio/miio"
)

// ErrNoChange is reported on the update channel when a poll succeeded
// but the snapshot is identical to the previous one.
var ErrNoChange = errors.New("coordinator: no change")

// Coordinator owns the polling loop for a single device. The cached
// snapshot is only written by the loop and by Refresh; consumers read
// it through Data.
type Coordinator struct {
	dev miio.Device

	interval time.Duration
	tick     *time.Ticker

	mu        sync.RWMutex
	data      miio.Status
	available bool

	once sync.Once
	stop context.CancelFunc
	ch   chan error
}

// New returns a Coordinator polling dev every interval. The coordinator
// is unavailable until the first successful poll.
func New(dev miio.Device, interval time.Duration) *Coordinator {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Coordinator{
		dev:      dev,
		interval: interval,
	}
}

// Data returns the last fetched snapshot.
func (c *Coordinator) Data() miio.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Available reports whether the last poll succeeded.
func (c *Coordinator) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

// SetInterval sets the polling interval.
func (c *Coordinator) SetInterval(d time.Duration) {
	c.mu.Lock()
	if c.tick != nil && d != c.interval {
		c.tick.Reset(d)
	}
	c.interval = d
	c.mu.Unlock()
}

// Refresh forces a poll regardless of the interval. A successful poll
// that changed nothing returns [ErrNoChange].
func (c *Coordinator) Refresh(ctx context.Context) error {
	status, err := c.dev.Status(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.available = false
		return err
	}
	changed := status != c.data || !c.available
	c.data = status
	c.available = true
	if !changed {
		return ErrNoChange
	}
	return nil
}

func (c *Coordinator) loop(ctx context.Context) {
	c.mu.Lock()
	c.tick = time.NewTicker(c.interval)
	c.mu.Unlock()

	defer c.tick.Stop()
	defer close(c.ch)
	var (
		err error
		ch  chan error
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.tick.C:
			err = c.Refresh(ctx)
			if err == ErrNoChange {
				log.Debug("Device polled, no change", "model", c.dev.Model())
				break
			}
			log.Debug("Device polled", "model", c.dev.Model())
			ch = c.ch
		case ch <- err:
			ch = nil
		}
	}
}

// Start begins the polling loop. Start may only be called once; calls
// after Stop do nothing.
func (c *Coordinator) Start(ctx context.Context) error {
	err := c.Refresh(ctx)
	if err != nil && err != ErrNoChange {
		log.Warn("Initial poll failed", "model", c.dev.Model(), "err", err)
	}
	c.once.Do(func() {
		ctx, c.stop = context.WithCancel(ctx)
		c.ch = make(chan error)
		go c.loop(ctx)
	})
	return nil
}

// Updated returns the channel poll results are delivered on. A nil
// value indicates a successful poll with changes; poll errors are
// delivered as-is so consumers can surface unavailability.
func (c *Coordinator) Updated() <-chan error {
	return c.ch
}

// Stop ends the polling loop. The coordinator may not be restarted.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.stop != nil {
		c.stop()
	}
	c.mu.Unlock()
}
