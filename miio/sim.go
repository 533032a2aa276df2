package miio

import (
	"context"
	"errors"
	"sync"
)

// ErrOffline is returned by a simulated device whose connection has
// been toggled off.
var ErrOffline = errors.New("miio: device offline")

// Simulated is an in-memory Device used by tests and the mock run mode
// of the bridge. Setters apply immediately to the simulated state.
type Simulated struct {
	model string

	mu      sync.Mutex
	status  Status
	offline bool
	fail    bool
}

// NewSimulated returns a simulated device of the given model, powered
// on in auto mode.
func NewSimulated(model string) *Simulated {
	return &Simulated{
		model: model,
		status: Status{
			IsOn:          true,
			Mode:          ModeAuto,
			MotorSpeed:    400,
			FavoriteLevel: 1,
			FanLevel:      1,
			Volume:        50,
		},
	}
}

func (s *Simulated) Model() string {
	return s.model
}

func (s *Simulated) Status(_ context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offline {
		return Status{}, ErrOffline
	}
	return s.status, nil
}

// SetOffline toggles whether the simulated connection is down. While
// offline every call returns [ErrOffline].
func (s *Simulated) SetOffline(offline bool) {
	s.mu.Lock()
	s.offline = offline
	s.mu.Unlock()
}

// FailCommands toggles whether setters report failure without applying.
func (s *Simulated) FailCommands(fail bool) {
	s.mu.Lock()
	s.fail = fail
	s.mu.Unlock()
}

// SetPower flips the simulated power state.
func (s *Simulated) SetPower(on bool) {
	s.mu.Lock()
	s.status.IsOn = on
	s.mu.Unlock()
}

func (s *Simulated) set(apply func(*Status)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offline {
		return ErrOffline
	}
	if s.fail {
		return errors.New("miio: command failed")
	}
	apply(&s.status)
	return nil
}

func (s *Simulated) SetSpeed(_ context.Context, rpm int) error {
	return s.set(func(st *Status) { st.MotorSpeed = rpm })
}

func (s *Simulated) SetFavoriteLevel(_ context.Context, level int) error {
	return s.set(func(st *Status) {
		st.FavoriteLevel = level
		st.Mode = ModeFavorite
	})
}

func (s *Simulated) SetFanLevel(_ context.Context, level int) error {
	return s.set(func(st *Status) {
		st.FanLevel = level
		st.Mode = ModeFan
	})
}

func (s *Simulated) SetVolume(_ context.Context, volume int) error {
	return s.set(func(st *Status) { st.Volume = volume })
}
