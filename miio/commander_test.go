package miio

import (
	"context"
	"testing"
)

func TestCommander(t *testing.T) {
	dev := NewSimulated(ModelAirpurifierPro)
	c := NewCommander(dev)

	if want, got := ModelAirpurifierPro, c.Model(); got != want {
		t.Errorf("Model: want %q, got %q", want, got)
	}

	ctx := context.Background()
	if !c.TrySetFavoriteLevel(ctx, 9) {
		t.Fatal("TrySetFavoriteLevel failed")
	}
	status, err := dev.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 9, status.FavoriteLevel; got != want {
		t.Errorf("FavoriteLevel: want %d, got %d", want, got)
	}
	if want, got := ModeFavorite, status.Mode; got != want {
		t.Errorf("Mode: want %v, got %v", want, got)
	}
}

func TestCommander_AbsorbsFailure(t *testing.T) {
	dev := NewSimulated(ModelAirpurifierPro)
	dev.FailCommands(true)
	c := NewCommander(dev)

	ctx := context.Background()
	if c.TrySetSpeed(ctx, 600) {
		t.Error("TrySetSpeed: want false, got true")
	}
	if c.TrySetFavoriteLevel(ctx, 3) {
		t.Error("TrySetFavoriteLevel: want false, got true")
	}
	if c.TrySetFanLevel(ctx, 2) {
		t.Error("TrySetFanLevel: want false, got true")
	}
	if c.TrySetVolume(ctx, 10) {
		t.Error("TrySetVolume: want false, got true")
	}

	dev.FailCommands(false)
	if !c.TrySetVolume(ctx, 10) {
		t.Error("TrySetVolume: want true, got false")
	}
}

func TestOpen(t *testing.T) {
	dev, err := Open("mock", DriverConfig{Model: ModelAirhumidifierCA1})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := ModelAirhumidifierCA1, dev.Model(); got != want {
		t.Errorf("Model: want %q, got %q", want, got)
	}
	if _, err = Open("miiod", DriverConfig{}); err == nil {
		t.Error("want error for unknown driver")
	}
}
