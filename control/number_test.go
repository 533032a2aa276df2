package control

import (
	"context"
	"testing"
	"time"

	"github.com/lone-faerie/mqttmiio/coordinator"
	"github.com/lone-faerie/mqttmiio/miio"
)

func testControls(t *testing.T, model string) ([]*Number, *miio.Simulated, *coordinator.Coordinator) {
	t.Helper()

	dev := miio.NewSimulated(model)
	coord := coordinator.New(dev, time.Minute)
	if err := coord.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	controls := New(miio.Features(model), miio.NewCommander(dev), coord, "mqttmiio", "test-device")
	return controls, dev, coord
}

func keys(controls []*Number) []string {
	k := make([]string, len(controls))
	for i, n := range controls {
		k[i] = n.Key()
	}
	return k
}

func TestNew_SelectsByMask(t *testing.T) {
	var tests = []struct {
		model string
		want  []string
	}{
		{miio.ModelAirhumidifierCA1, []string{miio.AttrMotorSpeed}},
		{miio.ModelAirpurifierPro, []string{miio.AttrFavoriteLevel, miio.AttrVolume}},
		{miio.ModelAirpurifier3H, []string{miio.AttrFavoriteLevel, miio.AttrFanLevel}},
		{miio.ModelAirpurifier2S, []string{miio.AttrFavoriteLevel}},
		{"acme.toaster.v9", nil},
	}
	for _, tt := range tests {
		controls, _, _ := testControls(t, tt.model)
		got := keys(controls)
		if len(got) != len(tt.want) {
			t.Errorf("%s: want %v, got %v", tt.model, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: want %v, got %v", tt.model, tt.want, got)
				break
			}
		}
	}
}

func TestNew_FavoriteLevelBounds(t *testing.T) {
	controls, _, _ := testControls(t, miio.ModelAirpurifier2S)
	if len(controls) != 1 {
		t.Fatalf("want 1 control, got %d", len(controls))
	}
	n := controls[0]
	desc := n.Describe()
	if want, got := miio.AttrFavoriteLevel, desc.Key; got != want {
		t.Errorf("Key: want %q, got %q", want, got)
	}
	if desc.Min != 0 || desc.Max != 17 || desc.Step != 1 {
		t.Errorf("bounds: want [0..17] step 1, got [%d..%d] step %d", desc.Min, desc.Max, desc.Step)
	}
	if want, got := "favorite_level_test-device", n.UniqueID(); got != want {
		t.Errorf("UniqueID: want %q, got %q", want, got)
	}
	if want, got := "mqttmiio/test-device/favorite_level", n.Topic(); got != want {
		t.Errorf("Topic: want %q, got %q", want, got)
	}
	if want, got := n.Topic()+"/set", n.CommandTopic(); got != want {
		t.Errorf("CommandTopic: want %q, got %q", want, got)
	}
}

func TestRegistry_UniqueFeatureBits(t *testing.T) {
	var seen miio.Feature
	for i := range Types {
		if seen.Has(Types[i].Feature) {
			t.Errorf("%s: feature bit already used", Types[i].Key)
		}
		seen |= Types[i].Feature
	}
}

func favoriteControl(t *testing.T) (*Number, *miio.Simulated, *coordinator.Coordinator) {
	t.Helper()

	controls, dev, coord := testControls(t, miio.ModelAirpurifier2S)
	if len(controls) != 1 {
		t.Fatalf("want 1 control, got %d", len(controls))
	}
	return controls[0], dev, coord
}

func TestSetValue(t *testing.T) {
	n, _, _ := favoriteControl(t)
	ch := n.On(EventState)
	defer n.Off(EventState, ch)

	if !n.SetValue(context.Background(), 11) {
		t.Fatal("SetValue failed")
	}
	if want, got := 11, n.Value(); got != want {
		t.Errorf("Value: want %d, got %d", want, got)
	}

	select {
	case e := <-ch:
		if want, got := 11, e.Args[0].(int); got != want {
			t.Errorf("event value: want %d, got %d", want, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no state event emitted")
	}
}

func TestSetValue_Failure(t *testing.T) {
	n, dev, _ := favoriteControl(t)
	dev.FailCommands(true)
	ch := n.On(EventState)
	defer n.Off(EventState, ch)

	before := n.Value()
	if n.SetValue(context.Background(), 11) {
		t.Fatal("SetValue: want false, got true")
	}
	if got := n.Value(); got != before {
		t.Errorf("Value: want %d, got %d", before, got)
	}
	select {
	case <-ch:
		t.Error("state event emitted on failure")
	default:
	}
}

func TestSetValue_OutOfBounds(t *testing.T) {
	n, _, _ := favoriteControl(t)
	before := n.Value()

	if n.SetValue(context.Background(), 18) {
		t.Error("SetValue(18): want false, got true")
	}
	if n.SetValue(context.Background(), -1) {
		t.Error("SetValue(-1): want false, got true")
	}
	if got := n.Value(); got != before {
		t.Errorf("Value: want %d, got %d", before, got)
	}
}

func TestHandleRefresh_PollingWins(t *testing.T) {
	n, dev, coord := favoriteControl(t)
	ctx := context.Background()

	// Optimistic write; the device then reports a different value on
	// the next poll, e.g. clamped by firmware.
	if !n.SetValue(ctx, 11) {
		t.Fatal("SetValue failed")
	}
	dev.SetFavoriteLevel(ctx, 7)
	if err := coord.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	ch := n.On(EventState)
	defer n.Off(EventState, ch)
	n.HandleRefresh()

	if want, got := 7, n.Value(); got != want {
		t.Errorf("Value: want %d, got %d", want, got)
	}
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("no state event emitted")
	}
}

func TestAvailable(t *testing.T) {
	// Motor speed is unavailable while the device is off; favorite
	// level stays interactive.
	controls, dev, coord := testControls(t, miio.ModelAirhumidifierCA1)
	if len(controls) != 1 {
		t.Fatalf("want 1 control, got %d", len(controls))
	}
	speed := controls[0]
	ctx := context.Background()

	if !speed.Available() {
		t.Error("motor speed unavailable while on")
	}

	dev.SetPower(false)
	if err := coord.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if speed.Available() {
		t.Error("motor speed available while off")
	}

	favorite, dev2, coord2 := favoriteControl(t)
	dev2.SetPower(false)
	if err := coord2.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if !favorite.Available() {
		t.Error("favorite level unavailable while off")
	}

	dev2.SetOffline(true)
	coord2.Refresh(ctx)
	if favorite.Available() {
		t.Error("favorite level available while device offline")
	}
}
