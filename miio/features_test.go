package miio

import (
	"slices"
	"testing"
)

func TestFeatures_ExplicitTable(t *testing.T) {
	// Models with an explicit entry resolve to that entry regardless of
	// family membership.
	var tests = []struct {
		model string
		want  Feature
	}{
		{ModelAirhumidifierCA1, SetMotorSpeed},
		{ModelAirhumidifierCA4, SetMotorSpeed},
		{ModelAirhumidifierCB1, SetMotorSpeed},
		{ModelAirpurifier2S, SetFavoriteLevel},
		{ModelAirpurifierPro, SetFavoriteLevel | SetVolume},
		{ModelAirpurifierProV7, SetFavoriteLevel | SetVolume},
		{ModelAirpurifierV1, SetFavoriteLevel | SetVolume},
		{ModelAirpurifierV3, SetFavoriteLevel | SetVolume},
		{ModelAirfreshVA2, SetVolume},
	}
	for _, tt := range tests {
		if got := Features(tt.model); got != tt.want {
			t.Errorf("%s: want %v, got %v", tt.model, tt.want, got)
		}
	}
}

func TestFeatures_TableWinsOverFamily(t *testing.T) {
	// zhimi.airpurifier.v1 is in the MIIO family list but its explicit
	// entry carries the volume bit the family default lacks.
	if !slices.Contains(modelsPurifierMIIO, ModelAirpurifierV1) {
		t.Fatalf("%s not in MIIO family list", ModelAirpurifierV1)
	}
	want := SetFavoriteLevel | SetVolume
	if got := Features(ModelAirpurifierV1); got != want {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestFeatures_MIIOFallback(t *testing.T) {
	// zhimi.airpurifier.m1 has no explicit entry and resolves through
	// the MIIO family default.
	if _, ok := modelFeatures[ModelAirpurifierM1]; ok {
		t.Fatalf("%s unexpectedly in explicit table", ModelAirpurifierM1)
	}
	if got := Features(ModelAirpurifierM1); got != SetFavoriteLevel {
		t.Errorf("want %v, got %v", SetFavoriteLevel, got)
	}
}

func TestFeatures_MIOTFallback(t *testing.T) {
	want := SetFavoriteLevel | SetFanLevel
	if got := Features(ModelAirpurifier3H); got != want {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestFeatures_UnknownModel(t *testing.T) {
	if got := Features("acme.toaster.v9"); got != 0 {
		t.Errorf("want 0, got %v", got)
	}
	if got := Features(""); got != 0 {
		t.Errorf("want 0, got %v", got)
	}
}

func TestFeatureHas(t *testing.T) {
	f := SetFavoriteLevel | SetVolume
	if !f.Has(SetFavoriteLevel) {
		t.Error("expected favorite level bit")
	}
	if !f.Has(SetVolume) {
		t.Error("expected volume bit")
	}
	if f.Has(SetMotorSpeed) {
		t.Error("unexpected motor speed bit")
	}
	if f.Has(SetFanLevel) {
		t.Error("unexpected fan level bit")
	}
}

func TestModels(t *testing.T) {
	models := Models()
	seen := make(map[string]int, len(models))
	for _, m := range models {
		seen[m]++
	}
	for m, n := range seen {
		if n != 1 {
			t.Errorf("%s appears %d times", m, n)
		}
	}
	for _, m := range []string{ModelAirhumidifierCA1, ModelAirpurifierM1, ModelAirpurifier3H} {
		if _, ok := seen[m]; !ok {
			t.Errorf("missing %s", m)
		}
	}
}

func TestStatusAttr(t *testing.T) {
	s := Status{
		IsOn:          true,
		Mode:          ModeFavorite,
		MotorSpeed:    800,
		FavoriteLevel: 12,
		FanLevel:      2,
		Volume:        70,
	}
	var tests = []struct {
		key  string
		want int
	}{
		{AttrMotorSpeed, 800},
		{AttrFavoriteLevel, 12},
		{AttrFanLevel, 2},
		{AttrVolume, 70},
		{AttrMode, int(ModeFavorite)},
	}
	for _, tt := range tests {
		got, ok := s.Attr(tt.key)
		if !ok {
			t.Errorf("%s: not found", tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: want %d, got %d", tt.key, tt.want, got)
		}
	}
	if _, ok := s.Attr("humidity"); ok {
		t.Error("unexpected attribute")
	}
}
