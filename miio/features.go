// Package miio provides the device-facing model of the bridge: the
// feature flags and model tables of supported Xiaomi appliances, the
// polled status snapshot, and the device command surface.
package miio

import (
	"fmt"
	"slices"
	"strings"
)

// Feature is a bitmask of the adjustable numeric attributes a device
// model supports.
type Feature uint16

const (
	SetMotorSpeed Feature = 1 << iota
	SetFavoriteLevel
	SetFanLevel
	SetVolume
)

// Has reports whether f has any of the given flags set.
func (f Feature) Has(flags Feature) bool {
	return f&flags != 0
}

func (f Feature) String() string {
	var s []string
	if f.Has(SetMotorSpeed) {
		s = append(s, "motor_speed")
	}
	if f.Has(SetFavoriteLevel) {
		s = append(s, "favorite_level")
	}
	if f.Has(SetFanLevel) {
		s = append(s, "fan_level")
	}
	if f.Has(SetVolume) {
		s = append(s, "volume")
	}
	return fmt.Sprintf("%s (%04b)", strings.Join(s, "|"), uint16(f))
}

// Supported device models.
const (
	ModelAirhumidifierCA1 = "zhimi.humidifier.ca1"
	ModelAirhumidifierCA4 = "zhimi.humidifier.ca4"
	ModelAirhumidifierCB1 = "zhimi.humidifier.cb1"

	ModelAirpurifierV1    = "zhimi.airpurifier.v1"
	ModelAirpurifierV2    = "zhimi.airpurifier.v2"
	ModelAirpurifierV3    = "zhimi.airpurifier.v3"
	ModelAirpurifierV5    = "zhimi.airpurifier.v5"
	ModelAirpurifierV6    = "zhimi.airpurifier.v6"
	ModelAirpurifierV7    = "zhimi.airpurifier.v7"
	ModelAirpurifierM1    = "zhimi.airpurifier.m1"
	ModelAirpurifierM2    = "zhimi.airpurifier.m2"
	ModelAirpurifierMA1   = "zhimi.airpurifier.ma1"
	ModelAirpurifierMA2   = "zhimi.airpurifier.ma2"
	ModelAirpurifierSA1   = "zhimi.airpurifier.sa1"
	ModelAirpurifierSA2   = "zhimi.airpurifier.sa2"
	ModelAirpurifier2S    = "zhimi.airpurifier.mc1"
	ModelAirpurifierPro   = "zhimi.airpurifier.v6"
	ModelAirpurifierProV7 = "zhimi.airpurifier.v7"
	ModelAirpurifier2H    = "zhimi.airpurifier.mc2"

	ModelAirpurifier3   = "zhimi.airpurifier.ma4"
	ModelAirpurifier3H  = "zhimi.airpurifier.mb3"
	ModelAirpurifierZA1 = "zhimi.airpurifier.za1"

	ModelAirfreshVA2 = "zhimi.airfresh.va2"
)

// Per-model feature masks. Only the bits relevant to numeric controls
// are declared, mirroring what each appliance firmware accepts.
const (
	featuresAirhumidifierCAAndCB = SetMotorSpeed
	featuresAirhumidifierCA4     = SetMotorSpeed
	featuresAirpurifier          = SetFavoriteLevel
	featuresAirpurifierPro       = SetFavoriteLevel | SetVolume
	featuresAirpurifierProV7     = SetFavoriteLevel | SetVolume
	featuresAirpurifierV1        = SetFavoriteLevel | SetVolume
	featuresAirpurifierV3        = SetFavoriteLevel | SetVolume
	featuresAirpurifier2S        = SetFavoriteLevel
	featuresAirpurifierMIOT      = SetFavoriteLevel | SetFanLevel
	featuresAirfresh             = SetVolume
)

// modelFeatures is the explicit model table. It is consulted before the
// family fallbacks below; some humidifier models match neither purifier
// family and only resolve through this table. The table and family lists
// are not disjoint, so the lookup order is load-bearing.
var modelFeatures = map[string]Feature{
	ModelAirhumidifierCA1: featuresAirhumidifierCAAndCB,
	ModelAirhumidifierCA4: featuresAirhumidifierCA4,
	ModelAirhumidifierCB1: featuresAirhumidifierCAAndCB,
	ModelAirpurifier2S:    featuresAirpurifier2S,
	ModelAirpurifierPro:   featuresAirpurifierPro,
	ModelAirpurifierProV7: featuresAirpurifierProV7,
	ModelAirpurifierV1:    featuresAirpurifierV1,
	ModelAirpurifierV3:    featuresAirpurifierV3,
	ModelAirfreshVA2:      featuresAirfresh,
}

// modelsPurifierMIIO are the purifier models driven over the legacy MIIO
// protocol that share a default feature mask.
var modelsPurifierMIIO = []string{
	ModelAirpurifierV1,
	ModelAirpurifierV2,
	ModelAirpurifierV3,
	ModelAirpurifierV5,
	ModelAirpurifierV6,
	ModelAirpurifierV7,
	ModelAirpurifierM1,
	ModelAirpurifierM2,
	ModelAirpurifierMA1,
	ModelAirpurifierMA2,
	ModelAirpurifierSA1,
	ModelAirpurifierSA2,
	ModelAirpurifier2S,
	ModelAirpurifier2H,
}

// modelsPurifierMIOT are the purifier models driven over the MIOT
// protocol that share a default feature mask.
var modelsPurifierMIOT = []string{
	ModelAirpurifier3,
	ModelAirpurifier3H,
	ModelAirpurifierZA1,
}

// Models returns every model known to the resolver, deduplicated
// across the explicit table and both family lists.
func Models() []string {
	seen := make(map[string]struct{}, len(modelFeatures)+len(modelsPurifierMIIO)+len(modelsPurifierMIOT))
	var models []string
	add := func(m string) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			models = append(models, m)
		}
	}
	for m := range modelFeatures {
		add(m)
	}
	for _, m := range modelsPurifierMIIO {
		add(m)
	}
	for _, m := range modelsPurifierMIOT {
		add(m)
	}
	return models
}

// Features resolves the feature mask for the given model. The explicit
// model table wins over the family fallbacks. A zero mask means the
// model has no numeric controls; that is a valid outcome, not an error.
func Features(model string) Feature {
	if f, ok := modelFeatures[model]; ok {
		return f
	}
	if slices.Contains(modelsPurifierMIIO, model) {
		return featuresAirpurifier
	}
	if slices.Contains(modelsPurifierMIOT, model) {
		return featuresAirpurifierMIOT
	}
	return 0
}
