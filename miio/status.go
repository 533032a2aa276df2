package miio

// OperationMode is the operating mode reported by the appliance. The
// wire value is the integer, the name is only for display.
type OperationMode int

const (
	ModeAuto OperationMode = iota
	ModeSilent
	ModeFavorite
	ModeFan
)

func (m OperationMode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeSilent:
		return "silent"
	case ModeFavorite:
		return "favorite"
	case ModeFan:
		return "fan"
	}
	return "unknown"
}

// Attribute keys of the numeric controls. These double as the state
// topic keys published by the bridge.
const (
	AttrMotorSpeed    = "motor_speed"
	AttrFavoriteLevel = "favorite_level"
	AttrFanLevel      = "fan_level"
	AttrVolume        = "volume"
	AttrMode          = "mode"
)

// Status is the snapshot of device state cached by the coordinator
// between polls. Consumers treat it as read-only.
type Status struct {
	IsOn          bool          `json:"is_on"`
	Mode          OperationMode `json:"mode"`
	MotorSpeed    int           `json:"motor_speed"`
	FavoriteLevel int           `json:"favorite_level"`
	FanLevel      int           `json:"fan_level"`
	Volume        int           `json:"volume"`
}

// Attr projects the attribute named by key to its scalar value.
// Enumerated attributes surface the underlying integer, not the name.
// The second return is false for keys the snapshot does not carry.
func (s Status) Attr(key string) (int, bool) {
	switch key {
	case AttrMotorSpeed:
		return s.MotorSpeed, true
	case AttrFavoriteLevel:
		return s.FavoriteLevel, true
	case AttrFanLevel:
		return s.FanLevel, true
	case AttrVolume:
		return s.Volume, true
	case AttrMode:
		return int(s.Mode), true
	}
	return 0, false
}
