package discovery

// Option is an abbreviated discovery payload key.
//
// See https://www.home-assistant.io/integrations/mqtt/#supported-abbreviations-in-mqtt-discovery-messages
type Option string

// Options for origin
const (
	Name       Option = "name"
	SWVersion  Option = "sw"
	SupportURL Option = "url"
)

// Options for device
const (
	ConfigurationURL Option = "cu"
	Connections      Option = "cns"
	Identifiers      Option = "ids"
	Manufacturer     Option = "mf"
	Model            Option = "mdl"
	ModelID          Option = "mdl_id"
	HWVersion        Option = "hw"
	SuggestedArea    Option = "sa"
	SerialNumber     Option = "sn"
)

// Options for components
const (
	Availability         Option = "avty"
	AvailabilityMode     Option = "avty_mode"
	AvailabilityTopic    Option = "avty_t"
	AvailabilityTemplate Option = "avty_tpl"
	CommandTopic         Option = "cmd_t"
	CommandTemplate      Option = "cmd_tpl"
	DeviceClass          Option = "dev_cla"
	EnabledByDefault     Option = "en"
	EntityCategory       Option = "ent_cat"
	Icon                 Option = "ic"
	Max                  Option = "max"
	Min                  Option = "min"
	Mode                 Option = "mode"
	ObjectID             Option = "obj_id"
	Platform             Option = "p"
	PayloadAvailable     Option = "pl_avail"
	PayloadNotAvailable  Option = "pl_not_avail"
	Retain               Option = "ret"
	StateTopic           Option = "stat_t"
	Step                 Option = "step"
	UniqueID             Option = "uniq_id"
	UnitOfMeasurement    Option = "unit_of_meas"
	ValueTemplate        Option = "val_tpl"
)
