// Package config provides the structures used for configuration.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lone-faerie/mqttmiio/log"
)

// Config contains the configuration for the MQTT client, the device
// connection, and discovery. Config should be created with a call to
// [Default], [Read], or [Load] as some options require further
// configuration than simply setting.
type Config struct {
	Interval    time.Duration   `yaml:"interval"`
	TopicPrefix string          `yaml:"topic_prefix"`
	MQTT        MQTTConfig      `yaml:"mqtt,omitempty"`
	Discovery   DiscoveryConfig `yaml:"discovery,omitempty"`
	Log         LogConfig       `yaml:"log,omitempty"`
	Device      DeviceConfig    `yaml:"device"`
}

func defaultConfig() *Config {
	return &Config{
		Interval:    30 * time.Second,
		TopicPrefix: "mqttmiio",
		MQTT:        DefaultMQTT,
		Discovery:   DefaultDiscovery,
		Device:      DefaultDevice,
	}
}

// Default returns the default Config when no config file is provided.
func Default() *Config {
	cfg := defaultConfig()
	cfg.load()
	return cfg
}

// Read returns the Config parsed from the yaml encoded config from r.
func Read(r io.Reader) (cfg *Config, err error) {
	cfg = defaultConfig()
	if err = yaml.NewDecoder(r).Decode(cfg); err != nil {
		return
	}
	err = cfg.load()
	return
}

// Load returns the Config parsed from the given yaml file. If the file
// does not exist, the default config is returned.
func Load(file string) (cfg *Config, err error) {
	log.Info("Loading config", "path", file)
	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// load expands environment references and rewrites the default topic
// prefix in topic fields once the prefix is known.
func (cfg *Config) load() (err error) {
	cfg.expand()
	log.Debug("Topic prefix", "prefix", cfg.TopicPrefix)
	if cfg.TopicPrefix != "mqttmiio" {
		cfg.MQTT.BirthWillTopic = replacePrefix(cfg.MQTT.BirthWillTopic, cfg.TopicPrefix)
		cfg.Discovery.Availability = replacePrefix(cfg.Discovery.Availability, cfg.TopicPrefix)
	}
	if cfg.Discovery.Availability == "" {
		cfg.Discovery.Availability = cfg.MQTT.BirthWillTopic
	}
	if cfg.Device.Interval <= 0 {
		cfg.Device.Interval = cfg.Interval
	}
	return
}

func replacePrefix(topic, prefix string) string {
	if s, ok := strings.CutPrefix(topic, "mqttmiio/"); ok {
		return prefix + "/" + s
	}
	return topic
}

// Expand replaces ${var} or $var in s according to the values of the
// current environment variables.
func Expand(s string) string {
	return os.ExpandEnv(s)
}

func (cfg *Config) expand() {
	cfg.TopicPrefix = Expand(cfg.TopicPrefix)
	cfg.MQTT.Broker = Expand(cfg.MQTT.Broker)
	cfg.MQTT.ClientID = Expand(cfg.MQTT.ClientID)
	cfg.MQTT.Username = Expand(cfg.MQTT.Username)
	cfg.MQTT.Password = Expand(cfg.MQTT.Password)
	cfg.MQTT.BirthWillTopic = Expand(cfg.MQTT.BirthWillTopic)
	cfg.Discovery.Prefix = Expand(cfg.Discovery.Prefix)
	cfg.Discovery.Availability = Expand(cfg.Discovery.Availability)
	cfg.Device.Model = Expand(cfg.Device.Model)
	cfg.Device.Host = Expand(cfg.Device.Host)
	cfg.Device.Token = Expand(cfg.Device.Token)
	cfg.Device.ID = Expand(cfg.Device.ID)
	cfg.Device.Name = Expand(cfg.Device.Name)
}

// Write writes the yaml encoding of cfg to w.
func (cfg *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()

	enc.SetIndent(2)
	return enc.Encode(cfg)
}
