// Package mqttmiio implements a bridge to expose the adjustable numeric
// attributes of Xiaomi MIIO/MIOT appliances (motor speed, favorite
// level, fan level, volume) to an MQTT broker as Home Assistant number
// entities.
//
// The bridged model decides which controls exist: models with an
// explicit feature entry use it, remaining purifiers fall back to their
// protocol family's default, and unknown models expose no controls at
// all. Device state is polled on an interval; user-set values are
// written optimistically and overwritten by the next poll.
//
// The device transport is pluggable. Only the "mock" driver is built
// in; a real client registers itself with [miio.RegisterDriver] the way
// database/sql drivers do. See the miio package for the driver surface.
//
// Configuration is loaded from a YAML file. If no config file is
// specified, the default path is the first defined value of
// $MQTTMIIO_CONFIG_PATH, $XDG_CONFIG_HOME/mqttmiio.yaml, or
// $HOME/.config/mqttmiio.yaml. If none of these files exist, the
// default configuration is used, which looks for the following
// environment variables:
//
//   - broker:   $MQTTMIIO_BROKER_ADDRESS
//   - username: $MQTTMIIO_BROKER_USERNAME
//   - password: $MQTTMIIO_BROKER_PASSWORD
//   - model:    $MQTTMIIO_DEVICE_MODEL
//   - host:     $MQTTMIIO_DEVICE_HOST
//   - token:    $MQTTMIIO_DEVICE_TOKEN
package mqttmiio
