package main

import (
	"errors"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"

	"github.com/lone-faerie/mqttmiio/config"
	"github.com/lone-faerie/mqttmiio/log"
)

// StopCommand publishes to the bridge's stop topic, asking a running
// bridge to disconnect gracefully.
var StopCommand = &cobra.Command{
	Use:     "stop [topic]",
	Short:   "Stop a running bridge",
	GroupID: "commands",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		log.SetLogLevel(log.LevelWarn)
		findConfig()
		cfg, err = config.Load(ConfigPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return
		}
		return flagsToConfig(cfg)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.MQTT.ClientOptions()
		client := mqtt.NewClient(opts)
		t := client.Connect()
		t.Wait()
		if err := t.Error(); err != nil {
			return err
		}
		defer client.Disconnect(500)
		topic := cfg.TopicPrefix + "/bridge/stop"
		if len(args) > 0 {
			topic = args[0]
		}
		t = client.Publish(topic, 0, false, []byte{})
		t.Wait()
		return t.Error()
	},
}

func init() {
	StopCommand.Flags().StringVarP(&ConfigPath, "config", "c", "", "Path to config file")
	StopCommand.Flags().StringVarP(&Broker, "broker", "b", "", "MQTT broker address")
	StopCommand.Flags().IntVarP(&Port, "port", "p", 1883, "MQTT broker port")
	StopCommand.Flags().StringVar(&Username, "username", "", "MQTT client username")
	StopCommand.Flags().StringVar(&Password, "password", "", "MQTT client password")

	RootCommand.AddCommand(StopCommand)
}
