package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lone-faerie/mqttmiio"
	"github.com/lone-faerie/mqttmiio/config"
	"github.com/lone-faerie/mqttmiio/log"
)

// Flags for [RunCommand]
var (
	ConfigPath string        // Path to config file (default is first of $MQTTMIIO_CONFIG_PATH, $XDG_CONFIG_HOME/mqttmiio.yaml, $HOME/.config/mqttmiio.yaml)
	Broker     string        // MQTT broker address
	Port       int           // MQTT broker port
	Username   string        // MQTT broker username
	Password   string        // MQTT broker password
	CertFile   string        // MQTT TLS certificate file (PEM encoded)
	KeyFile    string        // MQTT TLS private key file (PEM encoded)
	Model      string        // Device model identifier
	Host       string        // Device address
	Token      string        // Device token
	Driver     string        // Device driver
	Interval   time.Duration // Polling interval
	Discovery  string        // Discovery prefix, or 'disabled' to disable
	LogLevel   string        // Log level
	Watch      bool          // Watch the config file and refresh on change
)

var cfg *config.Config

// RunCommand is the main [cobra.Command] used for running the bridge.
var RunCommand = &cobra.Command{
	Use:     "run [--config <path>] [flags]",
	Aliases: []string{"start"},
	Short:   "Run the bridge",
	Long: `Run a bridge to provide the device's numeric controls to the MQTT broker.

A connection to the MQTT broker will be established and the bridge will run in the foreground until a signal is received.

	- SIGINT or SIGTERM will gracefully shutdown the bridge.

If no config file is specified, the default path will be determined by the first defined value of $MQTTMIIO_CONFIG_PATH, $XDG_CONFIG_HOME/mqttmiio.yaml, or $HOME/.config/mqttmiio.yaml. If none of these files exist, the default configuration will be used, which looks for the following environment variables:

	- broker:   $MQTTMIIO_BROKER_ADDRESS
	- username: $MQTTMIIO_BROKER_USERNAME
	- password: $MQTTMIIO_BROKER_PASSWORD
	- model:    $MQTTMIIO_DEVICE_MODEL
	- host:     $MQTTMIIO_DEVICE_HOST
	- token:    $MQTTMIIO_DEVICE_TOKEN

All of the flags, if specified, will override the equivalent values in the config. The format of --broker should be scheme://host:port where "scheme" is one of "tcp", "ssl", or "ws". If "scheme" is not defined, it defaults to "tcp" and if "port" is not defined, it will use the value of --port (default 1883).

The controls exposed by the bridge are decided by the device model; a model with no numeric controls is valid and the bridge will only report availability.`,
	Example: `  mqttmiio run --config config.yaml
  mqttmiio run --broker 127.0.0.1:1883 --model zhimi.airpurifier.mc1 --host 192.168.1.40 --token $TOKEN
  mqttmiio run --driver mock --model zhimi.humidifier.ca1`,
	GroupID: "commands",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		PrintBanner(cmd)

		findConfig()
		cfg, err = config.Load(ConfigPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return
		}
		if err = flagsToConfig(cfg); err != nil {
			return
		}
		log.Info("Config loaded")
		setLogHandler(cfg)
		log.Debug("MQTT broker", "addr", cfg.MQTT.Broker)
		return
	},
	RunE: runBridge,

	DisableFlagsInUseLine: true,
}

func init() {
	RunCommand.Flags().SortFlags = false
	RunCommand.Flags().StringVarP(&ConfigPath, "config", "c", "", "Path to config file")
	RunCommand.Flags().StringVarP(&Broker, "broker", "b", "", "MQTT broker address")
	RunCommand.Flags().IntVarP(&Port, "port", "p", 1883, "MQTT broker port")
	RunCommand.Flags().StringVar(&Username, "username", "", "MQTT client username")
	RunCommand.Flags().StringVar(&Password, "password", "", "MQTT client password")
	RunCommand.Flags().StringVar(&CertFile, "cert", "", "MQTT TLS certificate file (PEM encoded)")
	RunCommand.Flags().StringVar(&KeyFile, "key", "", "MQTT TLS private key file (PEM encoded)")
	RunCommand.Flags().StringVarP(&Model, "model", "m", "", "Device model identifier")
	RunCommand.Flags().StringVar(&Host, "host", "", "Device address")
	RunCommand.Flags().StringVar(&Token, "token", "", "Device token")
	RunCommand.Flags().StringVar(&Driver, "driver", "", "Device driver")
	RunCommand.Flags().DurationVarP(&Interval, "interval", "i", 0, "Polling interval")
	RunCommand.Flags().StringVarP(&Discovery, "discovery", "D", "", "Discovery prefix, or 'disabled' to disable")
	RunCommand.Flags().StringVarP(&LogLevel, "log", "l", "", "Log level")
	RunCommand.Flags().BoolVarP(&Watch, "watch", "w", false, "Watch the config file and refresh on change")

	RunCommand.MarkFlagFilename("config", "yaml", "yml")

	RunCommand.SetHelpTemplate(RunCommand.HelpTemplate() + "\n" + fullDocsFooter + "\n")

	RootCommand.AddCommand(RunCommand)
}

func flagsToConfig(cfg *config.Config) error {
	if LogLevel != "" {
		var level log.Level
		if err := level.UnmarshalText([]byte(LogLevel)); err != nil {
			return err
		}
		cfg.Log.Level = level
	}
	if Broker != "" {
		if !strings.Contains(Broker, ":") && Port >= 0 {
			Broker += ":" + strconv.Itoa(Port)
		}
		cfg.MQTT.Broker = Broker
	}
	if Username != "" {
		cfg.MQTT.Username = Username
	}
	if Password != "" {
		cfg.MQTT.Password = Password
	}
	if CertFile != "" {
		cfg.MQTT.CertFile = CertFile
	}
	if KeyFile != "" {
		cfg.MQTT.KeyFile = KeyFile
	}
	if Model != "" {
		cfg.Device.Model = Model
	}
	if Host != "" {
		cfg.Device.Host = Host
	}
	if Token != "" {
		cfg.Device.Token = Token
	}
	if Driver != "" {
		cfg.Device.Driver = Driver
	}
	if Interval > 0 {
		cfg.Device.Interval = Interval
	}
	if Discovery == "disabled" {
		cfg.Discovery.Enabled = false
	} else if Discovery != "" {
		cfg.Discovery.Prefix = Discovery
	}
	return nil
}

func setLogHandler(cfg *config.Config) {
	var w io.Writer
	switch strings.ToLower(cfg.Log.Output) {
	case "", "stderr":
	case "stdout":
		w = os.Stdout
	case "discard":
		log.SetHandler(log.DiscardHandler)
		return
	default:
		f, err := os.OpenFile(cfg.Log.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Error(
				"Unable to open log file, deferring to stderr",
				err,
			)
			return
		}
		w = f
		AddCleanup(func() { f.Close() })
	}
	log.SetLogLevel(cfg.Log.Level)
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		if w == nil {
			w = os.Stderr
		}
		log.SetJSONHandler(w)
	default:
		if w != nil {
			log.SetOutput(w)
		}
	}
}

// watchConfig refreshes the bridge and republishes discovery whenever
// the config file is written. Only discovery and logging settings can
// change without a restart.
func watchConfig(ctx context.Context, bridge *mqttmiio.Bridge) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err = w.Add(ConfigPath); err != nil {
		w.Close()
		return nil, err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					break
				}
				log.Info("Config changed", "path", event.Name)
				c, err := config.Load(ConfigPath)
				if err != nil {
					log.Error("Unable to reload config", err)
					break
				}
				setLogHandler(c)
				if err := bridge.Refresh(ctx); err != nil {
					log.Warn("Error refreshing device", "err", err)
				}
				if c.Discovery.Enabled {
					bridge.Discover(ctx)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("Config watcher error", "err", err)
			}
		}
	}()
	return w.Close, nil
}

func runBridge(cmd *cobra.Command, args []string) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	bridge, err := mqttmiio.New(cfg)
	if err != nil {
		cancel()
		return &ExitError{err, 1}
	}
	if err := bridge.Connect(ctx); err != nil {
		cancel()
		log.Error("Not connected.", err)
		return &ExitError{err, 1}
	}
	defer func() {
		cancel()
		bridge.Disconnect()
		log.Info("Done")
	}()

	bridge.Start(ctx)
	select {
	case <-bridge.Ready():
		if cfg.Discovery.Enabled {
			bridge.Discover(ctx)
		}
	case <-c:
		return nil
	}

	if Watch {
		stop, err := watchConfig(ctx, bridge)
		if err != nil {
			log.Warn("Unable to watch config", "err", err)
		} else {
			AddCleanup(func() { stop() })
		}
	}

	select {
	case <-bridge.Done():
	case <-c:
		log.Debug("Received signal")
	}
	return nil
}
