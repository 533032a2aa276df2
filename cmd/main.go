package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lone-faerie/mqttmiio/internal/build"
)

func findConfig() {
	const defaultConfigFile = "mqttmiio.yaml"

	if ConfigPath != "" {
		return
	}

	if env, ok := os.LookupEnv("MQTTMIIO_CONFIG_PATH"); ok {
		ConfigPath = env
		return
	}

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		ConfigPath = filepath.Join(xdg, defaultConfigFile)
		return
	}

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	ConfigPath = filepath.Join(home, ".config", defaultConfigFile)
}

const banner = `mqttmiio %s
Xiaomi appliance numeric controls over MQTT
`

// PrintBanner prints the banner to the given command's output.
func PrintBanner(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), banner, build.Version())
}

const fullDocsFooter = `Full documentation is available at:
https://pkg.go.dev/github.com/lone-faerie/mqttmiio`

// ExitError is an error that should cause the program to exit with the
// given code.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit code " + strings.TrimSpace(fmt.Sprint(e.Code))
	}
	return e.Err.Error()
}

func main() {
	if c, err := RootCommand.ExecuteC(); err != nil {
		if exit, ok := err.(*ExitError); ok {
			os.Exit(exit.Code)
		}

		c.PrintErrln("Error:", err)
		c.Usage()
		os.Exit(1)
	}
}
