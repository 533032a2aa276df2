package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lone-faerie/mqttmiio/control"
	"github.com/lone-faerie/mqttmiio/miio"
)

// ModelsCommand lists the controls a device model would expose, or
// every model with at least one control when no argument is given.
var ModelsCommand = &cobra.Command{
	Use:     "models [model]",
	Aliases: []string{"m"},
	Short:   "List the numeric controls of supported models",
	GroupID: "commands",
	Args:    cobra.MaximumNArgs(1),
	RunE:    listModels,
}

func init() {
	RootCommand.AddCommand(ModelsCommand)
}

func controlKeys(mask miio.Feature) []string {
	var keys []string
	for i := range control.Types {
		if mask.Has(control.Types[i].Feature) {
			keys = append(keys, control.Types[i].Key)
		}
	}
	return keys
}

func listModels(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if len(args) > 0 {
		mask := miio.Features(args[0])
		if mask == 0 {
			fmt.Fprintf(w, "%s: no numeric controls\n", args[0])
			return nil
		}
		for i := range control.Types {
			desc := &control.Types[i]
			if !mask.Has(desc.Feature) {
				continue
			}
			fmt.Fprintf(w, "%-16s %s [%d..%d] step %d\n", desc.Key, desc.Name, desc.Min, desc.Max, desc.Step)
		}
		return nil
	}
	models := miio.Models()
	sort.Strings(models)
	for _, m := range models {
		if mask := miio.Features(m); mask != 0 {
			fmt.Fprintf(w, "%-28s %s\n", m, strings.Join(controlKeys(mask), ", "))
		}
	}
	return nil
}
