package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/awused/spanwall/ipc"
	"github.com/tidwall/pretty"
	"github.com/urfave/cli/v2"
)

const jsonFlag = "json"

func monitorsCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "monitors"
	cmd.Usage = "List the connected monitors and their wallpapers"
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    jsonFlag,
			Aliases: []string{"j"},
			Usage:   "Print JSON instead of one monitor per line",
		},
	}

	cmd.Action = monitorsAction

	return cmd
}

func monitorsAction(c *cli.Context) error {
	ms, err := newSession().Monitors(ctxOf(c))
	checkErr(err)

	if c.Bool(jsonFlag) {
		out := ipc.ToMonitorResponses(ms)
		printJSON(out)
		return nil
	}

	for _, m := range ms {
		w := m.Wallpaper
		if w == "" {
			w = "<unset>"
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", m.Name, m.Geometry, m.Fit, w)
	}
	return nil
}

func printJSON(v any) {
	j, err := json.MarshalIndent(v, "", "  ")
	checkErr(err)

	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		j = pretty.Color(j, nil)
	}
	fmt.Println(string(j))
}
