package main

import (
	"fmt"

	"github.com/awused/spanwall/ipc"
	lib "github.com/awused/spanwall/lib"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

const remote = "remote"
const dryRun = "dry-run"

func applyCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "apply"
	cmd.Usage = "Apply the remembered wallpapers to every connected monitor"
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    remote,
			Aliases: []string{"r"},
			Usage:   "Ask the running daemon to apply instead",
		},
		&cli.BoolFlag{
			Name:  dryRun,
			Usage: "Render the composite and print its path without setting it",
		},
	}

	cmd.Action = applyAction

	return cmd
}

func applyAction(c *cli.Context) error {
	ctx := ctxOf(c)

	if c.Bool(remote) {
		client := ipc.NewClient(conf.Socket)
		defer client.Close()

		res, err := client.Apply(ctx)
		checkErr(err)
		log.Infof("Daemon set %s (%s)", res.Path, res.Fit)
		return nil
	}

	s := newSession()
	if c.Bool(dryRun) {
		ms, err := s.Monitors(ctx)
		checkErr(err)

		res, err := s.Pipeline.Render(ctx, lib.AssignmentsFromMonitors(ms))
		checkErr(err)
		fmt.Println(res.Path)
		return nil
	}

	res, err := s.Apply(ctx)
	checkErr(err)
	logResult(res)
	return nil
}

func logResult(res lib.Result) {
	switch {
	case res.PerOutput:
		log.Infof("Set a wallpaper on each output")
	case !res.Composite:
		log.Infof("Set %s", res.Path)
	case res.CacheHit:
		log.Infof("Set cached wallpaper %s", res.Path)
	default:
		log.Infof("Rendered and set %s", res.Path)
	}
}
