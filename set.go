package main

import (
	"errors"
	"path/filepath"

	lib "github.com/awused/spanwall/lib"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

const fit = "fit"
const noApply = "no-apply"

func setCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "set"
	cmd.Usage = "Assign a wallpaper to one monitor and apply the result"
	cmd.ArgsUsage = "MONITOR FILE"
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    fit,
			Aliases: []string{"f"},
			Usage: "How to fit the image: zoom, fill, stretch or default. " +
				"Left alone when not given",
		},
		&cli.BoolFlag{
			Name:    noApply,
			Aliases: []string{"n"},
			Usage:   "Only remember the assignment",
		},
	}

	cmd.Action = setAction

	return cmd
}

func setAction(c *cli.Context) error {
	if c.NArg() < 2 {
		checkErr(errors.New("Missing monitor name or input file"))
	}

	name := c.Args().Get(0)
	w, err := filepath.Abs(c.Args().Get(1))
	checkErr(err)

	var fm lib.FitMode
	if f := c.String(fit); f != "" && f != defaultFit {
		fm, err = lib.ParseFitMode(f)
		checkErr(err)
	}

	// Catch unreadable files before they end up in the state
	_, err = lib.LoadImage(w)
	checkErr(err)

	s := newSession()
	ctx := ctxOf(c)
	checkErr(s.Assign(ctx, name, w))
	if c.IsSet(fit) {
		checkErr(s.SetFit(ctx, name, fm))
	}

	if c.Bool(noApply) {
		return nil
	}

	res, err := s.Apply(ctx)
	var missing *lib.MissingWallpaperError
	if errors.As(err, &missing) {
		log.Info(err)
		return nil
	}
	checkErr(err)
	logResult(res)
	return nil
}
