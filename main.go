package main

import (
	"context"
	"os"
	"time"

	lib "github.com/awused/spanwall/lib"
	"github.com/charmbracelet/log"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/urfave/cli/v2"
)

const debug = "debug"

var conf *lib.Config

func main() {
	app := cli.NewApp()
	app.Name = "spanwall"
	app.Usage = "Program for spanning wallpapers across multiple monitors"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    debug,
			Aliases: []string{"d"},
			Usage:   "Enable debug logging",
		},
	}
	app.Commands = []*cli.Command{
		monitorsCommand(),
		listCommand(),
		setCommand(),
		applyCommand(),
		randomCommand(),
		favoritesCommand(),
		foldersCommand(),
		interactiveCommand(),
		cacheCommand(),
		serveCommand(),
		statusCommand(),
	}

	err := app.Run(os.Args)
	checkErr(err)
}

// Only init when necessary
// Can't do conditionally in app.Before because app.Before is useless for any purpose
func beforeFunc(c *cli.Context) error {
	if c.Bool(debug) {
		log.SetLevel(log.DebugLevel)
	}

	var err error
	conf, err = lib.Init()
	checkErr(err)

	if conf.LogFile != "" {
		setupRotatingLogger(conf.LogFile)
	}
	return nil
}

func setupRotatingLogger(path string) {
	writer, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Fatalf("Error opening log file: %v", err)
	}

	log.SetOutput(writer)
	log.SetReportTimestamp(true)
}

func newSession() *lib.Session {
	s, err := lib.NewSession(conf, os.Getenv)
	checkErr(err)
	return s
}

func ctxOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

func checkErr(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
