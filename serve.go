package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/awused/spanwall/ipc"
	"github.com/charmbracelet/log"
	"github.com/sevlyar/go-daemon"
	"github.com/urfave/cli/v2"
)

const background = "background"

func serveCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "serve"
	cmd.Usage = "Run a daemon that applies wallpapers on request"
	cmd.Description = "Listens on Socket. SIGHUP re-applies the remembered " +
		"wallpapers, useful from a monitor hotplug hook."
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    background,
			Aliases: []string{"b"},
			Usage:   "Detach and run in the background",
		},
	}

	cmd.Action = serveAction

	return cmd
}

func serveAction(c *cli.Context) error {
	if c.Bool(background) {
		dctx := &daemon.Context{
			PidFileName: conf.Socket + ".pid",
			PidFilePerm: 0644,
			WorkDir:     filepath.Dir(conf.Socket),
			Umask:       027,
		}

		child, err := dctx.Reborn()
		checkErr(err)
		if child != nil {
			log.Infof("Started spanwall daemon with PID %d", child.Pid)
			return nil
		}
		defer dctx.Release()
	}

	s := newSession()

	ctx, stop := signal.NotifyContext(ctxOf(c), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apply := func() {
		if _, err := s.Apply(ctx); err != nil {
			log.Warnf("Could not apply wallpapers: %s", err)
		}
	}
	apply()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				log.Info("Re-applying after SIGHUP")
				apply()
			case <-ctx.Done():
				return
			}
		}
	}()

	srv := ipc.NewServer(s, ipc.Info{
		Socket:  conf.Socket,
		Cache:   s.Pipeline.Cache.Dir(),
		Backend: s.Registry.Backend(),
		Sink:    s.Pipeline.Sink.Name(),
	})
	return srv.Serve(ctx)
}

