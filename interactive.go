package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	lib "github.com/awused/spanwall/lib"
	prompt "github.com/c-bata/go-prompt"
	"github.com/urfave/cli/v2"
)

const assign = "assign"
const setFit = "fit"
const applyCmd = "apply"
const show = "monitors"
const defaultFit = "default"

func interactiveCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "interactive"
	cmd.Usage = "Interactively assign wallpapers to monitors and apply them " +
		"to quickly iterate on a layout."
	cmd.Before = beforeFunc

	cmd.Action = interactiveAction

	return cmd
}

func interactiveAction(c *cli.Context) error {
	s := newSession()

	// Large buffered channel so it doesn't block signals if it's busy
	sigs := make(chan os.Signal, 100)
	promptChan := make(chan struct{}, 1)
	inputChan := make(chan string)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGHUP)

	go func() {
		promptUntilDone(ctxOf(c), s, inputChan)
		promptChan <- struct{}{}
	}()

	for {
		select {
		case <-promptChan:
			return nil
		case <-sigs:
			inputChan <- "exit"
		}
	}
}

var commands = []prompt.Suggest{
	{Text: "exit", Description: "Exit the program"},
	{Text: show, Description: "Print the monitors and their wallpapers"},
	{Text: assign, Description: "Assign a wallpaper: assign MONITOR FILE"},
	{Text: setFit, Description: "Change how a monitor's image is fit: " +
		"fit MONITOR zoom|fill|stretch|default"},
	{Text: applyCmd, Description: "Apply the current assignments"},
}

// Completes commands, then wallpaper paths once assign has a monitor
func newCompleter(wallpapers []string) prompt.Completer {
	walls := make([]prompt.Suggest, len(wallpapers))
	for i, w := range wallpapers {
		walls[i] = prompt.Suggest{Text: w}
	}

	return func(d prompt.Document) []prompt.Suggest {
		before := d.TextBeforeCursor()
		fields := strings.Fields(before)

		if len(fields) >= 2 && (fields[0] == assign || fields[0] == "a") &&
			(len(fields) > 2 || strings.HasSuffix(before, " ")) {
			return prompt.FilterContains(walls, d.GetWordBeforeCursor(), true)
		}
		return prompt.FilterHasPrefix(commands, before, true)
	}
}

func printMonitors(ms []lib.Monitor) {
	for _, m := range ms {
		w := m.Wallpaper
		if w == "" {
			w = "<unset>"
		}
		fmt.Printf("  %s %s %s %s\n", m.Name, m.Geometry, m.Fit, w)
	}
}

// Finds the connected monitor, reporting when there isn't one
func findMonitor(ms []lib.Monitor, name string) (lib.Monitor, bool) {
	for _, m := range ms {
		if m.Name == name {
			return m, true
		}
	}
	fmt.Printf("No connected monitor named \"%s\"\n", name)
	return lib.Monitor{}, false
}

func runCommand(ctx context.Context, s *lib.Session, in string) {
	ms, err := s.Monitors(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}

	fields := strings.Fields(in)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case show:
		printMonitors(ms)
	case assign, "a":
		if len(fields) < 3 {
			fmt.Println("Usage: assign MONITOR FILE")
			return
		}
		m, ok := findMonitor(ms, fields[1])
		if !ok {
			return
		}
		// Paths can contain spaces
		path := strings.TrimSpace(strings.TrimPrefix(in, fields[0]))
		path = strings.TrimSpace(strings.TrimPrefix(path, fields[1]))
		path, err = filepath.Abs(path)
		if err == nil {
			_, err = lib.LoadImage(path)
		}
		if err == nil {
			err = s.Assign(ctx, m.Name, path)
		}
		if err != nil {
			fmt.Println(err)
		}
	case setFit, "f":
		if len(fields) != 3 {
			fmt.Println("Usage: fit MONITOR zoom|fill|stretch|default")
			return
		}
		m, ok := findMonitor(ms, fields[1])
		if !ok {
			return
		}
		var fm lib.FitMode
		if fields[2] != defaultFit {
			fm, err = lib.ParseFitMode(fields[2])
		}
		if err == nil {
			err = s.SetFit(ctx, m.Name, fm)
		}
		if err != nil {
			fmt.Println(err)
		}
	case applyCmd:
		res, err := s.Apply(ctx)
		if err != nil {
			fmt.Println(err)
			return
		}
		logResult(res)
	default:
		fmt.Println("Unknown command")
	}
}

func promptUntilDone(ctx context.Context, s *lib.Session, inputChan chan string) {
	exit := prompt.OptionAddKeyBind(prompt.KeyBind{
		Key: prompt.ControlC,
		Fn: func(b *prompt.Buffer) {
			inputChan <- "exit"
		},
	})

	ms, err := s.Monitors(ctx)
	checkErr(err)
	printMonitors(ms)

	dirs, err := s.WallpaperDirectories()
	checkErr(err)
	wallpapers, err := lib.ListWallpapers(dirs, conf.ImageFileExtensions)
	checkErr(err)
	completer := newCompleter(wallpapers)

	for {
		go func() {
			// prompt.Input is blocking, synchronous, and provides no way to abort it
			inputChan <- prompt.Input("> ", completer, exit)
		}()
		in := strings.TrimSpace(<-inputChan)
		if in == "exit" {
			return
		}
		runCommand(ctx, s, in)
	}
}
