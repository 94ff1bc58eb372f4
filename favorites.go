package main

import (
	"errors"
	"fmt"
	"path/filepath"

	lib "github.com/awused/spanwall/lib"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

func favoritesCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "favorites"
	cmd.Usage = "Manage favorite wallpapers, see random --favorites"
	cmd.Subcommands = []*cli.Command{
		{
			Name:   "list",
			Usage:  "List the favorite wallpapers",
			Before: beforeFunc,
			Action: func(c *cli.Context) error {
				for _, f := range loadState().Favorites {
					fmt.Println(f)
				}
				return nil
			},
		},
		{
			Name:      "add",
			Usage:     "Add wallpapers to the favorites",
			ArgsUsage: "FILE...",
			Before:    beforeFunc,
			Action:    favoritesAddAction,
		},
		{
			Name:      "remove",
			Usage:     "Remove wallpapers from the favorites",
			ArgsUsage: "FILE...",
			Before:    beforeFunc,
			Action:    favoritesRemoveAction,
		},
	}

	return cmd
}

func favoritesAddAction(c *cli.Context) error {
	if c.NArg() == 0 {
		checkErr(errors.New("Missing input file"))
	}

	st := loadState()
	for _, a := range c.Args().Slice() {
		w, err := filepath.Abs(a)
		checkErr(err)
		_, err = lib.LoadImage(w)
		checkErr(err)

		if !st.AddFavorite(w) {
			log.Infof("%s is already a favorite", w)
		}
	}
	return st.Save()
}

func favoritesRemoveAction(c *cli.Context) error {
	if c.NArg() == 0 {
		checkErr(errors.New("Missing input file"))
	}

	st := loadState()
	for _, a := range c.Args().Slice() {
		w, err := filepath.Abs(a)
		checkErr(err)

		if !st.RemoveFavorite(w) {
			log.Warnf("%s is not a favorite", w)
		}
	}
	return st.Save()
}

// Neither favorites nor folders need the display, so they skip the session.
func loadState() *lib.State {
	st, err := lib.LoadState(conf.StateFile)
	checkErr(err)
	return st
}
