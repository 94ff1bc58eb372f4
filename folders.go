package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

func foldersCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "folders"
	cmd.Usage = "Switch configured wallpaper directories on and off"
	cmd.Subcommands = []*cli.Command{
		{
			Name:   "list",
			Usage:  "List the configured directories and whether they are used",
			Before: beforeFunc,
			Action: func(c *cli.Context) error {
				st := loadState()
				for _, d := range conf.WallpaperDirectories {
					mark := "enabled"
					if !st.DirectoryEnabled(d) {
						mark = "disabled"
					}
					fmt.Printf("%s\t%s\n", mark, d)
				}
				return nil
			},
		},
		{
			Name:      "enable",
			Usage:     "Use a directory again",
			ArgsUsage: "DIR",
			Before:    beforeFunc,
			Action: func(c *cli.Context) error {
				return setFolderEnabled(c, true)
			},
		},
		{
			Name:      "disable",
			Usage:     "Leave a directory out of list, random and interactive",
			ArgsUsage: "DIR",
			Before:    beforeFunc,
			Action: func(c *cli.Context) error {
				return setFolderEnabled(c, false)
			},
		},
	}

	return cmd
}

func setFolderEnabled(c *cli.Context, enabled bool) error {
	if c.NArg() != 1 {
		checkErr(errors.New("Expected exactly one directory"))
	}

	dir, err := filepath.Abs(c.Args().First())
	checkErr(err)

	found := false
	for _, d := range conf.WallpaperDirectories {
		if filepath.Clean(d) == dir {
			found = true
			break
		}
	}
	if !found {
		checkErr(fmt.Errorf("[%s] is not one of the WallpaperDirectories", dir))
	}

	st := loadState()
	st.SetDirectoryEnabled(dir, enabled)
	return st.Save()
}
