package main

import (
	"fmt"

	lib "github.com/awused/spanwall/lib"
	"github.com/urfave/cli/v2"
)

func listCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "list"
	cmd.Usage = "List every wallpaper in the enabled directories"
	cmd.Before = beforeFunc

	cmd.Action = listAction

	return cmd
}

func listAction(c *cli.Context) error {
	dirs := loadState().EnabledDirectories(conf.WallpaperDirectories)
	files, err := lib.ListWallpapers(dirs, conf.ImageFileExtensions)
	checkErr(err)

	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}
