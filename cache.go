package main

import (
	"fmt"

	lib "github.com/awused/spanwall/lib"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

func cacheCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "cache"
	cmd.Usage = "Inspect or clear the rendered composites"
	cmd.Subcommands = []*cli.Command{
		{
			Name:   "path",
			Usage:  "Print the cache directory",
			Before: beforeFunc,
			Action: func(c *cli.Context) error {
				fmt.Println(newCache().Dir())
				return nil
			},
		},
		{
			Name:   "list",
			Usage:  "List every cached composite",
			Before: beforeFunc,
			Action: func(c *cli.Context) error {
				entries, err := newCache().Entries()
				checkErr(err)
				for _, e := range entries {
					fmt.Println(e)
				}
				return nil
			},
		},
		{
			Name:   "clear",
			Usage:  "Remove every cached composite",
			Before: beforeFunc,
			Action: func(c *cli.Context) error {
				n, err := newCache().Clear()
				checkErr(err)
				log.Infof("Removed %d cached wallpapers", n)
				return nil
			},
		},
	}

	return cmd
}

// Nothing is rendered through this cache, so no compositor is needed.
func newCache() *lib.RenderCache {
	rc, err := lib.NewRenderCache(conf.CacheDirectory, nil)
	checkErr(err)
	return rc
}
