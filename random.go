package main

import (
	"errors"
	"os"

	"github.com/awused/go-strpick/persistent"
	lib "github.com/awused/spanwall/lib"
	"github.com/urfave/cli/v2"
)

func randomCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "random"
	cmd.Usage = "Randomly select a wallpaper for each monitor"
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    favoritesFlag,
			Aliases: []string{"f"},
			Usage:   "Only pick from favorite wallpapers",
		},
	}

	cmd.Action = randomAction

	return cmd
}

func randomAction(c *cli.Context) error {
	picker, err := persistent.NewPicker(conf.DatabaseDir)
	checkErr(err)
	defer picker.Close()

	s := newSession()
	ctx := ctxOf(c)

	monitors, err := s.Monitors(ctx)
	checkErr(err)

	wallpapers, err := randomPool(s, c.Bool(favoritesFlag))
	checkErr(err)

	err = picker.AddAll(wallpapers)
	checkErr(err)

	sz, err := picker.Size()
	checkErr(err)
	if sz == 0 {
		checkErr(errors.New("No wallpapers to pick from"))
	}

	picked, err := picker.TryUniqueN(len(monitors))
	checkErr(err)
	if len(picked) == 0 {
		checkErr(errors.New("Could not pick any wallpapers"))
	}

	for i, m := range monitors {
		// Fewer wallpapers than monitors means some repeat
		w := picked[i%len(picked)]
		checkErr(s.Assign(ctx, m.Name, w))
	}

	res, err := s.Apply(ctx)
	checkErr(err)
	logResult(res)

	if c.Bool(favoritesFlag) {
		// Only favorites were added, cleaning would forget everything else
		return nil
	}
	// Forget wallpapers that were deleted
	return picker.CleanDB()
}

const favoritesFlag = "favorites"

func randomPool(s *lib.Session, favorites bool) ([]string, error) {
	if !favorites {
		dirs, err := s.WallpaperDirectories()
		if err != nil {
			return nil, err
		}
		return lib.ListWallpapers(dirs, conf.ImageFileExtensions)
	}

	favs, err := s.Favorites()
	if err != nil {
		return nil, err
	}
	// Deleted favorites stay listed but are never picked
	out := []string{}
	for _, f := range favs {
		if _, err := os.Stat(f); err == nil {
			out = append(out, f)
		}
	}
	return out, nil
}
