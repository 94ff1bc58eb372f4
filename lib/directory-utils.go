package wallpaperlib

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// ListWallpapers walks every directory for files with one of the
// extensions. Directories that don't exist are skipped.
func ListWallpapers(dirs []string, extensions []string) ([]AbsolutePath, error) {
	files := []AbsolutePath{}
	seen := map[AbsolutePath]bool{}

	for _, d := range dirs {
		root, err := filepath.Abs(d)
		if err != nil {
			return nil, err
		}

		fi, err := os.Stat(root)
		if err != nil || !fi.IsDir() {
			log.Debugf("Skipping wallpaper directory [%s]", root)
			continue
		}

		err = filepath.Walk(root, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !f.Mode().IsRegular() || !hasImageExtension(path, extensions) {
				return nil
			}

			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasImageExtension(path string, extensions []string) bool {
	pathLower := strings.ToLower(path)
	for _, t := range extensions {
		if strings.HasSuffix(pathLower, t) {
			return true
		}
	}
	return false
}
