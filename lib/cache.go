package wallpaperlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

const lockDirName = ".locks"

// RenderCache stores composites under <dir>/<fingerprint>.png. The directory
// itself is the index; nothing is kept in memory between calls and nothing is
// evicted automatically.
type RenderCache struct {
	dir        string
	compositor Compositor
	locks      keyedMutex
}

func NewRenderCache(dir string, c Compositor) (*RenderCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("Cache directory is not set")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	return &RenderCache{dir: abs, compositor: c}, nil
}

func (rc *RenderCache) Dir() string {
	return rc.dir
}

func (rc *RenderCache) PathFor(fingerprint string) AbsolutePath {
	return filepath.Join(rc.dir, fingerprint+".png")
}

// RenderOrReuse returns the path of the composite for as, rendering it only
// when no file exists yet. Only presence is checked on a hit, the contents
// are trusted. At most one caller renders a given fingerprint at a time, in
// this process or any other.
func (rc *RenderCache) RenderOrReuse(
	ctx context.Context, as []Assignment) (AbsolutePath, bool, error) {

	fp := Fingerprint(as)
	out := rc.PathFor(fp)

	if fileExists(out) {
		log.Debugf("Hit cache for wallpaper %s. Skipping merge operation.", out)
		return out, true, nil
	}

	unlock, err := rc.lock(ctx, fp)
	if err != nil {
		return "", false, err
	}
	defer unlock()

	// Someone else may have finished while we waited for the lock
	if fileExists(out) {
		log.Debugf("Wallpaper %s was rendered by another caller", out)
		return out, true, nil
	}

	log.Infof("Rendering wallpaper for %d monitors into %s", len(as), out)
	img, err := rc.compositor.Composite(ctx, as)
	if err != nil {
		return "", false, err
	}

	if err = writeAtomic(ctx, out, func(f *os.File) error {
		return EncodePNG(f, img)
	}); err != nil {
		return "", false, err
	}

	return out, false, nil
}

// lock excludes every other render of fp, in this process or any other, for
// as long as the returned func has not been called.
func (rc *RenderCache) lock(ctx context.Context, fp string) (func(), error) {
	unlock, err := rc.locks.Lock(ctx, fp)
	if err != nil {
		return nil, err
	}

	lockDir := filepath.Join(rc.dir, lockDirName)
	if err = os.MkdirAll(lockDir, 0755); err != nil {
		unlock()
		return nil, &CacheWriteError{Path: rc.dir, Err: err}
	}

	release, err := lockFile(ctx, rc.lockPath(fp))
	if err != nil {
		unlock()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &CacheWriteError{Path: rc.PathFor(fp), Err: err}
	}

	return func() {
		release()
		unlock()
	}, nil
}

func (rc *RenderCache) lockPath(fp string) string {
	return filepath.Join(rc.dir, lockDirName, fp+".lock")
}

// The file only appears at out once it has been completely written and
// synced, so readers never see a partial image.
func writeAtomic(
	ctx context.Context, out AbsolutePath, write func(*os.File) error) (err error) {

	f, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+"-*.tmp")
	if err != nil {
		return &CacheWriteError{Path: out, Err: err}
	}
	tmp := f.Name()

	defer func() {
		if err != nil {
			f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		return &CacheWriteError{Path: out, Err: err}
	}
	if err = f.Sync(); err != nil {
		return &CacheWriteError{Path: out, Err: err}
	}
	if err = f.Close(); err != nil {
		return &CacheWriteError{Path: out, Err: err}
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = os.Rename(tmp, out); err != nil {
		return &CacheWriteError{Path: out, Err: err}
	}
	return nil
}

// Entries lists every cached composite.
func (rc *RenderCache) Entries() ([]AbsolutePath, error) {
	return filepath.Glob(filepath.Join(rc.dir, "*.png"))
}

// Clear removes every cached composite along with temporary files left
// behind by renders that died, and returns how many composites were removed.
// Temporary files of renders still holding their lock are left alone so
// those renders can finish.
func (rc *RenderCache) Clear() (int, error) {
	files, err := os.ReadDir(rc.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		name := f.Name()
		if !f.Type().IsRegular() {
			continue
		}

		if isTempName(name) {
			if err := rc.removeStaleTemp(name); err != nil {
				return removed, err
			}
			continue
		}
		if filepath.Ext(name) != ".png" {
			continue
		}

		if err := os.Remove(filepath.Join(rc.dir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func isTempName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}

// Temporary files are named .<fingerprint>.png-<random>.tmp by writeAtomic.
func tempFingerprint(name string) (string, bool) {
	fp, _, ok := strings.Cut(strings.TrimPrefix(name, "."), ".png-")
	return fp, ok && fp != ""
}

func (rc *RenderCache) removeStaleTemp(name string) error {
	p := filepath.Join(rc.dir, name)

	fp, ok := tempFingerprint(name)
	if !ok || !fileExists(rc.lockPath(fp)) {
		return ignoreNotExist(os.Remove(p))
	}

	release, ok, err := tryLockFile(rc.lockPath(fp))
	if err != nil {
		return err
	}
	if !ok {
		log.Debugf("Leaving %s in place, its render is still running", p)
		return nil
	}
	defer release()

	return ignoreNotExist(os.Remove(p))
}

func ignoreNotExist(err error) error {
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// keyedMutex serializes callers that share a key. Waiting respects ctx.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func (k *keyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, l)
		return nil, ctx.Err()
	}

	return func() {
		<-l.ch
		k.release(key, l)
	}, nil
}

func (k *keyedMutex) release(key string, l *keyLock) {
	k.mu.Lock()
	defer k.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

func fileExists(file AbsolutePath) bool {
	fi, err := os.Stat(file)
	return err == nil && fi.Mode().IsRegular()
}
