package wm

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/veldtwm/veldt/internal/hints"
)

// Snapshot is the piece of client state worth remembering across sessions,
// keyed by application class and window role. It seeds the startup state of
// the next window the same application opens.
type Snapshot struct {
	Desktop    uint32 `msgpack:"desktop"`
	MaxHorz    bool   `msgpack:"max_horz"`
	MaxVert    bool   `msgpack:"max_vert"`
	Fullscreen bool   `msgpack:"fullscreen"`
	Shaded     bool   `msgpack:"shaded"`
}

// Cache persists snapshots to a msgpack file. Save and Lookup are in-memory;
// Flush writes the file atomically, so a crash never leaves a torn cache.
type Cache struct {
	path  string
	snaps map[string]Snapshot
}

// OpenCache loads the cache at path, starting empty when the file does not
// exist. A corrupt file is discarded rather than failing startup.
func OpenCache(path string) (*Cache, error) {
	k := &Cache{path: path, snaps: make(map[string]Snapshot)}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return k, nil
	}
	if err != nil {
		return nil, err
	}
	if err := msgpack.Unmarshal(b, &k.snaps); err != nil {
		k.snaps = make(map[string]Snapshot)
	}
	return k, nil
}

func snapKey(class, role string) string {
	return class + "\x00" + role
}

// Save records the client's current state. Clients without a WM_CLASS give
// no stable key and are skipped.
func (k *Cache) Save(c *Client) {
	if c.appClass == "" {
		return
	}
	k.snaps[snapKey(c.appClass, c.role)] = Snapshot{
		Desktop:    c.desktop,
		MaxHorz:    c.maxHorz,
		MaxVert:    c.maxVert,
		Fullscreen: c.fullscreen,
		Shaded:     c.shaded,
	}
}

func (k *Cache) Lookup(class, role string) (Snapshot, bool) {
	if class == "" {
		return Snapshot{}, false
	}
	snap, ok := k.snaps[snapKey(class, role)]
	return snap, ok
}

// Flush writes the cache through a temp file and rename.
func (k *Cache) Flush() error {
	b, err := msgpack.Marshal(k.snaps)
	if err != nil {
		return err
	}

	tmp := k.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(k.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, k.path)
}

// applySnapshot folds a remembered snapshot into a freshly managed client,
// before the startup transitions replay the flags.
func (m *Manager) applySnapshot(c *Client) {
	snap, ok := m.cache.Lookup(c.appClass, c.role)
	if !ok {
		return
	}
	if snap.Desktop == hints.AllDesktops || snap.Desktop < m.work.Count() {
		c.desktop = snap.Desktop
	}
	c.maxHorz = c.maxHorz || snap.MaxHorz
	c.maxVert = c.maxVert || snap.MaxVert
	c.fullscreen = c.fullscreen || snap.Fullscreen
	c.shaded = c.shaded || snap.Shaded
}
