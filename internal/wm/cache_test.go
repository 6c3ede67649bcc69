package wm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/veldtwm/veldt/internal/geom"
)

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cache")

	k, err := OpenCache(path)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}

	c := newClient(1, 0)
	c.appClass = "Editor"
	c.role = "main"
	c.desktop = 2
	c.maxHorz, c.maxVert = true, true
	k.Save(c)

	if err := k.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	k2, err := OpenCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	snap, ok := k2.Lookup("Editor", "main")
	if !ok {
		t.Fatal("snapshot lost across flush")
	}
	if snap.Desktop != 2 || !snap.MaxHorz || !snap.MaxVert || snap.Fullscreen {
		t.Fatalf("snapshot = %+v", snap)
	}

	if _, ok := k2.Lookup("Editor", "other-role"); ok {
		t.Fatal("role must be part of the key")
	}
}

func TestCacheSkipsAnonymousClients(t *testing.T) {
	k, err := OpenCache(filepath.Join(t.TempDir(), "state.cache"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	k.Save(newClient(1, 0))
	if _, ok := k.Lookup("", ""); ok {
		t.Fatal("client without WM_CLASS must not be cached")
	}
}

func TestCacheDiscardsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cache")
	if err := os.WriteFile(path, []byte("not msgpack at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	k, err := OpenCache(path)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	if _, ok := k.Lookup("Editor", ""); ok {
		t.Fatal("corrupt cache produced a snapshot")
	}
}

func TestManageAppliesSnapshot(t *testing.T) {
	r := newRig()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "state.cache"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	r.m.SetCache(cache)

	r.store.strl[propKey{10, "WM_CLASS"}] = []string{"editor", "Editor"}
	first := r.manage(t, 10, geom.Rect{X: 5, Y: 5, W: 300, H: 200})
	r.m.SetDesktop(first, 2)
	r.m.Maximize(first, true, MaxBoth, true)
	r.m.Unmanage(first, false)

	r.store.strl[propKey{11, "WM_CLASS"}] = []string{"editor", "Editor"}
	second := r.manage(t, 11, geom.Rect{X: 50, Y: 50, W: 100, H: 100})

	if second.Desktop() != 2 {
		t.Fatalf("desktop = %d, want remembered 2", second.Desktop())
	}
	if !second.MaxHorz() || !second.MaxVert() {
		t.Fatal("maximize state not replayed from snapshot")
	}
	if a := second.Area(); a != r.work.workarea {
		t.Fatalf("area = %+v, want maximized to workarea", a)
	}
}
