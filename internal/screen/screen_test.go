package screen

import (
	"fmt"
	"testing"

	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/geom"
	"github.com/veldtwm/veldt/internal/hints"
)

type rootStore struct {
	nums map[string][]uint
}

func newRootStore() *rootStore {
	return &rootStore{nums: make(map[string][]uint)}
}

var errAbsent = fmt.Errorf("property absent")

func (s *rootStore) Nums(win xproto.Window, name string) ([]uint, error) {
	if v, ok := s.nums[name]; ok {
		return v, nil
	}
	return nil, errAbsent
}

func (s *rootStore) Str(win xproto.Window, name string) (string, error) { return "", errAbsent }
func (s *rootStore) Strs(win xproto.Window, name string) ([]string, error) {
	return nil, errAbsent
}
func (s *rootStore) Atoms(win xproto.Window, name string) ([]string, error) {
	return nil, errAbsent
}
func (s *rootStore) Window(win xproto.Window, name string) (xproto.Window, error) {
	return 0, errAbsent
}

func (s *rootStore) SetNums(win xproto.Window, name, typ string, vals ...uint) error {
	s.nums[name] = vals
	return nil
}

func (s *rootStore) SetStr(win xproto.Window, name, typ, value string) error { return nil }
func (s *rootStore) SetAtoms(win xproto.Window, name string, names []string) error {
	return nil
}
func (s *rootStore) Delete(win xproto.Window, name string) error { return nil }

var _ hints.PropertyStore = (*rootStore)(nil)

func newTestRegistry(store *rootStore) *Registry {
	return NewRegistry(Options{
		Store:    store,
		Root:     1,
		Geometry: geom.Rect{W: 1280, H: 1024},
		Desktops: 4,
		Names:    []string{"one", "two"},
	})
}

func TestSwitchPublishesAndClamps(t *testing.T) {
	store := newRootStore()
	r := newTestRegistry(store)

	r.Switch(2)
	if r.Current() != 2 {
		t.Fatalf("current = %d, want 2", r.Current())
	}
	if got := store.nums["_NET_CURRENT_DESKTOP"]; len(got) != 1 || got[0] != 2 {
		t.Fatalf("_NET_CURRENT_DESKTOP = %v", got)
	}

	r.Switch(9)
	if r.Current() != 2 {
		t.Fatalf("current = %d, out-of-range switch must be dropped", r.Current())
	}
}

func TestSetCountMovesCurrentInRange(t *testing.T) {
	r := newTestRegistry(newRootStore())
	r.Switch(3)
	r.SetCount(2)
	if r.Count() != 2 || r.Current() != 1 {
		t.Fatalf("count=%d current=%d, want 2/1", r.Count(), r.Current())
	}
}

func TestWorkareaAggregatesStruts(t *testing.T) {
	r := newTestRegistry(newRootStore())

	if got := r.Workarea(0); got != r.FullArea() {
		t.Fatalf("workarea = %+v, want full screen without struts", got)
	}

	r.SetStrutSource(func(desktop uint32) []geom.Strut {
		if desktop != 0 {
			return nil
		}
		// two panels on the same edge reserve the max, not the sum
		return []geom.Strut{
			{Top: 24},
			{Top: 30, Left: 10},
		}
	})

	got := r.Workarea(0)
	want := geom.Rect{X: 10, Y: 30, W: 1270, H: 994}
	if got != want {
		t.Fatalf("workarea = %+v, want %+v", got, want)
	}

	if got := r.Workarea(1); got != r.FullArea() {
		t.Fatalf("workarea(1) = %+v, struts are per desktop", got)
	}
}

func TestPublishWorkareaWritesAllDesktops(t *testing.T) {
	store := newRootStore()
	r := newTestRegistry(store)
	r.PublishWorkarea()
	if got := store.nums["_NET_WORKAREA"]; len(got) != 16 {
		t.Fatalf("_NET_WORKAREA has %d values, want 4 per desktop", len(got))
	}
}

func TestDesktopNames(t *testing.T) {
	r := newTestRegistry(newRootStore())
	if r.Name(1) != "two" {
		t.Fatalf("Name(1) = %q", r.Name(1))
	}
	if r.Name(3) != "" {
		t.Fatalf("Name(3) = %q, want empty for unnamed", r.Name(3))
	}
}
