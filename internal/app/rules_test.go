package app

import (
	"errors"
	"testing"

	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/config"
	"github.com/veldtwm/veldt/internal/geom"
	"github.com/veldtwm/veldt/internal/hints"
	"github.com/veldtwm/veldt/internal/wm"
)

var errAbsent = errors.New("property absent")

type stubStore struct {
	class map[xproto.Window][]string
	set   map[string][]uint
}

func (s *stubStore) Nums(win xproto.Window, name string) ([]uint, error) { return nil, errAbsent }
func (s *stubStore) Str(win xproto.Window, name string) (string, error)  { return "", errAbsent }
func (s *stubStore) Strs(win xproto.Window, name string) ([]string, error) {
	if v, ok := s.class[win]; ok && name == "WM_CLASS" {
		return v, nil
	}
	return nil, errAbsent
}
func (s *stubStore) Atoms(win xproto.Window, name string) ([]string, error) { return nil, errAbsent }
func (s *stubStore) Window(win xproto.Window, name string) (xproto.Window, error) {
	return 0, errAbsent
}
func (s *stubStore) SetNums(win xproto.Window, name, typ string, vals ...uint) error {
	s.set[name] = vals
	return nil
}
func (s *stubStore) SetStr(win xproto.Window, name, typ, value string) error       { return nil }
func (s *stubStore) SetAtoms(win xproto.Window, name string, names []string) error { return nil }
func (s *stubStore) Delete(win xproto.Window, name string) error                   { return nil }

type stubServer struct{}

func (stubServer) Valid(win xproto.Window) bool               { return true }
func (stubServer) SelectClientEvents(win xproto.Window) error { return nil }
func (stubServer) Geometry(win xproto.Window) (geom.Rect, int, error) {
	return geom.Rect{X: 10, Y: 10, W: 300, H: 200}, 0, nil
}
func (stubServer) Configure(win xproto.Window, r geom.Rect) error { return nil }
func (stubServer) SetBorderWidth(win xproto.Window, bw int) error { return nil }
func (stubServer) MapWindow(win xproto.Window) error              { return nil }
func (stubServer) UnmapWindow(win xproto.Window) error            { return nil }
func (stubServer) SetInputFocus(win xproto.Window) error          { return nil }
func (stubServer) SendTakeFocus(win xproto.Window) error          { return nil }
func (stubServer) SendDelete(win xproto.Window) error             { return nil }
func (stubServer) DestroyWindow(win xproto.Window) error          { return nil }
func (stubServer) InstallColormap(win xproto.Window) error        { return nil }
func (stubServer) Shaped(win xproto.Window) bool                  { return false }

type stubWork struct{}

func (stubWork) Count() uint32   { return 4 }
func (stubWork) Current() uint32 { return 0 }
func (stubWork) Switch(uint32)   {}
func (stubWork) Workarea(uint32) geom.Rect {
	return geom.Rect{W: 1280, H: 1000}
}
func (stubWork) FullArea() geom.Rect { return geom.Rect{W: 1280, H: 1024} }

func TestApplyRulesOnManage(t *testing.T) {
	store := &stubStore{
		class: map[xproto.Window][]string{
			1: {"editor", "Editor"},
			2: {"term", "Term"},
		},
		set: map[string][]uint{},
	}
	mgr := wm.NewManager(0, stubServer{}, hints.NewCodec(store), wm.NopDecor{}, stubWork{})

	desktop := uint32(2)
	ApplyRules(mgr, []config.Rule{
		{UUID: "r1", Class: "Editor", Desktop: &desktop, Maximized: true, NoTitlebar: true},
	})

	c, err := mgr.Manage(1)
	if err != nil {
		t.Fatalf("Manage: %v", err)
	}
	if c.Desktop() != 2 {
		t.Fatalf("desktop = %d, want rule's 2", c.Desktop())
	}
	if !c.MaxVert() || !c.MaxHorz() {
		t.Fatal("rule did not maximize")
	}
	if c.Decorations()&wm.DecorTitlebar != 0 {
		t.Fatal("rule did not strip the titlebar")
	}

	other, err := mgr.Manage(2)
	if err != nil {
		t.Fatalf("Manage: %v", err)
	}
	if other.Desktop() != 0 || other.MaxVert() {
		t.Fatal("rule leaked onto a non-matching window")
	}
}
