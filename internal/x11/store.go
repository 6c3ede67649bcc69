package x11

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/xprop"
)

// Store is the live property store, a thin veneer over xprop. Atom names in
// and out are strings; interning goes through xprop's atom cache.
type Store struct {
	x *xgbutil.XUtil
}

func NewStore(c *Conn) *Store {
	return &Store{x: c.X}
}

func (s *Store) Nums(win xproto.Window, name string) ([]uint, error) {
	return xprop.PropValNums(xprop.GetProperty(s.x, win, name))
}

func (s *Store) Str(win xproto.Window, name string) (string, error) {
	return xprop.PropValStr(xprop.GetProperty(s.x, win, name))
}

func (s *Store) Strs(win xproto.Window, name string) ([]string, error) {
	return xprop.PropValStrs(xprop.GetProperty(s.x, win, name))
}

func (s *Store) Atoms(win xproto.Window, name string) ([]string, error) {
	raw, err := xprop.GetProperty(s.x, win, name)
	return xprop.PropValAtoms(s.x, raw, err)
}

func (s *Store) Window(win xproto.Window, name string) (xproto.Window, error) {
	return xprop.PropValWindow(xprop.GetProperty(s.x, win, name))
}

func (s *Store) SetNums(win xproto.Window, name, typ string, vals ...uint) error {
	return xprop.ChangeProp32(s.x, win, name, typ, vals...)
}

func (s *Store) SetStr(win xproto.Window, name, typ, value string) error {
	return xprop.ChangeProp(s.x, win, 8, name, typ, []byte(value))
}

func (s *Store) SetAtoms(win xproto.Window, name string, names []string) error {
	atoms, err := xprop.StrToAtoms(s.x, names)
	if err != nil {
		return err
	}
	return xprop.ChangeProp32(s.x, win, name, "ATOM", atoms...)
}

func (s *Store) Delete(win xproto.Window, name string) error {
	atom, err := xprop.Atm(s.x, name)
	if err != nil {
		return err
	}
	return xproto.DeletePropertyChecked(s.x.Conn(), win, atom).Check()
}
