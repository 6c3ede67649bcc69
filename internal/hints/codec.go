package hints

import (
	"fmt"

	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/geom"
)

// Codec reads and writes window hints through a PropertyStore. Writes are
// idempotent: the codec fingerprints the last value written per property and
// skips value-equal rewrites, so a hint write provoked mid-transition cannot
// echo back as an observable change.
type Codec struct {
	store   PropertyStore
	written map[writeKey]string
}

type writeKey struct {
	win  xproto.Window
	prop string
}

func NewCodec(store PropertyStore) *Codec {
	return &Codec{
		store:   store,
		written: make(map[writeKey]string),
	}
}

// Forget drops the write fingerprints of a window, called on unmanage.
func (c *Codec) Forget(win xproto.Window) {
	for k := range c.written {
		if k.win == win {
			delete(c.written, k)
		}
	}
}

func (c *Codec) dirty(win xproto.Window, prop string, val any) bool {
	key := writeKey{win: win, prop: prop}
	fp := fmt.Sprint(val)
	if c.written[key] == fp {
		return false
	}
	c.written[key] = fp
	return true
}

// NormalHints reads WM_NORMAL_HINTS. An absent or malformed property yields
// ok=false and defaults (north-west gravity, everything unconstrained).
// Pre-ICCCM clients publish 15 fields instead of 18; both layouts are
// accepted.
func (c *Codec) NormalHints(win xproto.Window) (NormalHints, bool) {
	nh := NormalHints{WinGravity: xproto.GravityNorthWest}

	raw, err := c.store.Nums(win, "WM_NORMAL_HINTS")
	if err != nil || len(raw) < 15 {
		return nh, false
	}

	nh.Flags = raw[0]
	nh.X, nh.Y = int(int32(raw[1])), int(int32(raw[2]))
	nh.Width, nh.Height = raw[3], raw[4]
	if nh.Flags&SizeHintPMinSize != 0 {
		nh.MinWidth, nh.MinHeight = raw[5], raw[6]
	}
	if nh.Flags&SizeHintPMaxSize != 0 {
		nh.MaxWidth, nh.MaxHeight = raw[7], raw[8]
	}
	if nh.Flags&SizeHintPResizeInc != 0 {
		nh.WidthInc, nh.HeightInc = raw[9], raw[10]
	}
	if nh.Flags&SizeHintPAspect != 0 {
		nh.MinAspectNum, nh.MinAspectDen = raw[11], raw[12]
		nh.MaxAspectNum, nh.MaxAspectDen = raw[13], raw[14]
	}
	if len(raw) >= 18 {
		if nh.Flags&SizeHintPBaseSize != 0 {
			nh.BaseWidth, nh.BaseHeight = raw[15], raw[16]
		}
		if nh.Flags&SizeHintPWinGravity != 0 && raw[17] > 0 {
			nh.WinGravity = raw[17]
		}
	}
	return nh, true
}

// Constraints converts decoded normal hints into the geometry engine's
// constraint form. The ICCCM base-size fallback applies: min size stands in
// for an unset base and vice versa.
func (nh NormalHints) Constraints() geom.Constraints {
	cons := geom.Constraints{
		Min:  geom.Size{W: int(nh.MinWidth), H: int(nh.MinHeight)},
		Max:  geom.Size{W: int(nh.MaxWidth), H: int(nh.MaxHeight)},
		Inc:  geom.Size{W: int(nh.WidthInc), H: int(nh.HeightInc)},
		Base: geom.Size{W: int(nh.BaseWidth), H: int(nh.BaseHeight)},
	}
	if nh.Flags&SizeHintPBaseSize == 0 && nh.Flags&SizeHintPMinSize != 0 {
		cons.Base = cons.Min
	}
	if nh.Flags&SizeHintPMinSize == 0 && nh.Flags&SizeHintPBaseSize != 0 {
		cons.Min = cons.Base
	}
	if nh.MinAspectDen > 0 {
		cons.MinRatio = float64(nh.MinAspectNum) / float64(nh.MinAspectDen)
	}
	if nh.MaxAspectDen > 0 {
		cons.MaxRatio = float64(nh.MaxAspectNum) / float64(nh.MaxAspectDen)
	}
	return cons
}

// WMHints reads WM_HINTS. Defaults: input model true, normal initial state.
func (c *Codec) WMHints(win xproto.Window) (WMHints, bool) {
	wh := WMHints{Input: true, InitialState: StateNormal}

	raw, err := c.store.Nums(win, "WM_HINTS")
	if err != nil || len(raw) < 8 {
		return wh, false
	}

	wh.Flags = raw[0]
	if wh.Flags&HintInput != 0 {
		wh.Input = raw[1] != 0
	}
	if wh.Flags&HintState != 0 {
		wh.InitialState = raw[2]
	}
	if wh.Flags&HintIconPixmap != 0 {
		wh.IconPixmap = xproto.Pixmap(raw[3])
	}
	if wh.Flags&HintIconWindow != 0 {
		wh.IconWindow = xproto.Window(raw[4])
	}
	if wh.Flags&HintIconPosition != 0 {
		wh.IconX, wh.IconY = int(int32(raw[5])), int(int32(raw[6]))
	}
	if wh.Flags&HintIconMask != 0 {
		wh.IconMask = xproto.Pixmap(raw[7])
	}
	if len(raw) >= 9 && wh.Flags&HintWindowGroup != 0 {
		wh.WindowGroup = xproto.Window(raw[8])
	}
	return wh, true
}

// MwmHints reads _MOTIF_WM_HINTS. Absent means the application expressed no
// preference, which callers treat as "all decorations, all functions".
func (c *Codec) MwmHints(win xproto.Window) (MwmHints, bool) {
	raw, err := c.store.Nums(win, "_MOTIF_WM_HINTS")
	if err != nil || len(raw) < 3 {
		return MwmHints{}, false
	}
	return MwmHints{Flags: raw[0], Functions: raw[1], Decorations: raw[2]}, true
}

// States reads the _NET_WM_STATE atom list; absent means no states set.
func (c *Codec) States(win xproto.Window) []string {
	states, err := c.store.Atoms(win, "_NET_WM_STATE")
	if err != nil {
		return nil
	}
	return states
}

// Types reads _NET_WM_WINDOW_TYPE; absent means the caller must infer the
// type from WM_TRANSIENT_FOR per EWMH.
func (c *Codec) Types(win xproto.Window) []string {
	types, err := c.store.Atoms(win, "_NET_WM_WINDOW_TYPE")
	if err != nil {
		return nil
	}
	return types
}

// Strut reads _NET_WM_STRUT_PARTIAL, falling back to _NET_WM_STRUT. Only the
// four edge widths are used.
func (c *Codec) Strut(win xproto.Window) (geom.Strut, bool) {
	raw, err := c.store.Nums(win, "_NET_WM_STRUT_PARTIAL")
	if err != nil || len(raw) < 4 {
		raw, err = c.store.Nums(win, "_NET_WM_STRUT")
	}
	if err != nil || len(raw) < 4 {
		return geom.Strut{}, false
	}
	return geom.Strut{
		Left:   int(raw[0]),
		Right:  int(raw[1]),
		Top:    int(raw[2]),
		Bottom: int(raw[3]),
	}, true
}

func (c *Codec) TransientFor(win xproto.Window) (xproto.Window, bool) {
	parent, err := c.store.Window(win, "WM_TRANSIENT_FOR")
	if err != nil || parent == 0 {
		return 0, false
	}
	return parent, true
}

func (c *Codec) Protocols(win xproto.Window) []string {
	protocols, err := c.store.Atoms(win, "WM_PROTOCOLS")
	if err != nil {
		return nil
	}
	return protocols
}

// Title reads _NET_WM_NAME with a WM_NAME fallback.
func (c *Codec) Title(win xproto.Window) string {
	if title, err := c.store.Str(win, "_NET_WM_NAME"); err == nil && title != "" {
		return title
	}
	if title, err := c.store.Str(win, "WM_NAME"); err == nil {
		return title
	}
	return ""
}

// IconTitle reads _NET_WM_ICON_NAME with a WM_ICON_NAME fallback.
func (c *Codec) IconTitle(win xproto.Window) string {
	if title, err := c.store.Str(win, "_NET_WM_ICON_NAME"); err == nil && title != "" {
		return title
	}
	if title, err := c.store.Str(win, "WM_ICON_NAME"); err == nil {
		return title
	}
	return ""
}

// Class reads WM_CLASS: the instance (application name) and class strings.
func (c *Codec) Class(win xproto.Window) (name, class string) {
	raw, err := c.store.Strs(win, "WM_CLASS")
	if err != nil || len(raw) < 2 {
		return "", ""
	}
	return raw[0], raw[1]
}

func (c *Codec) Role(win xproto.Window) string {
	role, err := c.store.Str(win, "WM_WINDOW_ROLE")
	if err != nil {
		return ""
	}
	return role
}

// Desktop reads _NET_WM_DESKTOP. The value is either a desktop index or the
// AllDesktops sentinel; anything else is treated as absent.
func (c *Codec) Desktop(win xproto.Window) (uint32, bool) {
	raw, err := c.store.Nums(win, "_NET_WM_DESKTOP")
	if err != nil || len(raw) < 1 {
		return 0, false
	}
	return uint32(raw[0]), true
}

// WmState reads the ICCCM WM_STATE property the manager itself maintains.
func (c *Codec) WmState(win xproto.Window) (WmState, bool) {
	raw, err := c.store.Nums(win, "WM_STATE")
	if err != nil || len(raw) < 2 {
		return WmState{State: StateWithdrawn}, false
	}
	return WmState{State: raw[0], Icon: xproto.Window(raw[1])}, true
}

// Icons reads the _NET_WM_ICON list. Truncated trailing entries are dropped
// rather than failing the whole list.
func (c *Codec) Icons(win xproto.Window) []Icon {
	raw, err := c.store.Nums(win, "_NET_WM_ICON")
	if err != nil {
		return nil
	}

	var icons []Icon
	for len(raw) >= 2 {
		w, h := raw[0], raw[1]
		n := int(w * h)
		if n <= 0 || len(raw)-2 < n {
			break
		}
		icons = append(icons, Icon{Width: w, Height: h, Data: raw[2 : 2+n]})
		raw = raw[2+n:]
	}
	return icons
}

// KwmIcon reads the legacy KWM_WIN_ICON pixmap and mask pair.
func (c *Codec) KwmIcon(win xproto.Window) (pixmap, mask xproto.Pixmap, ok bool) {
	raw, err := c.store.Nums(win, "KWM_WIN_ICON")
	if err != nil || len(raw) < 2 {
		return 0, 0, false
	}
	return xproto.Pixmap(raw[0]), xproto.Pixmap(raw[1]), true
}

// SetWmState writes WM_STATE.
func (c *Codec) SetWmState(win xproto.Window, state WmState) error {
	if !c.dirty(win, "WM_STATE", state) {
		return nil
	}
	return c.store.SetNums(win, "WM_STATE", "WM_STATE", state.State, uint(state.Icon))
}

// SetStates writes the _NET_WM_STATE atom list.
func (c *Codec) SetStates(win xproto.Window, states []string) error {
	if !c.dirty(win, "_NET_WM_STATE", states) {
		return nil
	}
	return c.store.SetAtoms(win, "_NET_WM_STATE", states)
}

// SetAllowedActions writes _NET_WM_ALLOWED_ACTIONS.
func (c *Codec) SetAllowedActions(win xproto.Window, actions []string) error {
	if !c.dirty(win, "_NET_WM_ALLOWED_ACTIONS", actions) {
		return nil
	}
	return c.store.SetAtoms(win, "_NET_WM_ALLOWED_ACTIONS", actions)
}

// SetDesktop writes _NET_WM_DESKTOP.
func (c *Codec) SetDesktop(win xproto.Window, desktop uint32) error {
	if !c.dirty(win, "_NET_WM_DESKTOP", desktop) {
		return nil
	}
	return c.store.SetNums(win, "_NET_WM_DESKTOP", "CARDINAL", uint(desktop))
}
