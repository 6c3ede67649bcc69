package wm

import (
	"fmt"
	"log/slog"

	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/bus"
	"github.com/veldtwm/veldt/internal/geom"
	"github.com/veldtwm/veldt/internal/hints"
)

// Manager is the client state machine. It owns every Client in its Table and
// is the only writer of their state; all methods must be called from the
// event thread. Protocol output goes through the Server, decoration through
// Decor, desktop bookkeeping through Workspaces.
type Manager struct {
	screen int
	srv    Server
	codec  *hints.Codec
	table  *Table
	decor  Decor
	work   Workspaces
	cache  *Cache
}

func NewManager(screen int, srv Server, codec *hints.Codec, decor Decor, work Workspaces) *Manager {
	return &Manager{
		screen: screen,
		srv:    srv,
		codec:  codec,
		table:  NewTable(),
		decor:  decor,
		work:   work,
	}
}

func (m *Manager) Table() *Table { return m.table }

// SetCache enables state snapshots across unmanage/manage cycles.
func (m *Manager) SetCache(cache *Cache) { m.cache = cache }

// Manage takes over a top-level window: reads every hint, derives the
// initial state, applies the startup transitions and makes the window
// visible if it belongs on the current desktop. A window that disappears
// mid-manage is abandoned with an error.
func (m *Manager) Manage(win xproto.Window) (*Client, error) {
	if c := m.table.Get(win); c != nil {
		return c, nil
	}

	c := newClient(win, m.screen)

	if err := m.srv.SelectClientEvents(win); err != nil {
		return nil, fmt.Errorf("manage %d: %w", win, err)
	}
	area, bw, err := m.srv.Geometry(win)
	if err != nil {
		return nil, fmt.Errorf("manage %d: %w", win, err)
	}
	c.area, c.borderWidth = area, bw

	m.updateNormalHints(c)
	m.updateProtocols(c)
	m.updateWMHints(c, true)
	m.updateTransientFor(c)
	m.updateType(c)
	m.updateMwmHints(c)
	m.updateTitle(c)
	m.updateIconTitle(c)
	m.updateClass(c)
	m.updateRole(c)
	m.updateStrut(c)
	m.updateIcons(c)
	m.updateKwmIcon(c)
	c.shaped = m.srv.Shaped(win)

	m.readInitialState(c)
	if m.cache != nil {
		m.applySnapshot(c)
	}

	c.setupDecorAndFunctions()
	c.calcLayer()

	// the frame draws the border from here on; reposition so the client's
	// reference point stays put
	if c.borderWidth != 0 {
		dx, dy := geom.BorderOffset(c.gravity, c.borderWidth)
		c.area.X += dx
		c.area.Y += dy
		m.srv.SetBorderWidth(win, 0)
		m.srv.Configure(win, c.area)
	}

	m.table.add(c)
	m.decor.Attach(c)

	m.applyStartupState(c)
	m.changeState(c)
	m.codec.SetDesktop(win, c.desktop)
	m.showHide(c)

	slog.Info("Managed window",
		"window", win, "title", c.title, "type", c.wtype.String(), "desktop", c.desktop)
	bus.Publish(bus.ClientManaged{Window: win})
	return c, nil
}

// Unmanage releases a window. With restore true (the application withdrew
// the window) its border width and WM_STATE are put back so the window could
// be re-mapped elsewhere; with restore false the window is already gone.
func (m *Manager) Unmanage(c *Client, restore bool) {
	win := c.win

	if m.cache != nil {
		m.cache.Save(c)
	}

	m.decor.Detach(c)
	m.table.unlink(c)

	if restore {
		if c.borderWidth != 0 && m.srv.Valid(win) {
			dx, dy := geom.BorderOffset(c.gravity, c.borderWidth)
			c.area.X -= dx
			c.area.Y -= dy
			m.srv.SetBorderWidth(win, c.borderWidth)
			m.srv.Configure(win, c.area)
		}
		m.codec.SetWmState(win, hints.WmState{State: hints.StateWithdrawn})
	}
	m.codec.Forget(win)

	m.table.remove(c)

	slog.Info("Unmanaged window", "window", win, "title", c.title)
	bus.Publish(bus.ClientUnmanaged{Window: win})
}

// HandleProperty re-reads one window property after a PropertyNotify and
// applies whatever state it feeds into. Unknown property names are ignored;
// applications set plenty the manager has no interest in.
func (m *Manager) HandleProperty(c *Client, name string) {
	switch name {
	case "WM_NORMAL_HINTS":
		m.updateNormalHints(c)
		m.refreshDerived(c)
	case "WM_HINTS":
		m.updateWMHints(c, false)
	case "WM_PROTOCOLS":
		m.updateProtocols(c)
	case "WM_TRANSIENT_FOR":
		m.updateTransientFor(c)
		m.updateType(c)
		m.refreshDerived(c)
	case "_NET_WM_WINDOW_TYPE":
		m.updateType(c)
		m.refreshDerived(c)
	case "_MOTIF_WM_HINTS":
		m.updateMwmHints(c)
		m.refreshDerived(c)
	case "_NET_WM_NAME", "WM_NAME":
		m.updateTitle(c)
		m.decor.Refresh(c)
	case "_NET_WM_ICON_NAME", "WM_ICON_NAME":
		m.updateIconTitle(c)
	case "WM_CLASS":
		m.updateClass(c)
	case "WM_WINDOW_ROLE":
		m.updateRole(c)
	case "_NET_WM_STRUT", "_NET_WM_STRUT_PARTIAL":
		m.updateStrut(c)
	case "_NET_WM_ICON":
		m.updateIcons(c)
		m.decor.Refresh(c)
	case "KWM_WIN_ICON":
		m.updateKwmIcon(c)
		m.decor.Refresh(c)
	}
}

func (m *Manager) updateNormalHints(c *Client) {
	nh, ok := m.codec.NormalHints(c.win)
	c.gravity = xproto.GravityNorthWest
	if ok {
		if nh.WinGravity > 0 {
			c.gravity = int(nh.WinGravity)
		}
		c.positioned = nh.Positioned()
	}
	c.cons = nh.Constraints()
	c.logicalSize = c.cons.Logical(c.area.W, c.area.H)
}

func (m *Manager) updateWMHints(c *Client, initial bool) {
	wh, _ := m.codec.WMHints(c.win)
	c.canFocus = wh.Input
	c.group = wh.WindowGroup
	c.pixmapIcon, c.pixmapIconMask = wh.IconPixmap, wh.IconMask

	if initial && wh.InitialState == hints.StateIconic {
		c.startupIconic = true
	}

	urgent := wh.Urgent()
	if urgent != c.urgent {
		c.urgent = urgent
		if !initial {
			m.changeState(c)
			if urgent {
				bus.Publish(bus.ClientUrgent{Window: c.win})
			}
		}
	}
}

func (m *Manager) updateProtocols(c *Client) {
	c.deleteWindow, c.focusNotify = false, false
	for _, p := range m.codec.Protocols(c.win) {
		switch p {
		case hints.ProtocolDelete:
			c.deleteWindow = true
		case hints.ProtocolTakeFocus:
			c.focusNotify = true
		}
	}
}

func (m *Manager) updateTransientFor(c *Client) {
	parent, _ := m.codec.TransientFor(c.win)
	m.table.linkTransient(c, parent)
}

// updateType picks the first recognized atom of _NET_WM_WINDOW_TYPE. A
// window that declares none is a dialog if it is transient, else normal.
func (m *Manager) updateType(c *Client) {
	for _, t := range m.codec.Types(c.win) {
		switch t {
		case hints.TypeDesktop:
			c.wtype = TypeDesktop
		case hints.TypeDock:
			c.wtype = TypeDock
		case hints.TypeToolbar:
			c.wtype = TypeToolbar
		case hints.TypeMenu:
			c.wtype = TypeMenu
		case hints.TypeUtility:
			c.wtype = TypeUtility
		case hints.TypeSplash:
			c.wtype = TypeSplash
		case hints.TypeDialog:
			c.wtype = TypeDialog
		case hints.TypeNormal:
			c.wtype = TypeNormal
		default:
			continue
		}
		return
	}
	if c.transientFor != 0 {
		c.wtype = TypeDialog
	} else {
		c.wtype = TypeNormal
	}
}

func (m *Manager) updateMwmHints(c *Client) {
	c.mwm, _ = m.codec.MwmHints(c.win)
}

func (m *Manager) updateTitle(c *Client) {
	title := m.codec.Title(c.win)
	if title == "" {
		title = "Unnamed Window"
	}
	c.title = title
}

func (m *Manager) updateIconTitle(c *Client) {
	title := m.codec.IconTitle(c.win)
	if title == "" {
		title = c.title
	}
	c.iconTitle = title
}

func (m *Manager) updateClass(c *Client) {
	c.appName, c.appClass = m.codec.Class(c.win)
}

func (m *Manager) updateRole(c *Client) {
	c.role = m.codec.Role(c.win)
}

func (m *Manager) updateStrut(c *Client) {
	c.strut, _ = m.codec.Strut(c.win)
}

func (m *Manager) updateIcons(c *Client) {
	c.icons = m.codec.Icons(c.win)
}

func (m *Manager) updateKwmIcon(c *Client) {
	if pixmap, mask, ok := m.codec.KwmIcon(c.win); ok {
		c.pixmapIcon, c.pixmapIconMask = pixmap, mask
	}
}

// readInitialState folds the window's pre-set _NET_WM_STATE and
// _NET_WM_DESKTOP into the fresh entity. The flags are recorded raw here;
// applyStartupState runs the real transitions afterwards.
func (m *Manager) readInitialState(c *Client) {
	for _, s := range m.codec.States(c.win) {
		switch s {
		case hints.StateModal:
			c.modal = true
		case hints.StateShaded:
			c.shaded = true
		case hints.StateHidden:
			c.startupIconic = true
		case hints.StateSkipTaskbar:
			c.skipTaskbar = true
		case hints.StateSkipPager:
			c.skipPager = true
		case hints.StateFullscreen:
			c.fullscreen = true
		case hints.StateMaximizedVert:
			c.maxVert = true
		case hints.StateMaximizedHorz:
			c.maxHorz = true
		case hints.StateAbove:
			c.above = true
		case hints.StateBelow:
			c.below = true
		case hints.StateDemandsAttention:
			c.urgent = true
		}
	}

	if d, ok := m.codec.Desktop(c.win); ok && (d == hints.AllDesktops || d < m.work.Count()) {
		c.desktop = d
	} else if parent := m.table.Get(c.transientFor); parent != nil {
		c.desktop = parent.desktop
	} else {
		c.desktop = m.work.Current()
	}
}

// applyStartupState replays the initial state requests through the normal
// transitions so their side effects (saved areas, geometry, WM_STATE) happen
// exactly as if the running client had asked. Each flag is cleared first;
// the transition is a no-op when it finds the flag already set.
func (m *Manager) applyStartupState(c *Client) {
	if c.startupIconic {
		c.startupIconic = false
		c.iconic = false
		m.Iconify(c, true, true)
	}
	if c.fullscreen {
		c.fullscreen = false
		m.Fullscreen(c, true, false)
	}
	if c.shaded {
		c.shaded = false
		m.Shade(c, true)
	}
	switch {
	case c.maxVert && c.maxHorz:
		c.maxVert, c.maxHorz = false, false
		m.Maximize(c, true, MaxBoth, false)
	case c.maxVert:
		c.maxVert = false
		m.Maximize(c, true, MaxVert, false)
	case c.maxHorz:
		c.maxHorz = false
		m.Maximize(c, true, MaxHorz, false)
	}
}

// refreshDerived recomputes everything downstream of a hint change.
func (m *Manager) refreshDerived(c *Client) {
	c.setupDecorAndFunctions()
	m.changeState(c)
	m.decor.Refresh(c)
}

// changeState republishes the window's externally visible state: WM_STATE,
// the _NET_WM_STATE list, the allowed actions and the stacking layer. Safe
// to call redundantly; the codec swallows value-equal rewrites.
func (m *Manager) changeState(c *Client) {
	if c.iconic {
		c.wmstate = hints.StateIconic
	} else {
		c.wmstate = hints.StateNormal
	}
	m.codec.SetWmState(c.win, hints.WmState{State: c.wmstate})
	m.codec.SetStates(c.win, c.stateAtoms())
	m.codec.SetAllowedActions(c.win, c.allowedActions())
	c.calcLayer()
	bus.Publish(bus.ClientStateChanged{Window: c.win})
}

// showHide reconciles the window's mapped state with where it should be:
// visible iff not iconic and on the current desktop. Unmaps we cause
// ourselves are counted so HandleUnmap can tell them from withdrawal.
func (m *Manager) showHide(c *Client) {
	show := !c.iconic && c.onDesktop(m.work.Current())
	switch {
	case show && !c.visible:
		c.visible = true
		m.srv.MapWindow(c.win)
		m.decor.Show(c)
	case !show && c.visible:
		c.visible = false
		c.IgnoreUnmaps++
		m.srv.UnmapWindow(c.win)
		m.decor.Hide(c)
	}
}

// ShowHide re-evaluates visibility for every client, called after a desktop
// switch.
func (m *Manager) ShowHide() {
	for _, c := range m.table.All() {
		m.showHide(c)
	}
}

// Validate reports whether the client's window still exists. Callers use it
// right before destructive requests.
func (m *Manager) Validate(c *Client) bool {
	return m.srv.Valid(c.win)
}
