package wm

import (
	"log/slog"

	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/bus"
	"github.com/veldtwm/veldt/internal/geom"
	"github.com/veldtwm/veldt/internal/hints"
)

// MaxAxis selects which axes a maximize request applies to.
type MaxAxis int

const (
	MaxBoth MaxAxis = iota
	MaxHorz
	MaxVert
)

// Iconify hides a window into the iconic state or brings it back. On
// restore, curdesk true moves the window to the current desktop; curdesk
// false switches the view to the window's desktop instead.
func (m *Manager) Iconify(c *Client, iconic, curdesk bool) {
	if c.iconic == iconic {
		return
	}
	c.iconic = iconic

	if !iconic && !c.onDesktop(m.work.Current()) {
		if curdesk {
			m.SetDesktop(c, m.work.Current())
		} else {
			m.work.Switch(c.desktop)
		}
	}

	m.changeState(c)
	m.showHide(c)
}

// Maximize grows the window to the workarea on the requested axes, or
// restores it. Each axis saves its own slice of the pre-maximize geometry,
// so horizontal and vertical maximization restore independently. savearea
// false replays a maximize without capturing the current geometry, used for
// startup state.
func (m *Manager) Maximize(c *Client, max bool, axis MaxAxis, savearea bool) {
	wantH := axis == MaxBoth || axis == MaxHorz
	wantV := axis == MaxBoth || axis == MaxVert

	if max {
		if c.functions&FuncMaximize == 0 {
			return
		}
		changeH := wantH && !c.maxHorz
		changeV := wantV && !c.maxVert
		if !changeH && !changeV {
			return
		}
		if savearea {
			if changeH {
				c.savedMax.X, c.savedMax.W = c.area.X, c.area.W
				c.savedMaxHorz = true
			}
			if changeV {
				c.savedMax.Y, c.savedMax.H = c.area.Y, c.area.H
				c.savedMaxVert = true
			}
		}
		if changeH {
			c.maxHorz = true
		}
		if changeV {
			c.maxVert = true
		}
		m.applyMaxGeometry(c)
	} else {
		changeH := wantH && c.maxHorz
		changeV := wantV && c.maxVert
		if !changeH && !changeV {
			return
		}
		target := c.area
		if changeH {
			c.maxHorz = false
			if c.savedMaxHorz {
				target.X, target.W = c.savedMax.X, c.savedMax.W
				c.savedMaxHorz = false
			}
		}
		if changeV {
			c.maxVert = false
			if c.savedMaxVert {
				target.Y, target.H = c.savedMax.Y, c.savedMax.H
				c.savedMaxVert = false
			}
		}
		if c.fullscreen {
			// geometry is pinned while fullscreen; restore there instead
			c.savedFull = target
			c.savedFullSet = true
		} else {
			m.internalResize(c, geom.TopLeft, target.W, target.H, false, &target.X, &target.Y)
		}
	}
	m.changeState(c)
}

// Remaximize reapplies the maximized geometry on the still-maximized axes,
// called when the workarea changes under the window.
func (m *Manager) Remaximize(c *Client) {
	if !c.maxHorz && !c.maxVert {
		return
	}
	m.applyMaxGeometry(c)
}

func (m *Manager) applyMaxGeometry(c *Client) {
	if c.fullscreen {
		return
	}
	wa := m.work.Workarea(c.desktop)
	target := c.area
	if c.maxHorz {
		target.X, target.W = wa.X, wa.W
	}
	if c.maxVert {
		target.Y, target.H = wa.Y, wa.H
	}
	m.internalResize(c, geom.TopLeft, target.W, target.H, false, &target.X, &target.Y)
}

// Fullscreen covers the whole screen, struts included, and restores the
// prior geometry on the way out. The maximize flags and their saved areas
// are left untouched: a window that was maximized going in comes back out
// maximized.
func (m *Manager) Fullscreen(c *Client, fs, savearea bool) {
	if c.fullscreen == fs {
		return
	}
	if fs && c.functions&FuncFullscreen == 0 {
		return
	}
	c.fullscreen = fs

	if fs {
		if savearea {
			c.savedFull = c.area
			c.savedFullSet = true
		}
		fa := m.work.FullArea()
		m.internalResize(c, geom.TopLeft, fa.W, fa.H, false, &fa.X, &fa.Y)
	} else {
		target := c.area
		if c.savedFullSet {
			target = c.savedFull
			c.savedFullSet = false
		}
		m.internalResize(c, geom.TopLeft, target.W, target.H, false, &target.X, &target.Y)
		if c.maxHorz || c.maxVert {
			m.applyMaxGeometry(c)
		}
	}
	m.changeState(c)
}

// Shade rolls the window up into its titlebar. Pure flag state here; the
// decoration collaborator does the actual frame work.
func (m *Manager) Shade(c *Client, shade bool) {
	if shade && c.functions&FuncShade == 0 {
		return
	}
	if c.shaded == shade {
		return
	}
	c.shaded = shade
	m.changeState(c)
	m.decor.SetShaded(c, shade)
}

// SetDesktop moves the window to a desktop (or AllDesktops) and reconciles
// its visibility. Out-of-range indices are dropped.
func (m *Manager) SetDesktop(c *Client, desktop uint32) {
	if desktop != hints.AllDesktops && desktop >= m.work.Count() {
		slog.Debug("Dropping desktop request out of range", "window", c.win, "desktop", desktop)
		return
	}
	if c.desktop == desktop {
		return
	}
	c.desktop = desktop
	m.codec.SetDesktop(c.win, desktop)
	m.showHide(c)
	bus.Publish(bus.ClientStateChanged{Window: c.win})
}

// Move repositions the window, honoring the functions mask.
func (m *Manager) Move(c *Client, x, y int) {
	if c.functions&FuncMove == 0 {
		return
	}
	m.internalMove(c, x, y)
}

// Resize resizes the window anchored at a corner, honoring the functions
// mask. The size passes through the constraint engine.
func (m *Manager) Resize(c *Client, anchor geom.Corner, w, h int) {
	if c.functions&FuncResize == 0 {
		return
	}
	m.internalResize(c, anchor, w, h, true, nil, nil)
}

// MoveResize applies a full geometry request, used for ConfigureRequest
// handling where the functions mask does not apply.
func (m *Manager) MoveResize(c *Client, x, y, w, h int) {
	m.internalResize(c, geom.TopLeft, w, h, false, &x, &y)
}

func (m *Manager) internalMove(c *Client, x, y int) {
	if !m.srv.Valid(c.win) {
		slog.Debug("Dropping move of vanished window", "window", c.win)
		return
	}

	c.area.X, c.area.Y = x, y
	m.srv.Configure(c.win, c.area)
	m.decor.Refresh(c)
}

// internalResize is the single path every geometry change funnels through:
// constraints apply, the logical size updates, and the new rectangle is
// either pinned to explicit coordinates or anchored to a corner of the old
// one. user marks user-initiated resizes for the decoration collaborator.
func (m *Manager) internalResize(c *Client, anchor geom.Corner, w, h int, user bool, px, py *int) {
	if !m.srv.Valid(c.win) {
		slog.Debug("Dropping resize of vanished window", "window", c.win)
		return
	}

	reqW, reqH := w, h
	w, h = c.cons.Apply(w, h)
	if user && (w != reqW || h != reqH) {
		slog.Debug("Constrained user resize",
			"window", c.win, "requested", geom.Size{W: reqW, H: reqH}, "granted", geom.Size{W: w, H: h})
	}
	c.logicalSize = c.cons.Logical(w, h)

	var r geom.Rect
	if px != nil && py != nil {
		r = geom.Rect{X: *px, Y: *py, W: w, H: h}
	} else {
		r = geom.Anchor(c.area, anchor, w, h)
	}
	c.area = r

	m.srv.Configure(c.win, r)
	m.decor.Refresh(c)
}

// Close asks the window to go away: politely through WM_DELETE_WINDOW when
// the application supports it, by force otherwise. Nothing happens if the
// window already vanished.
func (m *Manager) Close(c *Client) {
	if c.functions&FuncClose == 0 {
		return
	}
	if !m.srv.Valid(c.win) {
		return
	}
	if c.deleteWindow {
		m.srv.SendDelete(c.win)
	} else {
		m.srv.DestroyWindow(c.win)
	}
}

// Focus gives the window the input focus using whichever of the two ICCCM
// focus models it supports. A modal transient descendant steals the focus
// instead. Returns false when the window cannot take focus.
func (m *Manager) Focus(c *Client) bool {
	return m.focus(c, make(map[xproto.Window]bool))
}

func (m *Manager) focus(c *Client, seen map[xproto.Window]bool) bool {
	if seen[c.win] {
		return false
	}
	seen[c.win] = true

	if child := m.table.FindModalChild(c); child != nil && child != c {
		return m.focus(child, seen)
	}

	if c.iconic || (!c.canFocus && !c.focusNotify) {
		return false
	}
	if !m.srv.Valid(c.win) {
		return false
	}

	if c.canFocus {
		m.srv.SetInputFocus(c.win)
	}
	if c.focusNotify {
		m.srv.SendTakeFocus(c.win)
	}
	m.srv.InstallColormap(c.win)

	if !c.focused {
		c.focused = true
		m.decor.Refresh(c)
		bus.Publish(bus.ClientFocusChanged{Window: c.win, Focused: true})
	}
	return true
}

// Unfocus clears the focused flag after the server moved the focus away.
func (m *Manager) Unfocus(c *Client) {
	if !c.focused {
		return
	}
	c.focused = false
	m.decor.Refresh(c)
	bus.Publish(bus.ClientFocusChanged{Window: c.win, Focused: false})
}

// SetState applies a _NET_WM_STATE client message: one action over one or
// two named state attributes. Unrecognized attribute names are skipped.
func (m *Manager) SetState(c *Client, action uint, first, second string) {
	for _, name := range []string{first, second} {
		if name == "" {
			continue
		}
		m.setStateAttr(c, action, name)
	}
	m.changeState(c)
}

func (m *Manager) setStateAttr(c *Client, action uint, name string) {
	on := func(cur bool) bool {
		switch action {
		case hints.StateAdd:
			return true
		case hints.StateRemove:
			return false
		case hints.StateToggle:
			return !cur
		}
		return cur
	}

	switch name {
	case hints.StateModal:
		c.modal = on(c.modal)
	case hints.StateShaded:
		m.Shade(c, on(c.shaded))
	case hints.StateHidden:
		m.Iconify(c, on(c.iconic), true)
	case hints.StateSkipTaskbar:
		c.skipTaskbar = on(c.skipTaskbar)
	case hints.StateSkipPager:
		c.skipPager = on(c.skipPager)
	case hints.StateFullscreen:
		m.Fullscreen(c, on(c.fullscreen), true)
	case hints.StateMaximizedVert:
		m.Maximize(c, on(c.maxVert), MaxVert, true)
	case hints.StateMaximizedHorz:
		m.Maximize(c, on(c.maxHorz), MaxHorz, true)
	case hints.StateAbove:
		c.above = on(c.above)
		if c.above {
			c.below = false
		}
	case hints.StateBelow:
		c.below = on(c.below)
		if c.below {
			c.above = false
		}
	case hints.StateDemandsAttention:
		c.urgent = on(c.urgent)
		if c.urgent {
			bus.Publish(bus.ClientUrgent{Window: c.win})
		}
	default:
		slog.Debug("Ignoring unknown state attribute", "window", c.win, "state", name)
	}
}

// DisableDecorations subtracts decorations by user policy. The mask only
// ever removes; it cannot re-enable what the hints forbid.
func (m *Manager) DisableDecorations(c *Client, mask DecorMask) {
	if c.disabledDecorations == mask {
		return
	}
	c.disabledDecorations = mask
	m.refreshDerived(c)
}

// InstallColormap installs the window's colormap, done when it gains focus
// or when the pointer policy demands it.
func (m *Manager) InstallColormap(c *Client) {
	m.srv.InstallColormap(c.win)
}

// ConfigureRequest carries the fields of an XConfigureRequest the engine
// honors. Nil pointers mean the client did not ask for that field; stacking
// requests are not the engine's business and are dropped by the caller.
type ConfigureRequest struct {
	X, Y, W, H *int
}

// HandleConfigureRequest answers a client's own geometry request. The
// request passes through the same constraint path as everything else, so
// the reply may differ from what was asked.
func (m *Manager) HandleConfigureRequest(c *Client, req ConfigureRequest) {
	x, y, w, h := c.area.X, c.area.Y, c.area.W, c.area.H
	if req.X != nil {
		x = *req.X
	}
	if req.Y != nil {
		y = *req.Y
	}
	if req.W != nil {
		w = *req.W
	}
	if req.H != nil {
		h = *req.H
	}

	if c.fullscreen || ((c.maxHorz || c.maxVert) && (req.W != nil || req.H != nil)) {
		// geometry is ours while fullscreen or maximized; restate it
		m.srv.Configure(c.win, c.area)
		return
	}

	if req.W == nil && req.H == nil {
		m.internalMove(c, x, y)
		return
	}
	m.internalResize(c, geom.TopLeft, w, h, false, &x, &y)
}

// HandleMapRequest answers a map request on an already-managed window: the
// application wants it back on screen.
func (m *Manager) HandleMapRequest(c *Client) {
	if c.iconic {
		m.Iconify(c, false, false)
	}
	if c.shaded {
		m.Shade(c, false)
	}
	m.showHide(c)
}

// HandleUnmap processes an UnmapNotify. Unmaps the manager generated itself
// are consumed silently; a real one means the application withdrew the
// window.
func (m *Manager) HandleUnmap(c *Client) {
	if c.IgnoreUnmaps > 0 {
		c.IgnoreUnmaps--
		return
	}
	m.Unmanage(c, true)
}

// HandleDestroy processes a DestroyNotify.
func (m *Manager) HandleDestroy(c *Client) {
	m.Unmanage(c, false)
}

// HandleReparent releases a window some other party reparented away.
func (m *Manager) HandleReparent(c *Client) {
	m.Unmanage(c, false)
}

// HandleShape records a change of the window's shape.
func (m *Manager) HandleShape(c *Client, shaped bool) {
	c.shaped = shaped
	m.decor.Refresh(c)
}
