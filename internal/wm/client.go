// Package wm is the client-window state engine: one Client entity per
// managed top-level window, a registry of them, and the state machine that
// applies protocol events and policy requests to the entities while keeping
// the window's properties in sync.
package wm

import (
	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/geom"
	"github.com/veldtwm/veldt/internal/hints"
)

// WindowType classifies what a window is for, from _NET_WM_WINDOW_TYPE.
type WindowType int

const (
	TypeNormal WindowType = iota
	TypeDesktop
	TypeDock
	TypeToolbar
	TypeMenu
	TypeUtility
	TypeSplash
	TypeDialog
)

func (t WindowType) String() string {
	switch t {
	case TypeDesktop:
		return "desktop"
	case TypeDock:
		return "dock"
	case TypeToolbar:
		return "toolbar"
	case TypeMenu:
		return "menu"
	case TypeUtility:
		return "utility"
	case TypeSplash:
		return "splash"
	case TypeDialog:
		return "dialog"
	default:
		return "normal"
	}
}

// Client is the authoritative in-process state of one managed window. All
// fields are owned by the state machine; collaborators read them through the
// accessor methods and never mutate them directly. Relations to other clients
// are held as window ids resolved through the shared Table, never as owning
// references.
type Client struct {
	win    xproto.Window
	screen int

	group        xproto.Window
	transientFor xproto.Window
	transients   []xproto.Window // children, insertion order

	desktop uint32

	title     string
	iconTitle string
	appName   string
	appClass  string
	role      string

	wtype WindowType

	// area is the position and size requested by the client with its
	// gravity applied, not necessarily what is on screen right now.
	area        geom.Rect
	logicalSize geom.Size
	borderWidth int
	gravity     int
	positioned  bool

	cons geom.Constraints
	mwm  hints.MwmHints

	wmstate uint

	deleteWindow bool
	canFocus     bool
	focusNotify  bool

	urgent  bool
	focused bool
	shaped  bool
	visible bool

	modal       bool
	shaded      bool
	iconic      bool
	maxVert     bool
	maxHorz     bool
	skipPager   bool
	skipTaskbar bool
	fullscreen  bool
	above       bool
	below       bool

	layer StackLayer

	decorations         DecorMask
	disabledDecorations DecorMask
	functions           FuncMask

	icons          []hints.Icon
	pixmapIcon     xproto.Pixmap
	pixmapIconMask xproto.Pixmap

	strut geom.Strut

	// IgnoreUnmaps counts manager-generated unmap events still in flight,
	// so they are not mistaken for the application withdrawing the window.
	IgnoreUnmaps int

	savedMax      geom.Rect
	savedMaxVert  bool
	savedMaxHorz  bool
	savedFull     geom.Rect
	savedFullSet  bool
	startupIconic bool
}

func newClient(win xproto.Window, screen int) *Client {
	return &Client{
		win:     win,
		screen:  screen,
		wtype:   TypeNormal,
		gravity: xproto.GravityNorthWest,
		wmstate: hints.StateWithdrawn,
	}
}

func (c *Client) Window() xproto.Window { return c.win }
func (c *Client) Screen() int { return c.screen }
func (c *Client) Type() WindowType { return c.wtype }

// Normal reports whether the window gets ordinary focus and interaction
// treatment. Desktops, docks and splash screens do not.
func (c *Client) Normal() bool {
	return !(c.wtype == TypeDesktop || c.wtype == TypeDock || c.wtype == TypeSplash)
}

func (c *Client) Desktop() uint32 { return c.desktop }
func (c *Client) Title() string { return c.title }
func (c *Client) IconTitle() string { return c.iconTitle }
func (c *Client) AppName() string { return c.appName }
func (c *Client) AppClass() string { return c.appClass }
func (c *Client) Role() string { return c.role }
func (c *Client) Area() geom.Rect { return c.area }
func (c *Client) LogicalSize() geom.Size { return c.logicalSize }
func (c *Client) Strut() geom.Strut { return c.strut }
func (c *Client) Gravity() int { return c.gravity }

// PositionRequested reports whether the application asked for its initial
// position itself; when false the manager should place the window.
func (c *Client) PositionRequested() bool { return c.positioned }

func (c *Client) Group() xproto.Window { return c.group }
func (c *Client) TransientFor() xproto.Window { return c.transientFor }

func (c *Client) CanFocus() bool { return c.canFocus }
func (c *Client) FocusNotify() bool { return c.focusNotify }
func (c *Client) Focused() bool { return c.focused }
func (c *Client) Urgent() bool { return c.urgent }
func (c *Client) Shaped() bool { return c.shaped }

func (c *Client) Modal() bool { return c.modal }
func (c *Client) Shaded() bool { return c.shaded }
func (c *Client) Iconic() bool { return c.iconic }
func (c *Client) MaxVert() bool { return c.maxVert }
func (c *Client) MaxHorz() bool { return c.maxHorz }
func (c *Client) SkipPager() bool { return c.skipPager }
func (c *Client) SkipTaskbar() bool { return c.skipTaskbar }
func (c *Client) Fullscreen() bool { return c.fullscreen }
func (c *Client) Above() bool { return c.above }
func (c *Client) Below() bool { return c.below }

func (c *Client) Layer() StackLayer { return c.layer }

func (c *Client) Decorations() DecorMask { return c.decorations }
func (c *Client) DisabledDecorations() DecorMask { return c.disabledDecorations }
func (c *Client) Functions() FuncMask { return c.functions }

// Icon returns the smallest stored icon at least as large as the requested
// size, or the largest smaller one when nothing fits, or nil when the window
// published no icons.
func (c *Client) Icon(s geom.Size) *hints.Icon {
	var smallest, largest *hints.Icon
	for i := range c.icons {
		ic := &c.icons[i]
		fits := int(ic.Width) >= s.W && int(ic.Height) >= s.H
		if fits && (smallest == nil || ic.Width*ic.Height < smallest.Width*smallest.Height) {
			smallest = ic
		}
		if largest == nil || ic.Width*ic.Height > largest.Width*largest.Height {
			largest = ic
		}
	}
	if smallest != nil {
		return smallest
	}
	return largest
}

// PixmapIcon returns the legacy pixmap and mask icon pair; the icons from
// Icon take precedence over it.
func (c *Client) PixmapIcon() (xproto.Pixmap, xproto.Pixmap) {
	return c.pixmapIcon, c.pixmapIconMask
}

// Constraints exposes the window's current size constraints.
func (c *Client) Constraints() geom.Constraints { return c.cons }

// onDesktop reports whether the client is visible on the given desktop.
func (c *Client) onDesktop(desktop uint32) bool {
	return c.desktop == desktop || c.desktop == hints.AllDesktops
}

// stateAtoms builds the _NET_WM_STATE list from the boolean flags.
func (c *Client) stateAtoms() []string {
	var states []string
	if c.modal {
		states = append(states, hints.StateModal)
	}
	if c.shaded {
		states = append(states, hints.StateShaded)
	}
	if c.iconic {
		states = append(states, hints.StateHidden)
	}
	if c.skipTaskbar {
		states = append(states, hints.StateSkipTaskbar)
	}
	if c.skipPager {
		states = append(states, hints.StateSkipPager)
	}
	if c.fullscreen {
		states = append(states, hints.StateFullscreen)
	}
	if c.maxVert {
		states = append(states, hints.StateMaximizedVert)
	}
	if c.maxHorz {
		states = append(states, hints.StateMaximizedHorz)
	}
	if c.above {
		states = append(states, hints.StateAbove)
	}
	if c.below {
		states = append(states, hints.StateBelow)
	}
	if c.urgent {
		states = append(states, hints.StateDemandsAttention)
	}
	return states
}

// allowedActions builds the _NET_WM_ALLOWED_ACTIONS list from the effective
// functions mask.
func (c *Client) allowedActions() []string {
	actions := []string{hints.ActionChangeDesk, hints.ActionStick}
	if c.functions&FuncMove != 0 {
		actions = append(actions, hints.ActionMove)
	}
	if c.functions&FuncResize != 0 {
		actions = append(actions, hints.ActionResize)
	}
	if c.functions&FuncIconify != 0 {
		actions = append(actions, hints.ActionMinimize)
	}
	if c.functions&FuncShade != 0 {
		actions = append(actions, hints.ActionShade)
	}
	if c.functions&FuncMaximize != 0 {
		actions = append(actions, hints.ActionMaximizeHorz, hints.ActionMaximizeVert)
	}
	if c.functions&FuncFullscreen != 0 {
		actions = append(actions, hints.ActionFullscreen)
	}
	if c.functions&FuncClose != 0 {
		actions = append(actions, hints.ActionClose)
	}
	return actions
}
