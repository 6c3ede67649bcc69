package wm

import (
	"log/slog"

	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/geom"
)

// Server is the protocol output surface the state machine drives. The live
// implementation sits on the X connection; tests inject a fake. Every
// mutating call may silently fail against a window that no longer exists;
// the machine checks Valid before destructive requests and otherwise drops
// failures.
type Server interface {
	// Valid reports whether the window still exists on the server. Callers
	// must check it immediately before a destructive request and abort
	// silently when it fails.
	Valid(win xproto.Window) bool

	// SelectClientEvents subscribes to the property/focus/structure events
	// of a window about to be managed.
	SelectClientEvents(win xproto.Window) error

	// Geometry returns the window's current rectangle and border width.
	Geometry(win xproto.Window) (geom.Rect, int, error)

	Configure(win xproto.Window, r geom.Rect) error
	SetBorderWidth(win xproto.Window, bw int) error
	MapWindow(win xproto.Window) error
	UnmapWindow(win xproto.Window) error

	SetInputFocus(win xproto.Window) error
	SendTakeFocus(win xproto.Window) error

	SendDelete(win xproto.Window) error
	DestroyWindow(win xproto.Window) error

	InstallColormap(win xproto.Window) error

	// Shaped reports whether the window uses the shape extension.
	Shaped(win xproto.Window) bool
}

// Decor is the decoration collaborator. It consumes state, never produces
// any: the engine tells it when a client's visible state changed and it
// repaints or resizes the frame as it sees fit.
type Decor interface {
	Attach(c *Client)
	Detach(c *Client)
	Refresh(c *Client)
	Show(c *Client)
	Hide(c *Client)
	SetShaded(c *Client, shaded bool)
}

// Workspaces is the desktop registry collaborator: desktop indexing and the
// usable screen area under the current struts.
type Workspaces interface {
	Count() uint32
	Current() uint32
	Switch(desktop uint32)

	// Workarea is the screen area minus reserved struts on a desktop.
	Workarea(desktop uint32) geom.Rect

	// FullArea is the whole screen, struts included; fullscreen windows
	// cover it.
	FullArea() geom.Rect
}

// NopDecor is the decoration collaborator used when no frame renderer is
// wired in; it only logs.
type NopDecor struct{}

func (NopDecor) Attach(c *Client) {
	slog.Debug("decor: attach", "window", c.Window())
}

func (NopDecor) Detach(c *Client) {
	slog.Debug("decor: detach", "window", c.Window())
}

func (NopDecor) Refresh(c *Client) {}

func (NopDecor) Show(c *Client) {}

func (NopDecor) Hide(c *Client) {}

func (NopDecor) SetShaded(c *Client, shaded bool) {
	slog.Debug("decor: shade", "window", c.Window(), "shaded", shaded)
}
