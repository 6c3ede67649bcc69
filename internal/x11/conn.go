// Package x11 backs the window-manager engine with a live X connection:
// property access, protocol output and the event pump.
package x11

import (
	"fmt"

	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/xprop"
)

// Conn owns the X connection and the resources that make us the window
// manager on its screen.
type Conn struct {
	X    *xgbutil.XUtil
	root xproto.Window

	shapeOK  bool
	checkWin xproto.Window
}

// Connect dials the display ("" for $DISPLAY) and initializes the optional
// shape extension.
func Connect(display string) (*Conn, error) {
	x, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	c := &Conn{X: x, root: x.RootWin()}
	if err := shape.Init(x.Conn()); err == nil {
		c.shapeOK = true
	}
	return c, nil
}

func (c *Conn) Close() {
	c.X.Conn().Close()
}

func (c *Conn) Root() xproto.Window { return c.root }

// RootGeometry returns the screen dimensions.
func (c *Conn) RootGeometry() (w, h int) {
	screen := c.X.Screen()
	return int(screen.WidthInPixels), int(screen.HeightInPixels)
}

// Acquire claims window management of the screen by selecting substructure
// redirection on the root window. Exactly one client may hold that mask;
// failure means another window manager is running.
func (c *Conn) Acquire() error {
	cursor, err := createCursor(c.X.Conn(), cursorLeftPtr)
	if err != nil {
		return fmt.Errorf("root cursor: %w", err)
	}

	err = xproto.ChangeWindowAttributesChecked(c.X.Conn(), c.root,
		xproto.CwEventMask|xproto.CwCursor,
		[]uint32{
			xproto.EventMaskSubstructureRedirect |
				xproto.EventMaskSubstructureNotify |
				xproto.EventMaskPropertyChange |
				xproto.EventMaskFocusChange,
			uint32(cursor),
		}).Check()
	if err != nil {
		return fmt.Errorf("another window manager is running: %w", err)
	}
	return nil
}

// supported is the EWMH surface this manager actually implements.
var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
	"_NET_DESKTOP_GEOMETRY",
	"_NET_WORKAREA",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLOSE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_ICON_NAME",
	"_NET_WM_DESKTOP",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_STATE",
	"_NET_WM_ALLOWED_ACTIONS",
	"_NET_WM_STRUT",
	"_NET_WM_STRUT_PARTIAL",
	"_NET_WM_ICON",
}

// Announce publishes the EWMH presence: the supporting check window and the
// list of supported hints.
func (c *Conn) Announce(wmName string) error {
	win, err := xproto.NewWindowId(c.X.Conn())
	if err != nil {
		return err
	}
	screen := c.X.Screen()
	if err := xproto.CreateWindowChecked(c.X.Conn(), screen.RootDepth,
		win, c.root,
		-100, -100, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		0, nil).Check(); err != nil {
		return err
	}
	c.checkWin = win

	if err := xprop.ChangeProp32(c.X, c.root, "_NET_SUPPORTING_WM_CHECK", "WINDOW", uint(win)); err != nil {
		return err
	}
	if err := xprop.ChangeProp32(c.X, win, "_NET_SUPPORTING_WM_CHECK", "WINDOW", uint(win)); err != nil {
		return err
	}
	if err := xprop.ChangeProp(c.X, win, 8, "_NET_WM_NAME", "UTF8_STRING", []byte(wmName)); err != nil {
		return err
	}

	atoms := make([]uint, 0, len(supported))
	for _, name := range supported {
		a, err := xprop.Atm(c.X, name)
		if err != nil {
			return err
		}
		atoms = append(atoms, uint(a))
	}
	return xprop.ChangeProp32(c.X, c.root, "_NET_SUPPORTED", "ATOM", atoms...)
}
