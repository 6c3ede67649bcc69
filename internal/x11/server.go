package x11

import (
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/xprop"

	"github.com/veldtwm/veldt/internal/geom"
)

// Server is the live protocol output surface. Requests that only matter by
// side effect are checked so errors surface here rather than on the event
// queue.
type Server struct {
	conn *Conn
}

func NewServer(c *Conn) *Server {
	return &Server{conn: c}
}

// Valid asks the server whether the window still exists. The round trip is
// the only reliable answer; the event queue may hold a stale destroy.
func (s *Server) Valid(win xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(s.conn.X.Conn(), win).Reply()
	return err == nil
}

func (s *Server) SelectClientEvents(win xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(s.conn.X.Conn(), win,
		xproto.CwEventMask,
		[]uint32{
			xproto.EventMaskPropertyChange |
				xproto.EventMaskFocusChange |
				xproto.EventMaskStructureNotify,
		}).Check()
}

func (s *Server) Geometry(win xproto.Window) (geom.Rect, int, error) {
	reply, err := xproto.GetGeometry(s.conn.X.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Rect{}, 0, err
	}
	r := geom.Rect{
		X: int(reply.X), Y: int(reply.Y),
		W: int(reply.Width), H: int(reply.Height),
	}
	return r, int(reply.BorderWidth), nil
}

func (s *Server) Configure(win xproto.Window, r geom.Rect) error {
	return xproto.ConfigureWindowChecked(s.conn.X.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{
			uint32(int32(r.X)), uint32(int32(r.Y)),
			uint32(r.W), uint32(r.H),
		}).Check()
}

func (s *Server) SetBorderWidth(win xproto.Window, bw int) error {
	return xproto.ConfigureWindowChecked(s.conn.X.Conn(), win,
		xproto.ConfigWindowBorderWidth, []uint32{uint32(bw)}).Check()
}

func (s *Server) MapWindow(win xproto.Window) error {
	return xproto.MapWindowChecked(s.conn.X.Conn(), win).Check()
}

func (s *Server) UnmapWindow(win xproto.Window) error {
	return xproto.UnmapWindowChecked(s.conn.X.Conn(), win).Check()
}

func (s *Server) SetInputFocus(win xproto.Window) error {
	return xproto.SetInputFocusChecked(s.conn.X.Conn(),
		xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime).Check()
}

func (s *Server) SendTakeFocus(win xproto.Window) error {
	return s.sendProtocol(win, "WM_TAKE_FOCUS")
}

func (s *Server) SendDelete(win xproto.Window) error {
	return s.sendProtocol(win, "WM_DELETE_WINDOW")
}

// sendProtocol delivers a WM_PROTOCOLS client message per ICCCM 4.2.8.
func (s *Server) sendProtocol(win xproto.Window, protocol string) error {
	protocols, err := xprop.Atm(s.conn.X, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	atom, err := xprop.Atm(s.conn.X, protocol)
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(atom), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	return xproto.SendEventChecked(s.conn.X.Conn(), false, win,
		xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// DestroyWindow forcibly disconnects the window's client.
func (s *Server) DestroyWindow(win xproto.Window) error {
	return xproto.KillClientChecked(s.conn.X.Conn(), uint32(win)).Check()
}

func (s *Server) InstallColormap(win xproto.Window) error {
	attr, err := xproto.GetWindowAttributes(s.conn.X.Conn(), win).Reply()
	if err != nil {
		return err
	}
	if attr.Colormap == 0 {
		return nil
	}
	return xproto.InstallColormapChecked(s.conn.X.Conn(), attr.Colormap).Check()
}

func (s *Server) Shaped(win xproto.Window) bool {
	if !s.conn.shapeOK {
		return false
	}
	reply, err := shape.QueryExtents(s.conn.X.Conn(), win).Reply()
	if err != nil {
		return false
	}
	return reply.BoundingShaped
}
