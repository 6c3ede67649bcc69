package x11

import (
	"context"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/xprop"

	"github.com/veldtwm/veldt/internal/bus"
	"github.com/veldtwm/veldt/internal/hints"
	"github.com/veldtwm/veldt/internal/screen"
	"github.com/veldtwm/veldt/internal/wm"
)

// Pump reads X events off the wire and feeds them to the state machine.
// Everything downstream of the event channel runs on one goroutine; the
// engine is not locked.
type Pump struct {
	conn  *Conn
	mgr   *wm.Manager
	reg   *screen.Registry
	callC chan func()
}

func NewPump(conn *Conn, mgr *wm.Manager, reg *screen.Registry) *Pump {
	p := &Pump{conn: conn, mgr: mgr, reg: reg, callC: make(chan func())}
	bus.Subscribe("x11.Pump", func(ctx context.Context, ev bus.DesktopSwitched) error {
		mgr.ShowHide()
		return nil
	})
	return p
}

// Scan manages the windows that existed before we did: every viewable,
// non-override-redirect child of the root.
func (p *Pump) Scan() error {
	tree, err := xproto.QueryTree(p.conn.X.Conn(), p.conn.root).Reply()
	if err != nil {
		return err
	}
	for _, win := range tree.Children {
		attr, err := xproto.GetWindowAttributes(p.conn.X.Conn(), win).Reply()
		if err != nil || attr.OverrideRedirect || attr.MapState != xproto.MapStateViewable {
			continue
		}
		if _, err := p.mgr.Manage(win); err != nil {
			slog.Warn("Failed to manage existing window", "window", win, "error", err)
		}
	}
	p.refreshWorkarea()
	return nil
}

// Run is the event loop. It returns when the context is canceled or the
// connection dies.
func (p *Pump) Run(ctx context.Context) error {
	eventC := make(chan xgb.Event)
	go receiveEvents(ctx, p.conn.X.Conn(), eventC)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-p.callC:
			fn()
		case ev, ok := <-eventC:
			if !ok {
				return nil
			}
			p.dispatch(ev)
		}
	}
}

// Call runs fn on the event thread and waits for it. Everything the engine
// owns is single-threaded; outside readers come through here.
func (p *Pump) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.callC <- func() {
		fn()
		close(done)
	}:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func receiveEvents(ctx context.Context, conn *xgb.Conn, eventC chan<- xgb.Event) {
	defer close(eventC)
	slog := slog.With("func", "x11.Pump.receiveEvents")

	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			slog.Debug("exit: no event or error")
			return
		}
		if err != nil {
			slog.Error("failed to read event", "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case eventC <- ev:
		}
	}
}

func (p *Pump) dispatch(ev xgb.Event) {
	table := p.mgr.Table()

	switch ev := ev.(type) {
	case xproto.MapRequestEvent:
		if c := table.Get(ev.Window); c != nil {
			p.mgr.HandleMapRequest(c)
			return
		}
		c, err := p.mgr.Manage(ev.Window)
		if err != nil {
			slog.Debug("Window vanished before manage", "window", ev.Window, "error", err)
			return
		}
		p.mgr.Focus(c)
		p.refreshWorkarea()

	case xproto.ConfigureRequestEvent:
		if c := table.Get(ev.Window); c != nil {
			p.mgr.HandleConfigureRequest(c, configureRequest(ev))
			return
		}
		// not ours yet, pass the request through untouched
		p.passThroughConfigure(ev)

	case xproto.UnmapNotifyEvent:
		if c := table.Get(ev.Window); c != nil {
			p.mgr.HandleUnmap(c)
			p.refreshWorkarea()
		}

	case xproto.DestroyNotifyEvent:
		if c := table.Get(ev.Window); c != nil {
			p.mgr.HandleDestroy(c)
			p.refreshWorkarea()
		}

	case xproto.ReparentNotifyEvent:
		if ev.Parent == p.conn.root {
			return
		}
		if c := table.Get(ev.Window); c != nil {
			p.mgr.HandleReparent(c)
		}

	case xproto.PropertyNotifyEvent:
		if ev.Window == p.conn.root {
			return
		}
		c := table.Get(ev.Window)
		if c == nil {
			return
		}
		name, err := xprop.AtomName(p.conn.X, ev.Atom)
		if err != nil {
			return
		}
		p.mgr.HandleProperty(c, name)
		if name == "_NET_WM_STRUT" || name == "_NET_WM_STRUT_PARTIAL" {
			p.refreshWorkarea()
		}

	case xproto.ClientMessageEvent:
		p.clientMessage(ev)

	case xproto.FocusOutEvent:
		if ev.Mode != xproto.NotifyModeNormal {
			return
		}
		if c := table.Get(ev.Event); c != nil {
			p.mgr.Unfocus(c)
		}

	case shape.NotifyEvent:
		if ev.ShapeKind != shape.SkBounding {
			return
		}
		if c := table.Get(ev.AffectedWindow); c != nil {
			p.mgr.HandleShape(c, ev.Shaped)
		}

	case xproto.MappingNotifyEvent:
		// keyboard remaps are not our concern

	default:
		slog.Debug("unhandled event", "event", ev)
	}
}

func (p *Pump) clientMessage(ev xproto.ClientMessageEvent) {
	name, err := xprop.AtomName(p.conn.X, ev.Type)
	if err != nil || ev.Format != 32 {
		return
	}
	data := ev.Data.Data32

	if name == "_NET_CURRENT_DESKTOP" {
		p.reg.Switch(uint32(data[0]))
		return
	}

	c := p.mgr.Table().Get(ev.Window)
	if c == nil {
		return
	}

	switch name {
	case "_NET_WM_STATE":
		first := p.atomName(xproto.Atom(data[1]))
		second := p.atomName(xproto.Atom(data[2]))
		p.mgr.SetState(c, uint(data[0]), first, second)
	case "_NET_ACTIVE_WINDOW":
		if c.Iconic() {
			p.mgr.Iconify(c, false, false)
		}
		p.mgr.Focus(c)
	case "_NET_WM_DESKTOP":
		p.mgr.SetDesktop(c, uint32(data[0]))
	case "_NET_CLOSE_WINDOW":
		p.mgr.Close(c)
	case "WM_CHANGE_STATE":
		if data[0] == hints.StateIconic {
			p.mgr.Iconify(c, true, true)
		}
	}
}

func (p *Pump) atomName(a xproto.Atom) string {
	if a == 0 {
		return ""
	}
	name, err := xprop.AtomName(p.conn.X, a)
	if err != nil {
		return ""
	}
	return name
}

// refreshWorkarea republishes _NET_WORKAREA and reflows maximized windows
// after anything that could have moved a strut.
func (p *Pump) refreshWorkarea() {
	p.reg.PublishWorkarea()
	for _, c := range p.mgr.Table().All() {
		p.mgr.Remaximize(c)
	}
}

func configureRequest(ev xproto.ConfigureRequestEvent) wm.ConfigureRequest {
	var req wm.ConfigureRequest
	if ev.ValueMask&xproto.ConfigWindowX != 0 {
		x := int(ev.X)
		req.X = &x
	}
	if ev.ValueMask&xproto.ConfigWindowY != 0 {
		y := int(ev.Y)
		req.Y = &y
	}
	if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
		w := int(ev.Width)
		req.W = &w
	}
	if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
		h := int(ev.Height)
		req.H = &h
	}
	return req
}

func (p *Pump) passThroughConfigure(ev xproto.ConfigureRequestEvent) {
	var vals []uint32
	if ev.ValueMask&xproto.ConfigWindowX != 0 {
		vals = append(vals, uint32(int32(ev.X)))
	}
	if ev.ValueMask&xproto.ConfigWindowY != 0 {
		vals = append(vals, uint32(int32(ev.Y)))
	}
	if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
		vals = append(vals, uint32(ev.Width))
	}
	if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
		vals = append(vals, uint32(ev.Height))
	}
	if ev.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		vals = append(vals, uint32(ev.BorderWidth))
	}
	if ev.ValueMask&xproto.ConfigWindowSibling != 0 {
		vals = append(vals, uint32(ev.Sibling))
	}
	if ev.ValueMask&xproto.ConfigWindowStackMode != 0 {
		vals = append(vals, uint32(ev.StackMode))
	}
	if err := xproto.ConfigureWindowChecked(p.conn.X.Conn(), ev.Window,
		ev.ValueMask, vals).Check(); err != nil {
		slog.Debug("Pass-through configure failed", "window", ev.Window, "error", err)
	}
}
