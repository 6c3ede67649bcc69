// Package api exposes a read-only HTTP view of the managed windows for
// scripts and debugging.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/build"
	"github.com/veldtwm/veldt/internal/bus"
	"github.com/veldtwm/veldt/internal/screen"
	"github.com/veldtwm/veldt/internal/wm"
	"github.com/veldtwm/veldt/pkg/chiext"
)

// Caller runs a closure on the engine's event thread. All state reads go
// through it; the engine has no locks.
type Caller interface {
	Call(ctx context.Context, fn func()) error
}

type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type Client struct {
	Window  uint32 `json:"window"`
	Title   string `json:"title"`
	Name    string `json:"name"`
	Class   string `json:"class"`
	Role    string `json:"role,omitempty"`
	Type    string `json:"type"`
	Desktop uint32 `json:"desktop"`
	Layer   string `json:"layer"`

	Geometry Rect `json:"geometry"`

	TransientFor uint32 `json:"transient_for,omitempty"`

	Focused    bool `json:"focused"`
	Urgent     bool `json:"urgent"`
	Iconic     bool `json:"iconic"`
	Shaded     bool `json:"shaded"`
	MaxVert    bool `json:"max_vert"`
	MaxHorz    bool `json:"max_horz"`
	Fullscreen bool `json:"fullscreen"`
}

type Desktop struct {
	Index    uint32 `json:"index"`
	Name     string `json:"name,omitempty"`
	Current  bool   `json:"current"`
	Workarea Rect   `json:"workarea"`
}

// Streams holds the hubs relaying engine events to /api/events consumers.
// The hubs register on the bus once; every stream request subscribes its
// own channels.
type Streams struct {
	Managed   *bus.Hub[bus.ClientManaged]
	Unmanaged *bus.Hub[bus.ClientUnmanaged]
	State     *bus.Hub[bus.ClientStateChanged]
	Focus     *bus.Hub[bus.ClientFocusChanged]
	Urgent    *bus.Hub[bus.ClientUrgent]
	Desktop   *bus.Hub[bus.DesktopSwitched]
}

func NewStreams() *Streams {
	return &Streams{
		Managed:   bus.NewHub[bus.ClientManaged]().Register(),
		Unmanaged: bus.NewHub[bus.ClientUnmanaged]().Register(),
		State:     bus.NewHub[bus.ClientStateChanged]().Register(),
		Focus:     bus.NewHub[bus.ClientFocusChanged]().Register(),
		Urgent:    bus.NewHub[bus.ClientUrgent]().Register(),
		Desktop:   bus.NewHub[bus.DesktopSwitched]().Register(),
	}
}

type Handler struct {
	caller  Caller
	table   *wm.Table
	reg     *screen.Registry
	streams *Streams
}

// NewRouter builds the HTTP surface: request logging in front, huma on top
// of chi underneath. Call it once; the event-stream hubs register on the
// bus here.
func NewRouter(caller Caller, table *wm.Table, reg *screen.Registry) http.Handler {
	h := &Handler{caller: caller, table: table, reg: reg, streams: NewStreams()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())

	hapi := humachi.New(r, huma.DefaultConfig("veldt", build.Current.Version))
	huma.Get(hapi, "/api/clients", h.listClients)
	huma.Get(hapi, "/api/clients/{window}", h.getClient)
	huma.Get(hapi, "/api/desktops", h.listDesktops)

	sse.Register(hapi, huma.Operation{
		OperationID: "stream-events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Stream window events",
	}, map[string]any{
		"managed":   bus.ClientManaged{},
		"unmanaged": bus.ClientUnmanaged{},
		"state":     bus.ClientStateChanged{},
		"focus":     bus.ClientFocusChanged{},
		"urgent":    bus.ClientUrgent{},
		"desktop":   bus.DesktopSwitched{},
	}, h.streamEvents)

	return r
}

func (h *Handler) streamEvents(ctx context.Context, _ *struct{}, send sse.Sender) {
	managed, stopManaged := h.streams.Managed.Subscribe(ctx)
	defer stopManaged()
	unmanaged, stopUnmanaged := h.streams.Unmanaged.Subscribe(ctx)
	defer stopUnmanaged()
	state, stopState := h.streams.State.Subscribe(ctx)
	defer stopState()
	focus, stopFocus := h.streams.Focus.Subscribe(ctx)
	defer stopFocus()
	urgent, stopUrgent := h.streams.Urgent.Subscribe(ctx)
	defer stopUrgent()
	desktop, stopDesktop := h.streams.Desktop.Subscribe(ctx)
	defer stopDesktop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case ev := <-managed:
			err = send.Data(ev)
		case ev := <-unmanaged:
			err = send.Data(ev)
		case ev := <-state:
			err = send.Data(ev)
		case ev := <-focus:
			err = send.Data(ev)
		case ev := <-urgent:
			err = send.Data(ev)
		case ev := <-desktop:
			err = send.Data(ev)
		}
		if err != nil {
			return
		}
	}
}

type listClientsOutput struct {
	Body []Client
}

func (h *Handler) listClients(ctx context.Context, _ *struct{}) (*listClientsOutput, error) {
	out := &listClientsOutput{Body: []Client{}}
	err := h.caller.Call(ctx, func() {
		for _, c := range h.table.All() {
			out.Body = append(out.Body, clientDTO(c))
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type getClientInput struct {
	Window uint32 `path:"window" doc:"X window id"`
}

type getClientOutput struct {
	Body Client
}

func (h *Handler) getClient(ctx context.Context, input *getClientInput) (*getClientOutput, error) {
	var (
		found bool
		out   getClientOutput
	)
	err := h.caller.Call(ctx, func() {
		if c := h.table.Get(xproto.Window(input.Window)); c != nil {
			out.Body = clientDTO(c)
			found = true
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, huma.Error404NotFound("window is not managed")
	}
	return &out, nil
}

type listDesktopsOutput struct {
	Body []Desktop
}

func (h *Handler) listDesktops(ctx context.Context, _ *struct{}) (*listDesktopsOutput, error) {
	out := &listDesktopsOutput{Body: []Desktop{}}
	err := h.caller.Call(ctx, func() {
		for d := uint32(0); d < h.reg.Count(); d++ {
			wa := h.reg.Workarea(d)
			out.Body = append(out.Body, Desktop{
				Index:    d,
				Name:     h.reg.Name(d),
				Current:  d == h.reg.Current(),
				Workarea: Rect{X: wa.X, Y: wa.Y, W: wa.W, H: wa.H},
			})
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func clientDTO(c *wm.Client) Client {
	area := c.Area()
	return Client{
		Window:       uint32(c.Window()),
		Title:        c.Title(),
		Name:         c.AppName(),
		Class:        c.AppClass(),
		Role:         c.Role(),
		Type:         c.Type().String(),
		Desktop:      c.Desktop(),
		Layer:        c.Layer().String(),
		Geometry:     Rect{X: area.X, Y: area.Y, W: area.W, H: area.H},
		TransientFor: uint32(c.TransientFor()),
		Focused:      c.Focused(),
		Urgent:       c.Urgent(),
		Iconic:       c.Iconic(),
		Shaded:       c.Shaded(),
		MaxVert:      c.MaxVert(),
		MaxHorz:      c.MaxHorz(),
		Fullscreen:   c.Fullscreen(),
	}
}
