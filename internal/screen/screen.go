// Package screen tracks the desktop layout of one X screen: how many
// desktops exist, which one is visible, and how much of the screen remains
// usable once panels have reserved their struts.
package screen

import (
	"log/slog"

	"github.com/jezek/xgb/xproto"

	"github.com/veldtwm/veldt/internal/bus"
	"github.com/veldtwm/veldt/internal/geom"
	"github.com/veldtwm/veldt/internal/hints"
)

// StrutSource yields the currently reserved struts for a desktop. The window
// manager wires this to its client table; tests stub it.
type StrutSource func(desktop uint32) []geom.Strut

// Registry implements the desktop registry. All mutation happens on the
// event thread. Root window properties mirror the state for pagers.
type Registry struct {
	store    hints.PropertyStore
	root     xproto.Window
	geometry geom.Rect

	count   uint32
	current uint32
	names   []string

	struts StrutSource
}

type Options struct {
	Store    hints.PropertyStore
	Root     xproto.Window
	Geometry geom.Rect
	Desktops uint32
	Names    []string
}

func NewRegistry(opts Options) *Registry {
	count := opts.Desktops
	if count == 0 {
		count = 1
	}
	r := &Registry{
		store:    opts.Store,
		root:     opts.Root,
		geometry: opts.Geometry,
		count:    count,
		names:    opts.Names,
	}
	r.publish()
	return r
}

// SetStrutSource wires the strut aggregation input. Must be set before the
// first Workarea call that should honor struts.
func (r *Registry) SetStrutSource(src StrutSource) {
	r.struts = src
}

func (r *Registry) Count() uint32   { return r.count }
func (r *Registry) Current() uint32 { return r.current }

// Name returns the desktop's configured name, or an empty string.
func (r *Registry) Name(desktop uint32) string {
	if int(desktop) < len(r.names) {
		return r.names[desktop]
	}
	return ""
}

// Switch changes the visible desktop. Out-of-range indices are dropped; the
// caller re-evaluates client visibility afterwards.
func (r *Registry) Switch(desktop uint32) {
	if desktop >= r.count || desktop == r.current {
		return
	}
	r.current = desktop
	r.store.SetNums(r.root, "_NET_CURRENT_DESKTOP", "CARDINAL", uint(desktop))
	slog.Debug("Switched desktop", "desktop", desktop)
	bus.Publish(bus.DesktopSwitched{Desktop: desktop})
}

// SetCount grows or shrinks the number of desktops. Shrinking below the
// current desktop moves the view to the last remaining one.
func (r *Registry) SetCount(count uint32) {
	if count == 0 || count == r.count {
		return
	}
	r.count = count
	if r.current >= count {
		r.Switch(count - 1)
	}
	r.publish()
}

// FullArea is the whole screen, struts included.
func (r *Registry) FullArea() geom.Rect {
	return r.geometry
}

// Workarea is the screen minus the largest strut reservation per edge on the
// given desktop.
func (r *Registry) Workarea(desktop uint32) geom.Rect {
	if r.struts == nil {
		return r.geometry
	}
	var strut geom.Strut
	for _, s := range r.struts(desktop) {
		strut = strut.Max(s)
	}
	return r.geometry.Inset(strut)
}

// PublishWorkarea writes _NET_WORKAREA for every desktop, called whenever a
// strut changes.
func (r *Registry) PublishWorkarea() {
	vals := make([]uint, 0, 4*r.count)
	for d := uint32(0); d < r.count; d++ {
		wa := r.Workarea(d)
		vals = append(vals, uint(wa.X), uint(wa.Y), uint(wa.W), uint(wa.H))
	}
	r.store.SetNums(r.root, "_NET_WORKAREA", "CARDINAL", vals...)
}

func (r *Registry) publish() {
	r.store.SetNums(r.root, "_NET_NUMBER_OF_DESKTOPS", "CARDINAL", uint(r.count))
	r.store.SetNums(r.root, "_NET_CURRENT_DESKTOP", "CARDINAL", uint(r.current))
	r.store.SetNums(r.root, "_NET_DESKTOP_GEOMETRY", "CARDINAL",
		uint(r.geometry.W), uint(r.geometry.H))
	r.PublishWorkarea()
}
