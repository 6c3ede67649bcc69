package bus

import "github.com/jezek/xgb/xproto"

// Events published by the window-manager engine. Subscribers get them on the
// event thread and must not block.

type ClientManaged struct {
	Window xproto.Window
}

type ClientUnmanaged struct {
	Window xproto.Window
}

type ClientStateChanged struct {
	Window xproto.Window
}

type ClientFocusChanged struct {
	Window  xproto.Window
	Focused bool
}

// ClientUrgent fires when a window raises its urgency hint, so policy can
// decide what to do with windows demanding attention.
type ClientUrgent struct {
	Window xproto.Window
}

type DesktopSwitched struct {
	Desktop uint32
}
