// Package hints translates between the engine's typed window state and the
// ICCCM/EWMH/Motif property representation. It is pure translation: reads
// fall back to protocol-defined defaults on absent or malformed data, writes
// serialize current state back to the property store. No policy lives here.
package hints

import "github.com/jezek/xgb/xproto"

// PropertyStore is the property access surface the codec runs on. The live
// implementation wraps the X connection; tests inject an in-memory fake.
// Reads return an error for absent properties; the codec maps any error to
// the protocol default.
type PropertyStore interface {
	Nums(win xproto.Window, name string) ([]uint, error)
	Str(win xproto.Window, name string) (string, error)
	Strs(win xproto.Window, name string) ([]string, error)
	Atoms(win xproto.Window, name string) ([]string, error)
	Window(win xproto.Window, name string) (xproto.Window, error)

	SetNums(win xproto.Window, name, typ string, vals ...uint) error
	SetStr(win xproto.Window, name, typ, value string) error
	SetAtoms(win xproto.Window, name string, names []string) error
	Delete(win xproto.Window, name string) error
}

// AllDesktops is the _NET_WM_DESKTOP sentinel for a window on every desktop.
const AllDesktops uint32 = 0xffffffff

// WM_HINTS flag bits, ICCCM 4.1.2.4.
const (
	HintInput = 1 << iota
	HintState
	HintIconPixmap
	HintIconWindow
	HintIconPosition
	HintIconMask
	HintWindowGroup
	HintMessage
	HintUrgency
)

// WM_NORMAL_HINTS flag bits, ICCCM 4.1.2.3.
const (
	SizeHintUSPosition = 1 << iota
	SizeHintUSSize
	SizeHintPPosition
	SizeHintPSize
	SizeHintPMinSize
	SizeHintPMaxSize
	SizeHintPResizeInc
	SizeHintPAspect
	SizeHintPBaseSize
	SizeHintPWinGravity
)

// WM_STATE values, ICCCM 4.1.3.1.
const (
	StateWithdrawn = 0
	StateNormal    = 1
	StateIconic    = 3
)

// _MOTIF_WM_HINTS flag bits and masks, Motif 2.0. Only the first three
// elements of the five-element property are meaningful to a window manager.
const (
	MwmFlagFunctions   = 1 << 0
	MwmFlagDecorations = 1 << 1
)

const (
	MwmFuncAll = 1 << iota
	MwmFuncResize
	MwmFuncMove
	MwmFuncIconify
	MwmFuncMaximize
)

const (
	MwmDecorAll = 1 << iota
	MwmDecorBorder
	MwmDecorHandle
	MwmDecorTitle
	MwmDecorMenu
	MwmDecorIconify
	MwmDecorMaximize
)

// _NET_WM_STATE action codes carried in client messages.
const (
	StateRemove = 0
	StateAdd    = 1
	StateToggle = 2
)

// _NET_WM_STATE atoms handled by the engine.
const (
	StateModal            = "_NET_WM_STATE_MODAL"
	StateShaded           = "_NET_WM_STATE_SHADED"
	StateSkipTaskbar      = "_NET_WM_STATE_SKIP_TASKBAR"
	StateSkipPager        = "_NET_WM_STATE_SKIP_PAGER"
	StateHidden           = "_NET_WM_STATE_HIDDEN"
	StateFullscreen       = "_NET_WM_STATE_FULLSCREEN"
	StateMaximizedVert    = "_NET_WM_STATE_MAXIMIZED_VERT"
	StateMaximizedHorz    = "_NET_WM_STATE_MAXIMIZED_HORZ"
	StateAbove            = "_NET_WM_STATE_ABOVE"
	StateBelow            = "_NET_WM_STATE_BELOW"
	StateDemandsAttention = "_NET_WM_STATE_DEMANDS_ATTENTION"
)

// _NET_WM_WINDOW_TYPE atoms.
const (
	TypeDesktop = "_NET_WM_WINDOW_TYPE_DESKTOP"
	TypeDock    = "_NET_WM_WINDOW_TYPE_DOCK"
	TypeToolbar = "_NET_WM_WINDOW_TYPE_TOOLBAR"
	TypeMenu    = "_NET_WM_WINDOW_TYPE_MENU"
	TypeUtility = "_NET_WM_WINDOW_TYPE_UTILITY"
	TypeSplash  = "_NET_WM_WINDOW_TYPE_SPLASH"
	TypeDialog  = "_NET_WM_WINDOW_TYPE_DIALOG"
	TypeNormal  = "_NET_WM_WINDOW_TYPE_NORMAL"
)

// _NET_WM_ALLOWED_ACTIONS atoms.
const (
	ActionMove         = "_NET_WM_ACTION_MOVE"
	ActionResize       = "_NET_WM_ACTION_RESIZE"
	ActionMinimize     = "_NET_WM_ACTION_MINIMIZE"
	ActionShade        = "_NET_WM_ACTION_SHADE"
	ActionStick        = "_NET_WM_ACTION_STICK"
	ActionMaximizeHorz = "_NET_WM_ACTION_MAXIMIZE_HORZ"
	ActionMaximizeVert = "_NET_WM_ACTION_MAXIMIZE_VERT"
	ActionFullscreen   = "_NET_WM_ACTION_FULLSCREEN"
	ActionChangeDesk   = "_NET_WM_ACTION_CHANGE_DESKTOP"
	ActionClose        = "_NET_WM_ACTION_CLOSE"
)

// WM_PROTOCOLS atoms the engine cares about.
const (
	ProtocolDelete    = "WM_DELETE_WINDOW"
	ProtocolTakeFocus = "WM_TAKE_FOCUS"
)

// NormalHints is the decoded WM_NORMAL_HINTS property. Unset categories keep
// their zero values, which the Constraints conversion treats as unconstrained.
type NormalHints struct {
	Flags uint

	X, Y          int
	Width, Height uint

	MinWidth, MinHeight uint
	MaxWidth, MaxHeight uint
	WidthInc, HeightInc uint

	MinAspectNum, MinAspectDen uint
	MaxAspectNum, MaxAspectDen uint

	BaseWidth, BaseHeight uint
	WinGravity            uint
}

// Positioned reports whether the application requested its initial position
// itself, in which case the manager should not place the window.
func (nh NormalHints) Positioned() bool {
	return nh.Flags&(SizeHintUSPosition|SizeHintPPosition) != 0
}

// WMHints is the decoded WM_HINTS property.
type WMHints struct {
	Flags        uint
	Input        bool
	InitialState uint
	IconPixmap   xproto.Pixmap
	IconWindow   xproto.Window
	IconX, IconY int
	IconMask     xproto.Pixmap
	WindowGroup  xproto.Window
}

func (wh WMHints) Urgent() bool {
	return wh.Flags&HintUrgency != 0
}

// MwmHints is the decoded _MOTIF_WM_HINTS property.
type MwmHints struct {
	Flags       uint
	Functions   uint
	Decorations uint
}

// WmState is the decoded ICCCM WM_STATE property.
type WmState struct {
	State uint
	Icon  xproto.Window
}

// Icon is one entry of the _NET_WM_ICON list: a width by height block of
// ARGB pixels.
type Icon struct {
	Width  uint
	Height uint
	Data   []uint
}
