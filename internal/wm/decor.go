package wm

import (
	"github.com/veldtwm/veldt/internal/geom"
	"github.com/veldtwm/veldt/internal/hints"
)

// DecorMask is a bitmask of decorations the frame should display.
type DecorMask uint8

const (
	DecorTitlebar DecorMask = 1 << iota
	DecorHandle
	DecorBorder
	DecorIcon
	DecorIconify
	DecorMaximize
	DecorAllDesktops
	DecorClose

	decorAll = DecorTitlebar | DecorHandle | DecorBorder | DecorIcon |
		DecorIconify | DecorMaximize | DecorAllDesktops | DecorClose
)

// FuncMask is a bitmask of the things the user may do to the window.
type FuncMask uint8

const (
	FuncResize FuncMask = 1 << iota
	FuncMove
	FuncIconify
	FuncMaximize
	FuncShade
	FuncFullscreen
	FuncClose
)

// DeriveDecor computes the effective decoration and function masks from its
// explicit inputs: the window type, the application's MWM hints, the size
// constraints and the user's disabled set. The disabled set only subtracts;
// decorations the size hints or MWM hints forbid stay off no matter what.
func DeriveDecor(wtype WindowType, mwm hints.MwmHints, cons geom.Constraints, disabled DecorMask) (DecorMask, FuncMask) {
	decor := decorAll
	funcs := FuncResize | FuncMove | FuncIconify | FuncMaximize | FuncShade | FuncClose

	switch wtype {
	case TypeNormal:
		funcs |= FuncFullscreen
	case TypeDialog:
		// dialogs keep everything but fullscreen
	case TypeMenu, TypeToolbar, TypeUtility:
		decor &^= DecorIconify | DecorMaximize | DecorHandle | DecorAllDesktops
		funcs &^= FuncIconify | FuncMaximize
	case TypeDesktop, TypeDock, TypeSplash:
		decor = 0
		funcs = 0
	}

	if mwm.Flags&hints.MwmFlagDecorations != 0 && mwm.Decorations&hints.MwmDecorAll == 0 {
		allowed := DecorMask(0)
		if mwm.Decorations&hints.MwmDecorBorder != 0 {
			allowed |= DecorBorder
		}
		if mwm.Decorations&hints.MwmDecorHandle != 0 {
			allowed |= DecorHandle
		}
		if mwm.Decorations&hints.MwmDecorTitle != 0 {
			// a titlebar implies its buttons
			allowed |= DecorTitlebar | DecorIcon | DecorIconify |
				DecorMaximize | DecorAllDesktops | DecorClose
		}
		decor &= allowed
	}

	if mwm.Flags&hints.MwmFlagFunctions != 0 && mwm.Functions&hints.MwmFuncAll == 0 {
		// MWM has no close or shade function bits; those stay as derived.
		allowed := FuncShade | FuncClose
		if mwm.Functions&hints.MwmFuncResize != 0 {
			allowed |= FuncResize
		}
		if mwm.Functions&hints.MwmFuncMove != 0 {
			allowed |= FuncMove
		}
		if mwm.Functions&hints.MwmFuncIconify != 0 {
			allowed |= FuncIconify
		}
		if mwm.Functions&hints.MwmFuncMaximize != 0 {
			allowed |= FuncMaximize
		}
		funcs &= allowed
	}

	if !cons.Resizable() {
		funcs &^= FuncResize | FuncMaximize
		decor &^= DecorMaximize | DecorHandle
	}

	decor &^= disabled

	// keep the masks consistent with each other
	if funcs&FuncMaximize == 0 {
		decor &^= DecorMaximize
	}
	if funcs&FuncIconify == 0 {
		decor &^= DecorIconify
	}
	if decor&DecorTitlebar == 0 {
		funcs &^= FuncShade
	}

	return decor, funcs
}

// setupDecorAndFunctions recomputes the client's decoration and function
// masks and is the single place they are derived.
func (c *Client) setupDecorAndFunctions() {
	c.decorations, c.functions = DeriveDecor(c.wtype, c.mwm, c.cons, c.disabledDecorations)
}
