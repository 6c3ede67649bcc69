package x11

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// cursorLeftPtr is the root pointer glyph in the standard X cursor font.
const cursorLeftPtr = 68

// createCursor builds a cursor from the "cursor" glyph font, black on white.
func createCursor(x *xgb.Conn, glyph uint16) (xproto.Cursor, error) {
	fontID, err := xproto.NewFontId(x)
	if err != nil {
		return 0, err
	}
	cursorID, err := xproto.NewCursorId(x)
	if err != nil {
		return 0, err
	}

	if err := xproto.OpenFontChecked(x, fontID,
		uint16(len("cursor")), "cursor").Check(); err != nil {
		return 0, err
	}

	if err := xproto.CreateGlyphCursorChecked(x, cursorID, fontID, fontID,
		glyph, glyph+1,
		0, 0, 0,
		0xffff, 0xffff, 0xffff).Check(); err != nil {
		return 0, err
	}

	if err := xproto.CloseFontChecked(x, fontID).Check(); err != nil {
		return 0, err
	}
	return cursorID, nil
}
