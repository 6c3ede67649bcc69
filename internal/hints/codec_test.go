package hints

import (
	"errors"
	"testing"

	"github.com/jezek/xgb/xproto"
)

var errAbsent = errors.New("property absent")

// fakeStore is an in-memory PropertyStore keyed by (window, property name).
type fakeStore struct {
	nums   map[string][]uint
	strs   map[string][]string
	atoms  map[string][]string
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nums:  make(map[string][]uint),
		strs:  make(map[string][]string),
		atoms: make(map[string][]string),
	}
}

func key(win xproto.Window, name string) string {
	return name + "/" + string(rune(win))
}

func (f *fakeStore) Nums(win xproto.Window, name string) ([]uint, error) {
	v, ok := f.nums[key(win, name)]
	if !ok {
		return nil, errAbsent
	}
	return v, nil
}

func (f *fakeStore) Str(win xproto.Window, name string) (string, error) {
	v, ok := f.strs[key(win, name)]
	if !ok || len(v) == 0 {
		return "", errAbsent
	}
	return v[0], nil
}

func (f *fakeStore) Strs(win xproto.Window, name string) ([]string, error) {
	v, ok := f.strs[key(win, name)]
	if !ok {
		return nil, errAbsent
	}
	return v, nil
}

func (f *fakeStore) Atoms(win xproto.Window, name string) ([]string, error) {
	v, ok := f.atoms[key(win, name)]
	if !ok {
		return nil, errAbsent
	}
	return v, nil
}

func (f *fakeStore) Window(win xproto.Window, name string) (xproto.Window, error) {
	v, err := f.Nums(win, name)
	if err != nil || len(v) == 0 {
		return 0, errAbsent
	}
	return xproto.Window(v[0]), nil
}

func (f *fakeStore) SetNums(win xproto.Window, name, typ string, vals ...uint) error {
	f.writes++
	f.nums[key(win, name)] = vals
	return nil
}

func (f *fakeStore) SetStr(win xproto.Window, name, typ, value string) error {
	f.writes++
	f.strs[key(win, name)] = []string{value}
	return nil
}

func (f *fakeStore) SetAtoms(win xproto.Window, name string, names []string) error {
	f.writes++
	f.atoms[key(win, name)] = names
	return nil
}

func (f *fakeStore) Delete(win xproto.Window, name string) error {
	delete(f.nums, key(win, name))
	delete(f.strs, key(win, name))
	delete(f.atoms, key(win, name))
	return nil
}

const testWin xproto.Window = 0x2a

func TestNormalHintsAbsentGivesDefaults(t *testing.T) {
	c := NewCodec(newFakeStore())

	nh, ok := c.NormalHints(testWin)
	if ok {
		t.Fatalf("absent property reported present")
	}
	if nh.WinGravity != xproto.GravityNorthWest {
		t.Fatalf("default gravity must be north-west, got %d", nh.WinGravity)
	}
	cons := nh.Constraints()
	if w, h := cons.Apply(12345, 1); w != 12345 || h != 1 {
		t.Fatalf("defaults must be unconstrained, got %dx%d", w, h)
	}
}

func TestNormalHintsDecodeAndBaseFallback(t *testing.T) {
	store := newFakeStore()
	raw := make([]uint, 18)
	raw[0] = SizeHintPMinSize | SizeHintPResizeInc
	raw[5], raw[6] = 100, 50 // min
	raw[9], raw[10] = 10, 10 // inc
	store.nums[key(testWin, "WM_NORMAL_HINTS")] = raw

	c := NewCodec(store)
	nh, ok := c.NormalHints(testWin)
	if !ok {
		t.Fatalf("expected hints present")
	}

	cons := nh.Constraints()
	if cons.Base.W != 100 || cons.Base.H != 50 {
		t.Fatalf("min must stand in for unset base, got %+v", cons.Base)
	}
	if w, h := cons.Apply(117, 73); w != 110 || h != 70 {
		t.Fatalf("expected 110x70, got %dx%d", w, h)
	}
}

func TestNormalHintsAcceptsLegacyLength(t *testing.T) {
	store := newFakeStore()
	raw := make([]uint, 15)
	raw[0] = SizeHintPMaxSize
	raw[7], raw[8] = 640, 480
	store.nums[key(testWin, "WM_NORMAL_HINTS")] = raw

	c := NewCodec(store)
	nh, ok := c.NormalHints(testWin)
	if !ok {
		t.Fatalf("15-field hints must decode")
	}
	if nh.MaxWidth != 640 || nh.MaxHeight != 480 {
		t.Fatalf("expected max 640x480, got %dx%d", nh.MaxWidth, nh.MaxHeight)
	}
}

func TestWMHintsDefaultsAndUrgency(t *testing.T) {
	c := NewCodec(newFakeStore())
	wh, ok := c.WMHints(testWin)
	if ok {
		t.Fatalf("absent property reported present")
	}
	if !wh.Input || wh.InitialState != StateNormal {
		t.Fatalf("defaults wrong: %+v", wh)
	}

	store := newFakeStore()
	store.nums[key(testWin, "WM_HINTS")] = []uint{
		HintInput | HintState | HintUrgency | HintWindowGroup,
		0, StateIconic, 0, 0, 0, 0, 0, 99,
	}
	c = NewCodec(store)
	wh, ok = c.WMHints(testWin)
	if !ok {
		t.Fatalf("expected hints present")
	}
	if wh.Input {
		t.Fatalf("input flag must decode false")
	}
	if wh.InitialState != StateIconic {
		t.Fatalf("expected iconic initial state")
	}
	if !wh.Urgent() {
		t.Fatalf("urgency flag lost")
	}
	if wh.WindowGroup != 99 {
		t.Fatalf("group lost: %d", wh.WindowGroup)
	}
}

func TestMwmHintsMalformedIsAbsent(t *testing.T) {
	store := newFakeStore()
	store.nums[key(testWin, "_MOTIF_WM_HINTS")] = []uint{MwmFlagDecorations}

	c := NewCodec(store)
	if _, ok := c.MwmHints(testWin); ok {
		t.Fatalf("truncated motif hints must read as absent")
	}
}

func TestStrutPartialPreferred(t *testing.T) {
	store := newFakeStore()
	store.nums[key(testWin, "_NET_WM_STRUT")] = []uint{1, 2, 3, 4}
	store.nums[key(testWin, "_NET_WM_STRUT_PARTIAL")] = []uint{5, 6, 7, 8, 0, 0, 0, 0, 0, 0, 0, 0}

	c := NewCodec(store)
	s, ok := c.Strut(testWin)
	if !ok || s.Left != 5 || s.Right != 6 || s.Top != 7 || s.Bottom != 8 {
		t.Fatalf("expected partial strut 5/6/7/8, got %+v ok=%v", s, ok)
	}
}

func TestIconsDropTruncatedEntry(t *testing.T) {
	store := newFakeStore()
	data := []uint{2, 2, 1, 2, 3, 4 /* complete 2x2 */, 16, 16, 0, 0 /* truncated */}
	store.nums[key(testWin, "_NET_WM_ICON")] = data

	c := NewCodec(store)
	icons := c.Icons(testWin)
	if len(icons) != 1 {
		t.Fatalf("expected 1 icon, got %d", len(icons))
	}
	if icons[0].Width != 2 || icons[0].Height != 2 || len(icons[0].Data) != 4 {
		t.Fatalf("bad icon: %+v", icons[0])
	}
}

func TestWriteIdempotence(t *testing.T) {
	store := newFakeStore()
	c := NewCodec(store)

	states := []string{StateFullscreen, StateAbove}
	for i := 0; i < 3; i++ {
		if err := c.SetStates(testWin, states); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if store.writes != 1 {
		t.Fatalf("value-equal rewrites must not hit the store, got %d writes", store.writes)
	}

	if err := c.SetStates(testWin, []string{StateFullscreen}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.writes != 2 {
		t.Fatalf("changed value must write, got %d writes", store.writes)
	}

	// Forget drops the fingerprint so the next write goes through again.
	c.Forget(testWin)
	if err := c.SetStates(testWin, []string{StateFullscreen}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.writes != 3 {
		t.Fatalf("write after Forget must hit the store, got %d writes", store.writes)
	}
}

func TestTitleFallback(t *testing.T) {
	store := newFakeStore()
	store.strs[key(testWin, "WM_NAME")] = []string{"legacy"}

	c := NewCodec(store)
	if got := c.Title(testWin); got != "legacy" {
		t.Fatalf("expected WM_NAME fallback, got %q", got)
	}

	store.strs[key(testWin, "_NET_WM_NAME")] = []string{"modern"}
	if got := c.Title(testWin); got != "modern" {
		t.Fatalf("expected _NET_WM_NAME to win, got %q", got)
	}
}
