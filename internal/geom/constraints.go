package geom

// Constraints captures everything WM_NORMAL_HINTS says about the sizes a
// window may take. Zero-valued fields mean unconstrained, matching the
// protocol defaults.
type Constraints struct {
	Min  Size
	Max  Size // 0 on an axis means unbounded
	Inc  Size // resize increment, 0 or 1 means none
	Base Size

	// Aspect bounds on (w-base)/(h-base). 0 means unconstrained.
	MinRatio float64
	MaxRatio float64
}

// ResizableW reports whether the width may change at all. A min greater
// than a declared max pins the axis.
func (c Constraints) ResizableW() bool {
	return c.Max.W == 0 || c.Min.W <= c.Max.W
}

func (c Constraints) ResizableH() bool {
	return c.Max.H == 0 || c.Min.H <= c.Max.H
}

// Resizable reports whether the window may be resized on both axes, which is
// what the resize function/decoration advertises.
func (c Constraints) Resizable() bool {
	return c.ResizableW() && c.ResizableH()
}

// Apply clamps a requested size to the constraints. Order of operations is
// fixed policy: clamp to [min,max], snap down to the increment grid above the
// base size, then bring the aspect ratio into range best-effort. When the
// increment grid and the ratio window conflict, increments win; the ratio may
// end up off by at most one increment step.
func (c Constraints) Apply(w, h int) (int, int) {
	w = clampAxis(w, c.Min.W, c.Max.W, c.ResizableW())
	h = clampAxis(h, c.Min.H, c.Max.H, c.ResizableH())

	w = snapAxis(w, c.Base.W, c.Inc.W, c.Min.W)
	h = snapAxis(h, c.Base.H, c.Inc.H, c.Min.H)

	if c.MinRatio > 0 || c.MaxRatio > 0 {
		w, h = c.applyRatio(w, h)
	}
	return w, h
}

func clampAxis(v, min, max int, resizable bool) int {
	if !resizable {
		return min
	}
	if v < min {
		v = min
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}

// snapAxis snaps v down to base+k*inc, then back up increment by increment
// if the snap undershot the minimum.
func snapAxis(v, base, inc, min int) int {
	if inc <= 1 {
		return v
	}
	if v > base {
		v = base + ((v-base)/inc)*inc
	} else {
		v = base
	}
	for v < min {
		v += inc
	}
	return v
}

// applyRatio adjusts whichever axis deviates from the allowed ratio window,
// preferring to preserve the larger dimension. The adjusted axis is re-snapped
// to its increment grid and re-clamped.
func (c Constraints) applyRatio(w, h int) (int, int) {
	aw := float64(w - c.Base.W)
	ah := float64(h - c.Base.H)
	if aw <= 0 || ah <= 0 {
		return w, h
	}

	ratio := aw / ah
	switch {
	case c.MinRatio > 0 && ratio < c.MinRatio:
		// Too narrow. Keep the larger dimension: shrink height, or grow
		// width when width already dominates.
		if aw >= ah {
			h = c.Base.H + int(aw/c.MinRatio)
			h = c.resnapH(h)
		} else {
			w = c.Base.W + int(ah*c.MinRatio)
			w = c.resnapW(w)
		}
	case c.MaxRatio > 0 && ratio > c.MaxRatio:
		// Too wide.
		if ah >= aw {
			w = c.Base.W + int(ah*c.MaxRatio)
			w = c.resnapW(w)
		} else {
			h = c.Base.H + int(aw/c.MaxRatio)
			h = c.resnapH(h)
		}
	}
	return w, h
}

func (c Constraints) resnapW(w int) int {
	w = clampAxis(w, c.Min.W, c.Max.W, c.ResizableW())
	return snapAxis(w, c.Base.W, c.Inc.W, c.Min.W)
}

func (c Constraints) resnapH(h int) int {
	h = clampAxis(h, c.Min.H, c.Max.H, c.ResizableH())
	return snapAxis(h, c.Base.H, c.Inc.H, c.Min.H)
}

// Logical converts a pixel size to the size the user should see: the number
// of increments above the base size when increments are in effect, the pixel
// size otherwise.
func (c Constraints) Logical(w, h int) Size {
	if c.Inc.W > 1 {
		w = (w - c.Base.W) / c.Inc.W
	}
	if c.Inc.H > 1 {
		h = (h - c.Base.H) / c.Inc.H
	}
	return Size{W: w, H: h}
}
