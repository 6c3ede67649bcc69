package wm

// StackLayer is one of the 8 ordered stacking bands. Windows in lower layers
// are always below windows in higher layers; ordering within a layer is the
// screen's restack order, not this package's concern.
type StackLayer int

const (
	LayerIcon StackLayer = iota
	LayerDesktop
	LayerBelow
	LayerNormal
	LayerAbove
	LayerTop
	LayerFullscreen
	LayerInternal

	numLayers
)

func (l StackLayer) String() string {
	switch l {
	case LayerIcon:
		return "icon"
	case LayerDesktop:
		return "desktop"
	case LayerBelow:
		return "below"
	case LayerNormal:
		return "normal"
	case LayerAbove:
		return "above"
	case LayerTop:
		return "top"
	case LayerFullscreen:
		return "fullscreen"
	case LayerInternal:
		return "internal"
	}
	return "invalid"
}

// CalcLayer derives the stacking layer from the window's current flags. It
// is a pure function: the layer is never stored independently of its inputs,
// so any transition that touches one of them just recomputes.
func CalcLayer(wtype WindowType, fullscreen, above, below, iconic bool) StackLayer {
	switch {
	case iconic:
		return LayerIcon
	case wtype == TypeDesktop:
		return LayerDesktop
	case fullscreen:
		return LayerFullscreen
	case below:
		return LayerBelow
	case above:
		return LayerAbove
	case wtype == TypeDock || wtype == TypeToolbar || wtype == TypeMenu:
		return LayerTop
	default:
		return LayerNormal
	}
}

// calcLayer recomputes the client's layer field from its flags.
func (c *Client) calcLayer() {
	c.layer = CalcLayer(c.wtype, c.fullscreen, c.above, c.below, c.iconic)
}
