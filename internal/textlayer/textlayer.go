package textlayer

// Rect is an axis-aligned rectangle in the text layer's coordinate space,
// origin top-left, units in layer pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal midpoint of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical midpoint of the rectangle.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Scaled returns the rectangle with every coordinate divided by scale.
// A non-positive scale returns the rectangle unchanged.
func (r Rect) Scaled(scale float64) Rect {
	if scale <= 0 || scale == 1 {
		return r
	}
	return Rect{
		Left:   r.Left / scale,
		Top:    r.Top / scale,
		Right:  r.Right / scale,
		Bottom: r.Bottom / scale,
		Width:  r.Width / scale,
		Height: r.Height / scale,
	}
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	u := Rect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
	u.Width = u.Right - u.Left
	u.Height = u.Bottom - u.Top
	return u
}

// Fragment is one positioned unit of rendered text: a word, an OCR token,
// or an arbitrary substring, depending on the renderer.
type Fragment struct {
	Text string `json:"text"`
	Rect Rect   `json:"rect"`
}

// Page is the full ordered text layer of one rendered page.
type Page struct {
	Number    int        `json:"number"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Fragments []Fragment `json:"fragments"`
}
