package core

// Input is the polled view of the window events seen so far. Run feeds it
// every event before layers get a chance to handle them.
type Input struct {
	keys map[Key]bool
	mods Mod

	mouseX, mouseY float64
	dx, dy         float64
	seenMouse      bool

	scrollY float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
		in.mods = e.Mods
	case EventMouseMove:
		// the first sample only seeds the position
		if in.seenMouse {
			in.dx += e.X - in.mouseX
			in.dy += e.Y - in.mouseY
		}
		in.mouseX, in.mouseY, in.seenMouse = e.X, e.Y, true
	case EventScroll:
		in.scrollY += e.Yoff
	}
}

func (in *Input) IsKeyDown(k Key) bool      { return in.keys[k] }
func (in *Input) Mods() Mod                 { return in.mods }
func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }

// TakeMouseDelta returns the pointer motion accumulated since the last call.
func (in *Input) TakeMouseDelta() (dx, dy float64) {
	dx, dy = in.dx, in.dy
	in.dx, in.dy = 0, 0
	return dx, dy
}

// TakeScroll returns the vertical scroll accumulated since the last call.
func (in *Input) TakeScroll() float64 {
	s := in.scrollY
	in.scrollY = 0
	return s
}
