package scrollfx

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	maxTouches        = 10
	defaultWheelPixel = 100.0 // pixels per wheel notch
)

// EbitenInput reads wheel and touch input from Ebitengine once per frame.
// Ebitengine windows have no native scrolling, so SetNativeScroll only
// records the requested state.
type EbitenInput struct {
	// WheelScale converts ebiten.Wheel offsets (notches) to pixels.
	WheelScale float64

	listeners listenerSet
	native    bool

	touchIDs  []ebiten.TouchID
	touchMap  [maxTouches]ebiten.TouchID
	touchUsed [maxTouches]bool
	touchPos  [maxTouches][2]float64
}

// NewEbitenInput creates an input source with the default wheel scale.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{WheelScale: defaultWheelPixel, native: true}
}

// Listen implements InputSource.
func (in *EbitenInput) Listen(fn func(InputEvent)) (cancel func()) {
	return in.listeners.listen(fn)
}

// SetNativeScroll implements InputSource.
func (in *EbitenInput) SetNativeScroll(enabled bool) {
	in.native = enabled
}

// Poll implements Poller. Ebitengine reports a positive Y wheel offset when
// scrolling up, so offsets are negated to make "down" scroll forward.
func (in *EbitenInput) Poll() {
	wx, wy := ebiten.Wheel()
	if wx != 0 || wy != 0 {
		in.listeners.dispatch(InputEvent{
			Kind:   InputWheel,
			DeltaX: -wx * in.WheelScale,
			DeltaY: -wy * in.WheelScale,
		})
	}
	in.pollTouches()
}

func (in *EbitenInput) pollTouches() {
	for _, tid := range inpututil.AppendJustPressedTouchIDs(nil) {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		x, y := ebiten.TouchPosition(tid)
		in.touchPos[slot] = [2]float64{float64(x), float64(y)}
		in.listeners.dispatch(InputEvent{Kind: InputTouchStart, TouchID: slot, X: float64(x), Y: float64(y)})
	}

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	var active [maxTouches]bool
	for _, tid := range in.touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		x, y := ebiten.TouchPosition(tid)
		fx, fy := float64(x), float64(y)
		if p := in.touchPos[slot]; p[0] != fx || p[1] != fy {
			in.touchPos[slot] = [2]float64{fx, fy}
			in.listeners.dispatch(InputEvent{Kind: InputTouchMove, TouchID: slot, X: fx, Y: fy})
		}
	}

	// Release slots whose touch ended this frame.
	for i := 0; i < maxTouches; i++ {
		if in.touchUsed[i] && !active[i] {
			p := in.touchPos[i]
			in.listeners.dispatch(InputEvent{Kind: InputTouchEnd, TouchID: i, X: p[0], Y: p[1]})
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a slot, allocating one if needed.
// Returns -1 when all slots are taken.
func (in *EbitenInput) touchSlot(tid ebiten.TouchID) int {
	for i := 0; i < maxTouches; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 0; i < maxTouches; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ContentHeight is the scrollable document length. Run keeps the
	// engine's viewport in sync with the window size.
	ContentHeight float64
	// Config is passed to Engine.Start. A zero Config uses DefaultConfig.
	Config Config
	// Update runs after every engine tick; Draw renders the frame.
	Update func(ctx TickContext) error
	Draw   func(screen *ebiten.Image, ctx TickContext)
}

// game adapts an Engine to ebiten.Game.
type game struct {
	e     *Engine
	cfg   RunConfig
	w, h  int
	input *EbitenInput
}

func (g *game) Update() error {
	g.e.Update()
	if g.cfg.Update != nil {
		return g.cfg.Update(g.e.TickContext())
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.Draw != nil {
		g.cfg.Draw(screen, g.e.TickContext())
	}
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	if outsideW != g.w || outsideH != g.h {
		g.w, g.h = outsideW, outsideH
		g.e.Resize(float64(outsideW), float64(outsideH), g.cfg.ContentHeight)
	}
	return outsideW, outsideH
}

// Run opens a window and drives e at the display refresh rate until the
// window closes. The engine is started with an EbitenInput and stopped on
// return.
func Run(e *Engine, cfg RunConfig) error {
	if cfg.Config == (Config{}) {
		cfg.Config = DefaultConfig()
	}
	g := &game{e: e, cfg: cfg, input: NewEbitenInput()}
	if err := e.Start(cfg.Config, g.input); err != nil {
		return err
	}
	defer e.Stop()

	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 720
	}
	g.w, g.h = w, h
	e.Resize(float64(w), float64(h), cfg.ContentHeight)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(g)
}
