package view

import (
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/core/object"
	"github.com/vinnievg/pyland/internal/render"
	"github.com/vinnievg/pyland/internal/window"
	"github.com/vinnievg/pyland/internal/world"
)

// stubCompositor is the minimal window.Compositor needed to host a real
// Window in viewer tests.
type stubCompositor struct {
	geom  window.Geometry
	queue []window.Event
}

type stubSurface struct{}

func (stubSurface) Kind() window.BackendKind { return window.Direct }
func (stubSurface) Present() error { return nil }
func (stubSurface) Teardown() error { return nil }

func (c *stubCompositor) Init() error { return nil }
func (c *stubCompositor) Shutdown() {}

func (c *stubCompositor) CreateWindow(w, h int, fullscreen bool) (window.WindowID, error) {
	c.geom = window.Geometry{Width: w, Height: h}
	return 1, nil
}

func (c *stubCompositor) DestroyWindow(window.WindowID) {}

func (c *stubCompositor) ContentGeometry(window.WindowID) (window.Geometry, error) {
	return c.geom, nil
}

func (c *stubCompositor) CreateSurface(window.WindowID, window.BackendKind, window.Geometry) (window.Surface, error) {
	return stubSurface{}, nil
}

func (c *stubCompositor) PollEvent() (window.Event, bool) {
	if len(c.queue) == 0 {
		return nil, false
	}
	ev := c.queue[0]
	c.queue = c.queue[1:]
	return ev, true
}

type recDevice struct {
	trace *[]string
}

func (d *recDevice) Clear() { *d.trace = append(*d.trace, "clear") }
func (d *recDevice) SetViewport(w, h int) {
	*d.trace = append(*d.trace, fmt.Sprintf("viewport %dx%d", w, h))
}
func (d *recDevice) DrawTriangles(first, count int) {
	*d.trace = append(*d.trace, fmt.Sprintf("draw %d", count))
}

type stubShader struct{}

func (stubShader) Program() uint32 { return 1 }

type recComponent struct {
	render.BaseComponent
	name  string
	trace *[]string
}

func newRecComponent(name string, vertices int, trace *[]string) *recComponent {
	c := &recComponent{name: name, trace: trace}
	c.SetShader(stubShader{})
	c.SetNumVerticesRender(vertices)
	return c
}

func (c *recComponent) rec(what string) { *c.trace = append(*c.trace, c.name+":"+what) }

func (c *recComponent) BindShader() { c.rec("bind-shader") }
func (c *recComponent) ReleaseShader() { c.rec("release-shader") }
func (c *recComponent) BindVBOs() { c.rec("bind-vbos") }
func (c *recComponent) ReleaseVBOs() { c.rec("release-vbos") }
func (c *recComponent) BindTextures() { c.rec("bind-textures") }
func (c *recComponent) ReleaseTextures() { c.rec("release-textures") }

type testRig struct {
	comp  *stubCompositor
	mgr   *window.Manager
	win   *window.Window
	reg   *object.Registry
	dev   *recDevice
	v     *Viewer
	trace []string
}

func newRig(t *testing.T, widthPx, heightPx int) *testRig {
	t.Helper()
	rig := &testRig{comp: &stubCompositor{}}
	rig.mgr = window.NewManager(rig.comp, window.Options{}, zap.NewNop())
	win, err := rig.mgr.CreateWindow(widthPx, heightPx, false)
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
	rig.win = win
	rig.reg = object.NewRegistry(zap.NewNop())
	rig.dev = &recDevice{trace: &rig.trace}
	rig.v = NewViewer(win, rig.reg, rig.dev, 32, zap.NewNop())
	return rig
}

func (r *testRig) addSprite(t *testing.T, x, y float32) *world.Sprite {
	t.Helper()
	s := world.NewSprite(world.Position{X: x, Y: y}, "sprite", world.Walkable, newRecComponent("s", 6, &r.trace))
	r.reg.AllocateID(s)
	if !r.reg.Add(s) {
		t.Fatalf("add sprite failed")
	}
	return s
}

func almost(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestCentrePointInRangeExamples(t *testing.T) {
	cases := []struct {
		point, length, bound, want float32
	}{
		// Viewport inside the world: clamp into [0, length-bound].
		{1, 10, 4, 0},
		{8, 10, 4, 6},
		{5, 10, 4, 3},
		// World inside the viewport: clamp into [length-bound, 0].
		{2, 4, 10, -3},
		{-10, 4, 10, -6},
		{20, 4, 10, 0},
		// Equal sizes overlay exactly.
		{3, 8, 8, 0},
	}
	for _, tc := range cases {
		got := CentrePointInRange(tc.point, tc.length, tc.bound)
		if !almost(got, tc.want) {
			t.Errorf("CentrePointInRange(%v,%v,%v) = %v, want %v",
				tc.point, tc.length, tc.bound, got, tc.want)
		}
	}
}

func TestCentrePointInRangeBoundsAndIdempotence(t *testing.T) {
	lengths := []float32{0, 1, 4, 10, 33.5}
	bounds := []float32{0, 0.5, 4, 10, 64}
	points := []float32{-20, -1, 0, 0.5, 3, 9.99, 50}

	for _, l := range lengths {
		for _, b := range bounds {
			for _, p := range points {
				got := CentrePointInRange(p, l, b)
				if b <= l {
					if got < 0 || got > l-b {
						t.Fatalf("offset %v outside [0,%v] for (%v,%v,%v)", got, l-b, p, l, b)
					}
				} else {
					if got < l-b || got > 0 {
						t.Fatalf("offset %v outside [%v,0] for (%v,%v,%v)", got, l-b, p, l, b)
					}
				}
				// Re-centering on the already-clamped viewport centre is stable.
				again := CentrePointInRange(got+b/2, l, b)
				if !almost(got, again) {
					t.Fatalf("not idempotent for (%v,%v,%v): %v then %v", p, l, b, got, again)
				}
			}
		}
	}
}

func TestRefocusCentresAndClamps(t *testing.T) {
	rig := newRig(t, 320, 320) // 10x10 tiles at 32px
	m := world.NewMap(20, 20)
	rig.v.SetMap(m)

	s := rig.addSprite(t, 10, 10)
	m.AddSprite(s.ObjectID())
	rig.v.SetFocus(s.ObjectID())

	x, y := rig.v.Origin()
	if !almost(x, 5.5) || !almost(y, 5.5) {
		t.Fatalf("expected origin (5.5,5.5), got (%v,%v)", x, y)
	}

	// Corner sprite: camera pinned to the world edge.
	s.SetPosition(world.Position{X: 0, Y: 0})
	rig.v.RefocusMap()
	x, y = rig.v.Origin()
	if !almost(x, 0) || !almost(y, 0) {
		t.Fatalf("expected origin clamped to (0,0), got (%v,%v)", x, y)
	}
}

func TestSetFocusInvalidKeepsPrevious(t *testing.T) {
	rig := newRig(t, 320, 320)
	m := world.NewMap(20, 20)
	rig.v.SetMap(m)

	s := rig.addSprite(t, 4, 4)
	rig.v.SetFocus(s.ObjectID())

	rig.v.SetFocus(0)
	rig.v.SetFocus(99)

	if rig.v.Focus() != s.ObjectID() {
		t.Fatalf("invalid focus replaced the previous focus")
	}
}

func TestRefocusAfterFocusRemovedIsNoop(t *testing.T) {
	rig := newRig(t, 320, 320)
	m := world.NewMap(20, 20)
	rig.v.SetMap(m)

	s := rig.addSprite(t, 10, 10)
	rig.v.SetFocus(s.ObjectID())
	x0, y0 := rig.v.Origin()

	rig.reg.Remove(s.ObjectID())
	s.SetPosition(world.Position{X: 0, Y: 0})
	rig.v.RefocusMap()

	x, y := rig.v.Origin()
	if x != x0 || y != y0 {
		t.Fatalf("refocus with removed focus moved the origin to (%v,%v)", x, y)
	}
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) UpdateText() { n.calls++ }

func TestRefocusNotifiesStatusCollaborator(t *testing.T) {
	rig := newRig(t, 320, 320)
	m := world.NewMap(20, 20)
	rig.v.SetMap(m)

	n := &countingNotifier{}
	rig.v.SetNotifier(n)

	s := rig.addSprite(t, 3, 3)
	rig.v.SetFocus(s.ObjectID()) // refocuses once
	if n.calls != 1 {
		t.Fatalf("expected one notification, got %d", n.calls)
	}
}

func TestResizeRecomputesViewportFromPixels(t *testing.T) {
	rig := newRig(t, 320, 320)
	m := world.NewMap(40, 40)
	rig.v.SetMap(m)
	s := rig.addSprite(t, 20, 20)
	rig.v.SetFocus(s.ObjectID())

	rig.comp.geom = window.Geometry{Width: 640, Height: 480}
	rig.comp.queue = append(rig.comp.queue,
		window.WindowEvent{Window: rig.win.ID(), Kind: window.EventResized})
	rig.mgr.Update()

	if rig.win.State() != window.Live {
		t.Fatalf("expected Live window after reconciliation")
	}
	w, h := rig.v.Extent()
	if !almost(w, 20) || !almost(h, 15) {
		t.Fatalf("expected viewport 20x15 tiles, got %vx%v", w, h)
	}

	found := false
	for _, s := range rig.trace {
		if s == "viewport 640x480" {
			found = true
		}
	}
	if !found {
		t.Fatalf("clip rectangle not reapplied, trace %v", rig.trace)
	}
}

func TestPixelTileConversionsRoundTrip(t *testing.T) {
	rig := newRig(t, 320, 320)
	m := world.NewMap(30, 30)
	rig.v.SetMap(m)
	s := rig.addSprite(t, 15, 12)
	rig.v.SetFocus(s.ObjectID())

	tx, ty := rig.v.PixelToTile(64, 96)
	px, py := rig.v.TileToPixel(tx, ty)
	if px != 64 || py != 96 {
		t.Fatalf("round trip gave (%d,%d), want (64,96)", px, py)
	}

	// A tile on the viewport origin maps to pixel (0,0).
	ox, oy := rig.v.Origin()
	px, py = rig.v.TileToPixel(ox, oy)
	if px != 0 || py != 0 {
		t.Fatalf("origin tile mapped to (%d,%d)", px, py)
	}
}
