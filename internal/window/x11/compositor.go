package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/window"
)

const windowTitle = "Pyland"

// Compositor drives real X11 windows. It implements window.Compositor: the
// lifecycle machine owns all policy; this type only talks wire protocol.
type Compositor struct {
	log *zap.Logger

	xu       *xgbutil.XUtil
	conn     *xgb.Conn
	root     xproto.Window
	wmDelete xproto.Atom

	// lastSize disambiguates ConfigureNotify into resize vs. move events.
	lastSize map[xproto.Window]window.Geometry
}

func New(log *zap.Logger) *Compositor {
	return &Compositor{
		log:      log,
		lastSize: make(map[xproto.Window]window.Geometry),
	}
}

// Init connects to the X server. Called once, for the first window.
func (c *Compositor) Init() error {
	c.log.Info("connecting to X server")
	xu, err := xgbutil.NewConn()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	c.xu = xu
	c.conn = xu.Conn()
	c.root = xu.RootWin()

	atom, err := xprop.Atm(xu, "WM_DELETE_WINDOW")
	if err != nil {
		c.conn.Close()
		c.xu = nil
		return fmt.Errorf("intern WM_DELETE_WINDOW: %w", err)
	}
	c.wmDelete = atom
	return nil
}

// Shutdown drops the X connection after the last window is destroyed.
func (c *Compositor) Shutdown() {
	if c.xu == nil {
		return
	}
	c.log.Info("disconnecting from X server")
	c.conn.Close()
	c.xu = nil
	c.conn = nil
}

func (c *Compositor) CreateWindow(width, height int, fullscreen bool) (window.WindowID, error) {
	if c.xu == nil {
		return 0, errors.New("windowing subsystem not initialized")
	}

	// Zero size asks for the full screen resolution, maximized when not
	// fullscreen.
	maximize := !fullscreen && width == 0 && height == 0
	if width == 0 && height == 0 {
		screen := c.xu.Screen()
		width = int(screen.WidthInPixels)
		height = int(screen.HeightInPixels)
	}

	win, err := xwindow.Generate(c.xu)
	if err != nil {
		return 0, fmt.Errorf("allocate window id: %w", err)
	}
	err = win.CreateChecked(c.root, 0, 0, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0x000000,
		uint32(xproto.EventMaskStructureNotify|
			xproto.EventMaskFocusChange|
			xproto.EventMaskKeyPress|xproto.EventMaskKeyRelease|
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease))
	if err != nil {
		return 0, fmt.Errorf("create window: %w", err)
	}

	// Cooperative close: ask the WM to send a ClientMessage instead of
	// killing the connection.
	if err := icccm.WmProtocolsSet(c.xu, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		c.log.Warn("set WM_DELETE_WINDOW protocol", zap.Error(err))
	}
	if err := ewmh.WmNameSet(c.xu, win.Id, windowTitle); err != nil {
		c.log.Warn("set window title", zap.Error(err))
	}

	win.Map()

	if fullscreen {
		if err := ewmh.WmStateReq(c.xu, win.Id, 1, "_NET_WM_STATE_FULLSCREEN"); err != nil {
			c.log.Warn("request fullscreen", zap.Error(err))
		}
	} else if maximize {
		ewmh.WmStateReq(c.xu, win.Id, 1, "_NET_WM_STATE_MAXIMIZED_HORZ")
		ewmh.WmStateReq(c.xu, win.Id, 1, "_NET_WM_STATE_MAXIMIZED_VERT")
	}

	c.lastSize[win.Id] = window.Geometry{Width: width, Height: height}
	return window.WindowID(win.Id), nil
}

func (c *Compositor) DestroyWindow(id window.WindowID) {
	if c.xu == nil {
		return
	}
	wid := xproto.Window(id)
	delete(c.lastSize, wid)
	xwindow.New(c.xu, wid).Destroy()
}

// ContentGeometry translates the window origin against the root window and
// reads the drawable size. The WM reports event geometry for the frame, not
// the rendering area, so only this query is trusted.
func (c *Compositor) ContentGeometry(id window.WindowID) (window.Geometry, error) {
	wid := xproto.Window(id)

	trans, err := xproto.TranslateCoordinates(c.conn, wid, c.root, 0, 0).Reply()
	if err != nil {
		return window.Geometry{}, fmt.Errorf("translate coordinates: %w", err)
	}
	geo, err := xproto.GetGeometry(c.conn, xproto.Drawable(wid)).Reply()
	if err != nil {
		return window.Geometry{}, fmt.Errorf("get geometry: %w", err)
	}
	return window.Geometry{
		X:      int(trans.DstX),
		Y:      int(trans.DstY),
		Width:  int(geo.Width),
		Height: int(geo.Height),
	}, nil
}

func (c *Compositor) CreateSurface(id window.WindowID, kind window.BackendKind, geom window.Geometry) (window.Surface, error) {
	switch kind {
	case window.Direct:
		return newDirectSurface(c, xproto.Window(id), geom)
	default:
		return newOffscreenSurface(c, xproto.Window(id), geom)
	}
}

// PollEvent pops one X event, translated to the compositor-neutral form.
// Unknown events are skipped in place so one call per queue entry suffices.
func (c *Compositor) PollEvent() (window.Event, bool) {
	for {
		ev, xerr := c.conn.PollForEvent()
		if ev == nil && xerr == nil {
			return nil, false
		}
		if xerr != nil {
			c.log.Debug("X error event", zap.String("error", xerr.Error()))
			continue
		}

		switch e := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			id := window.WindowID(e.Window)
			prev := c.lastSize[e.Window]
			now := window.Geometry{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)}
			c.lastSize[e.Window] = now
			if now.Width != prev.Width || now.Height != prev.Height {
				return window.WindowEvent{Window: id, Kind: window.EventResized}, true
			}
			return window.WindowEvent{Window: id, Kind: window.EventMoved}, true
		case xproto.MapNotifyEvent:
			return window.WindowEvent{Window: window.WindowID(e.Window), Kind: window.EventShown}, true
		case xproto.UnmapNotifyEvent:
			return window.WindowEvent{Window: window.WindowID(e.Window), Kind: window.EventHidden}, true
		case xproto.FocusInEvent:
			return window.WindowEvent{Window: window.WindowID(e.Event), Kind: window.EventFocusGained}, true
		case xproto.FocusOutEvent:
			return window.WindowEvent{Window: window.WindowID(e.Event), Kind: window.EventFocusLost}, true
		case xproto.ClientMessageEvent:
			if e.Format == 32 && xproto.Atom(e.Data.Data32[0]) == c.wmDelete {
				return window.WindowEvent{Window: window.WindowID(e.Window), Kind: window.EventClose}, true
			}
		case xproto.KeyPressEvent:
			return window.KeyEvent{Window: window.WindowID(e.Event), Code: uint32(e.Detail), Pressed: true}, true
		case xproto.KeyReleaseEvent:
			return window.KeyEvent{Window: window.WindowID(e.Event), Code: uint32(e.Detail), Pressed: false}, true
		case xproto.ButtonPressEvent:
			return window.ButtonEvent{Window: window.WindowID(e.Event), X: int(e.EventX), Y: int(e.EventY), Button: uint8(e.Detail), Pressed: true}, true
		case xproto.ButtonReleaseEvent:
			return window.ButtonEvent{Window: window.WindowID(e.Event), X: int(e.EventX), Y: int(e.EventY), Button: uint8(e.Detail), Pressed: false}, true
		}
	}
}
