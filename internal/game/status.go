package game

import (
	"fmt"

	"github.com/vinnievg/pyland/internal/core/object"
	"github.com/vinnievg/pyland/internal/view"
	"github.com/vinnievg/pyland/internal/world"
)

// StatusBar is the one-line notification surface under the map. It shows
// the latest speech line, or which entity the camera is following when
// nothing has been said.
type StatusBar struct {
	v   *view.Viewer
	reg *object.Registry

	speech string
	line   string
}

// NewStatusBar binds a status bar to a viewer and registry.
func NewStatusBar(v *view.Viewer, reg *object.Registry) *StatusBar {
	return &StatusBar{v: v, reg: reg}
}

// Say replaces the bar's speech line.
func (b *StatusBar) Say(text string) {
	b.speech = text
	b.UpdateText()
}

// UpdateText recomputes the displayed line. The viewer calls this whenever
// the camera refocuses.
func (b *StatusBar) UpdateText() {
	if b.speech != "" {
		b.line = b.speech
		return
	}
	id := b.v.Focus()
	if spr, ok := object.Get[*world.Sprite](b.reg, id); ok {
		pos := spr.Position()
		b.line = fmt.Sprintf("following %s (%.0f, %.0f)", spr.Name(), pos.X, pos.Y)
		return
	}
	b.line = ""
}

// Text returns the current display line.
func (b *StatusBar) Text() string { return b.line }
