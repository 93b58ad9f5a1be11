// Package object defines the playfield entities and the store that owns them.
package object

import (
	"github.com/tomz197/retrodefender/internal/draw"
)

// Category is the label and colour an enemy is drawn with.
type Category struct {
	Name  string `json:"name" msgpack:"name"`
	Color string `json:"color" msgpack:"color"` // #rrggbb
}

// Palette is the fixed set of enemy categories.
var Palette = []Category{
	{Name: "JS", Color: "#f7df1e"},
	{Name: "Py", Color: "#3776ab"},
	{Name: "React", Color: "#61dbfb"},
	{Name: "AI", Color: "#ff6b6b"},
}

// DrawContext provides drawing resources for objects. The canvas logical
// size equals the playfield, so objects draw in playfield units.
type DrawContext struct {
	Canvas *draw.Canvas
	Width  float64 // Playfield width
	Height float64 // Playfield height
}
