// Package export writes animation surfaces to files: SVG snapshots of a
// terminal surface and GIF recordings of an offscreen image surface.
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/backdrop/internal/raster"
)

// CellsToSVG converts a cell surface to SVG, one circle per lit braille
// dot and one text element per glyph, composited over bg.
func CellsToSVG(cells *raster.Cells, bg raster.Color, opacity float64) string {
	if cells == nil {
		return ""
	}

	width, height := cells.Size()
	cols, rows := cells.Dims()
	dotW, dotH := float64(raster.CellWidth)/2, float64(raster.CellHeight)/4

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg.Hex()))

	dotRadius := dotW * 0.4

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell := cells.Cell(col, row)
			if cell.Dots == 0 && cell.Glyph == 0 {
				continue
			}
			fill := cell.Over(bg, opacity).Hex()
			baseX := float64(col * raster.CellWidth)
			baseY := float64(row * raster.CellHeight)

			if cell.Glyph != 0 {
				sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" fill="%s">%s</text>
`, baseX, baseY+float64(raster.CellHeight)*0.8, raster.CellHeight-2, fill, html.EscapeString(string(cell.Glyph))))
				continue
			}

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !cell.DotMask(dx, dy) {
						continue
					}
					cx := baseX + float64(dx)*dotW + dotW/2
					cy := baseY + float64(dy)*dotH + dotH/2
					sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
