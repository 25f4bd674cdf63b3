package render

import "github.com/Audreyz7/DeerHacks26/internal/platform"

// catSpriteRows is the pet glyph, one character per pixel cell:
// W white, O orange, B black, K dark accent, '.' transparent.
var catSpriteRows = []string{
	"....WWWW....",
	"...WWWWWW...",
	"..WOWWWWBW..",
	"..WWWWWWWW..",
	".WWKWWWWKWW.",
	".WWWWWWWWWW.",
	".WOWWWWWWBW.",
	".WWWWWWWWWW.",
	"..WWWWWWWW..",
	"..WOO..BBW..",
	"..WWW..WWW..",
	".WWW....WWW.",
	".WW......WW.",
}

// drawCatSprite paints the cat scaled up cell-by-cell, plus the sprout
// on its head.
func (r *Renderer) drawCatSprite(x, y, scale int) {
	for row, cells := range catSpriteRows {
		for col := 0; col < len(cells); col++ {
			var c platform.Color
			switch cells[col] {
			case 'W':
				c = colorCatWhite
			case 'O':
				c = colorCatOrange
			case 'B':
				c = colorCatBlack
			case 'K':
				c = colorTreeDark
			default:
				continue
			}
			r.s.FillRect(x+col*scale, y+row*scale, scale, scale, c)
		}
	}

	r.s.FillRect(x+5*scale, y-2*scale, 2*scale, 2*scale, colorSprout)
	r.s.FillRect(x+4*scale, y-3*scale, 2*scale, scale, colorSprout)
	r.s.FillRect(x+6*scale, y-4*scale, 2*scale, scale, colorSprout)
	r.s.FillRect(x+5*scale, y-scale, scale, scale, colorTreeDark)
}
