package viz

import (
	"strings"
)

const brailleBlank = 0x2800

// Braille dot bits by sub-row and sub-column:
// 1 4
// 2 5
// 3 6
// 7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille grid with 2x4 dots per cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// DotsX and DotsY are the canvas size in dots.
func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.DotsX() || y >= c.DotsY() {
		return
	}
	c.Grid[y/4][x/2] |= dotBits[y%4][x%2]
}

// Plot lights the dot nearest to (fx, fy) with both in [0, 1].
func (c *Canvas) Plot(fx, fy float64) {
	c.Set(int(fx*float64(c.DotsX()-1)+0.5), int(fy*float64(c.DotsY()-1)+0.5))
}

// VLine draws a dotted vertical rule at fraction fx of the width.
func (c *Canvas) VLine(fx float64) {
	x := int(fx*float64(c.DotsX()-1) + 0.5)
	for y := 0; y < c.DotsY(); y += 2 {
		c.Set(x, y)
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Lit counts lit dots.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for b := r - brailleBlank; b != 0; b &= b - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
