package render

// Glyphs is the character set the rasterizer draws with. The Unicode set
// uses box-drawing characters; the ASCII set degrades to the usual
// plus-minus-pipe look for terminals without them.
type Glyphs struct {
	Horizontal rune
	Vertical   rune

	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune

	PortLeft  rune // connection attaching to a left border
	PortRight rune // connection attaching to a right border

	// Route elbows, named by the two sides they join.
	ElbowWS rune // west + south
	ElbowWN rune // west + north
	ElbowES rune // east + south
	ElbowEN rune // east + north

	ContinueRight rune
	ContinueLeft  rune

	Ellipsis string // truncation suffix for labels and titles
}

// UnicodeGlyphs returns the box-drawing character set.
func UnicodeGlyphs() Glyphs {
	return Glyphs{
		Horizontal:    '─',
		Vertical:      '│',
		TopLeft:       '┌',
		TopRight:      '┐',
		BottomLeft:    '└',
		BottomRight:   '┘',
		PortLeft:      '┤',
		PortRight:     '├',
		ElbowWS:       '┐',
		ElbowWN:       '┘',
		ElbowES:       '┌',
		ElbowEN:       '└',
		ContinueRight: '▶',
		ContinueLeft:  '◀',
		Ellipsis:      "…",
	}
}

// ASCIIGlyphs returns the pure-ASCII fallback set.
func ASCIIGlyphs() Glyphs {
	return Glyphs{
		Horizontal:    '-',
		Vertical:      '|',
		TopLeft:       '+',
		TopRight:      '+',
		BottomLeft:    '+',
		BottomRight:   '+',
		PortLeft:      '|',
		PortRight:     '|',
		ElbowWS:       '+',
		ElbowWN:       '+',
		ElbowES:       '+',
		ElbowEN:       '+',
		ContinueRight: '>',
		ContinueLeft:  '<',
		Ellipsis:      "~",
	}
}
