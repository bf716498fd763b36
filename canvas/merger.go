package canvas

// Connectivity bits for box-drawing glyphs. Two crossing connection glyphs
// merge by unioning their bits and mapping the result back to a glyph, so
// '─' over '│' becomes '┼' and '─' over '┘' becomes '┴'.
const (
	connN = 1 << iota
	connE
	connS
	connW
)

var glyphBits = map[rune]int{
	'─': connE | connW,
	'│': connN | connS,
	'┌': connE | connS,
	'┐': connW | connS,
	'└': connN | connE,
	'┘': connN | connW,
	'├': connN | connS | connE,
	'┤': connN | connS | connW,
	'┬': connE | connW | connS,
	'┴': connE | connW | connN,
	'┼': connN | connE | connS | connW,

	'-': connE | connW,
	'|': connN | connS,
}

var bitsGlyph = map[int]rune{
	connE | connW:                 '─',
	connN | connS:                 '│',
	connE | connS:                 '┌',
	connW | connS:                 '┐',
	connN | connE:                 '└',
	connN | connW:                 '┘',
	connN | connS | connE:         '├',
	connN | connS | connW:         '┤',
	connE | connW | connS:         '┬',
	connE | connW | connN:         '┴',
	connN | connE | connS | connW: '┼',
}

// GlyphMerger resolves the glyph shown where two connection segments cross.
// In ASCII mode every nontrivial crossing collapses to '+'.
type GlyphMerger struct {
	ASCII bool
}

// Merge returns the glyph for incoming drawn over existing. Arrowheads are
// terminal and always survive; glyphs outside the box-drawing set are
// simply replaced by the newcomer.
func (m GlyphMerger) Merge(existing, incoming rune) rune {
	switch existing {
	case '▶', '◀', '>', '<':
		return existing
	}
	switch incoming {
	case '▶', '◀', '>', '<':
		return incoming
	}

	eb, eok := glyphBits[existing]
	ib, iok := glyphBits[incoming]
	if !eok || !iok {
		return incoming
	}
	bits := eb | ib
	if m.ASCII {
		if bits == connE|connW {
			return '-'
		}
		if bits == connN|connS {
			return '|'
		}
		return '+'
	}
	if g, ok := bitsGlyph[bits]; ok {
		return g
	}
	return incoming
}
