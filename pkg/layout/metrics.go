package layout

// Text measurement uses fixed per-glyph metrics rather than real font
// tables: width scales with character count, height with ascender plus
// descender. This matches the serializer's font defaults closely enough
// for grid sizing, and keeps layout free of font-file dependencies.
const (
	fontWidthRatio  = 0.5 // glyph advance as a fraction of font size
	fontAscent      = 1.1 // ascender as a fraction of font size
	fontDescent     = 0.3 // descender as a fraction of font size
	defaultFontSize = 10.0
)

// lineHeight returns the vertical extent of one text line.
func lineHeight(size float64) float64 {
	return size * (fontAscent + fontDescent)
}

// textExtent returns the natural width and height of a block of text
// lines at the given font size.
func textExtent(lines []string, size float64) (float64, float64) {
	maxLen := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > maxLen {
			maxLen = n
		}
	}
	return float64(maxLen) * size * fontWidthRatio, float64(len(lines)) * lineHeight(size)
}
