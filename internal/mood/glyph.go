package mood

import "math"

var glyphs = [MaxMood + 1]string{
	1: "😞",
	2: "😐",
	3: "🙂",
	4: "😊",
	5: "😄",
}

// FallbackGlyph is shown for a rounded average outside the scale.
const FallbackGlyph = "😐"

// UnknownGlyph marks a stored mood outside the scale.
const UnknownGlyph = "?"

// Glyph returns the symbol for a mood score and whether the score is on
// the scale.
func Glyph(m int) (string, bool) {
	if m < MinMood || m > MaxMood {
		return UnknownGlyph, false
	}
	return glyphs[m], true
}

// Round maps a mean mood to the nearest integer, halves away from zero.
func Round(avg float64) int {
	return int(math.Round(avg))
}

// AverageGlyph returns the glyph for a mean mood.
func AverageGlyph(avg float64) string {
	if g, ok := Glyph(Round(avg)); ok {
		return g
	}
	return FallbackGlyph
}

// Scale lists every mood score in ascending order.
func Scale() []int {
	out := make([]int, 0, MaxMood)
	for m := MinMood; m <= MaxMood; m++ {
		out = append(out, m)
	}
	return out
}
