package mood

import "testing"

func TestGlyphDistinct(t *testing.T) {
	seen := map[string]int{}
	for _, m := range Scale() {
		g, ok := Glyph(m)
		if !ok {
			t.Fatalf("Glyph(%d) not on scale", m)
		}
		if prev, dup := seen[g]; dup {
			t.Errorf("Glyph(%d) = %s duplicates Glyph(%d)", m, g, prev)
		}
		seen[g] = m
	}
	if len(seen) != 5 {
		t.Errorf("got %d glyphs, want 5", len(seen))
	}
}

func TestGlyphOutOfRange(t *testing.T) {
	if g, ok := Glyph(7); ok || g != UnknownGlyph {
		t.Errorf("Glyph(7) = %q, %v", g, ok)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		avg  float64
		want int
	}{
		{1.0, 1},
		{2.5, 3},
		{3.5, 4},
		{3.49, 3},
		{4.75, 5},
	}
	for _, tt := range tests {
		if got := Round(tt.avg); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.avg, got, tt.want)
		}
	}
}

func TestAverageGlyph(t *testing.T) {
	if got := AverageGlyph(3.0); got != "🙂" {
		t.Errorf("AverageGlyph(3.0) = %s", got)
	}
	if got := AverageGlyph(0.2); got != FallbackGlyph {
		t.Errorf("AverageGlyph(0.2) = %s, want fallback", got)
	}
}
