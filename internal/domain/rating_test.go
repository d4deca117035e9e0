package domain

import "testing"

func TestParseRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		valid  bool
		stars  float64
		glyphs string
	}{
		{"4.5", true, 4.5, "★★★★½"},
		{"3.0", true, 3, "★★★"},
		{"0.5", true, 0.5, "½"},
		{"5", true, 5, "★★★★★"},
		{"★★★★½", true, 4.5, "★★★★½"},
		{"★★", true, 2, "★★"},
		{"½", true, 0.5, "½"},
		{"abc", false, 0, ""},
		{"", false, 0, ""},
		{"3.3", false, 0, ""},
		{"6", false, 0, ""},
		{"-1", false, 0, ""},
		{"NaN", false, 0, ""},
		{"★½★", false, 0, ""},
		{"★★★★★★", false, 0, ""},
	}

	for _, tt := range tests {
		got := ParseRating(tt.in)
		if got.Valid != tt.valid {
			t.Fatalf("ParseRating(%q).Valid = %v, want %v", tt.in, got.Valid, tt.valid)
		}
		if got.Stars != tt.stars {
			t.Fatalf("ParseRating(%q).Stars = %v, want %v", tt.in, got.Stars, tt.stars)
		}
		if got.Glyphs() != tt.glyphs {
			t.Fatalf("ParseRating(%q).Glyphs() = %q, want %q", tt.in, got.Glyphs(), tt.glyphs)
		}
	}
}

func TestPublicationState(t *testing.T) {
	t.Parallel()

	s := NewPublicationState("b", "a", "")
	if s.Len() != 2 {
		t.Fatalf("expected 2 identities, got %d", s.Len())
	}

	clone := s.Clone()
	clone.Merge([]string{"c"})
	if s.Has("c") {
		t.Fatal("clone mutated the original state")
	}

	got := clone.Sorted()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
}
