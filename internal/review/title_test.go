package review

import "testing"

func TestParseTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		full  string
		title string
		year  string
		stars string
	}{
		{"composite", "Oldboy, 2003 - ★★★★½", "Oldboy", "2003", "★★★★½"},
		{"comma in title", "Crouching Tiger, Hidden Dragon, 2000 - ★★★★", "Crouching Tiger, Hidden Dragon", "2000", "★★★★"},
		{"dash in title", "Spider-Man - Into the Verse, 2018 - ★★★", "Spider-Man - Into the Verse", "2018", "★★★"},
		{"no rating", "Oldboy, 2003", "", "", ""},
		{"no year", "Oldboy - ★★★", "", "", ""},
		{"empty", "", "", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			title, year, stars := ParseTitle(tt.full)
			if title != tt.title || year != tt.year || stars != tt.stars {
				t.Fatalf("ParseTitle(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.full, title, year, stars, tt.title, tt.year, tt.stars)
			}
		})
	}
}
