package domain

import (
	"math"
	"strconv"
	"strings"
)

// Star glyphs used by Letterboxd titles and by the rendered feed prefix.
const (
	FullStar = "★"
	HalfStar = "½"
)

// Rating is a star value in [0, 5] in half-star steps.
type Rating struct {
	Stars float64
	Valid bool
}

// ParseRating accepts a numeric value ("4.5") or a glyph string ("★★★★½").
func ParseRating(value string) Rating {
	value = strings.TrimSpace(value)
	if value == "" {
		return Rating{}
	}

	if stars, err := strconv.ParseFloat(value, 64); err == nil {
		return newRating(stars)
	}

	var (
		stars float64
		half  bool
	)
	for _, r := range value {
		switch string(r) {
		case FullStar:
			if half {
				return Rating{}
			}
			stars++
		case HalfStar:
			if half {
				return Rating{}
			}
			half = true
			stars += 0.5
		default:
			return Rating{}
		}
	}
	return newRating(stars)
}

func newRating(stars float64) Rating {
	if math.IsNaN(stars) || stars < 0 || stars > 5 {
		return Rating{}
	}
	if doubled := stars * 2; doubled != math.Trunc(doubled) {
		return Rating{}
	}
	return Rating{Stars: stars, Valid: true}
}

// Glyphs renders one full star per whole point plus a half star when the
// fractional part is at least 0.5.
func (r Rating) Glyphs() string {
	if !r.Valid {
		return ""
	}
	whole := math.Floor(r.Stars)
	glyphs := strings.Repeat(FullStar, int(whole))
	if r.Stars-whole >= 0.5 {
		glyphs += HalfStar
	}
	return glyphs
}
