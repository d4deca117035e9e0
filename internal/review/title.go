package review

import "strings"

// ParseTitle splits a composite "<Title>, <Year> - <Stars>" string on the
// last " - " and then the last ", ". Unparseable titles yield empty parts.
func ParseTitle(full string) (title, year, stars string) {
	sep := strings.LastIndex(full, " - ")
	if sep < 0 {
		return "", "", ""
	}
	movie, stars := full[:sep], full[sep+len(" - "):]

	comma := strings.LastIndex(movie, ", ")
	if comma < 0 {
		return "", "", ""
	}
	return movie[:comma], movie[comma+len(", "):], stars
}
