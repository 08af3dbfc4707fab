package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContainerTitle builds the container title from artist and album text. Parts
// that arrive in a single case (ALL CAPS keyboard habits, all lowercase) are
// re-cased; mixed-case input passes through untouched.
func ContainerTitle(artist, album string) string {
	artist = NormalizeTitle(artist)
	album = NormalizeTitle(album)
	switch {
	case artist == "" && album == "":
		return "Unknown Album"
	case artist == "":
		return album
	case album == "":
		return artist
	}
	return artist + " - " + album
}

// NormalizeTitle collapses whitespace and title-cases single-case input.
func NormalizeTitle(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return ""
	}
	if singleCase(value) {
		return cases.Title(language.Und).String(strings.ToLower(value))
	}
	return value
}

func singleCase(value string) bool {
	var upper, lower bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
		if upper && lower {
			return false
		}
	}
	return true
}
