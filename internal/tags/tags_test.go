package tags

import (
	"strings"
	"testing"

	"discmux/internal/disc"
	"discmux/internal/metadata"
)

func TestRenderAlbumStructure(t *testing.T) {
	album := metadata.Album{
		Artist: "Some Artist",
		Title:  "Some Album",
		Year:   "1998",
		Genre:  "Jazz",
	}
	data, err := RenderAlbum(album)
	if err != nil {
		t.Fatalf("RenderAlbum: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "<?xml") {
		t.Fatalf("document missing XML declaration:\n%s", text)
	}
	if !strings.Contains(text, "<!DOCTYPE Tags SYSTEM \"matroskatags.dtd\">") {
		t.Fatalf("document missing doctype:\n%s", text)
	}
	for _, field := range []string{"TITLE", "ARTIST", "DATE_RECORDED", "GENRE"} {
		if !strings.Contains(text, "<Name>"+field+"</Name>") {
			t.Errorf("document missing %s field:\n%s", field, text)
		}
	}
}

func TestAlbumRoundTripWithReservedCharacters(t *testing.T) {
	album := metadata.Album{
		Artist: "Simon & Garfunkel",
		Title:  `<"Best" of>`,
		Year:   "1972",
		Genre:  "Folk & Rock",
	}
	data, err := RenderAlbum(album)
	if err != nil {
		t.Fatalf("RenderAlbum: %v", err)
	}
	parsed, err := ParseAlbum(data)
	if err != nil {
		t.Fatalf("ParseAlbum: %v", err)
	}
	if parsed != album {
		t.Fatalf("round trip produced %+v, want %+v", parsed, album)
	}
}

func TestTracksRoundTrip(t *testing.T) {
	tracks := []disc.Track{
		{Index: 1, SampleLength: 9480216, Name: "Opening <Theme>"},
		{Index: 2, SampleLength: 588, Name: ""},
		{Index: 3, SampleLength: 11538324, Name: "Finale & Reprise"},
	}
	data, err := RenderTracks(tracks)
	if err != nil {
		t.Fatalf("RenderTracks: %v", err)
	}
	parsed, err := ParseTracks(data)
	if err != nil {
		t.Fatalf("ParseTracks: %v", err)
	}
	if len(parsed) != len(tracks) {
		t.Fatalf("parsed %d tracks, want %d", len(parsed), len(tracks))
	}
	for i := range tracks {
		if parsed[i] != tracks[i] {
			t.Errorf("track %d round trip produced %+v, want %+v", i+1, parsed[i], tracks[i])
		}
	}
}

func TestParseAlbumRejectsMultipleTags(t *testing.T) {
	tracks := []disc.Track{
		{Index: 1, SampleLength: 588, Name: "a"},
		{Index: 2, SampleLength: 588, Name: "b"},
	}
	data, err := RenderTracks(tracks)
	if err != nil {
		t.Fatalf("RenderTracks: %v", err)
	}
	if _, err := ParseAlbum(data); err == nil {
		t.Fatal("expected error parsing multi-tag document as album")
	}
}

func TestParseTracksRejectsOutOfOrderPartNumbers(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<Tags>
  <Tag>
    <Simple><Name>TITLE</Name><String>x</String></Simple>
    <Simple><Name>PART_NUMBER</Name><String>2</String></Simple>
    <Simple><Name>SAMPLES</Name><String>588</String></Simple>
  </Tag>
</Tags>`
	if _, err := ParseTracks([]byte(doc)); err == nil {
		t.Fatal("expected error for PART_NUMBER out of order")
	}
}

func TestParseTracksRejectsBadSampleCount(t *testing.T) {
	doc := `<Tags>
  <Tag>
    <Simple><Name>PART_NUMBER</Name><String>1</String></Simple>
    <Simple><Name>SAMPLES</Name><String>many</String></Simple>
  </Tag>
</Tags>`
	if _, err := ParseTracks([]byte(doc)); err == nil {
		t.Fatal("expected error for non-numeric SAMPLES")
	}
}
