package chapters

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"discmux/internal/services"
)

func TestTimelineStartsAtZero(t *testing.T) {
	entries, err := Timeline([]int64{132300, 176400}, []string{"Intro", "Outro"})
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].StartSamples != 0 {
		t.Fatalf("first chapter starts at %d samples, want 0", entries[0].StartSamples)
	}
	if got := entries[0].StartTimestamp(); got != "00:00:00.000000" {
		t.Fatalf("first chapter timestamp %q, want 00:00:00.000000", got)
	}
	if got := entries[1].StartTimestamp(); got != "00:00:03.000000" {
		t.Fatalf("second chapter timestamp %q, want 00:00:03.000000", got)
	}
}

func TestTimelineOffsetsAreCumulative(t *testing.T) {
	lengths := []int64{588, 44100, 7, 99999}
	names := []string{"a", "b", "c", "d"}
	entries, err := Timeline(lengths, names)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	var running int64
	for i, entry := range entries {
		if entry.StartSamples != running {
			t.Fatalf("chapter %d starts at %d, want %d", i+1, entry.StartSamples, running)
		}
		if entry.Name != names[i] {
			t.Fatalf("chapter %d named %q, want %q", i+1, entry.Name, names[i])
		}
		running += lengths[i]
	}
}

func TestTimelineCountMismatch(t *testing.T) {
	_, err := Timeline([]int64{588, 588}, []string{"only one"})
	if !errors.Is(err, services.ErrTrackCountMismatch) {
		t.Fatalf("expected ErrTrackCountMismatch, got %v", err)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		samples int64
		want    string
	}{
		{0, "00:00:00.000000"},
		{1, "00:00:00.000022"},
		{44099, "00:00:00.999977"},
		{44100, "00:00:01.000000"},
		{44100 * 61, "00:01:01.000000"},
		{44100 * 3600, "01:00:00.000000"},
		{44100*3661 + 22050, "01:01:01.500000"},
	}
	for _, tc := range cases {
		if got := formatTimestamp(tc.samples); got != tc.want {
			t.Errorf("formatTimestamp(%d) = %q, want %q", tc.samples, got, tc.want)
		}
	}
}

func TestRenderFormat(t *testing.T) {
	entries := []Entry{
		{StartSamples: 0, Name: "First"},
		{StartSamples: 132300, Name: "Second"},
	}
	var buf bytes.Buffer
	if err := Render(&buf, entries); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "CHAPTER01=00:00:00.000000\n" +
		"CHAPTER01NAME=First\n" +
		"CHAPTER02=00:00:03.000000\n" +
		"CHAPTER02NAME=Second\n"
	if buf.String() != want {
		t.Fatalf("rendered chapters:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	entries := []Entry{
		{StartSamples: 0, Name: "Plain"},
		{StartSamples: 13, Name: "Name = with separator"},
		{StartSamples: 44100*90 + 1, Name: ""},
		{StartSamples: 44100*7200 + 44099, Name: "  leading and trailing  "},
	}
	var buf bytes.Buffer
	if err := Render(&buf, entries); err != nil {
		t.Fatalf("Render: %v", err)
	}
	parsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed) != len(entries) {
		t.Fatalf("parsed %d entries, want %d", len(parsed), len(entries))
	}
	for i := range entries {
		if parsed[i].StartSamples != entries[i].StartSamples {
			t.Errorf("entry %d: %d samples after round trip, want %d",
				i+1, parsed[i].StartSamples, entries[i].StartSamples)
		}
		if parsed[i].Name != entries[i].Name {
			t.Errorf("entry %d: name %q after round trip, want %q",
				i+1, parsed[i].Name, entries[i].Name)
		}
	}
}

func TestParseTimestampRecoversEverySubSecondOffset(t *testing.T) {
	// The six fractional digits truncate on write, so the parser must land
	// back on the exact sample for every offset within one second.
	for samples := int64(0); samples < 44100; samples++ {
		var buf bytes.Buffer
		if err := Render(&buf, []Entry{{StartSamples: samples, Name: "x"}}); err != nil {
			t.Fatalf("Render(%d): %v", samples, err)
		}
		parsed, err := Parse(&buf)
		if err != nil {
			t.Fatalf("Parse(%d): %v", samples, err)
		}
		if parsed[0].StartSamples != samples {
			t.Fatalf("round trip of %d samples produced %d", samples, parsed[0].StartSamples)
		}
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"out of order index", "CHAPTER02=00:00:00.000000\nCHAPTER02NAME=x\n"},
		{"name before timestamp", "CHAPTER01NAME=x\n"},
		{"garbage line", "CHAPTER01=00:00:00.000000\nnot a chapter line\n"},
		{"minutes overflow", "CHAPTER01=00:61:00.000000\nCHAPTER01NAME=x\n"},
		{"short fraction", "CHAPTER01=00:00:00.000\nCHAPTER01NAME=x\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.input)); err == nil {
				t.Fatalf("expected parse error for %q", tc.input)
			}
		})
	}
}

func TestParseSkipsBlankLinesAndCarriageReturns(t *testing.T) {
	input := "CHAPTER01=00:00:00.000000\r\n\r\nCHAPTER01NAME=First\r\n"
	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "First" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
