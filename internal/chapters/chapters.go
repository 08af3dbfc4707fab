// Package chapters derives sample-accurate chapter timelines from disc track
// geometry and reads/writes the plain-text chapter file format consumed by
// the muxing tool.
package chapters

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"discmux/internal/disc"
	"discmux/internal/services"
)

// Entry is one chapter marker. StartSamples is the cumulative sample offset
// of the chapter start; the timestamp representation is derived from it on
// write so the timeline and the tag documents can never drift apart.
type Entry struct {
	StartSamples int64
	Name         string
}

// StartTimestamp formats the chapter start as HH:MM:SS.ffffff. The
// fractional part truncates: direct division by the fixed 44.1 kHz rate.
func (e Entry) StartTimestamp() string {
	return formatTimestamp(e.StartSamples)
}

// Timeline converts ordered track lengths and names into chapter entries.
// Chapter i starts at the sum of all sample lengths before track i; the
// first chapter always starts at zero. The two lists must agree in length.
func Timeline(trackLengths []int64, trackNames []string) ([]Entry, error) {
	if len(trackLengths) != len(trackNames) {
		return nil, services.Wrap(services.ErrTrackCountMismatch, "chapters", "timeline",
			fmt.Sprintf("%d track lengths but %d names", len(trackLengths), len(trackNames)), nil)
	}
	entries := make([]Entry, 0, len(trackLengths))
	var running int64
	for i, length := range trackLengths {
		entries = append(entries, Entry{StartSamples: running, Name: trackNames[i]})
		running += length
	}
	return entries, nil
}

// Render writes entries in the CHAPTERxx=/CHAPTERxxNAME= format, 2-digit
// zero-padded index starting at 01.
func Render(w io.Writer, entries []Entry) error {
	for i, entry := range entries {
		if _, err := fmt.Fprintf(w, "CHAPTER%02d=%s\nCHAPTER%02dNAME=%s\n",
			i+1, entry.StartTimestamp(), i+1, entry.Name); err != nil {
			return fmt.Errorf("write chapter %d: %w", i+1, err)
		}
	}
	return nil
}

var (
	timePattern = regexp.MustCompile(`^CHAPTER(\d{2})=(\d{2,}):(\d{2}):(\d{2})\.(\d{6})$`)
	namePattern = regexp.MustCompile(`^CHAPTER(\d{2})NAME=(.*)$`)
)

// Parse reads a chapter file back into entries, recovering the exact sample
// offsets the timestamps were derived from.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if match := timePattern.FindStringSubmatch(text); match != nil {
			index, _ := strconv.Atoi(match[1])
			if index != len(entries)+1 {
				return nil, fmt.Errorf("line %d: chapter index %02d out of order", line, index)
			}
			samples, err := parseTimestamp(match[2], match[3], match[4], match[5])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			entries = append(entries, Entry{StartSamples: samples})
			continue
		}
		if match := namePattern.FindStringSubmatch(text); match != nil {
			index, _ := strconv.Atoi(match[1])
			if index != len(entries) {
				return nil, fmt.Errorf("line %d: name for chapter %02d before its timestamp", line, index)
			}
			entries[index-1].Name = match[2]
			continue
		}
		return nil, fmt.Errorf("line %d: unrecognized chapter line %q", line, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chapters: %w", err)
	}
	return entries, nil
}

// formatTimestamp renders a sample offset as HH:MM:SS.ffffff. Integer
// arithmetic keeps successive chapter starts exactly L[i]/44100 apart.
func formatTimestamp(samples int64) string {
	seconds := samples / disc.SampleRate
	frac := samples % disc.SampleRate * 1_000_000 / disc.SampleRate
	return fmt.Sprintf("%02d:%02d:%02d.%06d", seconds/3600, seconds/60%60, seconds%60, frac)
}

// parseTimestamp inverts formatTimestamp. The fractional digits truncate on
// write, so the sub-second sample count is recovered with a ceiling division;
// the mapping is injective because one sample spans more than 22 microseconds.
func parseTimestamp(hh, mm, ss, frac string) (int64, error) {
	hours, _ := strconv.ParseInt(hh, 10, 64)
	minutes, _ := strconv.ParseInt(mm, 10, 64)
	seconds, _ := strconv.ParseInt(ss, 10, 64)
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("invalid timecode %s:%s:%s.%s", hh, mm, ss, frac)
	}
	micros, _ := strconv.ParseInt(frac, 10, 64)
	subsecond := (micros*disc.SampleRate + 999_999) / 1_000_000
	return (hours*3600+minutes*60+seconds)*disc.SampleRate + subsecond, nil
}
