package disc

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"discmux/internal/logging"
	"discmux/internal/services"
)

// SamplesPerFrame is the CDDA sector size: 588 stereo samples per frame at
// 44.1 kHz.
const SamplesPerFrame = 588

// SampleRate is the fixed CDDA sample rate in Hz.
const SampleRate = 44100

// Track is one audio track on the disc. Index is 1-based and follows disc
// order; SampleLength counts PCM samples at 44.1 kHz.
type Track struct {
	Index        int
	SampleLength int64
	Name         string
}

// Disc captures the geometry of an inserted audio disc. Tracks are populated
// once from the query output and must never be reordered or resized; names
// are filled in later by the metadata provider.
type Disc struct {
	Device string
	Tracks []Track
}

// TrackLengths returns the ordered per-track sample lengths.
func (d *Disc) TrackLengths() []int64 {
	lengths := make([]int64, len(d.Tracks))
	for i, t := range d.Tracks {
		lengths[i] = t.SampleLength
	}
	return lengths
}

// TotalSamples returns the sample count of the whole disc.
func (d *Disc) TotalSamples() int64 {
	var total int64
	for _, t := range d.Tracks {
		total += t.SampleLength
	}
	return total
}

// Executor abstracts command execution for the geometry reader.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// commandExecutor executes commands using os/exec. Combined output is
// returned because cdparanoia prints its table of contents on stderr.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// trackLinePattern matches one table-of-contents row: ordinal, frame count,
// begin offset with timecodes, copy and pre-emphasis flags, channel count.
// Header, separator, and TOTAL lines do not match and are skipped.
var trackLinePattern = regexp.MustCompile(`^\s*(\d+)\.\s+(\d+)\s+\[\d+:\d{2}[.:]\d{2}\]\s+\d+\s+\[\d+:\d{2}[.:]\d{2}\]\s+(?:no|yes)\s+(?:no|yes)\s+\d+\s*$`)

// GeometryReader queries disc track geometry through the cdparanoia binary.
type GeometryReader struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// NewGeometryReader constructs a reader for the provided query binary.
func NewGeometryReader(binary string, logger *slog.Logger) *GeometryReader {
	return NewGeometryReaderWithExecutor(binary, logger, nil)
}

// NewGeometryReaderWithExecutor allows injecting a custom executor for testing.
func NewGeometryReaderWithExecutor(binary string, logger *slog.Logger, exec Executor) *GeometryReader {
	if exec == nil {
		exec = commandExecutor{}
	}
	return &GeometryReader{
		binary: strings.TrimSpace(binary),
		exec:   exec,
		logger: logging.NewComponentLogger(logger, "geometry"),
	}
}

// Read queries the device and returns its track geometry in disc order.
// A non-zero query exit is fatal regardless of how many track lines parsed:
// exit status is authoritative over partial output.
func (r *GeometryReader) Read(ctx context.Context, device string) (*Disc, error) {
	if r.binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "geometry", "query", "query binary not configured", nil)
	}

	args := []string{"-Q", "-d", device}
	output, err := r.exec.Run(ctx, r.binary, args)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, services.Wrap(services.ErrDeviceQuery, "geometry", "query",
				"query process exited with status "+strconv.Itoa(exitErr.ExitCode()), err)
		}
		return nil, services.Wrap(services.ErrDeviceQuery, "geometry", "query", "run query process", err)
	}

	tracks := parseTrackRecords(output)
	if len(tracks) == 0 {
		return nil, services.Wrap(services.ErrDeviceQuery, "geometry", "parse",
			"no track records in query output", nil)
	}

	r.logger.Info("disc geometry read",
		logging.String("device", device),
		logging.Int("tracks", len(tracks)),
	)
	return &Disc{Device: device, Tracks: tracks}, nil
}

// parseTrackRecords extracts per-track sample lengths from query output.
// Lines that do not match the record layout are ignored; output order is
// disc track order. Track indices are renumbered sequentially so a skipped
// malformed line cannot leave a gap.
func parseTrackRecords(output []byte) []Track {
	var tracks []Track
	for _, line := range strings.Split(string(output), "\n") {
		match := trackLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		frames, err := strconv.ParseInt(match[2], 10, 64)
		if err != nil || frames < 0 {
			continue
		}
		tracks = append(tracks, Track{
			Index:        len(tracks) + 1,
			SampleLength: frames * SamplesPerFrame,
		})
	}
	return tracks
}
