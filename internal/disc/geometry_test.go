package disc

import (
	"context"
	"errors"
	"testing"

	"discmux/internal/logging"
	"discmux/internal/services"
)

const sampleQueryOutput = `cdparanoia III release 10.2 (September 11, 2008)

Table of contents (audio tracks only):
track        length               begin        copy pre ch
===========================================================
  1.    16122 [03:34.72]        0 [00:00.00]    no   no  2
  2.    19623 [04:21.48]    16122 [03:34.72]    no   no  2
  3.      150 [00:02.00]    35745 [07:56.45]   yes   no  2
TOTAL   35895 [07:58.45]    (audio only)
`

type fakeExecutor struct {
	output []byte
	err    error

	binary string
	args   []string
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	f.binary = binary
	f.args = args
	return f.output, f.err
}

func TestReadParsesTrackGeometry(t *testing.T) {
	exec := &fakeExecutor{output: []byte(sampleQueryOutput)}
	reader := NewGeometryReaderWithExecutor("cdparanoia", logging.NewNop(), exec)

	disc, err := reader.Read(context.Background(), "/dev/sr0")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if exec.binary != "cdparanoia" {
		t.Fatalf("queried binary %q, want cdparanoia", exec.binary)
	}
	wantArgs := []string{"-Q", "-d", "/dev/sr0"}
	if len(exec.args) != len(wantArgs) {
		t.Fatalf("query args %v, want %v", exec.args, wantArgs)
	}
	for i := range wantArgs {
		if exec.args[i] != wantArgs[i] {
			t.Fatalf("query args %v, want %v", exec.args, wantArgs)
		}
	}

	if disc.Device != "/dev/sr0" {
		t.Fatalf("device %q, want /dev/sr0", disc.Device)
	}
	wantLengths := []int64{16122 * SamplesPerFrame, 19623 * SamplesPerFrame, 150 * SamplesPerFrame}
	lengths := disc.TrackLengths()
	if len(lengths) != len(wantLengths) {
		t.Fatalf("parsed %d tracks, want %d", len(lengths), len(wantLengths))
	}
	for i, want := range wantLengths {
		if lengths[i] != want {
			t.Errorf("track %d length %d samples, want %d", i+1, lengths[i], want)
		}
		if disc.Tracks[i].Index != i+1 {
			t.Errorf("track %d has index %d", i+1, disc.Tracks[i].Index)
		}
	}
	if got, want := disc.TotalSamples(), int64(35895*SamplesPerFrame); got != want {
		t.Fatalf("total samples %d, want %d", got, want)
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	output := `track        length               begin        copy pre ch
  1.    16122 [03:34.72]        0 [00:00.00]    no   no  2
  2.    garbage row that should not parse
  3.      150 [00:02.00]    35745 [07:56.45]   yes   no  2
`
	exec := &fakeExecutor{output: []byte(output)}
	reader := NewGeometryReaderWithExecutor("cdparanoia", logging.NewNop(), exec)

	disc, err := reader.Read(context.Background(), "/dev/sr0")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(disc.Tracks) != 2 {
		t.Fatalf("parsed %d tracks, want 2", len(disc.Tracks))
	}
	// The malformed row leaves no gap in the renumbered indices.
	if disc.Tracks[0].Index != 1 || disc.Tracks[1].Index != 2 {
		t.Fatalf("indices %d, %d, want 1, 2", disc.Tracks[0].Index, disc.Tracks[1].Index)
	}
	if disc.Tracks[1].SampleLength != 150*SamplesPerFrame {
		t.Fatalf("second track length %d, want %d", disc.Tracks[1].SampleLength, 150*SamplesPerFrame)
	}
}

func TestReadFailsOnNonZeroExitEvenWithParseableOutput(t *testing.T) {
	exec := &fakeExecutor{
		output: []byte(sampleQueryOutput),
		err:    errors.New("exit status 1"),
	}
	reader := NewGeometryReaderWithExecutor("cdparanoia", logging.NewNop(), exec)

	_, err := reader.Read(context.Background(), "/dev/sr0")
	if !errors.Is(err, services.ErrDeviceQuery) {
		t.Fatalf("expected ErrDeviceQuery, got %v", err)
	}
}

func TestReadFailsWhenNoTracksParse(t *testing.T) {
	exec := &fakeExecutor{output: []byte("no table of contents here\n")}
	reader := NewGeometryReaderWithExecutor("cdparanoia", logging.NewNop(), exec)

	_, err := reader.Read(context.Background(), "/dev/sr0")
	if !errors.Is(err, services.ErrDeviceQuery) {
		t.Fatalf("expected ErrDeviceQuery, got %v", err)
	}
}

func TestReadFailsWithoutBinary(t *testing.T) {
	reader := NewGeometryReaderWithExecutor("  ", logging.NewNop(), &fakeExecutor{})

	_, err := reader.Read(context.Background(), "/dev/sr0")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
