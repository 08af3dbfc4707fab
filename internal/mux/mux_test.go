package mux

import (
	"context"
	"errors"
	"testing"

	"discmux/internal/logging"
	"discmux/internal/services"
)

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

func sampleJob() Job {
	return Job{
		AudioPath:      "/scratch/audio.flac",
		CoverPath:      "/covers/front.jpg",
		ChaptersPath:   "/scratch/chapters.txt",
		GlobalTagsPath: "/scratch/album-tags.xml",
		TrackTagsPath:  "/scratch/track-tags.xml",
		Title:          "Artist - Album",
		OutputPath:     "/music/out.mka",
	}
}

func TestArgsLayout(t *testing.T) {
	args := Args(sampleJob())
	want := []string{
		"--output", "/music/out.mka",
		"--title", "Artist - Album",
		"--chapters", "/scratch/chapters.txt",
		"--global-tags", "/scratch/album-tags.xml",
		"--tags", "0:/scratch/track-tags.xml",
		"--attachment-mime-type", "image/jpeg",
		"--attachment-name", "Cover",
		"--attach-file", "/covers/front.jpg",
		"/scratch/audio.flac",
	}
	if len(args) != len(want) {
		t.Fatalf("args %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d is %q, want %q", i, args[i], want[i])
		}
	}
}

func TestMuxInvokesConfiguredBinary(t *testing.T) {
	exec := &fakeExecutor{}
	muxer := NewMKVMergeWithExecutor("mkvmerge", logging.NewNop(), exec)

	if err := muxer.Mux(context.Background(), sampleJob()); err != nil {
		t.Fatalf("Mux: %v", err)
	}
	if exec.binary != "mkvmerge" {
		t.Fatalf("invoked %q, want mkvmerge", exec.binary)
	}
	if len(exec.args) == 0 || exec.args[len(exec.args)-1] != "/scratch/audio.flac" {
		t.Fatalf("audio path must be the final argument, got %v", exec.args)
	}
}

func TestMuxFailure(t *testing.T) {
	exec := &fakeExecutor{
		output: []byte("mkvmerge v80.0\nError: could not open chapters file\n"),
		err:    errors.New("exit status 2"),
	}
	muxer := NewMKVMergeWithExecutor("mkvmerge", logging.NewNop(), exec)

	err := muxer.Mux(context.Background(), sampleJob())
	if !errors.Is(err, services.ErrMux) {
		t.Fatalf("expected ErrMux, got %v", err)
	}
}

func TestMuxWithoutBinary(t *testing.T) {
	muxer := NewMKVMergeWithExecutor("", logging.NewNop(), &fakeExecutor{})

	err := muxer.Mux(context.Background(), sampleJob())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLastLine(t *testing.T) {
	cases := []struct {
		output string
		want   string
	}{
		{"", ""},
		{"single\n", "single"},
		{"first\nsecond\n\n  \n", "second"},
	}
	for _, tc := range cases {
		if got := lastLine([]byte(tc.output)); got != tc.want {
			t.Errorf("lastLine(%q) = %q, want %q", tc.output, got, tc.want)
		}
	}
}
