package metadata

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCollectPromptsForAlbumAndTracks(t *testing.T) {
	input := strings.NewReader("Miles Davis\nKind of Blue\n1959\nJazz\nSo What\nFreddie Freeloader\n")
	var output bytes.Buffer
	prompter := NewConsolePrompter(input, &output)

	album, names, err := prompter.Collect(context.Background(), 2)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := Album{Artist: "Miles Davis", Title: "Kind of Blue", Year: "1959", Genre: "Jazz"}
	if album != want {
		t.Fatalf("album %+v, want %+v", album, want)
	}
	if len(names) != 2 || names[0] != "So What" || names[1] != "Freddie Freeloader" {
		t.Fatalf("unexpected track names: %v", names)
	}

	prompts := output.String()
	for _, label := range []string{"Artist: ", "Album: ", "Year: ", "Genre: ", "Track 01 title: ", "Track 02 title: "} {
		if !strings.Contains(prompts, label) {
			t.Errorf("prompt output missing %q:\n%s", label, prompts)
		}
	}
}

func TestCollectDefaultsEmptyTrackNames(t *testing.T) {
	input := strings.NewReader("Artist\nAlbum\n2001\nRock\n\n\n\n")
	prompter := NewConsolePrompter(input, &bytes.Buffer{})

	_, names, err := prompter.Collect(context.Background(), 3)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantNames := []string{"Track 01", "Track 02", "Track 03"}
	for i, want := range wantNames {
		if names[i] != want {
			t.Errorf("track %d named %q, want %q", i+1, names[i], want)
		}
	}
}

func TestCollectAcceptsFinalAnswerWithoutNewline(t *testing.T) {
	input := strings.NewReader("Artist\nAlbum\n2001\nRock\nLast Track")
	prompter := NewConsolePrompter(input, &bytes.Buffer{})

	_, names, err := prompter.Collect(context.Background(), 1)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if names[0] != "Last Track" {
		t.Fatalf("track named %q, want Last Track", names[0])
	}
}

func TestCollectFailsOnTruncatedInput(t *testing.T) {
	input := strings.NewReader("Artist\nAlbum\n")
	prompter := NewConsolePrompter(input, &bytes.Buffer{})

	_, _, err := prompter.Collect(context.Background(), 2)
	if err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestCollectHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	prompter := NewConsolePrompter(strings.NewReader("x\n"), &bytes.Buffer{})

	_, _, err := prompter.Collect(ctx, 1)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
