package metadata

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsolePrompter collects metadata interactively from a terminal, asking for
// the album fields and then one title per track. Answers are read line by
// line; blocking on input is the caller's concern.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter constructs a prompter reading answers from in and
// writing prompts to out.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

// Collect prompts for the four album fields and one name per track.
func (p *ConsolePrompter) Collect(ctx context.Context, trackCount int) (Album, []string, error) {
	var album Album
	var err error

	if album.Artist, err = p.ask(ctx, "Artist"); err != nil {
		return Album{}, nil, err
	}
	if album.Title, err = p.ask(ctx, "Album"); err != nil {
		return Album{}, nil, err
	}
	if album.Year, err = p.ask(ctx, "Year"); err != nil {
		return Album{}, nil, err
	}
	if album.Genre, err = p.ask(ctx, "Genre"); err != nil {
		return Album{}, nil, err
	}

	names := make([]string, 0, trackCount)
	for i := 1; i <= trackCount; i++ {
		name, err := p.ask(ctx, fmt.Sprintf("Track %02d title", i))
		if err != nil {
			return Album{}, nil, err
		}
		if name == "" {
			name = fmt.Sprintf("Track %02d", i)
		}
		names = append(names, name)
	}
	return album, names, nil
}

func (p *ConsolePrompter) ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	answer, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || answer == "") {
		return "", fmt.Errorf("read answer for %s: %w", label, err)
	}
	return strings.TrimSpace(answer), nil
}
