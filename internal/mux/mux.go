// Package mux invokes the external container muxing tool that combines the
// encoded audio, chapter markers, tag documents, and cover attachment into
// one output file.
package mux

import (
	"context"
)

// Job names every artifact handed to the muxing tool.
type Job struct {
	AudioPath      string
	CoverPath      string
	ChaptersPath   string
	GlobalTagsPath string
	TrackTagsPath  string
	Title          string
	OutputPath     string
}

// Muxer produces the final container from a prepared job.
type Muxer interface {
	Mux(ctx context.Context, job Job) error
}
