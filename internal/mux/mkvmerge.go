package mux

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"discmux/internal/logging"
	"discmux/internal/services"
)

// Executor abstracts command execution for the muxer.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// MKVMerge muxes with the mkvmerge CLI.
type MKVMerge struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// NewMKVMerge constructs a muxer for the provided mkvmerge binary.
func NewMKVMerge(binary string, logger *slog.Logger) *MKVMerge {
	return NewMKVMergeWithExecutor(binary, logger, nil)
}

// NewMKVMergeWithExecutor allows injecting a custom executor for testing.
func NewMKVMergeWithExecutor(binary string, logger *slog.Logger, exec Executor) *MKVMerge {
	if exec == nil {
		exec = commandExecutor{}
	}
	return &MKVMerge{
		binary: strings.TrimSpace(binary),
		exec:   exec,
		logger: logging.NewComponentLogger(logger, "mux"),
	}
}

// Mux invokes mkvmerge once with all artifacts. The per-track tag document is
// applied to output track 0; the cover is attached as image/jpeg named
// "Cover". A non-zero exit is fatal.
func (m *MKVMerge) Mux(ctx context.Context, job Job) error {
	if m.binary == "" {
		return services.Wrap(services.ErrConfiguration, "mux", "binary", "mkvmerge binary not configured", nil)
	}

	args := Args(job)
	m.logger.Info("muxing container",
		logging.String("output", job.OutputPath),
		logging.String("title", job.Title),
	)

	output, err := m.exec.Run(ctx, m.binary, args)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return services.Wrap(services.ErrMux, "mux", "mkvmerge",
				"exit status "+strconv.Itoa(exitErr.ExitCode())+": "+lastLine(output), err)
		}
		return services.Wrap(services.ErrMux, "mux", "mkvmerge", "run muxing tool", err)
	}
	return nil
}

// Args builds the mkvmerge invocation for a job.
func Args(job Job) []string {
	return []string{
		"--output", job.OutputPath,
		"--title", job.Title,
		"--chapters", job.ChaptersPath,
		"--global-tags", job.GlobalTagsPath,
		"--tags", "0:" + job.TrackTagsPath,
		"--attachment-mime-type", "image/jpeg",
		"--attachment-name", "Cover",
		"--attach-file", job.CoverPath,
		job.AudioPath,
	}
}

func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
