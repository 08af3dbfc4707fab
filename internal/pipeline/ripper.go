package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"discmux/internal/config"
	"discmux/internal/logging"
	"discmux/internal/services"
)

// FailureStage identifies which pipeline subprocess caused a failed run.
type FailureStage int

const (
	FailureNone FailureStage = iota
	FailureExtractor
	FailureEncoder
)

// String returns a human-readable label for the failure stage.
func (s FailureStage) String() string {
	switch s {
	case FailureExtractor:
		return "extractor"
	case FailureEncoder:
		return "encoder"
	default:
		return "none"
	}
}

// Result reports the outcome of a single pipeline run. The pipeline is never
// retried internally; one run produces exactly one Result.
type Result struct {
	Success      bool
	FailureStage FailureStage
	BytesWritten int64
}

// CommandSpec names an external binary and its arguments.
type CommandSpec struct {
	Binary string
	Args   []string
}

// Ripper chains the extractor and encoder subprocesses into a destination
// file.
type Ripper struct {
	extractorFor func(device string) CommandSpec
	encoder      CommandSpec
	logger       *slog.Logger
}

// NewRipper constructs a ripper using the configured extractor and encoder
// binaries. The extractor reads raw CDDA audio from track 1 through the end
// of disc as WAV on stdout; the encoder runs in maximal-compression,
// verify-on-encode mode from stdin to stdout.
func NewRipper(cfg *config.Config, logger *slog.Logger) *Ripper {
	extractor := func(device string) CommandSpec {
		return CommandSpec{
			Binary: cfg.Tools.Cdparanoia,
			Args:   []string{"-q", "-d", device, "1-", "-"},
		}
	}
	encoder := CommandSpec{
		Binary: cfg.Tools.Flac,
		Args:   []string{"--silent", "--best", "--verify", "--stdout", "-"},
	}
	return NewRipperWithCommands(extractor, encoder, logger)
}

// NewRipperWithCommands allows injecting the subprocess commands (used in
// tests).
func NewRipperWithCommands(extractorFor func(device string) CommandSpec, encoder CommandSpec, logger *slog.Logger) *Ripper {
	return &Ripper{
		extractorFor: extractorFor,
		encoder:      encoder,
		logger:       logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Rip extracts and encodes the whole disc into destPath. Both pumps run on
// independent goroutines; their completion is joined before either process's
// exit status is checked, because pump completion does not imply process
// completion. On any failure the destination file is removed.
func (r *Ripper) Rip(ctx context.Context, device, destPath string) (*Result, error) {
	extSpec := r.extractorFor(device)
	extractor := exec.CommandContext(ctx, extSpec.Binary, extSpec.Args...) //nolint:gosec
	encoder := exec.CommandContext(ctx, r.encoder.Binary, r.encoder.Args...) //nolint:gosec

	var extractorDiag, encoderDiag bytes.Buffer
	extractor.Stderr = &extractorDiag
	encoder.Stderr = &encoderDiag

	extractorOut, err := extractor.StdoutPipe()
	if err != nil {
		return failed(FailureNone), services.Wrap(services.ErrExtractor, "pipeline", "extractor stdout pipe", "", err)
	}
	encoderIn, err := encoder.StdinPipe()
	if err != nil {
		return failed(FailureNone), services.Wrap(services.ErrEncoder, "pipeline", "encoder stdin pipe", "", err)
	}
	encoderOut, err := encoder.StdoutPipe()
	if err != nil {
		return failed(FailureNone), services.Wrap(services.ErrEncoder, "pipeline", "encoder stdout pipe", "", err)
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return failed(FailureNone), services.Wrap(services.ErrConfiguration, "pipeline", "create destination", destPath, err)
	}

	if err := extractor.Start(); err != nil {
		_ = dest.Close()
		_ = os.Remove(destPath)
		return failed(FailureExtractor), services.Wrap(services.ErrExtractor, "pipeline", "start extractor", extSpec.Binary, err)
	}
	if err := encoder.Start(); err != nil {
		_ = extractor.Process.Kill()
		_ = extractor.Wait()
		_ = dest.Close()
		_ = os.Remove(destPath)
		return failed(FailureEncoder), services.Wrap(services.ErrEncoder, "pipeline", "start encoder", r.encoder.Binary, err)
	}

	r.logger.Info("pipeline started",
		logging.String("device", device),
		logging.String("extractor", extSpec.Binary),
		logging.String("encoder", r.encoder.Binary),
		logging.String("destination", destPath),
	)

	// Two pumps on independent goroutines: a full pipe buffer on one leg
	// must never stall the other leg of the three-stage chain.
	feed := make(chan error, 1)
	drain := make(chan error, 1)
	var encodedBytes int64
	go func() {
		_, pumpErr := Pump(encoderIn, extractorOut)
		if closeErr := encoderIn.Close(); pumpErr == nil && closeErr != nil {
			pumpErr = services.Wrap(services.ErrPump, "pipeline", "close encoder stdin", "", closeErr)
		}
		feed <- pumpErr
	}()
	go func() {
		n, pumpErr := Pump(dest, encoderOut)
		encodedBytes = n
		drain <- pumpErr
	}()

	feedErr := <-feed
	drainErr := <-drain

	// The destination handle is owned by the drain pump; close it only after
	// that pump completes.
	closeErr := dest.Close()

	extractorErr := extractor.Wait()
	encoderErr := encoder.Wait()

	// Exit status is checked after pump join, never inferred from stream
	// closure: a verify failure is signalled only at process exit.
	switch {
	case extractorErr != nil:
		_ = os.Remove(destPath)
		return failed(FailureExtractor), services.Wrap(services.ErrExtractor, "pipeline", "extractor",
			diagTail(&extractorDiag), extractorErr)
	case encoderErr != nil:
		_ = os.Remove(destPath)
		return failed(FailureEncoder), services.Wrap(services.ErrEncoder, "pipeline", "encoder",
			diagTail(&encoderDiag), encoderErr)
	case feedErr != nil:
		_ = os.Remove(destPath)
		return failed(FailureNone), feedErr
	case drainErr != nil:
		_ = os.Remove(destPath)
		return failed(FailureNone), drainErr
	case closeErr != nil:
		_ = os.Remove(destPath)
		return failed(FailureNone), services.Wrap(services.ErrPump, "pipeline", "close destination", destPath, closeErr)
	}

	r.logger.Info("pipeline finished",
		logging.String("destination", destPath),
		logging.Int64("encoded_bytes", encodedBytes),
	)
	return &Result{Success: true, BytesWritten: encodedBytes}, nil
}

func failed(stage FailureStage) *Result {
	return &Result{Success: false, FailureStage: stage}
}

// diagTail returns the last non-empty diagnostic line a subprocess wrote,
// for inclusion in the failure message.
func diagTail(buf *bytes.Buffer) string {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
