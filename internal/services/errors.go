package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDeviceQuery marks a failed disc geometry query.
	ErrDeviceQuery = errors.New("device query failed")
	// ErrExtractor marks a non-zero exit from the extraction subprocess.
	ErrExtractor = errors.New("extractor failed")
	// ErrEncoder marks a non-zero exit from the encoding subprocess.
	ErrEncoder = errors.New("encoder failed")
	// ErrPump marks an I/O failure while streaming bytes between stages.
	ErrPump = errors.New("stream pump failed")
	// ErrTrackCountMismatch marks a disagreement between the track-name and
	// track-length lists. This is a contract violation, never retried.
	ErrTrackCountMismatch = errors.New("track count mismatch")
	// ErrMux marks a non-zero exit from the muxing tool.
	ErrMux = errors.New("mux failed")
	// ErrConfiguration marks invalid or missing configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrPreflight marks a drive or device precondition failure.
	ErrPreflight = errors.New("preflight failed")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = errors.New("service failure")
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
