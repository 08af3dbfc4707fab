// Package deps reports the availability of the external tools discmux
// orchestrates.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"discmux/internal/config"
)

// Requirement defines an external dependency discmux relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list from the configured tool binaries.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "extractor", Command: cfg.Tools.Cdparanoia, Description: "bit-exact CDDA extraction and disc geometry query"},
		{Name: "encoder", Command: cfg.Tools.Flac, Description: "lossless encoding with verify-on-encode"},
		{Name: "muxer", Command: cfg.Tools.Mkvmerge, Description: "container muxing (chapters, tags, attachments)"},
		{Name: "ejector", Command: cfg.Tools.Eject, Description: "disc tray release after ripping", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
