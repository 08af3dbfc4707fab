// Package disc interfaces with physical CD drives and the cdparanoia query
// tool.
//
// It provides the geometry reader that translates the disc table of contents
// into per-track sample lengths, drive preflight checks, a udev monitor that
// waits for media insertion, and an ejector so the workflow can release discs.
// Parsers live here to keep low-level device quirks isolated from higher-level
// workflow code.
package disc
