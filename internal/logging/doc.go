// Package logging configures the process-wide slog logger.
//
// It offers a human-oriented console handler for interactive use and a JSON
// handler for machine consumption, attribute helpers that keep call sites
// terse, and component-scoped loggers so every subsystem stamps its records
// consistently.
package logging
