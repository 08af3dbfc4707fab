// Package services defines the shared error taxonomy consumed by the rip
// workflow and the external tool integrations.
//
// Every failure class has a sentinel marker; the Wrap helper tags errors with
// the stage and operation that produced them so callers classify failures
// with errors.Is instead of string matching. Use these helpers when wiring
// new stage logic so error handling stays uniform across the pipeline.
package services
